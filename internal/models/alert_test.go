package models

import "testing"

func TestNormalizeSeverity(t *testing.T) {
	cases := map[string]Severity{
		"low":      SeverityLow,
		"medium":   SeverityMedium,
		"high":     SeverityHigh,
		"critical": SeverityCritical,
		"urgent":   SeverityMedium,
		"":         SeverityMedium,
	}
	for raw, want := range cases {
		if got := NormalizeSeverity(raw); got != want {
			t.Errorf("NormalizeSeverity(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestCanonicalSetsClosed(t *testing.T) {
	if Category("protests").Valid() {
		t.Error("near-miss category validated")
	}
	if Severity("severe").Valid() {
		t.Error("unknown severity validated")
	}
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("canonical category %s fails Valid", c)
		}
	}
	for _, s := range Severities {
		if !s.Valid() {
			t.Errorf("canonical severity %s fails Valid", s)
		}
	}
}

func TestMediaKind(t *testing.T) {
	cases := []struct {
		image, video string
		want         MediaKind
		hasMedia     bool
	}{
		{"", "", MediaNone, false},
		{"a.png", "", MediaImage, true},
		{"", "b.mp4", MediaVideo, true},
		{"a.png", "b.mp4", MediaVideo, true}, // video takes precedence
	}
	for _, c := range cases {
		a := Alert{Image: c.image, Video: c.video}
		if got := a.Media(); got != c.want {
			t.Errorf("Media(%q, %q) = %s, want %s", c.image, c.video, got, c.want)
		}
		if a.HasMedia() != c.hasMedia {
			t.Errorf("HasMedia(%q, %q) = %v, want %v", c.image, c.video, a.HasMedia(), c.hasMedia)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	if got := NormalizeStatus("completed"); got != StatusCompleted {
		t.Errorf("got %s", got)
	}
	if got := NormalizeStatus("resolved"); got != StatusPending {
		t.Errorf("unknown status normalized to %s, want pending", got)
	}
}
