package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/query"
)

func TestAddAlertRejectsDuplicateURL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a := models.Alert{Title: "first", Content: "x", URL: "https://example.com/a", Severity: models.SeverityLow, Category: models.CategoryOther}
	if _, err := s.AddAlert(ctx, a); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	dup := models.Alert{Title: "second", Content: "y", URL: "https://example.com/a", Severity: models.SeverityHigh, Category: models.CategoryOther}
	if _, err := s.AddAlert(ctx, dup); !errors.Is(err, ErrDuplicateURL) {
		t.Fatalf("duplicate insert error = %v, want ErrDuplicateURL", err)
	}

	count, err := s.CountAlerts(ctx, query.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("store count after rejected duplicate = %d, want 1", count)
	}
}

func TestQueryAndCountAgree(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	seed := []models.Alert{
		{Title: "APF watch", Content: "a", URL: "u1", Source: "APF", Severity: models.SeverityHigh, Category: models.CategoryProtest},
		{Title: "quiet", Content: "b", URL: "u2", Source: "wire", Severity: models.SeverityLow, Category: models.CategoryOther},
		{Title: "x", Content: "seen by apf unit", URL: "u3", Source: "osint", Severity: models.SeverityMedium, Category: models.CategoryRiot},
	}
	for _, a := range seed {
		if _, err := s.AddAlert(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	filters := []query.Filter{
		{},
		{Term: "apf"},
		{Categories: []models.Category{models.CategoryProtest}},
		{Severity: models.SeverityHigh},
		{Categories: []models.Category{"no-such"}},
	}
	for _, f := range filters {
		view, err := s.QueryAlerts(ctx, f)
		if err != nil {
			t.Fatal(err)
		}
		count, err := s.CountAlerts(ctx, f)
		if err != nil {
			t.Fatal(err)
		}
		if count != len(view) {
			t.Errorf("filter %+v: count %d != view length %d", f, count, len(view))
		}
	}
}

func TestFieldReportsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(2 * time.Hour), base.Add(time.Hour)}
	for i, ts := range times {
		s.Now = func() time.Time { return ts }
		if _, err := s.AddFieldReport(ctx, models.FieldReport{
			Timing: "t", Location: "l", Leader: "leader", Status: models.StatusPending, CreatedAt: ts,
		}); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}

	reports, err := s.GetFieldReports(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(reports))
	}
	if reports[0].ID != 2 || reports[1].ID != 3 || reports[2].ID != 1 {
		t.Errorf("order = [%d %d %d], want newest first [2 3 1]", reports[0].ID, reports[1].ID, reports[2].ID)
	}
}

func TestSearchSourcesAlphabetical(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, src := range []models.Source{
		{Name: "Zeta Wire", URL: "https://zeta.example"},
		{Name: "Alpha Feed", URL: "https://alpha.example"},
		{Name: "Midline News", URL: "https://mid.example/alpha"},
	} {
		if _, err := s.AddSource(ctx, src); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.SearchSources(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if all[0].Name != "Alpha Feed" || all[1].Name != "Midline News" || all[2].Name != "Zeta Wire" {
		t.Errorf("order = %v", []string{all[0].Name, all[1].Name, all[2].Name})
	}

	// Substring matches name or url, case-insensitive.
	hits, err := s.SearchSources(ctx, "ALPHA")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Errorf("got %d hits for 'ALPHA', want 2 (name and url match)", len(hits))
	}
}

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, err := s.CreateUser(ctx, "analyst1", "pass", models.RoleAnalyst)
	if err != nil {
		t.Fatal(err)
	}

	user, err := s.GetUserByUsername(ctx, "analyst1")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != created.ID || user.Role != models.RoleAnalyst {
		t.Errorf("round trip mismatch: %+v", user)
	}
	if !user.CheckPassword("pass") {
		t.Error("password did not verify")
	}
	if user.CheckPassword("wrong") {
		t.Error("wrong password verified")
	}

	if _, err := s.GetUserByUsername(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user error = %v, want ErrNotFound", err)
	}
}
