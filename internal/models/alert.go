package models

import "time"

// Severity is the closed severity scale for threat alerts.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities is the canonical severity order used by every chart and
// breakdown. Aggregation output always covers the full set, zero counts
// included.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s Severity) Valid() bool {
	for _, v := range Severities {
		if s == v {
			return true
		}
	}
	return false
}

// NormalizeSeverity maps arbitrary submitted input to a valid severity,
// falling back to medium.
func NormalizeSeverity(raw string) Severity {
	s := Severity(raw)
	if s.Valid() {
		return s
	}
	return SeverityMedium
}

// Category is the closed category label set for threat alerts.
type Category string

const (
	CategoryProtest        Category = "protest"
	CategoryRiot           Category = "riot"
	CategoryStrike         Category = "strike"
	CategoryRoadblock      Category = "roadblock"
	CategoryVandalism      Category = "vandalism"
	CategoryArson          Category = "arson"
	CategoryPhishing       Category = "phishing"
	CategoryMalware        Category = "malware"
	CategoryRansomware     Category = "ransomware"
	CategoryDataBreach     Category = "data_breach"
	CategoryFraud          Category = "fraud"
	CategoryDisinformation Category = "disinformation"
	CategoryExtremism      Category = "extremism"
	CategoryTerrorism      Category = "terrorism"
	CategoryEspionage      Category = "espionage"
	CategoryOther          Category = "other"
)

// Categories is the canonical category order. Chart output always covers
// the full set in this order.
var Categories = []Category{
	CategoryProtest,
	CategoryRiot,
	CategoryStrike,
	CategoryRoadblock,
	CategoryVandalism,
	CategoryArson,
	CategoryPhishing,
	CategoryMalware,
	CategoryRansomware,
	CategoryDataBreach,
	CategoryFraud,
	CategoryDisinformation,
	CategoryExtremism,
	CategoryTerrorism,
	CategoryEspionage,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// MediaKind classifies an alert's attachment.
type MediaKind string

const (
	MediaNone  MediaKind = "none"
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Alert is a reported threat/incident. CreatedAt is assigned at insert
// time and never changes; URL is unique across all alerts.
type Alert struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	Source    string    `json:"source"`
	Severity  Severity  `json:"severity"`
	URL       string    `json:"url"`
	Image     string    `json:"image,omitempty"`
	Video     string    `json:"video,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (a Alert) HasMedia() bool {
	return a.Image != "" || a.Video != ""
}

// Media reports the attachment kind, video taking precedence when both
// references are present.
func (a Alert) Media() MediaKind {
	switch {
	case a.Video != "":
		return MediaVideo
	case a.Image != "":
		return MediaImage
	default:
		return MediaNone
	}
}
