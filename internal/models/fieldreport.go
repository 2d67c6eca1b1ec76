package models

import "time"

// ReportStatus is the closed status set for field reports.
type ReportStatus string

const (
	StatusPending   ReportStatus = "pending"
	StatusCompleted ReportStatus = "completed"
	StatusCancelled ReportStatus = "cancelled"
)

var ReportStatuses = []ReportStatus{StatusPending, StatusCompleted, StatusCancelled}

func (s ReportStatus) Valid() bool {
	for _, v := range ReportStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// NormalizeStatus maps submitted input to a valid status, falling back to
// pending.
func NormalizeStatus(raw string) ReportStatus {
	s := ReportStatus(raw)
	if s.Valid() {
		return s
	}
	return StatusPending
}

// FieldReport is a manually logged field-intelligence entry, independent
// of Alert. Timing, Location and Leader are mandatory at creation.
type FieldReport struct {
	ID          int          `json:"id"`
	Timing      string       `json:"timing"`
	Location    string       `json:"location"`
	Leader      string       `json:"leader"`
	Number      string       `json:"number,omitempty"`
	Vehicle     string       `json:"vehicle,omitempty"`
	Description string       `json:"description,omitempty"`
	Status      ReportStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}
