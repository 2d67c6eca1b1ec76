package store

import (
	"context"
	"errors"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/query"
)

var (
	// ErrDuplicateURL is returned when an alert submission reuses the URL
	// of an existing alert. The record is not created.
	ErrDuplicateURL = errors.New("alert with this url already exists")

	ErrNotFound = errors.New("record not found")
)

// AlertStore handles alert persistence and the filtered views the
// aggregation engine reads. Query results are always newest-first.
type AlertStore interface {
	AddAlert(ctx context.Context, a models.Alert) (models.Alert, error)
	QueryAlerts(ctx context.Context, f query.Filter) ([]models.Alert, error)
	CountAlerts(ctx context.Context, f query.Filter) (int, error)
}

// FieldReportStore handles field-intelligence entries. Listings are
// newest-created-first.
type FieldReportStore interface {
	AddFieldReport(ctx context.Context, r models.FieldReport) (models.FieldReport, error)
	GetFieldReports(ctx context.Context) ([]models.FieldReport, error)
}

// SourceStore handles the monitored-source catalog. Listings are
// alphabetical by name; term searches name and url substrings.
type SourceStore interface {
	AddSource(ctx context.Context, s models.Source) (models.Source, error)
	SearchSources(ctx context.Context, term string) ([]models.Source, error)
}

// UserStore handles login accounts and their push subscriptions.
type UserStore interface {
	CreateUser(ctx context.Context, username, password, role string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	UpdateUser2FA(ctx context.Context, userID int, totpSecret string, enabled bool) error

	SavePushSubscription(ctx context.Context, userID int, endpoint, p256dh, auth string) error
	GetPushSubscriptions(ctx context.Context) ([]models.PushSubscription, error)
}

// Store is the full record store the handlers are wired against.
type Store interface {
	AlertStore
	FieldReportStore
	SourceStore
	UserStore
}
