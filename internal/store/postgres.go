package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/query"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// RunMigrations creates tables if they don't exist and applies schema updates
func (s *PostgresStore) RunMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return err
	}

	// Apply migrations for existing tables
	migrations := []string{
		`ALTER TABLE alerts ADD COLUMN IF NOT EXISTS category VARCHAR(50) NOT NULL DEFAULT 'other';`,
		`ALTER TABLE alerts ADD COLUMN IF NOT EXISTS image TEXT NOT NULL DEFAULT '';`,
		`ALTER TABLE alerts ADD COLUMN IF NOT EXISTS video TEXT NOT NULL DEFAULT '';`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS totp_secret VARCHAR(255);`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS totp_enabled BOOLEAN NOT NULL DEFAULT FALSE;`,
	}

	for _, migration := range migrations {
		if _, err := s.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Alert methods

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

func (s *PostgresStore) AddAlert(ctx context.Context, a models.Alert) (models.Alert, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO alerts (title, content, category, source, severity, url, image, video, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 RETURNING id, created_at`,
		a.Title, a.Content, string(a.Category), a.Source, string(a.Severity), a.URL, a.Image, a.Video,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return models.Alert{}, ErrDuplicateURL
		}
		return models.Alert{}, err
	}
	return a, nil
}

// alertFilterSQL renders a query.Filter as a WHERE clause. The predicate
// must agree with query.Filter.Matches; the memory store is the reference
// for that behavior.
func alertFilterSQL(f query.Filter) (string, []any) {
	var clauses []string
	var args []any

	if f.Term != "" {
		args = append(args, "%"+f.Term+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d OR source ILIKE $%d)", n, n, n))
	}
	if len(f.Categories) > 0 {
		cats := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			cats[i] = string(c)
		}
		args = append(args, pq.Array(cats))
		clauses = append(clauses, fmt.Sprintf("category = ANY($%d)", len(args)))
	}
	if f.Severity != "" {
		args = append(args, string(f.Severity))
		clauses = append(clauses, fmt.Sprintf("severity = $%d", len(args)))
	}
	if f.Source != "" {
		args = append(args, f.Source)
		clauses = append(clauses, fmt.Sprintf("LOWER(source) = LOWER($%d)", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *PostgresStore) QueryAlerts(ctx context.Context, f query.Filter) ([]models.Alert, error) {
	where, args := alertFilterSQL(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, category, source, severity, url, image, video, created_at
		 FROM alerts`+where+` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		var category, severity string
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &category, &a.Source, &severity, &a.URL, &a.Image, &a.Video, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Category = models.Category(category)
		a.Severity = models.Severity(severity)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *PostgresStore) CountAlerts(ctx context.Context, f query.Filter) (int, error) {
	where, args := alertFilterSQL(f)
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts`+where, args...).Scan(&count)
	return count, err
}

// FieldReport methods

func (s *PostgresStore) AddFieldReport(ctx context.Context, r models.FieldReport) (models.FieldReport, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO field_reports (timing, location, leader, number, vehicle, description, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 RETURNING id, created_at`,
		r.Timing, r.Location, r.Leader, r.Number, r.Vehicle, r.Description, string(r.Status),
	).Scan(&r.ID, &r.CreatedAt)

	if err != nil {
		return models.FieldReport{}, err
	}
	return r, nil
}

func (s *PostgresStore) GetFieldReports(ctx context.Context) ([]models.FieldReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timing, location, leader, number, vehicle, description, status, created_at
		 FROM field_reports ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.FieldReport
	for rows.Next() {
		var r models.FieldReport
		var status string
		if err := rows.Scan(&r.ID, &r.Timing, &r.Location, &r.Leader, &r.Number, &r.Vehicle, &r.Description, &status, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Status = models.ReportStatus(status)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Source methods

func (s *PostgresStore) AddSource(ctx context.Context, src models.Source) (models.Source, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO sources (name, url, notes, created_at)
		 VALUES ($1, $2, $3, NOW())
		 RETURNING id, created_at`,
		src.Name, src.URL, src.Notes,
	).Scan(&src.ID, &src.CreatedAt)

	if err != nil {
		return models.Source{}, err
	}
	return src, nil
}

func (s *PostgresStore) SearchSources(ctx context.Context, term string) ([]models.Source, error) {
	q := `SELECT id, name, url, notes, created_at FROM sources`
	var args []any
	if term != "" {
		q += ` WHERE name ILIKE $1 OR url ILIKE $1`
		args = append(args, "%"+term+"%")
	}
	q += ` ORDER BY name ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []models.Source
	for rows.Next() {
		var src models.Source
		if err := rows.Scan(&src.ID, &src.Name, &src.URL, &src.Notes, &src.CreatedAt); err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// User methods

func (s *PostgresStore) CreateUser(ctx context.Context, username, password, role string) (models.User, error) {
	passwordHash, err := models.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, role, created_at)
		 VALUES ($1, $2, $3, NOW())
		 RETURNING id, username, password_hash, role, created_at`,
		username, passwordHash, role,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.CreatedAt)

	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	var totpSecret sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, totp_secret, totp_enabled, created_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &totpSecret, &user.TOTPEnabled, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	if totpSecret.Valid {
		user.TOTPSecret = totpSecret.String
	}
	return user, nil
}

func (s *PostgresStore) UpdateUser2FA(ctx context.Context, userID int, totpSecret string, enabled bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET totp_secret = $1, totp_enabled = $2 WHERE id = $3`,
		totpSecret, enabled, userID,
	)
	return err
}

// Push subscription methods

func (s *PostgresStore) SavePushSubscription(ctx context.Context, userID int, endpoint, p256dh, auth string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (endpoint) DO UPDATE SET p256dh = $3, auth = $4`,
		userID, endpoint, p256dh, auth,
	)
	return err
}

func (s *PostgresStore) GetPushSubscriptions(ctx context.Context) ([]models.PushSubscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, endpoint, p256dh, auth, created_at FROM push_subscriptions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.PushSubscription
	for rows.Next() {
		var sub models.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
