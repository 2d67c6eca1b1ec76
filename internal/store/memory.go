package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/query"
)

// MemoryStore is an in-memory Store. It backs tests and the DEV_MODE run
// path and is the reference implementation for filter semantics: the
// Postgres predicate must agree with what this store returns.
type MemoryStore struct {
	mu      sync.RWMutex
	alerts  []models.Alert
	reports []models.FieldReport
	sources []models.Source
	users   []models.User
	subs    []models.PushSubscription

	nextAlert  int
	nextReport int
	nextSource int
	nextUser   int
	nextSub    int

	// Now is the clock used for created_at stamps; tests override it.
	Now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Now: func() time.Time { return time.Now().UTC() }}
}

func (s *MemoryStore) AddAlert(ctx context.Context, a models.Alert) (models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.alerts {
		if existing.URL == a.URL {
			return models.Alert{}, ErrDuplicateURL
		}
	}

	s.nextAlert++
	a.ID = s.nextAlert
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.Now()
	}
	s.alerts = append(s.alerts, a)
	return a, nil
}

func (s *MemoryStore) QueryAlerts(ctx context.Context, f query.Filter) ([]models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Apply(s.alerts, f), nil
}

func (s *MemoryStore) CountAlerts(ctx context.Context, f query.Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, a := range s.alerts {
		if f.Matches(a) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) AddFieldReport(ctx context.Context, r models.FieldReport) (models.FieldReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextReport++
	r.ID = s.nextReport
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.Now()
	}
	s.reports = append(s.reports, r)
	return r, nil
}

func (s *MemoryStore) GetFieldReports(ctx context.Context) ([]models.FieldReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FieldReport, len(s.reports))
	copy(out, s.reports)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) AddSource(ctx context.Context, src models.Source) (models.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSource++
	src.ID = s.nextSource
	if src.CreatedAt.IsZero() {
		src.CreatedAt = s.Now()
	}
	s.sources = append(s.sources, src)
	return src, nil
}

func (s *MemoryStore) SearchSources(ctx context.Context, term string) ([]models.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term = strings.ToLower(term)
	var out []models.Source
	for _, src := range s.sources {
		if term == "" ||
			strings.Contains(strings.ToLower(src.Name), term) ||
			strings.Contains(strings.ToLower(src.URL), term) {
			out = append(out, src)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, username, password, role string) (models.User, error) {
	passwordHash, err := models.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUser++
	user := models.User{
		ID:           s.nextUser,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    s.Now(),
	}
	s.users = append(s.users, user)
	return user, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStore) UpdateUser2FA(ctx context.Context, userID int, totpSecret string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].TOTPSecret = totpSecret
			s.users[i].TOTPEnabled = enabled
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) SavePushSubscription(ctx context.Context, userID int, endpoint, p256dh, auth string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.subs {
		if s.subs[i].Endpoint == endpoint {
			s.subs[i].P256dh = p256dh
			s.subs[i].Auth = auth
			return nil
		}
	}
	s.nextSub++
	s.subs = append(s.subs, models.PushSubscription{
		ID:        s.nextSub,
		UserID:    userID,
		Endpoint:  endpoint,
		P256dh:    p256dh,
		Auth:      auth,
		CreatedAt: s.Now(),
	})
	return nil
}

func (s *MemoryStore) GetPushSubscriptions(ctx context.Context) ([]models.PushSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PushSubscription, len(s.subs))
	copy(out, s.subs)
	return out, nil
}
