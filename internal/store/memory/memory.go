package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ddrozdov/kumabot/internal/domain"
	"github.com/ddrozdov/kumabot/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store is an in-memory adapter with the same semantics as the sqlite one.
// Used by tests and DB-less development.
type Store struct {
	mu          sync.RWMutex
	users       map[int64]*domain.User
	monitors    map[int64]*domain.MonitorRecord
	assignments map[int64]map[int64]time.Time // userID -> monitorID -> added
	payments    map[int64]*domain.Payment
	nextPayment int64
}

func New() *Store {
	return &Store{
		users:       make(map[int64]*domain.User),
		monitors:    make(map[int64]*domain.MonitorRecord),
		assignments: make(map[int64]map[int64]time.Time),
		payments:    make(map[int64]*domain.Payment),
		nextPayment: 1,
	}
}

// ---- UserStore ----

func (s *Store) Upsert(ctx context.Context, id int64, role domain.Role, name, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.Role = role
		u.Name = name
		u.Username = username
		return nil
	}
	s.users[id] = &domain.User{
		ID:        id,
		Role:      role,
		Name:      name,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *Store) ByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) All(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	delete(s.assignments, id)
	return nil
}

func (s *Store) SetSubscriptionExpiry(ctx context.Context, id int64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		e := expiresAt
		u.SubscriptionExpiresAt = &e
	}
	return nil
}

// ---- MonitorStore ----

func (s *Store) UpsertMonitor(ctx context.Context, m *domain.MonitorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.monitors[m.ID] = &cp
	return nil
}

func (s *Store) GetMonitor(ctx context.Context, id int64) (*domain.MonitorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.monitors[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *Store) Assign(ctx context.Context, userID, monitorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assignments[userID] == nil {
		s.assignments[userID] = make(map[int64]time.Time)
	}
	if _, ok := s.assignments[userID][monitorID]; !ok {
		s.assignments[userID][monitorID] = time.Now().UTC()
	}
	return nil
}

func (s *Store) Unassign(ctx context.Context, userID, monitorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments[userID], monitorID)
	return nil
}

func (s *Store) MonitorsForUser(ctx context.Context, userID int64) ([]domain.MonitorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.MonitorRecord
	for id := range s.assignments[userID] {
		if m, ok := s.monitors[id]; ok {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- PaymentStore ----

func (s *Store) CreatePayment(ctx context.Context, p *domain.Payment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	cp.ID = s.nextPayment
	s.nextPayment++
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.payments[cp.ID] = &cp
	return cp.ID, nil
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, paidAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil
	}
	if status == domain.PaymentPaid && paidAt == nil {
		now := time.Now().UTC()
		paidAt = &now
	}
	p.Status = status
	p.PaidAt = paidAt
	if status == domain.PaymentPaid {
		if u, ok := s.users[p.UserID]; ok {
			e := p.ExpiresAt
			u.SubscriptionExpiresAt = &e
		}
	}
	return nil
}

func (s *Store) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *Store) PaymentsForUser(ctx context.Context, userID int64) ([]domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Payment
	for _, p := range s.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SubscriptionActive(ctx context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok || u.SubscriptionExpiresAt == nil {
		return false, nil
	}
	return u.SubscriptionExpiresAt.After(time.Now()), nil
}
