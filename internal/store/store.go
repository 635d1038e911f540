package store

import (
	"context"
	"time"

	"github.com/ddrozdov/kumabot/internal/domain"
)

// Ports (interfaces) — swap in any DB adapter later.

// UserStore owns chat users and their roles. Get returns (nil, nil) when no
// record exists; lookup failures return an error and callers must treat
// them as denial, never approval.
type UserStore interface {
	Upsert(ctx context.Context, id int64, role domain.Role, name, username string) error
	Get(ctx context.Context, id int64) (*domain.User, error)
	ByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	All(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
	SetSubscriptionExpiry(ctx context.Context, id int64, expiresAt time.Time) error
}

// MonitorStore owns persisted monitor references and per-user assignments.
type MonitorStore interface {
	UpsertMonitor(ctx context.Context, m *domain.MonitorRecord) error
	GetMonitor(ctx context.Context, id int64) (*domain.MonitorRecord, error)
	Assign(ctx context.Context, userID, monitorID int64) error
	Unassign(ctx context.Context, userID, monitorID int64) error
	MonitorsForUser(ctx context.Context, userID int64) ([]domain.MonitorRecord, error)
}

// PaymentStore owns subscription payment bookkeeping. Marking a payment
// paid stamps paid_at (when absent) and propagates the payment's expiry to
// the owning user's subscription.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p *domain.Payment) (int64, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, paidAt *time.Time) error
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	PaymentsForUser(ctx context.Context, userID int64) ([]domain.Payment, error)
	SubscriptionActive(ctx context.Context, userID int64) (bool, error)
}

// Store is the full persistence surface the bot composes over.
type Store interface {
	UserStore
	MonitorStore
	PaymentStore
}
