package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	_ "modernc.org/sqlite"

	"github.com/ddrozdov/kumabot/internal/domain"
	"github.com/ddrozdov/kumabot/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open creates the sqlite-backed store, creating the directory and schema
// as needed. Pure-Go driver, WAL mode, single connection: one writer at a
// time is plenty for a bot and avoids lock contention.
func Open(path string, log *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=1"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.MonitorRecord{},
		&domain.UserMonitor{},
		&domain.Payment{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("db_open", zap.String("path", path))
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ---- UserStore ----

func (s *Store) Upsert(ctx context.Context, id int64, role domain.Role, name, username string) error {
	u := domain.User{ID: id, Role: role, Name: name, Username: username, CreatedAt: time.Now().UTC()}
	// conflict update leaves created_at and subscription_expires_at alone
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "name", "username"}),
	}).Create(&u).Error
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", id, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).First(&u, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (s *Store) ByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	var out []domain.User
	if err := s.db.WithContext(ctx).Where("role = ?", role).Order("user_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("users by role %s: %w", role, err)
	}
	return out, nil
}

func (s *Store) All(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := s.db.WithContext(ctx).Order("user_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&domain.User{}, "user_id = ?", id).Error; err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (s *Store) SetSubscriptionExpiry(ctx context.Context, id int64, expiresAt time.Time) error {
	err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("user_id = ?", id).
		Update("subscription_expires_at", expiresAt).Error
	if err != nil {
		return fmt.Errorf("set subscription expiry for %d: %w", id, err)
	}
	return nil
}

// ---- MonitorStore ----

func (s *Store) UpsertMonitor(ctx context.Context, m *domain.MonitorRecord) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "monitor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "url", "type"}),
	}).Create(m).Error
	if err != nil {
		return fmt.Errorf("upsert monitor %d: %w", m.ID, err)
	}
	return nil
}

func (s *Store) GetMonitor(ctx context.Context, id int64) (*domain.MonitorRecord, error) {
	var m domain.MonitorRecord
	err := s.db.WithContext(ctx).First(&m, "monitor_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get monitor %d: %w", id, err)
	}
	return &m, nil
}

func (s *Store) Assign(ctx context.Context, userID, monitorID int64) error {
	link := domain.UserMonitor{UserID: userID, MonitorID: monitorID, AddedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		return fmt.Errorf("assign monitor %d to user %d: %w", monitorID, userID, err)
	}
	return nil
}

func (s *Store) Unassign(ctx context.Context, userID, monitorID int64) error {
	err := s.db.WithContext(ctx).
		Delete(&domain.UserMonitor{}, "user_id = ? AND monitor_id = ?", userID, monitorID).Error
	if err != nil {
		return fmt.Errorf("unassign monitor %d from user %d: %w", monitorID, userID, err)
	}
	return nil
}

func (s *Store) MonitorsForUser(ctx context.Context, userID int64) ([]domain.MonitorRecord, error) {
	var out []domain.MonitorRecord
	err := s.db.WithContext(ctx).
		Joins("JOIN user_monitors um ON um.monitor_id = monitors.monitor_id").
		Where("um.user_id = ?", userID).
		Order("monitors.monitor_id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("monitors for user %d: %w", userID, err)
	}
	return out, nil
}

// ---- PaymentStore ----

func (s *Store) CreatePayment(ctx context.Context, p *domain.Payment) (int64, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return 0, fmt.Errorf("create payment for user %d: %w", p.UserID, err)
	}
	return p.ID, nil
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, paidAt *time.Time) error {
	if status == domain.PaymentPaid && paidAt == nil {
		now := time.Now().UTC()
		paidAt = &now
	}
	err := s.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("payment_id = ?", id).
		Updates(map[string]any{"status": status, "paid_at": paidAt}).Error
	if err != nil {
		return fmt.Errorf("update payment %d: %w", id, err)
	}

	// a paid payment extends the user's subscription
	if status == domain.PaymentPaid {
		p, err := s.GetPayment(ctx, id)
		if err != nil || p == nil {
			return err
		}
		return s.SetSubscriptionExpiry(ctx, p.UserID, p.ExpiresAt)
	}
	return nil
}

func (s *Store) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	err := s.db.WithContext(ctx).First(&p, "payment_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	return &p, nil
}

func (s *Store) PaymentsForUser(ctx context.Context, userID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("payments for user %d: %w", userID, err)
	}
	return out, nil
}

func (s *Store) SubscriptionActive(ctx context.Context, userID int64) (bool, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if u == nil || u.SubscriptionExpiresAt == nil {
		return false, nil
	}
	return u.SubscriptionExpiresAt.After(time.Now()), nil
}
