package domain

import "time"

// Role is the persisted access level of a chat user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleBlocked Role = "blocked"
)

// MonitorStatus is the canonical up/down classification this bot derives,
// distinct from the raw 0/1 status the monitoring service reports.
type MonitorStatus string

const (
	StatusUp   MonitorStatus = "up"
	StatusDown MonitorStatus = "down"
)

// Monitor is one normalized monitor record, fetched fresh per command.
// Status is derived: down when the monitor is inactive, reported down,
// or in maintenance. Maintenance always forces down.
type Monitor struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	URL         string        `json:"url,omitempty"`
	Type        string        `json:"type"`
	Active      bool          `json:"active"`
	Maintenance bool          `json:"maintenance"`
	Status      MonitorStatus `json:"status"`
}

// StatusSummary is the per-request rollup of a monitor list.
type StatusSummary struct {
	Total         int     `json:"total"`
	Up            int     `json:"up"`
	Down          int     `json:"down"`
	Maintenance   int     `json:"maintenance"`
	UptimePercent float64 `json:"uptime_percent"`
}

// Incident is a reported or inferred outage. Timestamps stay free-text:
// the remote feed sends its own formatting and synthesized incidents carry
// a placeholder rather than a real time.
type Incident struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	MonitorName string `json:"monitor_name"`
	Status      string `json:"status"`
	StartedAt   string `json:"started_at"`
	ResolvedAt  string `json:"resolved_at,omitempty"`
}

// User is a persisted chat user and their access role.
type User struct {
	ID                    int64      `json:"id" gorm:"primaryKey;column:user_id"`
	Role                  Role       `json:"role" gorm:"not null"`
	Name                  string     `json:"name"`
	Username              string     `json:"username"`
	CreatedAt             time.Time  `json:"created_at"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
}

func (User) TableName() string { return "users" }

// MonitorRecord is the persisted reference to a remote monitor, used for
// per-user monitor assignments. Distinct from the ephemeral Monitor above.
type MonitorRecord struct {
	ID   int64  `json:"id" gorm:"primaryKey;column:monitor_id"`
	Name string `json:"name" gorm:"not null"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

func (MonitorRecord) TableName() string { return "monitors" }

// UserMonitor links a user to an assigned monitor.
type UserMonitor struct {
	UserID    int64     `json:"user_id" gorm:"primaryKey"`
	MonitorID int64     `json:"monitor_id" gorm:"primaryKey"`
	AddedAt   time.Time `json:"added_at"`
}

func (UserMonitor) TableName() string { return "user_monitors" }

// PaymentStatus tracks subscription payment bookkeeping.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentExpired   PaymentStatus = "expired"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment is one subscription payment record.
type Payment struct {
	ID                int64         `json:"id" gorm:"primaryKey;autoIncrement;column:payment_id"`
	UserID            int64         `json:"user_id" gorm:"not null;index"`
	Amount            float64       `json:"amount" gorm:"not null"`
	Status            PaymentStatus `json:"status" gorm:"not null"`
	CreatedAt         time.Time     `json:"created_at"`
	PaidAt            *time.Time    `json:"paid_at,omitempty"`
	ExpiresAt         time.Time     `json:"expires_at" gorm:"not null"`
	Provider          string        `json:"provider,omitempty"`
	ProviderPaymentID string        `json:"provider_payment_id,omitempty"`
}

func (Payment) TableName() string { return "payments" }
