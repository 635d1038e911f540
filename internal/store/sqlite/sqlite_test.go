package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ddrozdov/kumabot/internal/domain"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bot.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsert_UpdatesOnConflict(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	if err := s.Upsert(ctx, 1, domain.RoleUser, "Alice", "alice_tg"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(ctx, 1, domain.RoleAdmin, "Alice", "alice_tg"); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 || all[0].Role != domain.RoleAdmin {
		t.Fatalf("conflict update wrong: %+v", all)
	}

	admins, err := s.ByRole(ctx, domain.RoleAdmin)
	if err != nil || len(admins) != 1 || admins[0].ID != 1 {
		t.Fatalf("ByRole: %+v %v", admins, err)
	}

	if u, err := s.Get(ctx, 99); err != nil || u != nil {
		t.Fatalf("absent user must be (nil, nil): %v %v", u, err)
	}
}

func TestMonitorAssignments(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	if err := s.Upsert(ctx, 7, domain.RoleUser, "Bob", "bob_tg"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.UpsertMonitor(ctx, &domain.MonitorRecord{ID: 1, Name: "Google", URL: "https://google.com", Type: "http"}); err != nil {
		t.Fatalf("UpsertMonitor: %v", err)
	}
	// rename via conflict path
	if err := s.UpsertMonitor(ctx, &domain.MonitorRecord{ID: 1, Name: "Google DNS", URL: "https://8.8.8.8", Type: "http"}); err != nil {
		t.Fatalf("UpsertMonitor again: %v", err)
	}

	if err := s.Assign(ctx, 7, 1); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := s.Assign(ctx, 7, 1); err != nil {
		t.Fatalf("duplicate Assign should be a no-op: %v", err)
	}

	ms, err := s.MonitorsForUser(ctx, 7)
	if err != nil {
		t.Fatalf("MonitorsForUser: %v", err)
	}
	if len(ms) != 1 || ms[0].Name != "Google DNS" {
		t.Fatalf("unexpected monitors: %+v", ms)
	}

	if err := s.Unassign(ctx, 7, 1); err != nil {
		t.Fatalf("Unassign: %v", err)
	}
	if ms, _ := s.MonitorsForUser(ctx, 7); len(ms) != 0 {
		t.Fatalf("expected no monitors after unassign, got %+v", ms)
	}
}

func TestPayments_PaidExtendsSubscription(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	if err := s.Upsert(ctx, 5, domain.RoleUser, "Eve", "eve_tg"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	expires := time.Now().Add(30 * 24 * time.Hour).UTC()
	id, err := s.CreatePayment(ctx, &domain.Payment{
		UserID:    5,
		Amount:    100,
		Status:    domain.PaymentPending,
		ExpiresAt: expires,
	})
	if err != nil || id == 0 {
		t.Fatalf("CreatePayment: id=%d err=%v", id, err)
	}

	if ok, _ := s.SubscriptionActive(ctx, 5); ok {
		t.Fatal("pending payment must not activate subscription")
	}

	if err := s.UpdatePaymentStatus(ctx, id, domain.PaymentPaid, nil); err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}

	p, err := s.GetPayment(ctx, id)
	if err != nil || p == nil || p.Status != domain.PaymentPaid || p.PaidAt == nil {
		t.Fatalf("paid payment wrong: %+v err=%v", p, err)
	}

	ok, err := s.SubscriptionActive(ctx, 5)
	if err != nil || !ok {
		t.Fatalf("subscription should be active: ok=%v err=%v", ok, err)
	}

	payments, err := s.PaymentsForUser(ctx, 5)
	if err != nil || len(payments) != 1 {
		t.Fatalf("PaymentsForUser: %+v %v", payments, err)
	}
}
