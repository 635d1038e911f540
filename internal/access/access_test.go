package access

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ddrozdov/kumabot/internal/domain"
	"github.com/ddrozdov/kumabot/internal/store"
	"github.com/ddrozdov/kumabot/internal/store/memory"
)

type fakeSender struct {
	sent []string
}

func (f *fakeSender) SendText(_ context.Context, _ int64, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

// brokenUsers fails every lookup; other methods are never called.
type brokenUsers struct{ store.UserStore }

func (brokenUsers) Get(_ context.Context, _ int64) (*domain.User, error) {
	return nil, errors.New("db locked")
}

func TestAuthorize_AllowsAdminAndUser(t *testing.T) {
	ctx := context.Background()
	users := memory.New()
	_ = users.Upsert(ctx, 1, domain.RoleAdmin, "Alice", "alice_tg")
	_ = users.Upsert(ctx, 2, domain.RoleUser, "Bob", "bob_tg")

	snd := &fakeSender{}
	c := NewController(users, snd, zap.NewNop())

	role, err := c.Authorize(ctx, 1, 100)
	if err != nil || role != domain.RoleAdmin {
		t.Fatalf("admin: role=%s err=%v", role, err)
	}
	role, err = c.Authorize(ctx, 2, 100)
	if err != nil || role != domain.RoleUser {
		t.Fatalf("user: role=%s err=%v", role, err)
	}
	if len(snd.sent) != 0 {
		t.Fatalf("approval must not message the user: %v", snd.sent)
	}
}

func TestAuthorize_DeniesUnknownAndBlocked(t *testing.T) {
	ctx := context.Background()
	users := memory.New()
	_ = users.Upsert(ctx, 3, domain.RoleBlocked, "Mallory", "mallory_tg")

	snd := &fakeSender{}
	c := NewController(users, snd, zap.NewNop())

	if _, err := c.Authorize(ctx, 99, 100); !errors.Is(err, ErrDenied) {
		t.Fatalf("unknown user: want ErrDenied, got %v", err)
	}
	if _, err := c.Authorize(ctx, 3, 100); !errors.Is(err, ErrDenied) {
		t.Fatalf("blocked user: want ErrDenied, got %v", err)
	}
	if len(snd.sent) != 2 {
		t.Fatalf("want exactly one message per denial, got %d", len(snd.sent))
	}
}

func TestAuthorize_FailsClosedOnLookupError(t *testing.T) {
	snd := &fakeSender{}
	c := NewController(brokenUsers{}, snd, zap.NewNop())

	if _, err := c.Authorize(context.Background(), 1, 100); !errors.Is(err, ErrDenied) {
		t.Fatalf("lookup error: want ErrDenied, got %v", err)
	}
	if len(snd.sent) != 1 {
		t.Fatalf("want one denial message, got %d", len(snd.sent))
	}
}
