package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ddrozdov/kumabot/internal/domain"
	"github.com/ddrozdov/kumabot/internal/store"
)

// DisplayInfoProvider resolves a user's display name and handle from the
// chat transport. Best effort; a failure falls back to a generated name.
type DisplayInfoProvider interface {
	DisplayInfo(ctx context.Context, userID int64) (name, username string, err error)
}

// Reconciler aligns the store's admin role holders with the one configured
// admin identity. Runs once at startup, before commands are accepted.
type Reconciler struct {
	users store.UserStore
	info  DisplayInfoProvider
	log   *zap.Logger
}

func NewReconciler(users store.UserStore, info DisplayInfoProvider, log *zap.Logger) *Reconciler {
	return &Reconciler{users: users, info: info, log: log}
}

// Run demotes every stale admin to user and promotes the configured
// identity. Never aborts startup: a missing or malformed identity skips
// reconciliation, and store-write failures are logged and left for the
// next restart. Rerunning with the same identity performs no writes.
func (r *Reconciler) Run(ctx context.Context, configuredID string) {
	raw := strings.TrimSpace(configuredID)
	if raw == "" {
		r.log.Info("admin_reconcile_skipped", zap.String("reason", "no admin configured"))
		return
	}
	adminID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		r.log.Error("admin_reconcile_skipped",
			zap.String("reason", "admin id is not a valid integer"),
			zap.String("value", raw))
		return
	}

	admins, err := r.users.ByRole(ctx, domain.RoleAdmin)
	if err != nil {
		r.log.Error("admin_reconcile_failed", zap.Error(err))
		return
	}

	already := false
	for _, a := range admins {
		if a.ID == adminID {
			already = true
			continue
		}
		// demote, keeping the stored name and handle
		if err := r.users.Upsert(ctx, a.ID, domain.RoleUser, a.Name, a.Username); err != nil {
			r.log.Error("admin_demote_failed", zap.Int64("user_id", a.ID), zap.Error(err))
			continue
		}
		r.log.Info("admin_demoted", zap.Int64("user_id", a.ID))
	}

	if already {
		return
	}

	name, username, err := r.info.DisplayInfo(ctx, adminID)
	if err != nil || name == "" {
		name = fmt.Sprintf("Admin_%d", adminID)
		username = ""
	}
	if err := r.users.Upsert(ctx, adminID, domain.RoleAdmin, name, username); err != nil {
		r.log.Error("admin_promote_failed", zap.Int64("user_id", adminID), zap.Error(err))
		return
	}
	r.log.Info("admin_promoted", zap.Int64("user_id", adminID), zap.String("name", name))
}
