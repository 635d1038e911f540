package access

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ddrozdov/kumabot/internal/domain"
	"github.com/ddrozdov/kumabot/internal/store"
)

// ErrDenied signals that the request must stop. The denial message has
// already been sent by the time callers see this; they must not send another.
var ErrDenied = errors.New("access denied")

const deniedText = "⛔ You do not have access to this bot."

// Sender delivers one text message to a chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Controller decides whether a command proceeds. The role is looked up per
// invocation, with no caching, so role changes apply on the next command.
type Controller struct {
	users  store.UserStore
	sender Sender
	log    *zap.Logger
}

func NewController(users store.UserStore, sender Sender, log *zap.Logger) *Controller {
	return &Controller{users: users, sender: sender, log: log}
}

// Authorize allows users with role admin or user; unknown identities,
// blocked users, and lookup failures are all denied. Fails closed: a store
// error never turns into an approval. Every denial sends exactly one
// message; an approval sends nothing.
func (c *Controller) Authorize(ctx context.Context, userID, chatID int64) (domain.Role, error) {
	u, err := c.users.Get(ctx, userID)
	if err != nil {
		c.log.Error("auth_lookup_failed", zap.Int64("user_id", userID), zap.Error(err))
		c.deny(ctx, chatID)
		return "", ErrDenied
	}
	if u == nil || u.Role == domain.RoleBlocked {
		c.deny(ctx, chatID)
		return "", ErrDenied
	}
	return u.Role, nil
}

func (c *Controller) deny(ctx context.Context, chatID int64) {
	if err := c.sender.SendText(ctx, chatID, deniedText); err != nil {
		c.log.Warn("denial_send_failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
