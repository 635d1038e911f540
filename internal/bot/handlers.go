package bot

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ddrozdov/kumabot/internal/domain"
	"github.com/ddrozdov/kumabot/internal/kuma"
	"github.com/ddrozdov/kumabot/internal/metrics"
	"github.com/ddrozdov/kumabot/internal/status"
)

// Sender delivers one text message to a chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Gate authorizes the invoking user. A returned error means the denial has
// already been messaged and the command must stop.
type Gate interface {
	Authorize(ctx context.Context, userID, chatID int64) (domain.Role, error)
}

// Handler serves chat commands. It holds no mutable state of its own, so
// concurrent commands are safe; each one opens its own remote session
// bounded by timeout.
type Handler struct {
	remote  kuma.Dialer
	gate    Gate
	sender  Sender
	log     *zap.Logger
	timeout time.Duration
}

func NewHandler(remote kuma.Dialer, gate Gate, sender Sender, log *zap.Logger, timeout time.Duration) *Handler {
	return &Handler{remote: remote, gate: gate, sender: sender, log: log, timeout: timeout}
}

// Handle dispatches one command invocation. command arrives without the
// leading slash.
func (h *Handler) Handle(ctx context.Context, userID, chatID int64, command string) {
	if _, err := h.gate.Authorize(ctx, userID, chatID); err != nil {
		metrics.DeniedCount.Inc()
		return
	}
	var text string
	switch command {
	case "start", "help":
		text = helpText
	case "status":
		h.send(ctx, chatID, "🔍 Fetching service status...")
		text = h.withRemote(ctx, h.statusText)
	case "monitors":
		h.send(ctx, chatID, "🔍 Fetching monitors...")
		text = h.withRemote(ctx, h.monitorsText)
	case "incidents":
		h.send(ctx, chatID, "🔍 Fetching incidents...")
		text = h.withRemote(ctx, h.incidentsText)
	default:
		// bounded metric label; arbitrary command strings stay out
		command = "unknown"
		text = "Unknown command. Send /help for the list of commands."
	}
	metrics.CommandCount.WithLabelValues(command).Inc()
	h.send(ctx, chatID, text)
}

// withRemote runs fn against a fresh session within one timeout window.
// The session is always released, failure included.
func (h *Handler) withRemote(ctx context.Context, fn func(ctx context.Context, s kuma.Session) (string, error)) string {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	s, err := h.remote.Dial(ctx)
	if err != nil {
		return h.remoteErrorText(err)
	}
	defer s.Close()

	text, err := fn(ctx, s)
	if err != nil {
		return h.remoteErrorText(err)
	}
	return text
}

func (h *Handler) statusText(ctx context.Context, s kuma.Session) (string, error) {
	monitors, err := s.Monitors(ctx)
	if err != nil {
		return "", err
	}
	sum := status.Summarize(monitors)
	var problems []domain.Monitor
	if sum.Down > 0 {
		problems = status.Problems(monitors)
	}
	return renderSummary(sum, problems), nil
}

func (h *Handler) monitorsText(ctx context.Context, s kuma.Session) (string, error) {
	monitors, err := s.Monitors(ctx)
	if err != nil {
		return "", err
	}
	return renderMonitors(monitors), nil
}

func (h *Handler) incidentsText(ctx context.Context, s kuma.Session) (string, error) {
	incidents, err := status.ResolveIncidents(ctx, s, h.log)
	if err != nil {
		return "", err
	}
	return renderIncidents(incidents), nil
}

func (h *Handler) remoteErrorText(err error) string {
	kind := "unavailable"
	if errors.Is(err, kuma.ErrTimeout) {
		kind = "timeout"
	}
	metrics.RemoteErrorCount.WithLabelValues(kind).Inc()
	h.log.Error("remote_failed", zap.String("kind", kind), zap.Error(err))

	if kind == "timeout" {
		return "⏳ The monitoring service took too long to respond. Please try again later."
	}
	return "❌ Could not reach the monitoring service: " + err.Error()
}

func (h *Handler) send(ctx context.Context, chatID int64, text string) {
	if err := h.sender.SendText(ctx, chatID, text); err != nil {
		h.log.Warn("send_failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
