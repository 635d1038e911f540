package status

import (
	"context"

	"go.uber.org/zap"

	"github.com/ddrozdov/kumabot/internal/domain"
)

// startedPlaceholder marks a synthesized incident whose real start time is
// unknown; the direct feed carries its own timestamps.
const startedPlaceholder = "recently"

// IncidentSource is the slice of a remote session the resolver needs.
type IncidentSource interface {
	Monitors(ctx context.Context) ([]domain.Monitor, error)
	Incidents(ctx context.Context) ([]domain.Incident, error)
}

// ResolveIncidents returns the direct incident feed when the remote service
// delivers one, an empty feed included: empty means "no incidents", not
// failure. Only an explicit fetch failure falls back to synthesizing one
// incident per down monitor.
func ResolveIncidents(ctx context.Context, src IncidentSource, log *zap.Logger) ([]domain.Incident, error) {
	incidents, err := src.Incidents(ctx)
	if err == nil {
		return incidents, nil
	}
	log.Warn("incident_feed_failed", zap.Error(err))

	monitors, err := src.Monitors(ctx)
	if err != nil {
		return nil, err
	}
	return Synthesize(monitors), nil
}

// Synthesize derives incidents from monitor state: one per active,
// non-maintenance monitor that is canonically down.
func Synthesize(monitors []domain.Monitor) []domain.Incident {
	var out []domain.Incident
	for _, m := range Problems(monitors) {
		out = append(out, domain.Incident{
			ID:          m.ID,
			Title:       "Problem with " + m.Name,
			MonitorName: m.Name,
			Status:      "down",
			StartedAt:   startedPlaceholder,
		})
	}
	return out
}
