package status

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ddrozdov/kumabot/internal/domain"
)

type fakeSource struct {
	incidents    []domain.Incident
	incidentsErr error
	monitors     []domain.Monitor
	monitorsErr  error
}

func (f *fakeSource) Incidents(_ context.Context) ([]domain.Incident, error) {
	return f.incidents, f.incidentsErr
}

func (f *fakeSource) Monitors(_ context.Context) ([]domain.Monitor, error) {
	return f.monitors, f.monitorsErr
}

func TestResolveIncidents_DirectFeedPassesThrough(t *testing.T) {
	direct := []domain.Incident{{ID: "1", Title: "API outage", MonitorName: "API", Status: "down", StartedAt: "2026-08-01T10:00:00Z"}}
	src := &fakeSource{
		incidents: direct,
		// monitors deliberately report problems; they must be ignored
		monitors: []domain.Monitor{mon("bad", true, false, false)},
	}

	got, err := ResolveIncidents(context.Background(), src, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "API outage" {
		t.Fatalf("want direct feed unchanged, got %+v", got)
	}
}

func TestResolveIncidents_EmptyDirectFeedIsNotFailure(t *testing.T) {
	src := &fakeSource{
		incidents: []domain.Incident{},
		monitors:  []domain.Monitor{mon("bad", true, false, false)},
	}

	got, err := ResolveIncidents(context.Background(), src, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("empty direct feed must not trigger synthesis, got %+v", got)
	}
}

func TestResolveIncidents_FallsBackOnFailure(t *testing.T) {
	src := &fakeSource{
		incidentsErr: errors.New("unsupported endpoint"),
		monitors: []domain.Monitor{
			mon("ok", true, false, true),
			mon("bad", true, false, false),
			mon("mnt", true, true, true),
			mon("off", false, false, false),
		},
	}

	got, err := ResolveIncidents(context.Background(), src, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("want one synthesized incident, got %+v", got)
	}
	inc := got[0]
	if inc.Title != "Problem with bad" || inc.MonitorName != "bad" || inc.Status != "down" {
		t.Fatalf("synthesized shape wrong: %+v", inc)
	}
	if inc.StartedAt != "recently" || inc.ResolvedAt != "" {
		t.Fatalf("synthesized timestamps wrong: %+v", inc)
	}
}

func TestResolveIncidents_BothPathsFail(t *testing.T) {
	wantErr := errors.New("connection refused")
	src := &fakeSource{incidentsErr: errors.New("boom"), monitorsErr: wantErr}

	if _, err := ResolveIncidents(context.Background(), src, zap.NewNop()); !errors.Is(err, wantErr) {
		t.Fatalf("want monitor fetch error surfaced, got %v", err)
	}
}
