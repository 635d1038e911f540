package kuma

import (
	"fmt"
	"strconv"

	"github.com/ddrozdov/kumabot/internal/domain"
)

// NormalizeMonitor converts one raw monitor record from the remote service
// into a canonical Monitor. Absent fields degrade to defaults, never fail.
// Maintenance forces the derived status down regardless of the raw status.
func NormalizeMonitor(raw map[string]any) domain.Monitor {
	m := domain.Monitor{
		ID:          stringField(raw, "id", ""),
		Name:        stringField(raw, "name", "Unknown"),
		URL:         stringField(raw, "url", ""),
		Type:        stringField(raw, "type", "unknown"),
		Active:      boolField(raw, "active", true),
		Maintenance: boolField(raw, "maintenance", false),
	}

	m.Status = domain.StatusUp
	if !m.Active || intField(raw, "status", 1) == 0 || m.Maintenance {
		m.Status = domain.StatusDown
	}
	return m
}

// NormalizeIncident converts one raw incident record from the direct feed.
func NormalizeIncident(raw map[string]any) domain.Incident {
	return domain.Incident{
		ID:          stringField(raw, "id", ""),
		Title:       stringField(raw, "title", "Unknown incident"),
		MonitorName: stringField(raw, "monitor_name", ""),
		Status:      stringField(raw, "status", "unknown"),
		StartedAt:   stringField(raw, "started_at", ""),
		ResolvedAt:  stringField(raw, "resolved_at", ""),
	}
}

func stringField(raw map[string]any, key, def string) string {
	switch v := raw[key].(type) {
	case string:
		if v == "" {
			return def
		}
		return v
	case float64:
		// JSON numbers decode as float64; ids are integral in practice
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case nil:
		return def
	default:
		return fmt.Sprintf("%v", v)
	}
}

func boolField(raw map[string]any, key string, def bool) bool {
	switch v := raw[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	default:
		return def
	}
}

func intField(raw map[string]any, key string, def int) int {
	switch v := raw[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return def
	}
}
