package status

import (
	"math"

	"github.com/ddrozdov/kumabot/internal/domain"
)

// Summarize rolls up a normalized monitor list. Recomputed in full on every
// call; the remote service is the source of truth and nothing is cached.
//
// Bucket rules: up counts active canonically-up monitors, down counts active
// non-maintenance canonically-down monitors, maintenance counts active
// monitors flagged for maintenance. Inactive non-maintenance monitors land
// in no bucket but still count toward total, so up+down+maintenance may be
// less than total.
func Summarize(monitors []domain.Monitor) domain.StatusSummary {
	sum := domain.StatusSummary{Total: len(monitors)}

	active := 0
	for _, m := range monitors {
		if m.Active {
			active++
		}
		switch {
		case m.Active && m.Maintenance:
			sum.Maintenance++
		case m.Active && m.Status == domain.StatusUp:
			sum.Up++
		case m.Active && m.Status == domain.StatusDown:
			sum.Down++
		}
	}

	if active == 0 {
		sum.UptimePercent = 100
		return sum
	}
	sum.UptimePercent = math.Round(float64(sum.Up)/float64(active)*100*100) / 100
	return sum
}

// Problems returns the monitors worth listing under a degraded summary:
// active, canonically down, and not in maintenance.
func Problems(monitors []domain.Monitor) []domain.Monitor {
	var out []domain.Monitor
	for _, m := range monitors {
		if m.Active && !m.Maintenance && m.Status == domain.StatusDown {
			out = append(out, m)
		}
	}
	return out
}
