package bot

import (
	"fmt"
	"strings"

	"github.com/ddrozdov/kumabot/internal/domain"
)

const helpText = "👋 Hi! I relay status from the monitoring service.\n\n" +
	"Available commands:\n" +
	"/status - Overall status of all services\n" +
	"/monitors - List all monitors\n" +
	"/incidents - List incidents"

func renderSummary(sum domain.StatusSummary, problems []domain.Monitor) string {
	var b strings.Builder
	b.WriteString("📊 Service status:\n\n")
	fmt.Fprintf(&b, "Total: %d\n", sum.Total)
	fmt.Fprintf(&b, "✅ Up: %d\n", sum.Up)
	fmt.Fprintf(&b, "❌ Down: %d\n", sum.Down)
	fmt.Fprintf(&b, "🔧 Maintenance: %d\n", sum.Maintenance)
	fmt.Fprintf(&b, "📈 Uptime: %.2f%%\n", sum.UptimePercent)

	if len(problems) > 0 {
		b.WriteString("\n⚠️ Services with problems:\n")
		for _, m := range problems {
			fmt.Fprintf(&b, "- %s\n", m.Name)
		}
	}
	return b.String()
}

func renderMonitors(monitors []domain.Monitor) string {
	if len(monitors) == 0 {
		return "❗ No monitors found."
	}

	var b strings.Builder
	b.WriteString("📋 Monitors:\n\n")
	for _, m := range monitors {
		marker := "✅"
		switch {
		case m.Maintenance:
			marker = "🔧"
		case m.Status == domain.StatusDown:
			marker = "❌"
		}
		b.WriteString(marker + " " + m.Name)
		if m.URL != "" {
			fmt.Fprintf(&b, " (%s)", m.URL)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderIncidents(incidents []domain.Incident) string {
	if len(incidents) == 0 {
		return "✅ No active incidents."
	}

	var b strings.Builder
	b.WriteString("🚨 Incidents:\n\n")
	for _, inc := range incidents {
		fmt.Fprintf(&b, "⚠️ %s\n", inc.Title)
		fmt.Fprintf(&b, "Monitor: %s\n", inc.MonitorName)
		fmt.Fprintf(&b, "Status: %s\n", inc.Status)
		fmt.Fprintf(&b, "Started: %s\n", inc.StartedAt)
		if inc.ResolvedAt != "" {
			fmt.Fprintf(&b, "Resolved: %s\n", inc.ResolvedAt)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
