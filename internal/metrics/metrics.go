package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CommandCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kumabot_commands_total",
			Help: "Total number of chat commands handled",
		},
		[]string{"command"},
	)

	DeniedCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kumabot_denied_total",
			Help: "Number of commands rejected by the access gate",
		},
	)

	RemoteErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kumabot_remote_errors_total",
			Help: "Remote monitoring service failures by kind",
		},
		[]string{"kind"},
	)
)

func Init() {
	prometheus.MustRegister(CommandCount, DeniedCount, RemoteErrorCount)
}
