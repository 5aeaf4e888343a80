package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		commandsReceivedTotal,
		commandOutcomesTotal,
		joinChecksTotal,
		auditFailuresTotal,
	)
}

var (
	commandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_received_total",
			Help: "Counts incoming commands and free-text messages from users.",
		},
		[]string{"command"},
	)

	commandOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_command_outcomes_total",
			Help: "Command pipeline outcomes (replied/denied/usage_error/unauthorized/generation_error).",
		},
		[]string{"command", "outcome"},
	)

	joinChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_join_checks_total",
			Help: "Membership recheck results (member/not-member/permission-error).",
		},
		[]string{"result"},
	)

	auditFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_audit_failures_total",
			Help: "Audit records that could not be delivered to the log channel.",
		},
	)
)

func IncCommand(command string) {
	commandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}

func IncCommandOutcome(command, outcome string) {
	commandOutcomesTotal.WithLabelValues(norm(command), outcome).Inc()
}

func IncJoinCheck(result string) {
	joinChecksTotal.WithLabelValues(result).Inc()
}

func IncAuditFailure() {
	auditFailuresTotal.Inc()
}
