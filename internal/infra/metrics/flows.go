package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(conversationFlowsTotal) }

var conversationFlowsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conversation_flows_total",
		Help: "Input flow steps by flow and outcome.",
	},
	[]string{"flow", "outcome"}, // e.g., flow="awaiting_ratio", outcome="invalid_input"
)

func IncFlow(flow, outcome string) {
	conversationFlowsTotal.WithLabelValues(norm(flow), norm(outcome)).Inc()
}
