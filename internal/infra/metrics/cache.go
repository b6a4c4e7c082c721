package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(sessionLookupsTotal) }

var sessionLookupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "session_lookups_total",
		Help: "Conversation state lookups by store and result.",
	},
	[]string{"store", "result"}, // e.g., store="memory", result="hit"
)

func IncSessionLookup(store, result string) {
	sessionLookupsTotal.WithLabelValues(norm(store), norm(result)).Inc()
}
