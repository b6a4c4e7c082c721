package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(buildInfo)
}

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A constant metric with labels for version, commit and session store.",
	},
	[]string{"version", "commit", "session_store"},
)

func SetBuildInfo(version, commit, sessionStore string) {
	buildInfo.WithLabelValues(version, commit, sessionStore).Set(1)
}
