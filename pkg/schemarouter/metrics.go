package schemarouter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK     = "ok"
	resultFailed = "failed"
)

var (
	metricsOnce sync.Once

	schemaSwitchesTotal *prometheus.CounterVec
	schemaResetsTotal   *prometheus.CounterVec
	connDiscardsTotal   prometheus.Counter
)

func initMetrics() {
	schemaSwitchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schemarouter_switches_total",
		Help: "Schema switches performed on connection acquire, by result.",
	}, []string{"result"})

	schemaResetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schemarouter_resets_total",
		Help: "Schema resets performed on connection release, by result.",
	}, []string{"result"})

	connDiscardsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schemarouter_connection_discards_total",
		Help: "Connections destroyed instead of being returned to the pool.",
	})

	for _, c := range []prometheus.Collector{schemaSwitchesTotal, schemaResetsTotal, connDiscardsTotal} {
		if err := prometheus.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}

func observeSwitch(result string) {
	metricsOnce.Do(initMetrics)
	schemaSwitchesTotal.WithLabelValues(result).Inc()
}

func observeReset(result string) {
	metricsOnce.Do(initMetrics)
	schemaResetsTotal.WithLabelValues(result).Inc()
}

func observeDiscard() {
	metricsOnce.Do(initMetrics)
	connDiscardsTotal.Inc()
}
