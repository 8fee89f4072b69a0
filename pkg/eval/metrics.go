package eval

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are the evaluation counters of one Context. They are registered
// on the Context's own registerer so several contexts can coexist.
type metrics struct {
	sweeps            prometheus.Counter
	flushes           prometheus.Counter
	recursionFailures prometheus.Counter
	primitiveBuilds   prometheus.Counter
	booleanOps        *prometheus.CounterVec
	nodeErrors        prometheus.Counter
	solids            prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		sweeps: f.NewCounter(prometheus.CounterOpts{
			Name: "csg_eval_sweeps_total",
			Help: "Total evaluation sweeps started",
		}),
		flushes: f.NewCounter(prometheus.CounterOpts{
			Name: "csg_eval_flushes_total",
			Help: "Sweeps that discarded the whole solid cache",
		}),
		recursionFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "csg_eval_recursion_failures_total",
			Help: "Unbounded recursion failures reported by the boolean engine",
		}),
		primitiveBuilds: f.NewCounter(prometheus.CounterOpts{
			Name: "csg_eval_primitive_builds_total",
			Help: "Primitive solids built",
		}),
		booleanOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "csg_eval_boolean_ops_total",
			Help: "Boolean operations computed by kind",
		}, []string{"op"}),
		nodeErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "csg_eval_node_errors_total",
			Help: "Nodes whose evaluation failed and produced no geometry",
		}),
		solids: f.NewGauge(prometheus.GaugeOpts{
			Name: "csg_eval_cached_solids",
			Help: "Solids currently held in the cache",
		}),
	}
}
