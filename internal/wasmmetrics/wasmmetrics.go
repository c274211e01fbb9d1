// Package wasmmetrics provides a Prometheus-backed Introspector
// implementation: counters for modules validated, function bodies
// compiled, imports resolved, and traps raised, registered the way grafana-k6's exporter builds plain
// prometheus.Counter/CounterVec values rather than promauto helpers.
package wasmmetrics

import "github.com/prometheus/client_golang/prometheus"

// Introspector records module/function/trap counts as Prometheus
// counters. Call Register against a prometheus.Registerer to expose
// them over /metrics.
type Introspector struct {
	modulesCompiled  prometheus.Counter
	functionsLinked  prometheus.Counter
	importsResolved  prometheus.Counter
	traps            *prometheus.CounterVec
}

// New builds an Introspector with its own counters, unregistered.
// Call Register to attach them to a prometheus.Registerer.
func New(namespace string) *Introspector {
	return &Introspector{
		modulesCompiled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "modules_validated_total",
			Help:      "Number of modules that passed static validation.",
		}),
		functionsLinked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "functions_compiled_total",
			Help:      "Number of function bodies lowered to internal bytecode.",
		}),
		importsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_resolved_total",
			Help:      "Number of cross-module imports resolved during linking.",
		}),
		traps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traps_total",
			Help:      "Number of runtime traps raised, by function.",
		}, []string{"module", "function"}),
	}
}

// Register attaches every counter to reg.
func (i *Introspector) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{i.modulesCompiled, i.functionsLinked, i.importsResolved, i.traps} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (i *Introspector) OnModuleDecoded(string) {}

func (i *Introspector) OnModuleValidated(string) {
	i.modulesCompiled.Inc()
}

func (i *Introspector) OnLink(_, _, _ string) {
	i.importsResolved.Inc()
}

func (i *Introspector) OnCompile(moduleName, _ string) {
	i.functionsLinked.Inc()
}

func (i *Introspector) OnTrap(moduleName, functionName string, _ error) {
	i.traps.WithLabelValues(moduleName, functionName).Inc()
}
