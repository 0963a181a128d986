package resilience

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// BreakerState is 0=closed, 1=open, 2=half-open per target.
	BreakerState *prometheus.GaugeVec
	// BreakerTransitions counts state transitions per target.
	BreakerTransitions *prometheus.CounterVec
	// OutboundAttemptsTotal counts outbound HTTP attempts per target and outcome.
	OutboundAttemptsTotal *prometheus.CounterVec
)

// RegisterMetrics creates and registers the breaker collectors. Calling it
// again with the same registerer reuses the existing collectors.
func RegisterMetrics(namespace string, reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	state := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "breaker_state",
		Help:      "Current breaker state: 0=closed,1=open,2=half-open",
	}, []string{"target"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "breaker_transition_total",
		Help:      "Count of breaker state transitions",
	}, []string{"target", "from", "to"})
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbound_http_attempts_total",
		Help:      "Outbound HTTP attempts by target and outcome.",
	}, []string{"target", "outcome"})

	BreakerState = register(reg, state)
	BreakerTransitions = register(reg, transitions)
	OutboundAttemptsTotal = register(reg, attempts)
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register resilience metric: %w", err))
	}
	return c
}
