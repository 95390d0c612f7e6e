// Package metrics exposes Prometheus counters for role gate decisions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DecisionAllowed = "allowed"
	DecisionDenied  = "denied"
)

// GateMetrics đếm số lần role gate cho phép / từ chối theo tên gate
type GateMetrics struct {
	decisions *prometheus.CounterVec
}

// NewGateMetrics tạo và đăng ký counter vào registerer
func NewGateMetrics(reg prometheus.Registerer) *GateMetrics {
	m := &GateMetrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rolekit_gate_decisions_total",
				Help: "Total role gate decisions by gate and outcome.",
			},
			[]string{"gate", "decision"},
		),
	}
	reg.MustRegister(m.decisions)
	return m
}

// Observe ghi nhận một quyết định, an toàn khi m là nil
func (m *GateMetrics) Observe(gate string, allowed bool) {
	if m == nil {
		return
	}
	decision := DecisionDenied
	if allowed {
		decision = DecisionAllowed
	}
	m.decisions.WithLabelValues(gate, decision).Inc()
}

// Count trả về counter của một gate/decision
func (m *GateMetrics) Count(gate, decision string) prometheus.Counter {
	return m.decisions.WithLabelValues(gate, decision)
}
