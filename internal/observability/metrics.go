package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the controller's counters. All methods are nil-safe so
// tests can run components without a registry.
type Metrics struct {
	readingsTotal   *prometheus.CounterVec
	malformedTotal  prometheus.Counter
	commandsTotal   *prometheus.CounterVec
	suppressedTotal *prometheus.CounterVec
	alertsTotal     *prometheus.CounterVec
	dispatchErrors  prometheus.Counter
	persistErrors   prometheus.Counter
	breakerState    *prometheus.GaugeVec
	info            *prometheus.GaugeVec
	evalDuration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		readingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "controller_readings_total",
			Help: "Sensor readings ingested, by variable.",
		}, []string{"variable"}),
		malformedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "controller_readings_malformed_total",
			Help: "Sensor payloads rejected at decode.",
		}),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "controller_commands_total",
			Help: "Actuator commands published, by actuator and directive.",
		}, []string{"actuator", "directive"}),
		suppressedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "controller_commands_suppressed_total",
			Help: "Commands dropped because the directive matched the last dispatched one.",
		}, []string{"actuator"}),
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "controller_rule_alerts_total",
			Help: "Observability-only rule signals (no actuator action exists).",
		}, []string{"alert"}),
		dispatchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "controller_dispatch_errors_total",
			Help: "Command publishes that failed or were dropped.",
		}),
		persistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "controller_persist_errors_total",
			Help: "Asynchronous InfluxDB write errors.",
		}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "controller_breaker_state",
			Help: "Circuit breaker state gauge (0 closed, 1 half, 2 open).",
		}, []string{"name"}),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "controller_info",
			Help: "Static process labels; value is always 1.",
		}, []string{"profile"}),
		evalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "controller_evaluation_seconds",
			Help:    "Duration of one evaluation+reconciliation pass.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	prometheus.MustRegister(
		m.readingsTotal,
		m.malformedTotal,
		m.commandsTotal,
		m.suppressedTotal,
		m.alertsTotal,
		m.dispatchErrors,
		m.persistErrors,
		m.breakerState,
		m.info,
		m.evalDuration,
	)

	return m
}

// Handler serves the default registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) ReadingIngested(variable string) {
	if m == nil {
		return
	}
	m.readingsTotal.WithLabelValues(variable).Inc()
}

func (m *Metrics) ReadingMalformed() {
	if m == nil {
		return
	}
	m.malformedTotal.Inc()
}

func (m *Metrics) CommandPublished(actuator, directive string) {
	if m == nil {
		return
	}
	m.commandsTotal.WithLabelValues(actuator, directive).Inc()
}

func (m *Metrics) CommandSuppressed(actuator string) {
	if m == nil {
		return
	}
	m.suppressedTotal.WithLabelValues(actuator).Inc()
}

func (m *Metrics) Alert(kind string) {
	if m == nil {
		return
	}
	m.alertsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) DispatchError() {
	if m == nil {
		return
	}
	m.dispatchErrors.Inc()
}

func (m *Metrics) PersistError() {
	if m == nil {
		return
	}
	m.persistErrors.Inc()
}

func (m *Metrics) SetBreakerState(name string, state float64) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(state)
}

func (m *Metrics) SetProfile(name string) {
	if m == nil {
		return
	}
	m.info.WithLabelValues(name).Set(1)
}

func (m *Metrics) ObserveEvaluation(d time.Duration) {
	if m == nil {
		return
	}
	m.evalDuration.Observe(d.Seconds())
}
