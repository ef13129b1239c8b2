package observability

import (
	"errors"

	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by EvaluationHooks.
type Metrics struct {
	Evaluations *prometheus.CounterVec
	Violations  *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	Duration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jsonpattern_evaluations_total",
				Help: "Total number of completed evaluations",
			},
			[]string{"schema", "outcome"},
		),
		Violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jsonpattern_violations_total",
				Help: "Total number of violations found",
			},
			[]string{"schema", "kind"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jsonpattern_failures_total",
				Help: "Total number of evaluations aborted by an error",
			},
			[]string{"reason"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "jsonpattern_evaluation_duration_seconds",
				Help:    "Duration of evaluations",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
	}

	for _, c := range []prometheus.Collector{m.Evaluations, m.Violations, m.Failures, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns evaluation hooks recording into m.
func (m *Metrics) Hooks() domain.EvaluationHooks {
	return domain.EvaluationHooks{
		OnEvaluate: func(e *domain.EvaluationEvent) {
			r := e.Report
			schema := r.Schema
			if schema == "" {
				schema = "inline"
			}

			outcome := "ok"
			if !r.OK {
				outcome = "invalid"
			}
			m.Evaluations.WithLabelValues(schema, outcome).Inc()

			for _, v := range r.Violations {
				m.Violations.WithLabelValues(schema, string(v.Kind)).Inc()
			}
			m.Duration.Observe(r.Duration.Seconds())
		},
		OnFailure: func(e *domain.FailureEvent) {
			m.Failures.WithLabelValues(Reason(e.Err)).Inc()
		},
	}
}

// Reason classifies an evaluation error into a low-cardinality label.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoSchema):
		return "no_schema"
	case errors.Is(err, domain.ErrUnknownDatatype):
		return "unknown_datatype"
	case errors.Is(err, domain.ErrSchemaFormat), errors.Is(err, domain.ErrSchemaTooDeep):
		return "schema_format"
	case errors.Is(err, domain.ErrDocumentFormat):
		return "document_format"
	default:
		return "other"
	}
}
