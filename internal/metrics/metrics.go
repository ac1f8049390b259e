package metrics

import (
	"bookingagg/internal/analyzer"
	"bookingagg/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for a booking analysis session.
type Metrics struct {
	// BookingsTotal counts intake outcomes by result (accepted, rejected).
	BookingsTotal *prometheus.CounterVec

	// MergedRanges is the number of spans after merging.
	MergedRanges prometheus.Gauge

	// BookedDays is the number of distinct booked dates.
	BookedDays prometheus.Gauge
}

// NewMetrics creates metrics under namespace and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bookings_total",
				Help:      "Count of entered bookings by result.",
			},
			[]string{"result"},
		),
		MergedRanges: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "merged_ranges",
				Help:      "Number of booking spans after merging.",
			},
		),
		BookedDays: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "booked_days",
				Help:      "Number of distinct booked dates.",
			},
		),
	}
}

// Subscribe counts intake events published on bus.
func (m *Metrics) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.BookingAccepted, func(events.Event) error {
		m.BookingsTotal.WithLabelValues("accepted").Inc()
		return nil
	})
	bus.Subscribe(events.BookingRejected, func(events.Event) error {
		m.BookingsTotal.WithLabelValues("rejected").Inc()
		return nil
	})
}

// ObserveReport records the outcome of an analysis.
func (m *Metrics) ObserveReport(rep analyzer.Report) {
	m.MergedRanges.Set(float64(len(rep.Merged)))
	m.BookedDays.Set(float64(analyzer.BookedDays(rep.Merged)))
}
