// Package metrics defines the Prometheus collectors for the yard register API.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RegistrationsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yard_registrations_created_total",
			Help: "Total number of registrations created",
		},
	)

	RegistrationsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yard_registrations_rejected_total",
			Help: "Total number of registration drafts rejected by validation",
		},
	)

	DuplicatePlateWarningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yard_duplicate_plate_warnings_total",
			Help: "Total number of creations that raised a duplicate-plate-on-site warning",
		},
	)

	DeparturesRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yard_departures_recorded_total",
			Help: "Total number of departures recorded",
		},
	)

	ReportRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yard_report_render_duration_seconds",
			Help:    "Duration of PDF report rendering",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all collectors with the default registry.
// Call once from main before serving /metrics.
func Register() {
	prometheus.MustRegister(RegistrationsCreatedTotal)
	prometheus.MustRegister(RegistrationsRejectedTotal)
	prometheus.MustRegister(DuplicatePlateWarningsTotal)
	prometheus.MustRegister(DeparturesRecordedTotal)
	prometheus.MustRegister(ReportRenderDuration)
}
