package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymsyncpro_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymsyncpro_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	QRCodesGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymsyncpro_qr_codes_generated_total",
			Help: "Total number of one-time QR codes generated",
		},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymsyncpro_checkins_total",
			Help: "Total number of check-in attempts",
		},
		[]string{"result"},
	)

	ClassBookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymsyncpro_class_bookings_total",
			Help: "Total number of class bookings",
		},
		[]string{"status"},
	)

	PtBookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymsyncpro_pt_bookings_total",
			Help: "Total number of personal trainer bookings",
		},
		[]string{"status"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymsyncpro_payments_total",
			Help: "Total number of payments",
		},
		[]string{"status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymsyncpro_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymsyncpro_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	MembershipsAssignedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymsyncpro_memberships_assigned_total",
			Help: "Total number of memberships assigned",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordQRGenerated() {
	QRCodesGeneratedTotal.Inc()
}

func RecordCheckIn(result string) {
	CheckInsTotal.WithLabelValues(result).Inc()
}

func RecordClassBooking(status string) {
	ClassBookingsTotal.WithLabelValues(status).Inc()
}

func RecordPtBooking(status string) {
	PtBookingsTotal.WithLabelValues(status).Inc()
}

func RecordPayment(status string) {
	PaymentsTotal.WithLabelValues(status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordMembershipAssigned() {
	MembershipsAssignedTotal.Inc()
}
