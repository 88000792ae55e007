package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration *prometheus.HistogramVec

	CreditsConsumedTotal  prometheus.Counter
	CreditPermissionSkips prometheus.Counter
	NotificationsTotal    *prometheus.CounterVec
	RateLimitHitsTotal    prometheus.Counter
	PagesActive           prometheus.Gauge
}

// New регистрирует метрики в reg; nil - дефолтный регистр
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "breachsearch_http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "breachsearch_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"route"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "breachsearch_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		SearchRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "breachsearch_search_requests_total",
				Help: "Total number of search backend requests",
			},
			[]string{"status"},
		),
		SearchRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "breachsearch_search_request_duration_seconds",
				Help:    "Search backend request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{},
		),

		CreditsConsumedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "breachsearch_credits_consumed_total",
				Help: "Total number of search credits consumed",
			},
		),
		CreditPermissionSkips: f.NewCounter(
			prometheus.CounterOpts{
				Name: "breachsearch_credit_permission_skips_total",
				Help: "Credit consumptions skipped because the store denied permission",
			},
		),
		NotificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "breachsearch_notifications_total",
				Help: "Notifications shown to users",
			},
			[]string{"level"},
		),
		RateLimitHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "breachsearch_rate_limit_hits_total",
				Help: "Total number of rate limited page submissions",
			},
		),
		PagesActive: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "breachsearch_pages_active",
				Help: "Number of mounted search pages",
			},
		),
	}
}

func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(route string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) RecordSearchRequest(status string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(status).Inc()
	m.SearchRequestDuration.WithLabelValues().Observe(duration.Seconds())
}

func (m *Metrics) RecordCreditConsumed(amount int) {
	m.CreditsConsumedTotal.Add(float64(amount))
}

func (m *Metrics) RecordCreditPermissionSkip() {
	m.CreditPermissionSkips.Inc()
}

func (m *Metrics) RecordNotification(level string) {
	m.NotificationsTotal.WithLabelValues(level).Inc()
}

func (m *Metrics) RecordRateLimitHit() {
	m.RateLimitHitsTotal.Inc()
}

func (m *Metrics) SetPagesActive(n int) {
	m.PagesActive.Set(float64(n))
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
