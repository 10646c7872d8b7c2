package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Recorder = (*Metrics)(nil)

// Metrics holds the Prometheus collectors of the service. They are
// registered on a private registry so several instances can coexist in one
// process, as they do in tests.
type Metrics struct {
	registry *prometheus.Registry

	LoginsTotal          *prometheus.CounterVec
	TokensIssuedTotal    *prometheus.CounterVec
	TokensRevokedTotal   prometheus.Counter
	RefreshesTotal       *prometheus.CounterVec
	PlaybackDeniedTotal  *prometheus.CounterVec
	WatchesRecordedTotal *prometheus.CounterVec

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// New returns a Recorder. When enabled is false it returns NoopMetrics.
func New(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}
	return NewMetrics()
}

// NewMetrics creates and registers all collectors, plus the Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		LoginsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelgate_logins_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"}, // success, invalid_credentials, validation, rate_limited, error
		),
		TokensIssuedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelgate_tokens_issued_total",
				Help: "Total number of tokens signed",
			},
			[]string{"scope"}, // session, refresh, playback
		),
		TokensRevokedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "reelgate_tokens_revoked_total",
				Help: "Total number of session tokens revoked by logout",
			},
		),
		RefreshesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelgate_token_refreshes_total",
				Help: "Total number of refresh attempts",
			},
			[]string{"result"}, // success, error
		),
		PlaybackDeniedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelgate_playback_denied_total",
				Help: "Total number of refused stream requests",
			},
			[]string{"reason"},
		),
		WatchesRecordedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelgate_watches_recorded_total",
				Help: "Total number of watch events written",
			},
			[]string{"result"}, // success, error
		),

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func result(success bool) string {
	if success {
		return resultSuccess
	}
	return resultError
}

func (m *Metrics) RecordLogin(result string)      { m.LoginsTotal.WithLabelValues(result).Inc() }
func (m *Metrics) RecordTokenIssued(scope string) { m.TokensIssuedTotal.WithLabelValues(scope).Inc() }
func (m *Metrics) RecordTokenRevoked()            { m.TokensRevokedTotal.Inc() }
func (m *Metrics) RecordRefresh(success bool)     { m.RefreshesTotal.WithLabelValues(result(success)).Inc() }
func (m *Metrics) RecordWatch(success bool)       { m.WatchesRecordedTotal.WithLabelValues(result(success)).Inc() }

func (m *Metrics) RecordPlaybackDenied(reason string) {
	m.PlaybackDeniedTotal.WithLabelValues(reason).Inc()
}
