package metrics

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// Sampling metrics
	SamplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apptime_samples_total",
			Help: "Total activity samples taken, by outcome",
		},
		[]string{"result"}, // "app", "none", "error"
	)

	SecondsCredited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apptime_seconds_credited_total",
			Help: "Seconds of focus time credited to an application",
		},
		[]string{"app"},
	)

	ClampedSamples = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "apptime_clamped_samples_total",
			Help: "Samples whose elapsed time exceeded the per-sample ceiling",
		},
	)

	Rollovers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apptime_rollovers_total",
			Help: "Days archived into history",
		},
		[]string{"reason"}, // "day_change", "reset"
	)

	// Ledger gauges
	TodaySeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "apptime_today_seconds",
			Help: "Seconds tracked today across all applications",
		},
	)

	TrackedApps = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "apptime_tracked_apps",
			Help: "Number of distinct applications seen since tracking began",
		},
	)

	// Persistence metrics
	PersistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "apptime_persist_failures_total",
			Help: "Snapshot saves that failed",
		},
	)

	PersistDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "apptime_persist_duration_seconds",
			Help:    "Snapshot save duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(
		SamplesTotal,
		SecondsCredited,
		ClampedSamples,
		Rollovers,
		TodaySeconds,
		TrackedApps,
		PersistFailures,
		PersistDuration,
	)
}

// Server is the metrics HTTP server
type Server struct {
	server   *http.Server
	logger   zerolog.Logger
	listener net.Listener // Optional pre-created listener (for systemd socket activation)
}

// NewServer creates a new metrics server
func NewServer(addr string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

// SetListener sets a pre-created listener for systemd socket activation
func (s *Server) SetListener(ln net.Listener) {
	s.listener = ln
}

// Start starts the metrics server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting metrics server")
	go func() {
		var err error
		if s.listener != nil {
			s.logger.Debug().Msg("Using systemd socket-activated metrics listener")
			err = s.server.Serve(s.listener)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	return nil
}

// Stop stops the metrics server
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping metrics server")
	return s.server.Close()
}
