package api

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Server is the activity query HTTP server.
type Server struct {
	server   *http.Server
	router   *mux.Router
	logger   zerolog.Logger
	listener net.Listener // Optional pre-created listener (for systemd socket activation)
}

// NewServer creates a new API server.
func NewServer(addr string, ledger Ledger, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "api").Logger()

	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
	}
	s.setupRoutes(NewActivityHandler(ledger, logger))

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(activity *ActivityHandler) {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api/activity").Subrouter()
	api.HandleFunc("/stats", activity.Stats).Methods("GET")
	api.HandleFunc("/sample", activity.Sample).Methods("POST")
	api.HandleFunc("/reset", activity.Reset).Methods("POST")
	api.HandleFunc("/history", activity.ListDays).Methods("GET")
	api.HandleFunc("/history/{day:[0-9]+}", activity.GetDay).Methods("GET")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetListener sets a pre-created listener for systemd socket activation
func (s *Server) SetListener(ln net.Listener) {
	s.listener = ln
}

// Start starts the API server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting API server")
	go func() {
		var err error
		if s.listener != nil {
			s.logger.Debug().Msg("Using systemd socket-activated API listener")
			err = s.server.Serve(s.listener)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("API server error")
		}
	}()
	return nil
}

// Stop stops the API server
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping API server")
	return s.server.Close()
}
