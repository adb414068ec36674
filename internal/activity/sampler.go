package activity

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSampleInterval is the cadence MaxCredit is sized for.
const DefaultSampleInterval = 60 * time.Second

// Sampler drives Ledger.Sample on a fixed interval.
type Sampler struct {
	ledger   *Ledger
	interval time.Duration
	logger   zerolog.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// NewSampler creates a sampler for the ledger.
func NewSampler(ledger *Ledger, interval time.Duration, logger zerolog.Logger) *Sampler {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Sampler{
		ledger:   ledger,
		interval: interval,
		logger:   logger.With().Str("component", "sampler").Logger(),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins sampling in the background.
func (s *Sampler) Start() {
	go s.run()
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("Activity sampler started")
}

// Stop halts sampling and waits for an in-flight sample to finish.
func (s *Sampler) Stop() {
	close(s.stopChan)
	<-s.done
	s.logger.Info().Msg("Activity sampler stopped")
}

func (s *Sampler) run() {
	defer close(s.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			return
		}
	}
}

func (s *Sampler) tick(ctx context.Context) {
	app, ok, err := s.ledger.Sample(ctx)
	if err != nil {
		// Retried on the next tick.
		s.logger.Error().Err(err).Msg("Activity sample failed")
		return
	}
	if !ok {
		s.logger.Debug().Msg("No focused application")
		return
	}
	s.logger.Debug().Str("app", app).Msg("Sampled focused application")
}
