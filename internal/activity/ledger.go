package activity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/goodtune/apptime/internal/clock"
	"github.com/goodtune/apptime/internal/metrics"
	"github.com/goodtune/apptime/internal/probe"
	"github.com/goodtune/apptime/internal/storage"
	"github.com/rs/zerolog"
)

const (
	// MaxCredit is the most a single sample can add to any counter: 1.5x the
	// expected 60s sampling period, so a late tick still counts in full while
	// a suspended process cannot credit hours at once.
	MaxCredit int64 = 90

	// DefaultSaveTimeout bounds one snapshot save.
	DefaultSaveTimeout = 5 * time.Second
)

var (
	// ErrClock is returned when the clock reads before the Unix epoch.
	ErrClock = errors.New("activity: clock reads before unix epoch")

	// ErrPoisoned is returned once an operation has panicked while holding
	// the ledger state; the state can no longer be trusted.
	ErrPoisoned = errors.New("activity: ledger state poisoned")
)

// Options configures a Ledger.
type Options struct {
	Store       storage.SnapshotStore // nil disables persistence
	Clock       clock.Clock
	Probe       probe.Probe
	SaveTimeout time.Duration
}

// Ledger accounts focus time per application.
//
// stateMu guards the snapshot; cursorMu guards the sampling cursor. When both
// are held, stateMu is taken first.
type Ledger struct {
	store       storage.SnapshotStore
	clock       clock.Clock
	probe       probe.Probe
	saveTimeout time.Duration
	logger      zerolog.Logger

	sampleMu sync.Mutex

	stateMu  sync.Mutex
	state    *storage.Snapshot
	seq      uint64
	poisoned bool

	cursorMu   sync.Mutex
	lastCheck  int64
	currentApp string
	hasCurrent bool

	persistMu sync.Mutex
	savedSeq  uint64
}

// NewLedger creates a ledger, restoring the last saved snapshot if any.
// A missing or unreadable snapshot starts an empty ledger.
func NewLedger(ctx context.Context, opts Options, logger zerolog.Logger) *Ledger {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Probe == nil {
		opts.Probe = probe.Unsupported{}
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = DefaultSaveTimeout
	}

	l := &Ledger{
		store:       opts.Store,
		clock:       opts.Clock,
		probe:       opts.Probe,
		saveTimeout: opts.SaveTimeout,
		logger:      logger.With().Str("component", "activity-ledger").Logger(),
		state:       storage.NewSnapshot(),
	}

	if l.store != nil {
		snap, err := l.store.Load(ctx)
		switch {
		case err == nil:
			snap.Normalize()
			l.state = snap
			l.logger.Info().
				Str("today_date", snap.TodayDate).
				Uint64("total_today", snap.TotalToday).
				Int("history_days", len(snap.History)).
				Msg("Restored activity snapshot")
		case errors.Is(err, storage.ErrNotFound):
			l.logger.Info().Msg("No activity snapshot found, starting empty")
		default:
			l.logger.Error().Err(err).Msg("Failed to load activity snapshot, starting empty")
		}
	}

	if now := l.clock.Now().Unix(); now > 0 {
		l.lastCheck = now
	}

	updateGauges(l.state)
	return l
}

// Sample probes the focused application and credits the time elapsed since
// the previous sample to it. It returns the probed name, if any.
func (l *Ledger) Sample(ctx context.Context) (string, bool, error) {
	l.sampleMu.Lock()
	defer l.sampleMu.Unlock()

	now, err := l.now()
	if err != nil {
		metrics.SamplesTotal.WithLabelValues("error").Inc()
		return "", false, err
	}
	todayID := dayID(now)

	app, ok := l.probe.ActiveApp(ctx)

	var (
		snap    storage.Snapshot
		seq     uint64
		counted int64
	)
	err = l.withState(func(s *storage.Snapshot) error {
		if s.TodayDate != todayID {
			if s.TodayDate != "" {
				l.logger.Info().
					Str("from", s.TodayDate).
					Str("to", todayID).
					Uint64("total_seconds", s.TotalToday).
					Msg("Day changed, archiving activity")
				archive(s)
				s.SessionStart = uint64(now)
				metrics.Rollovers.WithLabelValues("day_change").Inc()
			}
			s.TodayDate = todayID
		}

		if s.SessionStart == 0 {
			s.SessionStart = uint64(now)
		}

		l.cursorMu.Lock()
		elapsed := now - l.lastCheck
		l.lastCheck = now
		if ok {
			l.currentApp = app
			l.hasCurrent = true
		}
		l.cursorMu.Unlock()

		if elapsed < 0 {
			elapsed = 0
		}
		counted = elapsed
		if counted > MaxCredit {
			counted = MaxCredit
			metrics.ClampedSamples.Inc()
		}

		if ok {
			s.Today[app] += uint64(counted)
			s.AllTime[app] += uint64(counted)
			s.TotalToday += uint64(counted)
			s.LastSeen[app] = uint64(now)
		}

		l.seq++
		seq = l.seq
		snap = s.Clone()
		return nil
	})
	if err != nil {
		metrics.SamplesTotal.WithLabelValues("error").Inc()
		return "", false, err
	}

	if ok {
		metrics.SamplesTotal.WithLabelValues("app").Inc()
		metrics.SecondsCredited.WithLabelValues(app).Add(float64(counted))
		l.logger.Debug().Str("app", app).Int64("credited", counted).Msg("Activity sampled")
	} else {
		metrics.SamplesTotal.WithLabelValues("none").Inc()
	}
	updateGauges(&snap)

	l.persist(ctx, seq, snap)
	return app, ok, nil
}

// ResetToday archives today's counters under the current day and clears
// them. The day identifier and all-time counters are left alone.
func (l *Ledger) ResetToday(ctx context.Context) error {
	now, err := l.now()
	if err != nil {
		return err
	}

	var (
		snap storage.Snapshot
		seq  uint64
	)
	err = l.withState(func(s *storage.Snapshot) error {
		if s.TodayDate != "" {
			archive(s)
		} else {
			s.Today = make(map[string]uint64)
			s.TotalToday = 0
		}
		s.SessionStart = uint64(now)

		l.seq++
		seq = l.seq
		snap = s.Clone()
		return nil
	})
	if err != nil {
		return err
	}

	metrics.Rollovers.WithLabelValues("reset").Inc()
	updateGauges(&snap)
	l.logger.Info().Str("today_date", snap.TodayDate).Msg("Today's activity reset")

	l.persist(ctx, seq, snap)
	return nil
}

// Snapshot returns a deep copy of the ledger state.
func (l *Ledger) Snapshot() (storage.Snapshot, error) {
	var snap storage.Snapshot
	err := l.withState(func(s *storage.Snapshot) error {
		snap = s.Clone()
		return nil
	})
	return snap, err
}

// CurrentApp returns the most recently observed focused application.
func (l *Ledger) CurrentApp() (string, bool) {
	l.cursorMu.Lock()
	defer l.cursorMu.Unlock()
	return l.currentApp, l.hasCurrent
}

// withState runs fn with the state lock held. A panic inside fn poisons the
// ledger before it propagates.
func (l *Ledger) withState(fn func(s *storage.Snapshot) error) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()

	if l.poisoned {
		return ErrPoisoned
	}

	defer func() {
		if r := recover(); r != nil {
			l.poisoned = true
			panic(r)
		}
	}()

	return fn(l.state)
}

// persist saves snap unless a newer snapshot has already been written.
// Failures are logged and counted, never returned.
func (l *Ledger) persist(ctx context.Context, seq uint64, snap storage.Snapshot) {
	if l.store == nil {
		return
	}

	l.persistMu.Lock()
	defer l.persistMu.Unlock()

	if seq <= l.savedSeq {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.saveTimeout)
	defer cancel()

	start := time.Now()
	err := l.store.Save(ctx, snap)
	metrics.PersistDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.PersistFailures.Inc()
		l.logger.Error().Err(err).Uint64("seq", seq).Msg("Failed to save activity snapshot")
		return
	}
	l.savedSeq = seq
}

func (l *Ledger) now() (int64, error) {
	t := l.clock.Now()
	now := t.Unix()
	if now < 0 {
		return 0, fmt.Errorf("%w: %s", ErrClock, t.UTC().Format(time.RFC3339))
	}
	return now, nil
}

// archive moves today's counters into history under the current day.
func archive(s *storage.Snapshot) {
	s.History[s.TodayDate] = storage.CopyCounters(s.Today)
	s.Today = make(map[string]uint64)
	s.TotalToday = 0
}

func dayID(unix int64) string {
	return strconv.FormatInt(clock.EpochDay(unix), 10)
}

func updateGauges(s *storage.Snapshot) {
	metrics.TodaySeconds.Set(float64(s.TotalToday))
	metrics.TrackedApps.Set(float64(len(s.AllTime)))
}
