// Package probe reports which application currently has input focus.
//
// Every variant answers with an optional name: failures, timeouts and
// unsupported platforms all mean "no application", never an error.
package probe

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/goodtune/apptime/internal/config"
	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds a single probe command.
	DefaultTimeout = 2 * time.Second

	// DefaultCacheSize is the number of pid -> name entries kept.
	DefaultCacheSize = 256

	// DefaultCacheTTL is how long a pid -> name entry is trusted.
	DefaultCacheTTL = 5 * time.Minute
)

// Probe returns the focused application's name, or false when unknown.
type Probe interface {
	ActiveApp(ctx context.Context) (string, bool)
}

// Func adapts a plain function to the Probe interface.
type Func func(ctx context.Context) (string, bool)

// ActiveApp calls f.
func (f Func) ActiveApp(ctx context.Context) (string, bool) {
	return f(ctx)
}

// Unsupported is the probe for hosts without a focus query.
type Unsupported struct{}

// ActiveApp always reports no application.
func (Unsupported) ActiveApp(context.Context) (string, bool) {
	return "", false
}

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// macOSCommand asks System Events for the frontmost process name.
var macOSCommand = []string{
	"osascript", "-e",
	`tell application "System Events" to get name of first application process whose frontmost is true`,
}

// linuxCommand prints the pid owning the active X11 window.
var linuxCommand = []string{"xdotool", "getactivewindow", "getwindowpid"}

// New builds the probe selected by cfg for the current host.
func New(cfg config.ProbeConfig, logger zerolog.Logger) (Probe, error) {
	return newForPlatform(cfg, runtime.GOOS, ExecRunner, logger)
}

func newForPlatform(cfg config.ProbeConfig, goos string, runner Runner, logger zerolog.Logger) (Probe, error) {
	logger = logger.With().Str("component", "probe").Logger()
	timeout := parseDuration(cfg.Timeout, DefaultTimeout)

	switch cfg.Kind {
	case "none":
		return Unsupported{}, nil
	case "command":
		if len(cfg.Command) == 0 {
			return nil, fmt.Errorf("probe command is empty")
		}
		return NewCommandProbe(cfg.Command, runner, timeout, logger), nil
	case "", "auto":
	default:
		return nil, fmt.Errorf("unsupported probe kind: %s", cfg.Kind)
	}

	switch goos {
	case "darwin":
		return NewCommandProbe(macOSCommand, runner, timeout, logger), nil
	case "linux":
		return NewPIDProbe(linuxCommand, runner, timeout, PIDProbeOptions{
			CacheSize: cfg.CacheSize,
			CacheTTL:  parseDuration(cfg.CacheTTL, DefaultCacheTTL),
		}, logger)
	default:
		logger.Warn().Str("os", goos).Msg("No focus probe for this platform, activity will not be credited")
		return Unsupported{}, nil
	}
}

// CommandProbe runs a command whose trimmed output is the application name.
type CommandProbe struct {
	argv    []string
	runner  Runner
	timeout time.Duration
	logger  zerolog.Logger
}

// NewCommandProbe creates a probe around argv.
func NewCommandProbe(argv []string, runner Runner, timeout time.Duration, logger zerolog.Logger) *CommandProbe {
	if runner == nil {
		runner = ExecRunner
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CommandProbe{
		argv:    append([]string(nil), argv...),
		runner:  runner,
		timeout: timeout,
		logger:  logger,
	}
}

// ActiveApp runs the command and returns its output.
func (p *CommandProbe) ActiveApp(ctx context.Context) (string, bool) {
	out, ok := run(ctx, p.runner, p.timeout, p.argv, p.logger)
	if !ok {
		return "", false
	}
	name := strings.TrimSpace(out)
	if name == "" {
		return "", false
	}
	return name, true
}

func run(ctx context.Context, runner Runner, timeout time.Duration, argv []string, logger zerolog.Logger) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := runner(ctx, argv[0], argv[1:]...)
	if err != nil {
		logger.Debug().Err(err).Str("command", argv[0]).Msg("Focus probe command failed")
		return "", false
	}
	return string(out), true
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
