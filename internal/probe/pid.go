package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
)

// PIDProbeOptions tunes the pid -> name cache.
type PIDProbeOptions struct {
	CacheSize int
	CacheTTL  time.Duration
	// ProcRoot is the procfs mount, "/proc" when empty.
	ProcRoot string
}

// PIDProbe runs a command printing the focused window's pid and resolves the
// pid to a process name through procfs.
type PIDProbe struct {
	argv     []string
	runner   Runner
	timeout  time.Duration
	procRoot string
	names    *expirable.LRU[int, string]
	logger   zerolog.Logger
}

// NewPIDProbe creates a pid-resolving probe.
func NewPIDProbe(argv []string, runner Runner, timeout time.Duration, opts PIDProbeOptions, logger zerolog.Logger) (*PIDProbe, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("probe command is empty")
	}
	if runner == nil {
		runner = ExecRunner
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.ProcRoot == "" {
		opts.ProcRoot = "/proc"
	}

	return &PIDProbe{
		argv:     append([]string(nil), argv...),
		runner:   runner,
		timeout:  timeout,
		procRoot: opts.ProcRoot,
		names:    expirable.NewLRU[int, string](opts.CacheSize, nil, opts.CacheTTL),
		logger:   logger,
	}, nil
}

// ActiveApp returns the process name owning the focused window.
func (p *PIDProbe) ActiveApp(ctx context.Context) (string, bool) {
	out, ok := run(ctx, p.runner, p.timeout, p.argv, p.logger)
	if !ok {
		return "", false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil || pid <= 0 {
		p.logger.Debug().Str("output", out).Msg("Focus probe returned no pid")
		return "", false
	}

	if name, ok := p.names.Get(pid); ok {
		return name, true
	}

	name, err := p.processName(pid)
	if err != nil {
		p.logger.Debug().Err(err).Int("pid", pid).Msg("Failed to resolve process name")
		return "", false
	}

	p.names.Add(pid, name)
	return name, true
}

func (p *PIDProbe) processName(pid int) (string, error) {
	data, err := os.ReadFile(filepath.Join(p.procRoot, strconv.Itoa(pid), "comm"))
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", fmt.Errorf("empty comm for pid %d", pid)
	}
	return name, nil
}
