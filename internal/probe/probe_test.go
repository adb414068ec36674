package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goodtune/apptime/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRunner(out string, err error, calls *int) Runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if calls != nil {
			*calls++
		}
		return []byte(out), err
	}
}

func TestCommandProbe(t *testing.T) {
	tests := []struct {
		name   string
		out    string
		err    error
		want   string
		wantOK bool
	}{
		{"trims output", "  Terminal\n", nil, "Terminal", true},
		{"empty output is none", "\n", nil, "", false},
		{"command error is none", "", errors.New("exit status 1"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewCommandProbe([]string{"focus"}, fixedRunner(tt.out, tt.err, nil), time.Second, zerolog.Nop())
			got, ok := p.ActiveApp(context.Background())
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandProbeTimeout(t *testing.T) {
	slow := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	p := NewCommandProbe([]string{"slow"}, slow, 10*time.Millisecond, zerolog.Nop())
	_, ok := p.ActiveApp(context.Background())
	assert.False(t, ok)
}

func TestPIDProbeResolvesAndCaches(t *testing.T) {
	procRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(procRoot, "4242"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(procRoot, "4242", "comm"), []byte("firefox\n"), 0644))

	calls := 0
	p, err := NewPIDProbe([]string{"xdotool"}, fixedRunner("4242\n", nil, &calls), time.Second,
		PIDProbeOptions{ProcRoot: procRoot, CacheSize: 8, CacheTTL: time.Minute}, zerolog.Nop())
	require.NoError(t, err)

	name, ok := p.ActiveApp(context.Background())
	require.True(t, ok)
	assert.Equal(t, "firefox", name)

	// The cached name survives the process entry disappearing.
	require.NoError(t, os.RemoveAll(filepath.Join(procRoot, "4242")))
	name, ok = p.ActiveApp(context.Background())
	require.True(t, ok)
	assert.Equal(t, "firefox", name)
	assert.Equal(t, 2, calls)
}

func TestPIDProbeUnknownPID(t *testing.T) {
	p, err := NewPIDProbe([]string{"xdotool"}, fixedRunner("999\n", nil, nil), time.Second,
		PIDProbeOptions{ProcRoot: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)

	_, ok := p.ActiveApp(context.Background())
	assert.False(t, ok)
}

func TestPIDProbeGarbageOutput(t *testing.T) {
	p, err := NewPIDProbe([]string{"xdotool"}, fixedRunner("no window\n", nil, nil), time.Second,
		PIDProbeOptions{ProcRoot: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)

	_, ok := p.ActiveApp(context.Background())
	assert.False(t, ok)
}

func TestNewForPlatform(t *testing.T) {
	runner := fixedRunner("App", nil, nil)

	tests := []struct {
		name    string
		cfg     config.ProbeConfig
		goos    string
		want    any
		wantErr bool
	}{
		{"darwin auto", config.ProbeConfig{Kind: "auto"}, "darwin", &CommandProbe{}, false},
		{"linux auto", config.ProbeConfig{Kind: "auto"}, "linux", &PIDProbe{}, false},
		{"windows auto", config.ProbeConfig{Kind: "auto"}, "windows", Unsupported{}, false},
		{"none", config.ProbeConfig{Kind: "none"}, "darwin", Unsupported{}, false},
		{"command", config.ProbeConfig{Kind: "command", Command: []string{"echo", "x"}}, "linux", &CommandProbe{}, false},
		{"command without argv", config.ProbeConfig{Kind: "command"}, "linux", nil, true},
		{"unknown kind", config.ProbeConfig{Kind: "magic"}, "linux", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := newForPlatform(tt.cfg, tt.goos, runner, zerolog.Nop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
		})
	}
}

func TestFuncProbe(t *testing.T) {
	p := Func(func(context.Context) (string, bool) { return "Editor", true })
	name, ok := p.ActiveApp(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "Editor", name)
}
