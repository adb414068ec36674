package metrics

import (
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestServerServesMetrics(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := NewServer(ln.Addr().String(), zerolog.Nop())
	s.SetListener(ln)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = s.Stop() }()

	Rollovers.WithLabelValues("reset").Inc()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `apptime_rollovers_total{reason="reset"}`) {
		t.Errorf("rollover counter missing from /metrics output")
	}

	health, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("expected health 200, got %d", health.StatusCode)
	}
}

func TestGaugesSettable(t *testing.T) {
	TodaySeconds.Set(120)
	TrackedApps.Set(3)

	if got := testutil.ToFloat64(TodaySeconds); got != 120 {
		t.Errorf("expected today seconds 120, got %v", got)
	}
	if got := testutil.ToFloat64(TrackedApps); got != 3 {
		t.Errorf("expected tracked apps 3, got %v", got)
	}
}
