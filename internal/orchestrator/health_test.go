package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"metrics-orchestrator/internal/models"
)

// stubProber waits for delay (honoring the probe context) and then returns
// err. With ignoreCtx it sleeps through the deadline like a stuck upstream.
type stubProber struct {
	name      string
	delay     time.Duration
	err       error
	ignoreCtx bool
}

func (p *stubProber) Name() string { return p.name }

func (p *stubProber) Probe(ctx context.Context) error {
	if p.ignoreCtx {
		time.Sleep(p.delay)
		return p.err
	}
	select {
	case <-time.After(p.delay):
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func healthOrchestrator(probeTimeout, healthTimeout time.Duration, probers ...Prober) *Orchestrator {
	o := New(testLogger(), nil, nil, nil, nil, probers...)
	o.probeTimeout = probeTimeout
	o.healthTimeout = healthTimeout
	return o
}

func TestCheckServicesHealth_AllHealthy(t *testing.T) {
	o := healthOrchestrator(100*time.Millisecond, 500*time.Millisecond,
		&stubProber{name: models.ServiceUsers},
		&stubProber{name: models.ServiceAccounts},
		&stubProber{name: models.ServiceMetrics},
		&stubProber{name: models.ServiceDashboard},
	)

	health := o.CheckServicesHealth(context.Background())

	if len(health) != 4 {
		t.Fatalf("expected 4 services, got %d", len(health))
	}
	for svc, status := range health {
		if status != HealthHealthy {
			t.Errorf("expected %s healthy, got %q", svc, status)
		}
	}
}

func TestCheckServicesHealth_SlowProbeTimesOutAlone(t *testing.T) {
	o := healthOrchestrator(30*time.Millisecond, 500*time.Millisecond,
		&stubProber{name: models.ServiceUsers, delay: 200 * time.Millisecond},
		&stubProber{name: models.ServiceAccounts},
		&stubProber{name: models.ServiceMetrics},
		&stubProber{name: models.ServiceDashboard},
	)

	health := o.CheckServicesHealth(context.Background())

	if health[models.ServiceUsers] != HealthTimeout {
		t.Errorf("expected slow probe to time out, got %q", health[models.ServiceUsers])
	}
	for _, svc := range []string{models.ServiceAccounts, models.ServiceMetrics, models.ServiceDashboard} {
		if health[svc] != HealthHealthy {
			t.Errorf("expected %s unaffected, got %q", svc, health[svc])
		}
	}
}

func TestCheckServicesHealth_UnhealthyReasonTruncated(t *testing.T) {
	longErr := errors.New(strings.Repeat("x", 80))
	o := healthOrchestrator(100*time.Millisecond, 500*time.Millisecond,
		&stubProber{name: models.ServiceUsers, err: longErr},
	)

	health := o.CheckServicesHealth(context.Background())

	status := health[models.ServiceUsers]
	if !strings.HasPrefix(status, "unhealthy: ") {
		t.Fatalf("expected unhealthy status, got %q", status)
	}
	reason := strings.TrimPrefix(status, "unhealthy: ")
	if len(reason) != 50 {
		t.Errorf("expected reason truncated to 50 chars, got %d", len(reason))
	}
}

func TestCheckServicesHealth_OverallDeadlineFlattensEverything(t *testing.T) {
	// one probe answers instantly, one never notices its context; once the
	// overall deadline fires, both must read timeout
	o := healthOrchestrator(20*time.Millisecond, 60*time.Millisecond,
		&stubProber{name: models.ServiceUsers},
		&stubProber{name: models.ServiceAccounts, delay: 300 * time.Millisecond, ignoreCtx: true},
	)

	health := o.CheckServicesHealth(context.Background())

	if health[models.ServiceUsers] != HealthTimeout {
		t.Errorf("expected users flattened to timeout, got %q", health[models.ServiceUsers])
	}
	if health[models.ServiceAccounts] != HealthTimeout {
		t.Errorf("expected accounts timeout, got %q", health[models.ServiceAccounts])
	}
}

func TestProbeOne_TimeoutMapsFromDeadline(t *testing.T) {
	o := healthOrchestrator(20*time.Millisecond, 500*time.Millisecond)

	status := o.probeOne(context.Background(), &stubProber{name: "svc", delay: 200 * time.Millisecond})
	if status != HealthTimeout {
		t.Errorf("expected timeout, got %q", status)
	}
}
