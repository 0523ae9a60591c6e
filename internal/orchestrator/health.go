package orchestrator

import (
	"context"
	"errors"
	"time"

	"metrics-orchestrator/internal/models"
)

// Health statuses reported per service.
const (
	HealthHealthy = "healthy"
	HealthTimeout = "timeout"
)

const unhealthyReasonMax = 50

// Prober is the uniform liveness capability each service adapter implements:
// one lightweight representative call, no retries.
type Prober interface {
	Name() string
	Probe(ctx context.Context) error
}

// CheckServicesHealth probes every service concurrently. Each probe runs
// under its own short deadline; if the overall deadline elapses before all
// probes settle, every service reads "timeout" regardless of individual
// progress.
func (o *Orchestrator) CheckServicesHealth(ctx context.Context) models.ServiceHealth {
	o.log.Info("health_check_started", "services", len(o.probers))

	type outcome struct {
		name   string
		status string
	}

	results := make(chan outcome, len(o.probers))
	for _, p := range o.probers {
		go func(p Prober) {
			results <- outcome{name: p.Name(), status: o.probeOne(ctx, p)}
		}(p)
	}

	health := models.ServiceHealth{}
	deadline := time.After(o.healthTimeout)
	for range o.probers {
		select {
		case r := <-results:
			health[r.name] = r.status
		case <-deadline:
			o.log.Warn("health_check_deadline_exceeded")
			for _, p := range o.probers {
				health[p.Name()] = HealthTimeout
			}
			return health
		}
	}

	o.log.Info("health_check_completed")
	return health
}

func (o *Orchestrator) probeOne(ctx context.Context, p Prober) string {
	pctx, cancel := context.WithTimeout(ctx, o.probeTimeout)
	defer cancel()

	err := p.Probe(pctx)
	if err == nil {
		return HealthHealthy
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return HealthTimeout
	}

	reason := err.Error()
	if len(reason) > unhealthyReasonMax {
		reason = reason[:unhealthyReasonMax]
	}
	return "unhealthy: " + reason
}
