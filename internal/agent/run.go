package agent

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"sysmon-agent/internal/config"
	"sysmon-agent/internal/monitor"
	"sysmon-agent/internal/sampler"
)

func (a *Agent) Run(ctx context.Context) error {
	a.log.Info("agent: starting", "mode", a.cfg.Mode, "monitors", len(a.monitors))

	switch a.cfg.Mode {
	case config.ModeSnapshot:
		return a.runSnapshot(ctx)
	case config.ModeStream:
		return a.runStream(ctx)
	case config.ModeServe:
		return a.runServe(ctx)
	default:
		a.log.Warn("agent: unknown mode, defaulting to serve", "mode", a.cfg.Mode)
		return a.runServe(ctx)
	}
}

// runSnapshot samples every monitor once. Cumulative kinds need a second
// sample one interval later, so all monitors are sampled in parallel.
func (a *Agent) runSnapshot(ctx context.Context) error {
	readings := make([]sampler.Reading, len(a.monitors))

	g, gCtx := errgroup.WithContext(ctx)
	for i, m := range a.monitors {
		g.Go(func() error {
			readings[i] = settle(gCtx, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a.outMu.Lock()
	defer a.outMu.Unlock()
	return a.enc.Encode(readings)
}

func settle(ctx context.Context, m *monitor.Monitor) sampler.Reading {
	r := m.Sampler.Sample(ctx)
	if !r.Warmup {
		return r
	}

	timer := time.NewTimer(m.Interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return m.Sampler.Sample(ctx)
	case <-ctx.Done():
		return r
	}
}

func (a *Agent) runStream(ctx context.Context) error {
	return a.schedule(ctx, a.emit, nil)
}

func (a *Agent) runServe(ctx context.Context) error {
	var services []func(context.Context) error
	if a.hub != nil {
		services = append(services, a.hub.Run)
	}
	if a.server != nil {
		services = append(services, a.server.Start)
	}

	return a.schedule(ctx, a.publish, services)
}

// schedule runs one scheduler per usable monitor plus services until ctx is
// done. Misconfigured monitors are delivered once so hosts can see why.
func (a *Agent) schedule(ctx context.Context, sink func(context.Context, sampler.Reading), services []func(context.Context) error) error {
	g, gCtx := errgroup.WithContext(ctx)

	for _, svc := range services {
		g.Go(func() error {
			return svc(gCtx)
		})
	}

	for _, m := range a.monitors {
		if !m.Available() {
			a.log.Error("agent: monitor disabled", "monitor", m.Name(), "error", m.Sampler.ConfigErr())
			sink(gCtx, m.Sampler.Sample(gCtx))
			continue
		}

		sched := NewScheduler(m.Name(), m.Interval, a.log, m.Sampler.Sample, sink)
		g.Go(func() error {
			sched.Start(gCtx)
			return nil
		})
	}

	return g.Wait()
}
