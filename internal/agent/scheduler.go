package agent

import (
	"context"
	"time"

	"sysmon-agent/internal/logger"
	"sysmon-agent/internal/sampler"
)

// Scheduler polls one sampler at a fixed interval. Ticks never overlap, so a
// sampler is never called from two goroutines at once.
type Scheduler struct {
	name     string
	interval time.Duration
	log      logger.Logger
	sample   func(context.Context) sampler.Reading
	sink     func(context.Context, sampler.Reading)

	lastReason string
}

func NewScheduler(name string, interval time.Duration, log logger.Logger, sample func(context.Context) sampler.Reading, sink func(context.Context, sampler.Reading)) *Scheduler {
	return &Scheduler{
		name:     name,
		interval: interval,
		log:      log,
		sample:   sample,
		sink:     sink,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.sample == nil || s.sink == nil {
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	r := s.sample(timeoutCtx)

	// a cancelled parent means shutdown, not a failing monitor
	if ctx.Err() != nil {
		return
	}

	if r.Warmup {
		s.log.Debug("agent: discarding warm-up reading", "monitor", s.name)
		return
	}

	if r.Reason != s.lastReason {
		if r.Reason != "" {
			s.log.Warn("agent: monitor unavailable", "monitor", s.name, "reason", r.Reason)
		} else {
			s.log.Info("agent: monitor recovered", "monitor", s.name)
		}
		s.lastReason = r.Reason
	}

	s.sink(ctx, r)
}
