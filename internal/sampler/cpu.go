package sampler

import (
	"context"
	"math"

	"sysmon-agent/internal/system"
)

type cpuSnapshot struct {
	times system.CPUTimes
	cores int
}

func (s *Sampler) sampleCPU(ctx context.Context) Reading {
	snap, err := within(ctx, s.timeout, func(ctx context.Context) (cpuSnapshot, error) {
		times, err := s.reader.CPUTimes(ctx)
		if err != nil {
			return cpuSnapshot{}, err
		}
		cores, err := s.reader.CPUCount(ctx)
		if err != nil {
			return cpuSnapshot{}, err
		}
		return cpuSnapshot{times: times, cores: cores}, nil
	})
	if err != nil {
		return s.failed("cpu times", err)
	}

	elapsed := s.state.cpuSince(snap.times)
	warmup := !s.state.Primed
	s.state = CounterState{CPU: snap.times, Primed: true}

	var part float64
	switch s.format {
	case FormatUserSpace:
		part = elapsed.user
	case FormatSystemSpace:
		part = elapsed.system
	case FormatIrqSpace:
		part = elapsed.irq
	default:
		part = elapsed.total() - elapsed.idle
	}

	r := s.intReading(cpuPercent(part, elapsed.total(), snap.cores))
	r.Warmup = warmup
	return r
}

func cpuPercent(part, total float64, cores int) int64 {
	if total <= 0 || cores <= 0 {
		return 0
	}
	return int64(math.Round(100 * part / total / float64(cores)))
}
