package sampler

import (
	"context"
	"math"

	"sysmon-agent/internal/system"
)

func (s *Sampler) sampleDiskUsage(ctx context.Context) Reading {
	path := s.target.Partition
	u, err := within(ctx, s.timeout, func(ctx context.Context) (system.DiskUsage, error) {
		return s.reader.DiskUsage(ctx, path)
	})
	if err != nil {
		return s.failed("disk usage of "+path, err)
	}

	switch s.format {
	case FormatTotalBytes:
		return s.intReading(toInt64(u.Total))
	case FormatFreeBytes:
		return s.intReading(toInt64(u.Free))
	case FormatUsedBytes:
		return s.intReading(toInt64(u.Used))
	default:
		return s.intReading(int64(math.Round(u.UsedPercent)))
	}
}

func (s *Sampler) sampleDiskActivity(ctx context.Context) Reading {
	cur, err := within(ctx, s.timeout, s.reader.DiskIO)
	if err != nil {
		return s.failed("disk io counters", err)
	}

	elapsed := s.state.ioSince(cur)
	warmup := !s.state.Primed
	s.state = CounterState{IO: cur, Primed: true}

	var v uint64
	switch s.format {
	case FormatReadBytes:
		v = elapsed.read
	case FormatWriteBytes:
		v = elapsed.write
	default:
		v = elapsed.read + elapsed.write
	}

	r := s.intReading(toInt64(v))
	r.Warmup = warmup
	return r
}
