package sampler

import (
	"context"
	"math"

	"sysmon-agent/internal/system"
)

func (s *Sampler) sampleMemory(ctx context.Context) Reading {
	m, err := within(ctx, s.timeout, func(ctx context.Context) (system.Memory, error) {
		return s.reader.VirtualMemory(ctx)
	})
	if err != nil {
		return s.failed("virtual memory", err)
	}

	switch s.format {
	case FormatAvailableBytes:
		return s.intReading(toInt64(m.Available))
	case FormatFreeBytes:
		return s.intReading(toInt64(m.Free))
	case FormatUsedBytes:
		return s.intReading(toInt64(m.Used))
	default:
		return s.intReading(int64(math.Round(m.UsedPercent)))
	}
}
