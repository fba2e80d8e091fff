package sampler

import (
	"context"
	"time"
)

func (s *Sampler) sampleUptime(ctx context.Context) Reading {
	boot, err := within(ctx, s.timeout, s.reader.BootTime)
	if err != nil {
		return s.failed("boot time", err)
	}

	up := max(s.now().Sub(boot), 0)

	switch s.format {
	case FormatMinutes:
		return s.intReading(int64(up / time.Minute))
	case FormatHours:
		return s.intReading(int64(up / time.Hour))
	default:
		return s.intReading(int64(up / time.Second))
	}
}
