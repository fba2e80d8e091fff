package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
)

func (r *SystemReader) CPUTimes(ctx context.Context) (CPUTimes, error) {
	stats, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		r.log.Debug("failed to read cpu times", "error", err.Error())
		return CPUTimes{}, fmt.Errorf("read cpu times: %w", err)
	}
	if len(stats) == 0 {
		return CPUTimes{}, errors.New("read cpu times: no data")
	}

	t := stats[0]
	return CPUTimes{
		User:   t.User,
		System: t.System,
		Irq:    irqSeconds(t),
		Idle:   t.Idle,
	}, nil
}

func (r *SystemReader) CPUCount(ctx context.Context) (int, error) {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		r.log.Debug("failed to count cpus", "error", err.Error())
		return 0, fmt.Errorf("count cpus: %w", err)
	}
	if n <= 0 {
		return 0, errors.New("count cpus: no cores reported")
	}
	return n, nil
}
