package system

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

func (r *SystemReader) VirtualMemory(ctx context.Context) (Memory, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		r.log.Debug("failed to read virtual memory", "error", err.Error())
		return Memory{}, fmt.Errorf("read virtual memory: %w", err)
	}

	return Memory{
		Total:       v.Total,
		Available:   v.Available,
		Free:        v.Free,
		Used:        v.Used,
		UsedPercent: v.UsedPercent,
	}, nil
}
