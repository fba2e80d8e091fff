package system

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

func (r *SystemReader) DiskUsage(ctx context.Context, path string) (DiskUsage, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		r.log.Debug("failed to read disk usage", "path", path, "error", err.Error())
		return DiskUsage{}, fmt.Errorf("read disk usage of %s: %w", path, err)
	}

	return DiskUsage{
		Path:        u.Path,
		Total:       u.Total,
		Free:        u.Free,
		Used:        u.Used,
		UsedPercent: u.UsedPercent,
	}, nil
}

func (r *SystemReader) DiskIO(ctx context.Context) (DiskIO, error) {
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		r.log.Debug("failed to read disk io counters", "error", err.Error())
		return DiskIO{}, fmt.Errorf("read disk io counters: %w", err)
	}

	var io DiskIO
	for _, c := range counters {
		io.ReadBytes += c.ReadBytes
		io.WriteBytes += c.WriteBytes
	}
	return io, nil
}
