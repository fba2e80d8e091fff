// Package system reads raw host statistics for the sampler.
package system

import (
	"context"
	"errors"
	"time"

	"sysmon-agent/internal/logger"
)

var (
	ErrUnsupported    = errors.New("not supported on this platform")
	ErrSensorNotFound = errors.New("sensor not found")
)

// CPUTimes holds cumulative seconds across all cores since boot.
type CPUTimes struct {
	User   float64
	System float64
	Irq    float64
	Idle   float64
}

type Memory struct {
	Total       uint64
	Available   uint64
	Free        uint64
	Used        uint64
	UsedPercent float64
}

type DiskUsage struct {
	Path        string
	Total       uint64
	Free        uint64
	Used        uint64
	UsedPercent float64
}

// DiskIO holds cumulative bytes summed over every block device.
type DiskIO struct {
	ReadBytes  uint64
	WriteBytes uint64
}

// Sensor is one temperature entry of a device. Label is empty for the
// device's unlabeled entry.
type Sensor struct {
	Device  string
	Label   string
	Celsius float64
}

type Reader interface {
	CPUTimes(ctx context.Context) (CPUTimes, error)
	CPUCount(ctx context.Context) (int, error)
	VirtualMemory(ctx context.Context) (Memory, error)
	DiskUsage(ctx context.Context, path string) (DiskUsage, error)
	DiskIO(ctx context.Context) (DiskIO, error)
	Temperatures(ctx context.Context, device string) ([]Sensor, error)
	BootTime(ctx context.Context) (time.Time, error)
}

type SystemReader struct {
	log logger.Logger
}

func NewReader(log logger.Logger) *SystemReader {
	return &SystemReader{log: log}
}
