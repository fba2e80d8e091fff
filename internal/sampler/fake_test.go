package sampler

import (
	"context"
	"errors"
	"time"

	"sysmon-agent/internal/system"
)

var errFake = errors.New("fake failure")

// fakeReader returns canned values. Slices are consumed one entry per call
// and the last entry repeats.
type fakeReader struct {
	cpu     []system.CPUTimes
	cores   int
	mem     system.Memory
	usage   map[string]system.DiskUsage
	io      []system.DiskIO
	sensors map[string][]system.Sensor
	boot    time.Time

	err   error
	block bool

	cpuCalls int
	ioCalls  int
}

func (f *fakeReader) wait(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakeReader) CPUTimes(ctx context.Context) (system.CPUTimes, error) {
	if err := f.wait(ctx); err != nil {
		return system.CPUTimes{}, err
	}
	i := min(f.cpuCalls, len(f.cpu)-1)
	f.cpuCalls++
	return f.cpu[i], nil
}

func (f *fakeReader) CPUCount(ctx context.Context) (int, error) {
	if err := f.wait(ctx); err != nil {
		return 0, err
	}
	if f.cores == 0 {
		return 1, nil
	}
	return f.cores, nil
}

func (f *fakeReader) VirtualMemory(ctx context.Context) (system.Memory, error) {
	if err := f.wait(ctx); err != nil {
		return system.Memory{}, err
	}
	return f.mem, nil
}

func (f *fakeReader) DiskUsage(ctx context.Context, path string) (system.DiskUsage, error) {
	if err := f.wait(ctx); err != nil {
		return system.DiskUsage{}, err
	}
	u, ok := f.usage[path]
	if !ok {
		return system.DiskUsage{}, errors.New("no such file or directory")
	}
	return u, nil
}

func (f *fakeReader) DiskIO(ctx context.Context) (system.DiskIO, error) {
	if err := f.wait(ctx); err != nil {
		return system.DiskIO{}, err
	}
	i := min(f.ioCalls, len(f.io)-1)
	f.ioCalls++
	return f.io[i], nil
}

func (f *fakeReader) Temperatures(ctx context.Context, device string) ([]system.Sensor, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	entries, ok := f.sensors[device]
	if !ok {
		return nil, system.ErrSensorNotFound
	}
	return entries, nil
}

func (f *fakeReader) BootTime(ctx context.Context) (time.Time, error) {
	if err := f.wait(ctx); err != nil {
		return time.Time{}, err
	}
	return f.boot, nil
}
