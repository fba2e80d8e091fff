//go:build windows

package system

import "github.com/shirou/gopsutil/v4/cpu"

// Windows reports interrupt time only; deferred procedure call time is not
// broken out by the performance counters gopsutil reads.
func irqSeconds(t cpu.TimesStat) float64 {
	return t.Irq
}
