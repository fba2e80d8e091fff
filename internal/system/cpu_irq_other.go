//go:build !windows

package system

import "github.com/shirou/gopsutil/v4/cpu"

func irqSeconds(t cpu.TimesStat) float64 {
	return t.Irq + t.Softirq
}
