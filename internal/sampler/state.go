package sampler

import "sysmon-agent/internal/system"

// CounterState is the previous absolute reading of the cumulative counters.
// It starts at zero and is replaced wholesale after every successful read.
type CounterState struct {
	CPU    system.CPUTimes
	IO     system.DiskIO
	Primed bool
}

type cpuElapsed struct {
	user, system, irq, idle float64
}

func (e cpuElapsed) total() float64 {
	return e.user + e.system + e.irq + e.idle
}

type ioElapsed struct {
	read, write uint64
}

func (s CounterState) cpuSince(cur system.CPUTimes) cpuElapsed {
	return cpuElapsed{
		user:   elapsedSeconds(cur.User, s.CPU.User),
		system: elapsedSeconds(cur.System, s.CPU.System),
		irq:    elapsedSeconds(cur.Irq, s.CPU.Irq),
		idle:   elapsedSeconds(cur.Idle, s.CPU.Idle),
	}
}

func (s CounterState) ioSince(cur system.DiskIO) ioElapsed {
	return ioElapsed{
		read:  elapsedBytes(cur.ReadBytes, s.IO.ReadBytes),
		write: elapsedBytes(cur.WriteBytes, s.IO.WriteBytes),
	}
}

// A counter that went backwards was reset; count nothing for this interval.
func elapsedSeconds(cur, prev float64) float64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

func elapsedBytes(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}
