package sampler

import "slices"

type Kind string

const (
	KindCPUUsage     Kind = "cpu_usage"
	KindMemoryUsage  Kind = "memory_usage"
	KindDiskUsage    Kind = "disk_usage"
	KindDiskActivity Kind = "disk_activity"
	KindTemperature  Kind = "temperature"
	KindUptime       Kind = "uptime"
)

type Format string

const (
	FormatUsagePercent Format = "usage_percent"
	FormatUserSpace    Format = "user_space"
	FormatSystemSpace  Format = "system_space"
	FormatIrqSpace     Format = "irq_space"

	FormatPercent        Format = "percent"
	FormatAvailableBytes Format = "available_bytes"
	FormatFreeBytes      Format = "free_bytes"
	FormatUsedBytes      Format = "used_bytes"

	FormatPercentage Format = "percentage"
	FormatTotalBytes Format = "total_bytes"

	FormatReadBytes  Format = "read_bytes"
	FormatWriteBytes Format = "write_bytes"

	FormatCelsius    Format = "celsius"
	FormatFahrenheit Format = "fahrenheit"

	FormatSeconds Format = "seconds"
	FormatMinutes Format = "minutes"
	FormatHours   Format = "hours"
)

// formats lists the accepted formats per kind; the first one is the default.
var formats = map[Kind][]Format{
	KindCPUUsage:     {FormatUsagePercent, FormatUserSpace, FormatSystemSpace, FormatIrqSpace},
	KindMemoryUsage:  {FormatPercent, FormatAvailableBytes, FormatFreeBytes, FormatUsedBytes},
	KindDiskUsage:    {FormatPercentage, FormatTotalBytes, FormatFreeBytes, FormatUsedBytes},
	KindDiskActivity: {FormatTotalBytes, FormatReadBytes, FormatWriteBytes},
	KindTemperature:  {FormatCelsius, FormatFahrenheit},
	KindUptime:       {FormatSeconds, FormatMinutes, FormatHours},
}

// Kinds returns every recognised kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindCPUUsage,
		KindMemoryUsage,
		KindDiskUsage,
		KindDiskActivity,
		KindTemperature,
		KindUptime,
	}
}

func (k Kind) Valid() bool {
	_, ok := formats[k]
	return ok
}

// Cumulative reports whether the kind is computed from deltas of OS counters.
func (k Kind) Cumulative() bool {
	return k == KindCPUUsage || k == KindDiskActivity
}

func (k Kind) DefaultFormat() Format {
	if fs, ok := formats[k]; ok {
		return fs[0]
	}
	return ""
}

func (k Kind) Formats() []Format {
	return slices.Clone(formats[k])
}

func (k Kind) Supports(f Format) bool {
	return slices.Contains(formats[k], f)
}
