package sampler

import (
	"context"
	"fmt"

	"sysmon-agent/internal/system"
)

func (s *Sampler) sampleTemperature(ctx context.Context) Reading {
	device := s.target.Device
	entries, err := within(ctx, s.timeout, func(ctx context.Context) ([]system.Sensor, error) {
		return s.reader.Temperatures(ctx, device)
	})
	if err != nil {
		return s.failed("temperature of "+device, err)
	}

	sensor, ok := pickSensor(entries, s.target.Label)
	if !ok {
		err := fmt.Errorf("device %q has no label %q: %w", device, s.target.Label, system.ErrSensorNotFound)
		return s.failed("temperature of "+device, err)
	}

	if s.format == FormatFahrenheit {
		return s.floatReading(sensor.Celsius*9/5 + 32)
	}
	return s.floatReading(sensor.Celsius)
}

// pickSensor finds the entry with the given label. An empty label selects
// the device's unlabeled entry, or its first entry when every one is labeled.
func pickSensor(entries []system.Sensor, label string) (system.Sensor, bool) {
	want := system.NormalizeLabel(label)

	for _, e := range entries {
		if system.NormalizeLabel(e.Label) == want {
			return e, true
		}
	}

	if want == "" && len(entries) > 0 {
		return entries[0], true
	}
	return system.Sensor{}, false
}
