package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

func (r *SystemReader) Temperatures(ctx context.Context, device string) ([]Sensor, error) {
	stats, err := readTemperatures(ctx)
	if err != nil && len(stats) == 0 {
		r.log.Debug("failed to read temperatures", "device", device, "error", err.Error())
		return nil, fmt.Errorf("read temperatures: %w", err)
	}
	if err != nil {
		r.log.Debug("partial temperature read", "device", device, "error", err.Error())
	}

	found := sensorsOf(stats, device)
	if len(found) == 0 {
		return nil, fmt.Errorf("device %q: %w", device, ErrSensorNotFound)
	}
	return found, nil
}

// sensorsOf picks the entries of one device out of gopsutil's flat list,
// where keys look like "coretemp" or "coretemp_package_id_0".
func sensorsOf(stats []sensors.TemperatureStat, device string) []Sensor {
	dev := strings.ToLower(strings.TrimSpace(device))
	if dev == "" {
		return nil
	}

	var out []Sensor
	for _, s := range stats {
		key := strings.ToLower(s.SensorKey)

		switch {
		case key == dev:
			out = append(out, Sensor{Device: device, Celsius: s.Temperature})
		case strings.HasPrefix(key, dev+"_"):
			out = append(out, Sensor{
				Device:  device,
				Label:   strings.TrimPrefix(key, dev+"_"),
				Celsius: s.Temperature,
			})
		}
	}
	return out
}

// NormalizeLabel turns a human label such as "Package id 0" into the form
// sensor keys use ("package_id_0").
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}
