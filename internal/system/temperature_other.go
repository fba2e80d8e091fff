//go:build !windows

package system

import (
	"context"

	"github.com/shirou/gopsutil/v4/sensors"
)

func readTemperatures(ctx context.Context) ([]sensors.TemperatureStat, error) {
	return sensors.TemperaturesWithContext(ctx)
}
