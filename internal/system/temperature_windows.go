//go:build windows

package system

import (
	"context"

	"github.com/shirou/gopsutil/v4/sensors"
)

func readTemperatures(context.Context) ([]sensors.TemperatureStat, error) {
	return nil, ErrUnsupported
}
