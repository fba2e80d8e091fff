package monitor

import (
	"time"

	"sysmon-agent/internal/logger"
	"sysmon-agent/internal/sampler"
	"sysmon-agent/internal/system"
)

// Monitor is one configured sampler together with its polling interval.
type Monitor struct {
	Def      Definition
	Interval time.Duration
	Sampler  *sampler.Sampler
}

func (m *Monitor) Name() string {
	return m.Def.Name
}

// Available reports whether the monitor's configuration is usable at all.
func (m *Monitor) Available() bool {
	return m.Sampler.ConfigErr() == nil
}

type Options struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Build creates one sampler per definition. Definitions the sampler rejects
// still produce a Monitor so hosts can list them; they only ever report
// unavailable readings.
func Build(defs []Definition, reader system.Reader, log logger.Logger, opts Options) []*Monitor {
	monitors := make([]*Monitor, 0, len(defs))

	for _, def := range defs {
		cfg := sampler.Config{
			Kind:   sampler.Kind(def.Monitor),
			Format: sampler.Format(def.Format),
			Target: sampler.Target{
				Partition: def.Partition,
				Device:    def.Device,
				Label:     def.Label,
			},
		}

		s := sampler.New(cfg, reader,
			sampler.WithName(def.Name),
			sampler.WithLogger(log),
			sampler.WithTimeout(opts.Timeout),
		)

		interval := def.Interval
		if interval <= 0 {
			interval = opts.Interval
		}

		monitors = append(monitors, &Monitor{
			Def:      def,
			Interval: interval,
			Sampler:  s,
		})

		log.Debug("monitor: configured", "name", def.Name, "kind", def.Monitor, "format", s.Format(), "interval", interval)
	}

	return monitors
}
