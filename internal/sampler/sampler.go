// Package sampler turns one configured monitor into a single value per poll.
//
// A Sampler is not safe for concurrent use: the host must not call Sample on
// the same instance from two goroutines at once. Distinct instances share
// nothing and may be polled in parallel.
//
// Cumulative kinds (cpu_usage, disk_activity) report the change since the
// previous call. The first call after construction is measured against a
// zero baseline and is flagged as Warmup; callers should discard it.
package sampler

import (
	"context"
	"fmt"
	"time"

	"sysmon-agent/internal/logger"
	"sysmon-agent/internal/system"
)

const DefaultTimeout = time.Second

type Target struct {
	Partition string
	Device    string
	Label     string
}

type Config struct {
	Kind   Kind
	Format Format
	Target Target
}

type Option func(*Sampler)

func WithName(name string) Option {
	return func(s *Sampler) { s.name = name }
}

func WithLogger(log logger.Logger) Option {
	return func(s *Sampler) { s.log = log }
}

// WithTimeout bounds every OS query. Zero or negative disables the bound;
// the caller's context still applies.
func WithTimeout(d time.Duration) Option {
	return func(s *Sampler) { s.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Sampler) { s.now = now }
}

type Sampler struct {
	name    string
	kind    Kind
	format  Format
	target  Target
	reader  system.Reader
	log     logger.Logger
	timeout time.Duration
	now     func() time.Time

	configErr error
	notice    string

	state CounterState
}

// New builds a sampler for cfg. It never fails: an invalid configuration
// yields a sampler whose every Sample is unavailable, see ConfigErr.
func New(cfg Config, reader system.Reader, opts ...Option) *Sampler {
	s := &Sampler{
		name:    string(cfg.Kind),
		kind:    cfg.Kind,
		format:  cfg.Format,
		target:  cfg.Target,
		reader:  reader,
		log:     logger.Nop(),
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.configErr = s.validate()
	if s.configErr != nil {
		s.log.Error("sampler: invalid configuration", "monitor", s.name, "error", s.configErr)
	}

	return s
}

func (s *Sampler) validate() error {
	if !s.kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, s.kind)
	}

	if s.format == "" {
		s.format = s.kind.DefaultFormat()
		s.notice = fmt.Sprintf("no output format configured, using %q", s.format)
		s.log.Warn("sampler: "+s.notice, "monitor", s.name, "kind", s.kind)
	} else if !s.kind.Supports(s.format) {
		return fmt.Errorf("%w: %q for %s (want one of %v)", ErrUnknownFormat, s.format, s.kind, s.kind.Formats())
	}

	switch s.kind {
	case KindDiskUsage:
		if s.target.Partition == "" {
			return fmt.Errorf("%w: %s requires a partition path", ErrMissingTarget, s.kind)
		}
	case KindTemperature:
		if s.target.Device == "" {
			return fmt.Errorf("%w: %s requires a device", ErrMissingTarget, s.kind)
		}
	}

	if s.reader == nil {
		return fmt.Errorf("%w: no system reader", ErrUnavailable)
	}

	return nil
}

func (s *Sampler) Name() string { return s.name }
func (s *Sampler) Kind() Kind { return s.kind }
func (s *Sampler) Format() Format { return s.format }
func (s *Sampler) Target() Target { return s.target }
func (s *Sampler) ConfigErr() error { return s.configErr }
func (s *Sampler) Notice() string { return s.notice }
func (s *Sampler) State() CounterState { return s.state }

// Sample reads the OS once and returns the configured value. Failures are
// reported in the returned Reading and leave the sampler usable.
func (s *Sampler) Sample(ctx context.Context) Reading {
	if s.configErr != nil {
		return s.unavailable(s.configErr)
	}

	switch s.kind {
	case KindCPUUsage:
		return s.sampleCPU(ctx)
	case KindMemoryUsage:
		return s.sampleMemory(ctx)
	case KindDiskUsage:
		return s.sampleDiskUsage(ctx)
	case KindDiskActivity:
		return s.sampleDiskActivity(ctx)
	case KindTemperature:
		return s.sampleTemperature(ctx)
	case KindUptime:
		return s.sampleUptime(ctx)
	default:
		return s.unavailable(fmt.Errorf("%w: %q", ErrUnknownKind, s.kind))
	}
}

func (s *Sampler) reading() Reading {
	return Reading{
		Monitor:    s.name,
		Kind:       s.kind,
		Format:     s.format,
		RecordedAt: s.now(),
	}
}

func (s *Sampler) intReading(v int64) Reading {
	r := s.reading()
	r.Int = v
	return r
}

func (s *Sampler) floatReading(v float64) Reading {
	r := s.reading()
	r.Float = v
	r.IsFloat = true
	return r
}

func (s *Sampler) unavailable(err error) Reading {
	r := s.reading()
	r.err = err
	r.Reason = err.Error()
	return r
}

// failed logs at debug only; hosts report availability transitions.
func (s *Sampler) failed(what string, err error) Reading {
	s.log.Debug("sampler: "+what+" failed", "monitor", s.name, "error", err)
	return s.unavailable(unavailableErr(what, err))
}

// within runs read under the sampler timeout and the caller's context. If the
// deadline passes first the result is dropped, so nothing it read can reach
// the counter state.
func within[T any](ctx context.Context, timeout time.Duration, read func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)

	go func() {
		v, err := read(ctx)
		done <- result{v: v, err: err}
	}()

	select {
	case res := <-done:
		return res.v, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func toInt64(v uint64) int64 {
	const maxInt64 = 1<<63 - 1
	if v > maxInt64 {
		return maxInt64
	}
	return int64(v)
}
