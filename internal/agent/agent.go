// Package agent runs the configured monitors and delivers their readings in
// one of three modes: a single snapshot, a JSON line stream, or a long-lived
// server.
package agent

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"sysmon-agent/internal/config"
	"sysmon-agent/internal/logger"
	"sysmon-agent/internal/monitor"
	"sysmon-agent/internal/sampler"
	"sysmon-agent/internal/storage/snapshot"
)

type Hub interface {
	Run(ctx context.Context) error
	BroadcastReading(r sampler.Reading)
}

type Repository interface {
	Upsert(ctx context.Context, r sampler.Reading) error
}

type Server interface {
	Start(ctx context.Context) error
}

type Option func(*Agent)

func WithStore(store *snapshot.ReadingStore) Option {
	return func(a *Agent) { a.store = store }
}

func WithHub(hub Hub) Option {
	return func(a *Agent) { a.hub = hub }
}

func WithRepository(repo Repository) Option {
	return func(a *Agent) { a.repo = repo }
}

func WithServer(srv Server) Option {
	return func(a *Agent) { a.server = srv }
}

// WithOutput redirects snapshot and stream output, stdout by default.
func WithOutput(w io.Writer) Option {
	return func(a *Agent) { a.out = w }
}

type Agent struct {
	cfg      *config.Config
	log      logger.Logger
	monitors []*monitor.Monitor

	store  *snapshot.ReadingStore
	hub    Hub
	repo   Repository
	server Server

	outMu sync.Mutex
	out   io.Writer
	enc   *json.Encoder
}

func New(cfg *config.Config, log logger.Logger, monitors []*monitor.Monitor, opts ...Option) *Agent {
	a := &Agent{
		cfg:      cfg,
		log:      log,
		monitors: monitors,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		a.store = snapshot.NewReadingStore()
	}
	a.enc = json.NewEncoder(a.out)

	return a
}

func (a *Agent) Store() *snapshot.ReadingStore {
	return a.store
}

func (a *Agent) emit(_ context.Context, r sampler.Reading) {
	a.outMu.Lock()
	defer a.outMu.Unlock()

	if err := a.enc.Encode(r); err != nil {
		a.log.Error("agent: stream encode", "monitor", r.Monitor, "error", err)
	}
}

func (a *Agent) publish(ctx context.Context, r sampler.Reading) {
	a.store.Put(r)

	if a.hub != nil {
		a.hub.BroadcastReading(r)
	}

	if a.repo != nil {
		if err := a.repo.Upsert(ctx, r); err != nil {
			a.log.Error("agent: failed to persist reading", "monitor", r.Monitor, "error", err)
		}
	}
}
