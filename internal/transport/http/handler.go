package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sysmon-agent/internal/monitor"
	"sysmon-agent/internal/sampler"
	"sysmon-agent/internal/storage"
	"sysmon-agent/internal/storage/snapshot"
)

// ReadingFinder looks up a persisted reading when the in-memory store has
// none yet, for example right after a restart.
type ReadingFinder interface {
	Latest(ctx context.Context, monitor string) (sampler.Reading, error)
}

type MonitorView struct {
	Name      string         `json:"name"`
	Kind      sampler.Kind   `json:"kind"`
	Format    sampler.Format `json:"format"`
	Interval  string         `json:"interval"`
	Partition string         `json:"partition,omitempty"`
	Device    string         `json:"device,omitempty"`
	Label     string         `json:"label,omitempty"`
	Available bool           `json:"available"`
	Error     string         `json:"error,omitempty"`
	Notice    string         `json:"notice,omitempty"`
}

type Handler struct {
	store    *snapshot.ReadingStore
	history  ReadingFinder
	monitors []*monitor.Monitor
	byName   map[string]*monitor.Monitor
}

func NewHandler(store *snapshot.ReadingStore, history ReadingFinder, monitors []*monitor.Monitor) *Handler {
	byName := make(map[string]*monitor.Monitor, len(monitors))
	for _, m := range monitors {
		byName[m.Name()] = m
	}

	return &Handler{
		store:    store,
		history:  history,
		monitors: monitors,
		byName:   byName,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	available := 0
	for _, m := range h.monitors {
		if m.Available() {
			available++
		}
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "ok",
		Data: map[string]int{
			"monitors":  len(h.monitors),
			"available": available,
		},
	})
}

func (h *Handler) Monitors(w http.ResponseWriter, r *http.Request) {
	views := make([]MonitorView, 0, len(h.monitors))

	for _, m := range h.monitors {
		s := m.Sampler
		view := MonitorView{
			Name:      m.Name(),
			Kind:      s.Kind(),
			Format:    s.Format(),
			Interval:  m.Interval.String(),
			Partition: s.Target().Partition,
			Device:    s.Target().Device,
			Label:     s.Target().Label,
			Available: m.Available(),
			Notice:    s.Notice(),
		}
		if err := s.ConfigErr(); err != nil {
			view.Error = err.Error()
		}
		views = append(views, view)
	}

	JSONSuccess(w, http.StatusOK, APIResponse{Data: views})
}

func (h *Handler) Readings(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{Data: h.store.All()})
}

func (h *Handler) Reading(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if _, ok := h.byName[name]; !ok {
		JSONError(w, http.StatusNotFound, "monitor not found")
		return
	}

	if reading, ok := h.store.Latest(name); ok {
		JSONSuccess(w, http.StatusOK, APIResponse{Data: reading})
		return
	}

	if h.history != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		reading, err := h.history.Latest(ctx, name)
		if err == nil {
			JSONSuccess(w, http.StatusOK, APIResponse{Data: reading})
			return
		}
		if !errors.Is(err, storage.ErrNotFound) {
			JSONError(w, http.StatusInternalServerError, "failed to load reading")
			return
		}
	}

	JSONError(w, http.StatusNotFound, "no reading yet")
}
