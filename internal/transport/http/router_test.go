package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sysmon-agent/internal/auth"
	"sysmon-agent/internal/config"
	"sysmon-agent/internal/logger"
	"sysmon-agent/internal/monitor"
	"sysmon-agent/internal/sampler"
	"sysmon-agent/internal/storage"
	"sysmon-agent/internal/storage/snapshot"
	"sysmon-agent/internal/system"
)

type fakeHistory map[string]sampler.Reading

func (f fakeHistory) Latest(_ context.Context, name string) (sampler.Reading, error) {
	if r, ok := f[name]; ok {
		return r, nil
	}
	return sampler.Reading{}, storage.ErrNotFound
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, secret string) (http.Handler, *snapshot.ReadingStore) {
	t.Helper()

	defs := []monitor.Definition{
		{Name: "cpu", Monitor: "cpu_usage"},
		{Name: "up", Monitor: "uptime", Format: "hours"},
		{Name: "root", Monitor: "disk_usage"},
	}
	monitors := monitor.Build(defs, system.NewReader(logger.Nop()), logger.Nop(), monitor.Options{Interval: time.Second})

	store := snapshot.NewReadingStore()
	history := fakeHistory{
		"up": {Monitor: "up", Kind: sampler.KindUptime, Format: sampler.FormatHours, Int: 3},
	}

	cfg := &config.Config{AllowedOrigins: []string{"http://dashboard.local"}}
	h := NewHandler(store, history, monitors)

	return NewRouter(cfg, h, nil, auth.NewVerifier(secret), logger.Nop()), store
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v (body %q)", req.URL.Path, err, rec.Body.String())
	}
	return rec, env
}

func TestRouter_Readings(t *testing.T) {
	router, store := newTestRouter(t, "")
	store.Put(sampler.Reading{Monitor: "cpu", Kind: sampler.KindCPUUsage, Format: sampler.FormatUsagePercent, Int: 17})

	rec, env := do(t, router, httptest.NewRequest(http.MethodGet, "/readings", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var readings []struct {
		Monitor string `json:"monitor"`
		Value   int64  `json:"value"`
	}
	if err := json.Unmarshal(env.Data, &readings); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(readings) != 1 || readings[0].Monitor != "cpu" || readings[0].Value != 17 {
		t.Fatalf("readings = %+v", readings)
	}
}

func TestRouter_Reading(t *testing.T) {
	router, store := newTestRouter(t, "")
	store.Put(sampler.Reading{Monitor: "cpu", Kind: sampler.KindCPUUsage, Format: sampler.FormatUsagePercent, Int: 9})

	tests := []struct {
		path    string
		status  int
		message string
		value   int64
	}{
		{"/readings/cpu", http.StatusOK, "", 9},
		{"/readings/up", http.StatusOK, "", 3},
		{"/readings/root", http.StatusNotFound, "no reading yet", 0},
		{"/readings/nope", http.StatusNotFound, "monitor not found", 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, env := do(t, router, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if env.Message != tt.message {
				t.Fatalf("message = %q, want %q", env.Message, tt.message)
			}
			if tt.status != http.StatusOK {
				return
			}

			var r struct {
				Value int64 `json:"value"`
			}
			if err := json.Unmarshal(env.Data, &r); err != nil {
				t.Fatalf("decode data: %v", err)
			}
			if r.Value != tt.value {
				t.Fatalf("value = %d, want %d", r.Value, tt.value)
			}
		})
	}
}

func TestRouter_Monitors(t *testing.T) {
	router, _ := newTestRouter(t, "")

	_, env := do(t, router, httptest.NewRequest(http.MethodGet, "/monitors", nil))

	var views []MonitorView
	if err := json.Unmarshal(env.Data, &views); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	got := make(map[string]bool)
	for _, v := range views {
		got[v.Name] = v.Available
	}
	want := map[string]bool{"cpu": true, "up": true, "root": false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("availability mismatch (-want +got):\n%s", diff)
	}

	for _, v := range views {
		if v.Name == "root" && v.Error == "" {
			t.Fatal("misconfigured monitor must report its error")
		}
		if v.Name == "cpu" && v.Notice == "" {
			t.Fatal("defaulted format must carry a notice")
		}
	}
}

func TestRouter_JWT(t *testing.T) {
	const secret = "s3cret"
	router, _ := newTestRouter(t, secret)

	rec, _ := do(t, router, httptest.NewRequest(http.MethodGet, "/readings", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	rec, _ = do(t, router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz must stay public, got %d", rec.Code)
	}

	token, err := auth.NewVerifier(secret).Issue("dashboard", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/readings", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, _ = do(t, router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200", rec.Code)
	}
}

func TestRouter_CORS(t *testing.T) {
	router, _ := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/readings", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://dashboard.local" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestServer_StartStop(t *testing.T) {
	cfg := &config.Config{Address: "127.0.0.1:0"}
	h := NewHandler(snapshot.NewReadingStore(), nil, nil)
	srv := NewServer(cfg, h, nil, auth.NewVerifier(""), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
