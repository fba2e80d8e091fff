package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"sysmon-agent/internal/auth"
	"sysmon-agent/internal/logger"
	"sysmon-agent/internal/sampler"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger.Nop())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	return hub
}

func recv(t *testing.T, ch <-chan []byte) ([]byte, bool) {
	t.Helper()

	select {
	case msg, ok := <-ch:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for hub")
		return nil, false
	}
}

func TestHub_RoutesByChannel(t *testing.T) {
	hub := startHub(t)

	cpu := &Client{send: make(chan []byte, 4), remoteAddr: "cpu"}
	all := &Client{send: make(chan []byte, 4), remoteAddr: "all"}
	hub.Register(cpu)
	hub.Register(all)
	hub.send(hub.subscribe, &Subscription{client: cpu, channel: "cpu"})
	hub.send(hub.subscribe, &Subscription{client: all, channel: AllChannel})

	hub.BroadcastReading(sampler.Reading{Monitor: "mem", Int: 1})
	hub.BroadcastReading(sampler.Reading{Monitor: "cpu", Int: 2})

	msg, _ := recv(t, cpu.send)
	var got struct {
		Channel string `json:"channel"`
		Event   string `json:"event"`
		Payload struct {
			Value int64 `json:"value"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Channel != "cpu" || got.Event != EventReading || got.Payload.Value != 2 {
		t.Fatalf("cpu subscriber got %s", msg)
	}

	first, _ := recv(t, all.send)
	second, _ := recv(t, all.send)
	if !strings.Contains(string(first), `"channel":"mem"`) || !strings.Contains(string(second), `"channel":"cpu"`) {
		t.Fatalf("wildcard subscriber got %s then %s", first, second)
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)

	slow := &Client{send: make(chan []byte, 1), remoteAddr: "slow"}
	hub.Register(slow)
	hub.send(hub.subscribe, &Subscription{client: slow, channel: "cpu"})

	hub.BroadcastReading(sampler.Reading{Monitor: "cpu", Int: 1})
	hub.BroadcastReading(sampler.Reading{Monitor: "cpu", Int: 2})

	if _, ok := recv(t, slow.send); !ok {
		t.Fatal("first message should have been buffered")
	}
	if _, ok := recv(t, slow.send); ok {
		t.Fatal("slow client should have been dropped and its channel closed")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger.Nop())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := &Client{send: make(chan []byte, 1), remoteAddr: "c"}
	hub.Register(c)
	cancel()
	<-stopped

	if _, ok := recv(t, c.send); ok {
		t.Fatal("client channel should be closed when the hub stops")
	}
	if hub.Register(&Client{send: make(chan []byte)}) {
		t.Fatal("Register after stop must report false")
	}
	hub.BroadcastReading(sampler.Reading{Monitor: "cpu"})
}

func TestHandler_Subscribe(t *testing.T) {
	hub := startHub(t)
	verifier := auth.NewVerifier("s3cret")
	srv := httptest.NewServer(NewHandler(hub, verifier, nil, logger.Nop()))
	t.Cleanup(srv.Close)

	token, err := verifier.Issue("dashboard", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(ClientMessage{Type: "subscribe", Channel: "cpu"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// The subscription is applied asynchronously; keep publishing until the
	// first message arrives.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.BroadcastReading(sampler.Reading{Monitor: "mem", Int: 1})
				hub.BroadcastReading(sampler.Reading{Monitor: "cpu", Int: 42})
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Channel != "cpu" || msg.Event != EventReading {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestHandler_RejectsMissingToken(t *testing.T) {
	hub := startHub(t)
	srv := httptest.NewServer(NewHandler(hub, auth.NewVerifier("s3cret"), nil, logger.Nop()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHandler_RejectsForeignOrigin(t *testing.T) {
	hub := startHub(t)
	srv := httptest.NewServer(NewHandler(hub, auth.NewVerifier(""), []string{"http://dashboard.local"}, logger.Nop()))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Origin": []string{"http://evil.example"}}

	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("resp = %v, want 403", resp)
	}
}
