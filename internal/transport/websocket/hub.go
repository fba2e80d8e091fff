// Package websocket pushes readings to dashboard clients. Clients subscribe
// to a monitor name, or to AllChannel for every monitor.
package websocket

import (
	"context"
	"encoding/json"

	"sysmon-agent/internal/logger"
	"sysmon-agent/internal/sampler"
)

const (
	AllChannel   = "*"
	EventReading = "reading"
)

type Message struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type Subscription struct {
	client  *Client
	channel string
}

type Hub struct {
	clients  map[*Client]bool
	channels map[string]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan *Subscription
	unsubscribe chan *Subscription
	events      chan sampler.Reading

	done chan struct{}
	log  logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients:  make(map[*Client]bool),
		channels: make(map[string]map[*Client]bool),

		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *Subscription),
		unsubscribe: make(chan *Subscription),
		events:      make(chan sampler.Reading, 256),

		done: make(chan struct{}),
		log:  log,
	}
}

// Run owns all hub state until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			h.log.Info("ws: hub stopped")
			return nil

		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("ws: client registered", "remote_addr", client.remoteAddr, "total_clients", len(h.clients))

		case client := <-h.unregister:
			if h.clients[client] {
				h.drop(client)
				h.log.Info("ws: client unregistered", "remote_addr", client.remoteAddr, "total_clients", len(h.clients))
			}

		case sub := <-h.subscribe:
			if !h.clients[sub.client] {
				continue
			}
			if h.channels[sub.channel] == nil {
				h.channels[sub.channel] = make(map[*Client]bool)
			}
			h.channels[sub.channel][sub.client] = true
			h.log.Debug("ws: client subscribed", "remote_addr", sub.client.remoteAddr, "channel", sub.channel)

		case sub := <-h.unsubscribe:
			if subs, ok := h.channels[sub.channel]; ok && subs[sub.client] {
				delete(subs, sub.client)
				if len(subs) == 0 {
					delete(h.channels, sub.channel)
				}
				h.log.Debug("ws: client unsubscribed", "remote_addr", sub.client.remoteAddr, "channel", sub.channel)
			}

		case r := <-h.events:
			h.fanOut(r)
		}
	}
}

// BroadcastReading queues r for delivery. It never blocks the caller; when
// the queue is full the reading is dropped.
func (h *Hub) BroadcastReading(r sampler.Reading) {
	select {
	case h.events <- r:
	case <-h.done:
	default:
		h.log.Warn("ws: event buffer full, dropping reading", "monitor", r.Monitor)
	}
}

func (h *Hub) fanOut(r sampler.Reading) {
	message, err := json.Marshal(Message{Channel: r.Monitor, Event: EventReading, Payload: r})
	if err != nil {
		h.log.Error("ws: failed to marshal reading", "monitor", r.Monitor, "error", err)
		return
	}

	targets := make(map[*Client]bool)
	for client := range h.channels[r.Monitor] {
		targets[client] = true
	}
	for client := range h.channels[AllChannel] {
		targets[client] = true
	}

	for client := range targets {
		select {
		case client.send <- message:
		default:
			h.log.Warn("ws: client buffer full, dropping client", "remote_addr", client.remoteAddr)
			h.drop(client)
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	for channel, subs := range h.channels {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.channels, channel)
		}
	}
	close(client.send)
}

func (h *Hub) send(ch chan *Subscription, sub *Subscription) {
	select {
	case ch <- sub:
	case <-h.done:
	}
}

// Register adds c to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
