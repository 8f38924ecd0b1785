// Package hub streams server events to browsers over Server-Sent Events.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Named events are sent with an SSE "event:" field so clients can use
// addEventListener instead of parsing every message
type Named interface {
	EventName() string
}

// Hub fans events out to connected SSE clients
type Hub struct {
	mu      sync.RWMutex
	clients map[string]chan []byte
	stopped bool

	broadcast chan interface{}
	seq       uint64
	logger    logrus.FieldLogger
	keepAlive time.Duration
}

// New creates a new Hub. Call Run to start delivering events.
func New(logger logrus.FieldLogger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients:   make(map[string]chan []byte),
		broadcast: make(chan interface{}, 256),
		logger:    logger,
		keepAlive: 30 * time.Second,
	}
}

// Run delivers broadcasts until ctx is done, then disconnects every client
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case event := <-h.broadcast:
			msg, err := h.encode(event)
			if err != nil {
				h.logger.WithError(err).Warn("failed to encode event")
				continue
			}
			h.deliver(msg)

		case <-ctx.Done():
			h.mu.Lock()
			h.stopped = true
			for id, ch := range h.clients {
				delete(h.clients, id)
				close(ch)
			}
			h.mu.Unlock()
			return
		}
	}
}

// encode formats one SSE message with a sequence id
func (h *Hub) encode(event interface{}) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	h.seq++

	var buf bytes.Buffer
	buf.WriteString("id: " + strconv.FormatUint(h.seq, 10) + "\n")
	if n, ok := event.(Named); ok && n.EventName() != "" {
		buf.WriteString("event: " + n.EventName() + "\n")
	}
	buf.WriteString("data: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

func (h *Hub) deliver(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.clients {
		select {
		case ch <- msg:
		default:
			h.logger.WithField("client", id).Debug("SSE client is slow, skipping message")
		}
	}
}

// Broadcast queues an event for every connected client. Events are dropped
// when the queue is full.
func (h *Hub) Broadcast(event interface{}) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast queue full, dropping event")
	}
}

// Forward broadcasts every value received on events until ctx is done or
// events is closed
func Forward[T any](ctx context.Context, h *Hub, events <-chan T) {
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			h.Broadcast(e)
		case <-ctx.Done():
			return
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add() (string, chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return "", nil, false
	}
	id := uuid.NewString()
	ch := make(chan []byte, 64)
	h.clients[id] = ch
	h.logger.WithFields(logrus.Fields{"client": id, "total": len(h.clients)}).Debug("SSE client connected")
	return id, ch, true
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(ch)
		h.logger.WithFields(logrus.Fields{"client": id, "total": len(h.clients)}).Debug("SSE client disconnected")
	}
}

// ServeHTTP streams events to one client until it disconnects or the hub stops
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	id, events, ok := h.add()
	if !ok {
		http.Error(w, "event stream stopped", http.StatusServiceUnavailable)
		return
	}
	defer h.remove(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-events:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
