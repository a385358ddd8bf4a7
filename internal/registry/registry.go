// Package registry tracks live connections by their opaque id and delivers
// payloads to them through per-connection outbox channels. It is the
// Broadcaster capability the router consumes; the transport layer owns the
// sockets themselves.
package registry

import (
	"errors"
	"sync"
)

var ErrUnknownConnection = errors.New("unknown connection")
var ErrSlowConnection = errors.New("connection outbox full")

const outboxSize = 16

type Registry struct {
	mu       sync.Mutex
	outboxes map[string]chan []byte
}

func New() *Registry {
	return &Registry{outboxes: make(map[string]chan []byte)}
}

// Add registers connID and returns the channel its writer should drain. The
// channel is closed when the connection is removed or dropped.
func (r *Registry) Add(connID string) <-chan []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(chan []byte, outboxSize)
	r.outboxes[connID] = out
	return out
}

// Remove deregisters connID and closes its outbox. Idempotent.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drop(connID)
}

// Send queues payload for one named connection. A connection whose outbox is
// full is dropped rather than blocking the sender; the caller treats the
// error as a per-recipient delivery failure and moves on.
func (r *Registry) Send(connID string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out, ok := r.outboxes[connID]
	if !ok {
		return ErrUnknownConnection
	}

	select {
	case out <- payload:
		return nil
	default:
		r.drop(connID)
		return ErrSlowConnection
	}
}

// Len reports the number of registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outboxes)
}

func (r *Registry) drop(connID string) {
	if out, ok := r.outboxes[connID]; ok {
		close(out)
		delete(r.outboxes, connID)
	}
}
