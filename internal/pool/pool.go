// Package pool keeps one HTTP client per worker slot so that each worker
// reuses its own keep-alive connections for every request it issues.
package pool

import (
	"net/http"
	"sync"
)

// idleCloser is implemented by *http.Client.
type idleCloser interface {
	CloseIdleConnections()
}

// WorkerClients hands out a client per worker slot, created lazily by the
// factory on first use. Clients are never shared between slots.
type WorkerClients struct {
	clients sync.Map // map[int]*http.Client
	factory func() *http.Client
}

// NewWorkerClients creates an empty set that builds clients with factory.
func NewWorkerClients(factory func() *http.Client) *WorkerClients {
	if factory == nil {
		factory = func() *http.Client { return &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()} }
	}
	return &WorkerClients{factory: factory}
}

// Get returns the client owned by worker, creating it if needed.
func (w *WorkerClients) Get(worker int) *http.Client {
	if val, ok := w.clients.Load(worker); ok {
		return val.(*http.Client)
	}
	client := w.factory()
	actual, loaded := w.clients.LoadOrStore(worker, client)
	if loaded {
		// Lost a race for the slot; the stored client wins.
		client.CloseIdleConnections()
	}
	return actual.(*http.Client)
}

// Len reports how many worker clients have been created.
func (w *WorkerClients) Len() int {
	n := 0
	w.clients.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Close releases the idle connections of every client.
func (w *WorkerClients) Close() {
	w.clients.Range(func(key, value interface{}) bool {
		if c, ok := value.(idleCloser); ok {
			c.CloseIdleConnections()
		}
		w.clients.Delete(key)
		return true
	})
}
