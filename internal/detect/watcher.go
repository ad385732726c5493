package detect

import (
	"sync"

	"golang.org/x/net/html"
)

// Mutation is one child-list change: the roots of newly inserted subtrees.
type Mutation struct {
	Added []*html.Node
}

// Watcher is a subscription to a document change-notification stream, the
// analog of a subtree-wide child-list mutation observer. The embedder
// publishes insertions with Notify; the detector consumes Events until
// Close disconnects the stream.
type Watcher struct {
	events chan Mutation

	mu     sync.Mutex
	closed bool
}

// NewWatcher returns a watcher with the given event buffer.
func NewWatcher(buffer int) *Watcher {
	return &Watcher{events: make(chan Mutation, buffer)}
}

// Notify publishes a mutation. Notifications after Close are dropped.
func (w *Watcher) Notify(m Mutation) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.events <- m
}

// Events returns the mutation stream. The channel is closed by Close.
func (w *Watcher) Events() <-chan Mutation {
	return w.events
}

// Close disconnects the stream. Safe to call more than once.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.events)
}
