package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Action identifies a request type on the bus.
type Action int

const (
	ActionCreateAlias Action = iota
	ActionOpenSettings
)

// Request is one message from the page side to the privileged side. Every
// request gets exactly one response, even when handling fails.
type Request struct {
	ID         string
	Action     Action
	AliasName  string
	Domain     string
	CurrentURL string

	reply chan Response
	once  *sync.Once
}

// Respond delivers the response for this request. Only the first call takes
// effect; the at-most-one-response contract makes later calls no-ops.
func (r *Request) Respond(resp Response) {
	r.once.Do(func() {
		resp.ID = r.ID
		r.reply <- resp
	})
}

// Response carries the outcome of a request back to the sender.
type Response struct {
	ID      string
	Success bool
	Alias   string
	Error   string
}

// Bus is an asynchronous request/response channel between the page context
// and the privileged context. Senders block until the handler responds or
// their context is done.
type Bus struct {
	requests chan Request
}

// NewBus returns a bus with the given request buffer.
func NewBus(buffer int) *Bus {
	return &Bus{requests: make(chan Request, buffer)}
}

// Send submits a request and waits for its single response.
func (b *Bus) Send(ctx context.Context, req Request) (Response, error) {
	req.ID = uuid.NewString()
	req.reply = make(chan Response, 1)
	req.once = &sync.Once{}

	select {
	case b.requests <- req:
	case <-ctx.Done():
		return Response{}, fmt.Errorf("failed to send request: %w", ctx.Err())
	}

	select {
	case resp := <-req.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, fmt.Errorf("failed to await response: %w", ctx.Err())
	}
}

// Requests returns the handler side of the bus.
func (b *Bus) Requests() <-chan Request {
	return b.requests
}
