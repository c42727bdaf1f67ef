// Package queue carries background jobs away from the request path.
//
// Producers only see Queue.Enqueue; jobs are fire-and-forget and delivered
// at least once to the Handler registered for their kind.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownJobKind is returned when no handler is registered for a job.
var ErrUnknownJobKind = errors.New("no handler registered for job kind")

// Job is the envelope placed on the queue.
type Job struct {
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// NewJob encodes payload into a Job envelope.
func NewJob(kind string, payload any, now time.Time) (Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, fmt.Errorf("marshal %s payload failed: %w", kind, err)
	}
	return Job{Kind: kind, Payload: raw, EnqueuedAt: now}, nil
}

// Decode unmarshals the job payload into dest.
func (j Job) Decode(dest any) error {
	if err := json.Unmarshal(j.Payload, dest); err != nil {
		return fmt.Errorf("decode %s payload failed: %w", j.Kind, err)
	}
	return nil
}

// Queue accepts jobs for asynchronous processing.
type Queue interface {
	Enqueue(ctx context.Context, kind string, payload any) error
	Close() error
}

// Handler processes one kind of job.
type Handler interface {
	Kind() string
	Handle(ctx context.Context, job Job) error
}

// Dispatcher routes jobs to their handler by kind.
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher registers handlers by their Kind.
func NewDispatcher(handlers ...Handler) *Dispatcher {
	d := &Dispatcher{handlers: make(map[string]Handler, len(handlers))}
	for _, h := range handlers {
		d.handlers[h.Kind()] = h
	}
	return d
}

// Dispatch runs the handler registered for job.Kind.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) error {
	h, ok := d.handlers[job.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJobKind, job.Kind)
	}
	return h.Handle(ctx, job)
}
