// Package worker owns the data layer for the life of a process. A single
// goroutine opens the store, announces the outcome, and then executes
// queued requests one at a time, so no two operations ever overlap.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/dispatch"
	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/storage"
)

// ErrStopped is returned by Do once the worker has exited
var ErrStopped = errors.New("worker stopped")

// Opener brings the data layer up. It runs on the worker goroutine.
type Opener func(ctx context.Context) (storage.Provider, error)

type job struct {
	ctx   context.Context
	req   Request
	reply chan Response
}

// Worker serializes every request against one Provider
type Worker struct {
	open    Opener
	queue   chan job
	started chan struct{}
	done    chan struct{}

	mu     sync.Mutex
	status Signal
}

// New creates a worker with a request queue of the given depth
func New(open Opener, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = constants.DefaultWorkerQueue
	}
	return &Worker{
		open:    open,
		queue:   make(chan job, queueSize),
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Started is closed once startup has finished, successfully or not
func (w *Worker) Started() <-chan struct{} {
	return w.started
}

// Status returns the startup signal. It is meaningful after Started closes.
func (w *Worker) Status() Signal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *Worker) announce(sig Signal) {
	w.mu.Lock()
	w.status = sig
	w.mu.Unlock()
	close(w.started)
}

// Run opens the store and serves the queue until ctx is cancelled. A
// startup failure is announced as LOCK_UNAVAILABLE or INIT_ERROR and
// returned; nothing is served afterwards.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.done)

	p, err := w.open(ctx)
	if err != nil {
		kind := SignalInitError
		if errors.Is(err, apperr.ErrStorageUnavailable) {
			kind = SignalLockUnavailable
		}
		logger.Error("Data layer failed to start", "signal", kind, "error", err)
		w.announce(Signal{Type: kind, Error: err.Error()})
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()

	d := dispatch.New(p)
	w.announce(Signal{Type: SignalReady})
	logger.Info("Data layer ready", "backend", p.Backend())

	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-w.queue:
			// a request that reached the dispatcher runs to completion
			res := d.Dispatch(context.WithoutCancel(j.ctx), j.req.Type, j.req.Payload)
			j.reply <- Response{ID: j.req.ID, Result: res}
		}
	}
}

// Do queues req and waits for its response. Requests sent before startup
// finishes wait for it; after a failed startup every request fails with
// ErrStorageUnavailable.
func (w *Worker) Do(ctx context.Context, req Request) (Response, error) {
	select {
	case <-w.started:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
	if st := w.Status(); !st.Ready() {
		err := fmt.Errorf("%w: %s", apperr.ErrStorageUnavailable, st.Error)
		return Response{ID: req.ID, Result: dispatch.Failure(err)}, nil
	}

	j := job{ctx: ctx, req: req, reply: make(chan Response, 1)}
	select {
	case w.queue <- j:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-w.done:
		return Response{}, ErrStopped
	}

	select {
	case res := <-j.reply:
		return res, nil
	case <-w.done:
		// Run may have exited between dequeue and reply
		select {
		case res := <-j.reply:
			return res, nil
		default:
			return Response{}, ErrStopped
		}
	}
}
