// Package transport carries worker envelopes over stdio JSON lines and
// WebSocket connections.
package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/tracklit/internal/dispatch"
	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/worker"
)

// Doer is the worker surface a transport needs
type Doer interface {
	Started() <-chan struct{}
	Status() worker.Signal
	Do(ctx context.Context, req worker.Request) (worker.Response, error)
}

var _ Doer = (*worker.Worker)(nil)

// awaitStatus blocks until the worker has finished starting
func awaitStatus(ctx context.Context, d Doer) (worker.Signal, error) {
	select {
	case <-d.Started():
		return d.Status(), nil
	case <-ctx.Done():
		return worker.Signal{}, ctx.Err()
	}
}

// handle decodes one envelope and runs it. Undecodable input is answered
// with an id-less failure so the peer sees something.
func handle(ctx context.Context, d Doer, line []byte) (worker.Response, error) {
	var req worker.Request
	if err := json.Unmarshal(line, &req); err != nil {
		return worker.Response{
			Result: dispatch.Failure(fmt.Errorf("%w: malformed envelope", apperr.ErrInvalidRequest)),
		}, nil
	}
	return d.Do(ctx, req)
}
