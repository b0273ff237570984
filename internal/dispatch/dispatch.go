// Package dispatch routes tagged requests to data layer operations and
// wraps every outcome in a result envelope. It never sees correlation ids;
// those belong to the worker and the transports.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	apperr "github.com/julianstephens/tracklit/internal/errors"
	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/metrics"
	"github.com/julianstephens/tracklit/internal/storage"
)

// Result is the outcome of one request: {ok:true, data} or {ok:false, error}.
type Result struct {
	OK    bool
	Data  any
	Error string
}

// MarshalJSON emits data only on success and error only on failure
func (r Result) MarshalJSON() ([]byte, error) {
	if r.OK {
		return json.Marshal(struct {
			OK   bool `json:"ok"`
			Data any  `json:"data"`
		}{true, r.Data})
	}
	return json.Marshal(struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}{false, r.Error})
}

// UnmarshalJSON accepts either envelope shape
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		OK    bool            `json:"ok"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.OK, r.Error, r.Data = raw.OK, raw.Error, nil
	if len(raw.Data) > 0 {
		r.Data = raw.Data
	}
	return nil
}

// Success wraps data in an ok result
func Success(data any) Result {
	return Result{OK: true, Data: data}
}

// Failure wraps err in a failed result
func Failure(err error) Result {
	return Result{OK: false, Error: err.Error()}
}

type handler func(ctx context.Context, p storage.Provider, payload json.RawMessage) (any, error)

// Dispatcher is a routing table from request tag to operation
type Dispatcher struct {
	provider storage.Provider
	routes   map[Type]handler
}

// New creates a dispatcher over p
func New(p storage.Provider) *Dispatcher {
	return &Dispatcher{provider: p, routes: routes()}
}

// Types lists every routed tag in lexical order
func (d *Dispatcher) Types() []Type {
	out := make([]Type, 0, len(d.routes))
	for t := range d.routes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Dispatch runs the operation tagged typ with payload. Every failure,
// including an unknown tag or a malformed payload, comes back as a failed
// Result; Dispatch itself never returns an error.
func (d *Dispatcher) Dispatch(ctx context.Context, typ string, payload json.RawMessage) Result {
	start := time.Now()
	h, ok := d.routes[Type(typ)]
	if !ok {
		metrics.ObserveRequest("UNKNOWN", false, time.Since(start))
		return Failure(fmt.Errorf("%w: unknown request type %q", apperr.ErrInvalidRequest, typ))
	}

	data, err := h(ctx, d.provider, payload)
	metrics.ObserveRequest(typ, err == nil, time.Since(start))
	if err != nil {
		logger.Debug("Request failed", "type", typ, "error", err)
		return Failure(err)
	}
	return Success(data)
}

// decode reads payload into v. An absent or null payload leaves v at its
// zero value; unknown fields are rejected.
func decode(payload json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed payload: %v", apperr.ErrInvalidRequest, err)
	}
	return nil
}

// handle adapts an operation taking a typed payload
func handle[P any](fn func(ctx context.Context, p storage.Provider, in P) (any, error)) handler {
	return func(ctx context.Context, p storage.Provider, payload json.RawMessage) (any, error) {
		var in P
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		return fn(ctx, p, in)
	}
}

// bare adapts an operation without a payload
func bare(fn func(ctx context.Context, p storage.Provider) (any, error)) handler {
	return func(ctx context.Context, p storage.Provider, _ json.RawMessage) (any, error) {
		return fn(ctx, p)
	}
}

// required fails when an id-like payload field is empty
func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", apperr.ErrInvalidRequest, name)
	}
	return nil
}
