package worker

import (
	"encoding/json"

	"github.com/julianstephens/tracklit/internal/dispatch"
)

// Signal types sent outside the request/response flow
const (
	SignalReady           = "READY"
	SignalLockUnavailable = "LOCK_UNAVAILABLE"
	SignalInitError       = "INIT_ERROR"
)

// Request is one correlated call: {id, type, payload?}
type Request struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response carries the request id next to the result fields:
// {id, ok:true, data} or {id, ok:false, error}.
type Response struct {
	ID     string
	Result dispatch.Result
}

func (r Response) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(r.Result)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	id, err := json.Marshal(r.ID)
	if err != nil {
		return nil, err
	}
	fields["id"] = id
	return json.Marshal(fields)
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	r.ID = head.ID
	return json.Unmarshal(data, &r.Result)
}

// Signal is an out-of-band startup message
type Signal struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

// Ready reports whether the signal allows requests to be sent
func (s Signal) Ready() bool {
	return s.Type == SignalReady
}
