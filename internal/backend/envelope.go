package backend

import (
	"encoding/json"
	"fmt"
)

// envelope is the backend's response wrapper. Historically the backend has
// shipped payloads under either "data" or "result" depending on the
// endpoint, so both are accepted through one normalization path instead of
// per-call fallback chains.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Result  json.RawMessage `json:"result"`
}

// payload returns the envelope's payload bytes, normalizing the two known
// shapes. A reply matching neither shape fails with ErrMalformedResponse.
func (e *envelope) payload() (json.RawMessage, error) {
	if len(e.Data) > 0 && string(e.Data) != "null" {
		return e.Data, nil
	}
	if len(e.Result) > 0 && string(e.Result) != "null" {
		return e.Result, nil
	}
	return nil, fmt.Errorf("%w: no data or result field", ErrMalformedResponse)
}

// decodePayload normalizes an envelope and unmarshals its payload into out.
func decodePayload(e *envelope, out interface{}) error {
	raw, err := e.payload()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
