package api

import (
	"encoding/json"
	"fmt"
)

// envelope is the backend's uniform response wrapper:
// {success, data, error}.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *wireError      `json:"error"`
}

type wireError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// decodeEnvelope unwraps the response body and unmarshals the data field
// into dest. A non-success envelope becomes an *Error carrying the
// server's message verbatim.
func decodeEnvelope(body []byte, dest any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decoding response envelope: %w", err)
	}
	if !env.Success {
		apiErr := &Error{}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}
