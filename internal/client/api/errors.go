package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldError is one entry of a field-validation detail list, as produced by
// the backend for 422-style responses.
type FieldError struct {
	Msg  string `json:"msg"`
	Loc  []any  `json:"loc,omitempty"`
	Type string `json:"type,omitempty"`
}

// APIError carries a non-2xx response in a caller-friendly form. The
// backend reports errors either as {"detail": "message"} or as
// {"detail": [{"msg": ...}, ...]}; both are normalized into Error().
type APIError struct {
	Status int
	Detail string
	Fields []FieldError
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		msgs := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			if f.Msg != "" {
				msgs = append(msgs, f.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// parseAPIError builds an APIError from a response body, tolerating both
// detail shapes and non-JSON bodies.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		apiErr.Detail = s
		return apiErr
	}

	var fields []FieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil {
		apiErr.Fields = fields
	}
	return apiErr
}
