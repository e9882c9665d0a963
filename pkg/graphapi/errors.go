package graphapi

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Graph API error codes that mean the pixel or token is wrong rather than the
// endpoint being unavailable.
const (
	codeInvalidParameter = 100
	codeAccessToken      = 190
)

// APIError is a non-2xx answer from the Graph API.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
	FbTraceId  string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api status %v: %v (type=%v, code=%v, fbtrace_id=%v)",
		e.StatusCode, e.Message, e.Type, e.Code, e.FbTraceId)
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	wrapper := struct {
		Error *APIError `json:"error"`
	}{Error: apiErr}
	if err := json.Unmarshal(body, &wrapper); err != nil || len(apiErr.Message) == 0 {
		apiErr.Message = string(body)
	}
	apiErr.StatusCode = statusCode
	return apiErr
}

// TransportError means the request never got an HTTP answer.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "send events request: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err comes from a blank or rejected pixel id or token.
func IsConfigError(err error) bool {
	cause := errors.Cause(err)
	if cause == ErrMissingPixelID || cause == ErrMissingAccessToken {
		return true
	}
	if apiErr, ok := cause.(*APIError); ok {
		return apiErr.Code == codeAccessToken || apiErr.Code == codeInvalidParameter
	}
	return false
}

func IsTransportError(err error) bool {
	_, ok := errors.Cause(err).(*TransportError)
	return ok
}
