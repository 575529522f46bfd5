package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnexpectedResponse is returned when a success body cannot be decoded
var ErrUnexpectedResponse = errors.New("unexpected API response")

// APIError is a non-2xx answer from the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// errorBody covers the error shapes the API produces
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		switch {
		case eb.Error != "":
			e.Message = eb.Error
		case eb.Detail != "":
			e.Message = eb.Detail
		}
	}
	return e
}

// ServerMessage returns the message the server put in an error body, if any
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// MessageOr returns the server message carried by err, or fallback
func MessageOr(err error, fallback string) string {
	if msg, ok := ServerMessage(err); ok {
		return msg
	}
	return fallback
}
