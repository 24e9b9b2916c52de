package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// ConnectionFailedMessage is the message of transport errors without a response.
const ConnectionFailedMessage = "connection failed"

// TransportError is the normalized form of every failed API call.
//
// StatusCode is 0 when no response was received. Details carries the raw
// JSON error body when the server sent one.
type TransportError struct {
	StatusCode int
	Message    string
	Details    json.RawMessage
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Message
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is maps status codes onto the package sentinels.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.StatusCode == 0
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// StatusCode returns the HTTP status carried by err, 0 for connection
// failures and -1 when err is not a transport error.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return -1
}

func connectionFailed(err error) *TransportError {
	return &TransportError{StatusCode: 0, Message: ConnectionFailedMessage, Err: err}
}
