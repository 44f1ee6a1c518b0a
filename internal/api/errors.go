package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/robertarktes/holidaze-gateway/internal/domain"
)

// Error is the single error shape every failed call is normalized into.
// Error() returns only the human-readable message.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is lets callers match remote failures against the domain sentinels.
func (e *Error) Is(target error) bool {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return target == domain.ErrUnauthorized
	case http.StatusNotFound:
		return target == domain.ErrNotFound
	case http.StatusConflict:
		return target == domain.ErrConflict
	case http.StatusBadRequest:
		return target == domain.ErrInvalidInput
	}
	return false
}

type errorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Message string `json:"message"`
}

func decodeError(status int, body []byte) *Error {
	e := &Error{Status: status, Message: fallbackMessage(status)}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return e
	}

	msgs := make([]string, 0, len(eb.Errors))
	for _, item := range eb.Errors {
		if m := strings.TrimSpace(item.Message); m != "" {
			msgs = append(msgs, m)
		}
	}
	switch {
	case len(msgs) > 0:
		e.Message = strings.Join(msgs, "; ")
	case strings.TrimSpace(eb.Message) != "":
		e.Message = strings.TrimSpace(eb.Message)
	}
	return e
}

func fallbackMessage(status int) string {
	return fmt.Sprintf("Request failed with status %d", status)
}

func transportError(err error) *Error {
	return &Error{Message: "Could not reach the booking service", cause: err}
}
