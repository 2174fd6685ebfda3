package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrTransport            = errors.New("server unreachable")
	ErrServer               = errors.New("server reported failure")
	ErrValidation           = errors.New("validation failed")
	ErrFeatureBusy          = errors.New("another AI feature is already running")
	ErrConfirmationMismatch = errors.New("confirmation does not match")
	ErrViewReleased         = errors.New("view released")
)

// TransportError is returned when no response was received at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ServerError is a response with a non-2xx status. Message is the payload's
// own message when it carried one; Fields holds per-field validation errors.
type ServerError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
	}
	if field, msg := e.FirstFieldMessage(); msg != "" {
		return fmt.Sprintf("status %d: %s: %s", e.StatusCode, field, msg)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

func (e *ServerError) Is(target error) bool {
	if target == ErrServer {
		return true
	}
	return target == ErrValidation && len(e.Fields) > 0
}

// FieldMessage returns the first message reported for the first of the given
// fields that has one.
func (e *ServerError) FieldMessage(fields ...string) string {
	for _, field := range fields {
		for _, msg := range e.Fields[field] {
			if msg = strings.TrimSpace(msg); msg != "" {
				return msg
			}
		}
	}
	return ""
}

func (e *ServerError) FirstFieldMessage() (string, string) {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if msg := e.FieldMessage(name); msg != "" {
			return name, msg
		}
	}
	return "", ""
}

// ValidationError is a local input failure detected before any request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
