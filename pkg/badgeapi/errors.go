package badgeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/badgeclient/internal/validation"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("badgeapi: client closed")

// UnreachableError reports that no response was received: connection
// failure, timeout, or cancellation.
type UnreachableError struct {
	Op  string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%s: unreachable: %v", e.Op, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// ServerError is a non-2xx response. Message holds the server's {message}
// when the body could be parsed.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Display())
}

// Display returns the server message or a generic status line.
func (e *ServerError) Display() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("status %d", e.Status)
}

// MalformedResponseError is a 2xx response whose body is empty, null,
// unparseable, or does not match the expected shape.
type MalformedResponseError struct {
	Op     string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response (%s): %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: malformed response (%s)", e.Op, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// errorMessage extracts {message} from an error body. It returns "" when the
// body is absent or not that shape.
func errorMessage(body []byte) string {
	var b struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &b); err != nil || b.Message == nil {
		return ""
	}
	return strings.TrimSpace(*b.Message)
}

// Describe renders err as a non-empty message for display. action prefixes
// the generic fallbacks, e.g. "Error fetching profile".
func Describe(err error, action string) string {
	if err == nil {
		return ""
	}

	var ve *validation.Error
	var se *ServerError
	var me *MalformedResponseError
	var ue *UnreachableError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &se):
		if se.Message != "" {
			return se.Message
		}
		return fmt.Sprintf("%s: status %d", action, se.Status)
	case errors.As(err, &me):
		return action + ": malformed response"
	case errors.As(err, &ue):
		return "An error occurred: " + ue.Err.Error()
	default:
		return "An error occurred: " + err.Error()
	}
}

// IsMalformed reports whether err is a MalformedResponseError.
func IsMalformed(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}
