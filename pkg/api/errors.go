package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an API failure
type Kind int

const (
	// KindUnauthenticated means no, invalid, or expired credential.
	// The session is cleared when this comes back from the server.
	KindUnauthenticated Kind = iota + 1
	// KindForbidden means a valid session with insufficient role.
	// The session is retained.
	KindForbidden
	// KindNotFound means the resource does not exist
	KindNotFound
	// KindValidation means the server (or the local draft validator)
	// rejected the payload; Fields carries per-field messages.
	KindValidation
	// KindUnreachable means no response arrived: network failure or
	// timeout.
	KindUnreachable
	// KindServerFault means the server answered 5xx
	KindServerFault
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation failed"
	case KindUnreachable:
		return "unreachable"
	case KindServerFault:
		return "server fault"
	}
	return "unknown"
}

// Error is the typed failure every call returns. It is never swallowed:
// callers surface it to the user, forms render Fields next to their
// inputs.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Fields maps field name to message for validation failures
	Fields map[string]string

	cause error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for field, msg := range e.Fields {
			parts = append(parts, field+": "+msg)
		}
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(parts, "; "))
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.cause }

// kindOf extracts the failure kind, or 0 for non-API errors
func kindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsUnauthenticated reports whether err is an authentication failure
func IsUnauthenticated(err error) bool { return kindOf(err) == KindUnauthenticated }

// IsForbidden reports whether err is an authorization failure
func IsForbidden(err error) bool { return kindOf(err) == KindForbidden }

// IsNotFound reports whether err is a missing-resource failure
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

// IsUnreachable reports whether err is a transport failure or timeout
func IsUnreachable(err error) bool { return kindOf(err) == KindUnreachable }

// IsServerFault reports whether err is a 5xx failure
func IsServerFault(err error) bool { return kindOf(err) == KindServerFault }

// FieldErrors returns the per-field messages of a validation failure,
// or nil for any other error.
func FieldErrors(err error) map[string]string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindValidation {
		return apiErr.Fields
	}
	return nil
}

// classifyStatus builds the Error for a non-2xx response body. The
// server answers in several shapes: {"detail": "..."} for auth failures,
// {"error": "..."} for wrapped exceptions, and a field->messages map for
// serializer rejections.
func classifyStatus(status int, body []byte) *Error {
	switch {
	case status == http.StatusUnauthorized:
		return &Error{Kind: KindUnauthenticated, Status: status, Message: bodyMessage(body)}
	case status == http.StatusForbidden:
		return &Error{Kind: KindForbidden, Status: status, Message: bodyMessage(body)}
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: status, Message: bodyMessage(body)}
	case status >= 500:
		return &Error{Kind: KindServerFault, Status: status, Message: bodyMessage(body)}
	default:
		e := &Error{Kind: KindValidation, Status: status}
		e.Message, e.Fields = decodeValidation(body)
		return e
	}
}

// bodyMessage pulls a human-readable message out of an error body
func bodyMessage(body []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "error", "message"} {
		if raw, ok := envelope[key]; ok {
			var msg string
			if json.Unmarshal(raw, &msg) == nil {
				return msg
			}
		}
	}
	return ""
}

// decodeValidation extracts field-level messages from a serializer
// rejection. Values may be a single string or a list of strings; only
// the first message per field is kept.
func decodeValidation(body []byte) (string, map[string]string) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return strings.TrimSpace(string(body)), nil
	}

	fields := make(map[string]string, len(envelope))
	var message string
	for key, raw := range envelope {
		var single string
		if json.Unmarshal(raw, &single) == nil {
			if key == "detail" || key == "error" || key == "non_field_errors" {
				message = single
			} else {
				fields[key] = single
			}
			continue
		}
		var many []string
		if json.Unmarshal(raw, &many) == nil && len(many) > 0 {
			if key == "non_field_errors" {
				message = many[0]
			} else {
				fields[key] = many[0]
			}
		}
	}
	if len(fields) == 0 {
		fields = nil
	}
	return message, fields
}
