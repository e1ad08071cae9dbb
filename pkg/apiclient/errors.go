package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

const (
	genericMessage     = "The request could not be completed. Please try again."
	unreachableMessage = "The restaurant service is unreachable. Please try again later."
	maxErrorBody       = 64 << 10
)

// Error is a failed call to the API. Status is zero when no response was
// received. Message is safe to show to the user.
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// FieldError returns the first message reported for a form field.
func (e *Error) FieldError(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the user facing text of an API error, or fallback for
// anything else.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	e := &Error{Status: resp.StatusCode}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		e.Message = genericMessage
		return e
	}

	for _, key := range []string{"error", "detail", "message"} {
		if s := firstString(body[key]); s != "" {
			e.Message = s
			return e
		}
	}

	e.Fields = map[string][]string{}
	keys := make([]string, 0, len(body))
	for k, v := range body {
		if msgs := messages(v); len(msgs) > 0 {
			e.Fields[k] = msgs
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	switch {
	case len(keys) == 0:
		e.Message = genericMessage
	case len(keys) == 1 || slices.Contains(keys, "non_field_errors"):
		k := keys[0]
		if slices.Contains(keys, "non_field_errors") {
			k = "non_field_errors"
		}
		e.Message = e.Fields[k][0]
	default:
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k][0])
		}
		e.Message = strings.Join(parts, "; ")
	}
	return e
}

func firstString(v any) string {
	if msgs := messages(v); len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func messages(v any) []string {
	switch t := v.(type) {
	case string:
		if t != "" {
			return []string{t}
		}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
