// Package apperr holds the error taxonomy shared by the data access layer,
// the validators and the handlers.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDuplicateProposal = errors.New("You have already submitted a proposal for this job")
	ErrUnsupported       = errors.New("This feature is not available with the connected server")
	ErrUnauthorized      = errors.New("Please log in to continue")
)

const networkMessage = "Network error. Please check your connection and try again."

// FieldErrors collects validation messages per form field.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Err returns nil when no field failed.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Fields: e}
}

// ValidationError is raised before any request is issued.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages flattens the field errors in field order.
func (e *ValidationError) Messages() []string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	var out []string
	for _, f := range fields {
		out = append(out, e.Fields[f]...)
	}
	return out
}

// RequestError is a non-2xx response. Message is the server text.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

// NetworkError is a transport failure: no connectivity, timeout, reset.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Message turns any error into the text shown in a notification.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		msgs := ve.Messages()
		if len(msgs) == 0 {
			return "Please fill in all required fields"
		}
		return msgs[0]
	}
	var re *RequestError
	if errors.As(err, &re) {
		if strings.TrimSpace(re.Message) != "" {
			return re.Message
		}
		return "Request failed"
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return networkMessage
	}
	switch {
	case errors.Is(err, ErrUnsupported), errors.Is(err, ErrUnauthorized), errors.Is(err, ErrDuplicateProposal):
		return rootMessage(err)
	case errors.Is(err, context.DeadlineExceeded):
		return networkMessage
	}
	return "Something went wrong. Please try again."
}

func rootMessage(err error) string {
	for _, target := range []error{ErrUnsupported, ErrUnauthorized, ErrDuplicateProposal} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

// IsNotFound reports whether the server answered 404.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == 404
}

// IsCanceled reports whether err comes from an abandoned navigation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
