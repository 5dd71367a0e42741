package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind tags an error by its origin so callers can branch on cause
// without coupling to concrete error types.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindRemote
	KindCompensation
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// RemoteError reports a failed call against the external record store.
// Fields carries the store's structured validation payload when it provided one.
type RemoteError struct {
	Op         string // "create", "update", "delete", "getOne", "getFullList", "getFirstMatch"
	Collection string
	Err        error
	Fields     []FieldError
}

func NewRemoteError(op, collection string, err error, flds ...FieldError) error {
	return &RemoteError{Op: op, Collection: collection, Err: err, Fields: flds}
}

func (err RemoteError) Error() string {
	msg := fmt.Sprintf("%s %s failed", err.Collection, err.Op)
	if len(err.Fields) > 0 {
		details := make([]string, 0, len(err.Fields))
		for _, f := range err.Fields {
			details = append(details, f.Field+": "+f.Error)
		}
		return msg + " (" + strings.Join(details, "; ") + ")"
	}
	if err.Err != nil {
		return msg + ": " + err.Err.Error()
	}
	return msg
}

func (err RemoteError) Unwrap() error { return err.Err }

// CompensationError reports that a rollback itself failed after a remote
// failure had already triggered it. The user-facing message stays the
// original cause; the compensation failures are attached for the operator.
type CompensationError struct {
	Cause    error
	Failures []error
}

func (err CompensationError) Error() string {
	if err.Cause != nil {
		return err.Cause.Error()
	}
	return "rollback failed"
}

func (err CompensationError) Unwrap() error { return err.Cause }

// KindOf reports the taxonomy kind of err per its root cause.
func KindOf(err error) ErrorKind {
	switch errors.Cause(err).(type) {
	case *ValidationError:
		return KindValidation
	case *CompensationError:
		return KindCompensation
	case *RemoteError:
		return KindRemote
	}
	return KindUnknown
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
