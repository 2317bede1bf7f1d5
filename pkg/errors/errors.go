package errors

import (
	"errors"
	"fmt"
)

// ConfigurationError is returned when settings are missing, invalid or
// describe an unsupported mode. It is always raised before any I/O.
type ConfigurationError struct {
	msg string
}

func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.msg)
}

func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

type ResourceNotFoundError struct {
	resource string
	id       string
	reason   string
}

func NewSheetNotFoundError(sheet string) *ResourceNotFoundError {
	return &ResourceNotFoundError{resource: "sheet", id: sheet}
}

func NewRowNotFoundError(sheet string, row int) *ResourceNotFoundError {
	return &ResourceNotFoundError{
		resource: "row",
		id:       fmt.Sprintf("%d", row),
		reason:   fmt.Sprintf("not found in sheet %q", sheet),
	}
}

func NewSourceNotInitializedError() *ResourceNotFoundError {
	return &ResourceNotFoundError{
		resource: "test data sheet",
		reason:   "row source not initialized, call Initialize first",
	}
}

func NewLedgerEmptyError(field string) *ResourceNotFoundError {
	return &ResourceNotFoundError{
		resource: "generated " + field,
		reason:   "nothing has been staged in this run",
	}
}

func (e *ResourceNotFoundError) Error() string {
	switch {
	case e.id == "":
		return fmt.Sprintf("%s not found: %s", e.resource, e.reason)
	case e.reason == "":
		return fmt.Sprintf("%s %q not found", e.resource, e.id)
	default:
		return fmt.Sprintf("%s %s %s", e.resource, e.id, e.reason)
	}
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// DatabaseError wraps a driver failure while connecting to or writing the
// staging store. The driver message is preserved.
type DatabaseError struct {
	op  string
	err error
}

func NewDatabaseError(op string, err error) *DatabaseError {
	return &DatabaseError{op: op, err: err}
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database operation failed: %s: %v", e.op, e.err)
}

func (e *DatabaseError) Unwrap() error {
	return e.err
}

func IsDatabaseError(err error) bool {
	var e *DatabaseError
	return errors.As(err, &e)
}

type InvalidTemplateError struct {
	field string
	value string
	err   error
}

func NewInvalidTemplateError(field, value string, err error) *InvalidTemplateError {
	return &InvalidTemplateError{field: field, value: value, err: err}
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("cannot resolve %s from %q: %v", e.field, e.value, e.err)
}

func (e *InvalidTemplateError) Unwrap() error {
	return e.err
}

func IsInvalidTemplateError(err error) bool {
	var e *InvalidTemplateError
	return errors.As(err, &e)
}

type TokenError struct {
	msg string
}

func NewTokenError(format string, args ...any) *TokenError {
	return &TokenError{msg: fmt.Sprintf(format, args...)}
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("access token: %s", e.msg)
}

func IsTokenError(err error) bool {
	var e *TokenError
	return errors.As(err, &e)
}

// LookupError is returned when the debtor lookup answers with an unexpected
// status or a body missing the expected properties.
type LookupError struct {
	StatusCode int
	Body       string
	msg        string
}

func NewLookupError(status int, body string, msg string) *LookupError {
	return &LookupError{StatusCode: status, Body: body, msg: msg}
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("debtor lookup failed (status %d): %s", e.StatusCode, e.msg)
}

func IsLookupError(err error) bool {
	var e *LookupError
	return errors.As(err, &e)
}
