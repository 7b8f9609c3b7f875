// Package apperr is the error taxonomy shared by services, repositories and the HTTP layer.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidTransition
	KindInsufficientInventory
	KindValidation
	KindTimeout
	KindUpstream
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindInsufficientInventory:
		return "insufficient_inventory"
	case KindValidation:
		return "validation"
	case KindTimeout:
		return "timeout"
	case KindUpstream:
		return "upstream"
	case KindStore:
		return "store"
	default:
		return "internal"
	}
}

// Stable codes rendered in the "code" field of error responses.
const (
	CodeNotFound              = "NOT_FOUND"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeValidation            = "VALIDATION_FAILED"
	CodeUpstream              = "UPSTREAM_FAILURE"
	CodeInternal              = "INTERNAL_ERROR"
	CodeDuplicateRequest      = "DUPLICATE_REQUEST"

	CodeQueryFailed      = "DB_QUERY_FAILED"
	CodeDuplicateEntry   = "DB_DUPLICATE_ENTRY"
	CodeForeignKey       = "DB_FOREIGN_KEY_VIOLATION"
	CodeNotNull          = "DB_NOT_NULL_VIOLATION"
	CodeEntityNotFound   = "DB_ENTITY_NOT_FOUND"
	CodeQueryTimeout     = "DB_QUERY_TIMEOUT"
	CodeConnectionFailed = "DB_CONNECTION_FAILED"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Detail  any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the bare sentinels below by kind, so errors.Is(err, ErrNotFound)
// holds for every NotFound regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Code != "" || t.Message != "" {
		return false
	}
	return e.Kind == t.Kind
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidTransition, KindInsufficientInventory, KindValidation:
		return http.StatusBadRequest
	case KindTimeout:
		return http.StatusRequestTimeout
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrConflict              = &Error{Kind: KindConflict}
	ErrInvalidTransition     = &Error{Kind: KindInvalidTransition}
	ErrInsufficientInventory = &Error{Kind: KindInsufficientInventory}
	ErrValidation            = &Error{Kind: KindValidation}
	ErrTimeout               = &Error{Kind: KindTimeout}
	ErrUpstream              = &Error{Kind: KindUpstream}
	ErrStore                 = &Error{Kind: KindStore}
)

func NotFound(entity string, id any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", entity, id),
		Detail:  map[string]any{"entity": entity, "id": id},
	}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func DuplicateEntry(entity, field string, value any) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    CodeDuplicateEntry,
		Message: fmt.Sprintf("%s with %s '%v' already exists", entity, field, value),
		Detail:  map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// DuplicateRequest reports a replayed Idempotency-Key.
func DuplicateRequest(key string) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    CodeDuplicateRequest,
		Message: "A request with this Idempotency-Key was already processed",
		Detail:  map[string]any{"idempotencyKey": key},
	}
}

func InvalidTransition(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidTransition, Code: CodeInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func InsufficientInventory(productID, name string, available, requested int) *Error {
	return &Error{
		Kind:    KindInsufficientInventory,
		Code:    CodeInsufficientInventory,
		Message: fmt.Sprintf("Insufficient inventory for product %s", name),
		Detail:  map[string]any{"productId": productID, "available": available, "requested": requested},
	}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func Upstream(err error, format string, args ...any) *Error {
	return &Error{Kind: KindUpstream, Code: CodeUpstream, Message: fmt.Sprintf(format, args...), Err: err}
}

func ConnectionFailed(err error) *Error {
	return &Error{Kind: KindStore, Code: CodeConnectionFailed, Message: "Failed to connect to the database", Err: err}
}

// FromStore classifies an error returned by pgx. Errors that are already
// *Error pass through untouched.
func FromStore(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &Error{Kind: KindNotFound, Code: CodeEntityNotFound, Message: "Entity not found", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Code: CodeQueryTimeout, Message: "Database query timed out", Err: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return &Error{Kind: KindConflict, Code: CodeDuplicateEntry, Message: "Duplicate entry", Detail: pgErr.Detail, Err: err}
		case "23503": // foreign_key_violation
			return &Error{Kind: KindValidation, Code: CodeForeignKey, Message: "Related record not found", Detail: pgErr.Detail, Err: err}
		case "23502": // not_null_violation
			return &Error{Kind: KindValidation, Code: CodeNotNull, Message: "Required field is missing", Detail: pgErr.Detail, Err: err}
		case "22003": // numeric_value_out_of_range
			return &Error{Kind: KindValidation, Code: CodeValidation, Message: "Numeric value out of range", Detail: pgErr.Message, Err: err}
		case "22P02": // invalid_text_representation
			return &Error{Kind: KindValidation, Code: CodeValidation, Message: "Invalid input syntax", Detail: pgErr.Message, Err: err}
		case "57014": // query_canceled (statement_timeout)
			return &Error{Kind: KindTimeout, Code: CodeQueryTimeout, Message: "Query execution timeout", Err: err}
		default:
			return &Error{Kind: KindStore, Code: CodeQueryFailed, Message: "Database query failed", Detail: "Error code: " + pgErr.Code, Err: err}
		}
	}
	return &Error{Kind: KindStore, Code: CodeQueryFailed, Message: "Database query failed", Err: err}
}

// As is a convenience around errors.As for the HTTP layer.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
