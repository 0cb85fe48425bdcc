// Package apperr defines the error taxonomy shared by all services.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping and retry decisions.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindStockInsufficient
	KindRemoteService
	KindTransaction
	KindNotificationDelivery
)

// Error carries a kind, a caller-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func StockInsufficient(format string, args ...any) *Error {
	return &Error{Kind: KindStockInsufficient, Message: fmt.Sprintf(format, args...)}
}

// RemoteService wraps a failed or timed-out downstream call. Callers past
// the commit point must compensate before surfacing it.
func RemoteService(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindRemoteService, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Transaction(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindTransaction, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func NotificationDelivery(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindNotificationDelivery, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus maps an error to the status code served to callers.
// Unclassified errors are treated as internal.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindStockInsufficient:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRemoteService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
