package aws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/aws/smithy-go"
)

// ErrorKind is the closed set of failure classes the retry and shutdown
// logic switch on. Classification happens once, at this boundary; callers
// never inspect SDK error types directly.
type ErrorKind int

const (
	// KindClientAPI is a failure the service returned with a structured
	// error code (authorization, validation, not-found, throttling after
	// the SDK's own retries gave up).
	KindClientAPI ErrorKind = iota
	// KindTransientNetwork is a connectivity or transport failure that
	// never reached the service and is worth retrying.
	KindTransientNetwork
	// KindOther is anything else: malformed responses, cancelled
	// contexts, programming errors.
	KindOther
)

// instanceNotFoundCode is returned by DescribeInstances when an id does not
// exist, instead of an empty reservation list.
const instanceNotFoundCode = "InvalidInstanceID.NotFound"

var authorizationCodes = map[string]bool{
	"UnauthorizedOperation": true,
	"AccessDenied":          true,
	"AccessDeniedException": true,
}

// ClassifiedError wraps an SDK error with its kind and, for API errors,
// the service error code and message.
type ClassifiedError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *ClassifiedError) Error() string {
	if e.Kind == KindClientAPI {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Err.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// Classify maps an error from an SDK call onto the closed kind set.
// A nil error returns nil.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &ClassifiedError{
			Kind:    KindClientAPI,
			Code:    apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
			Err:     err,
		}
	}

	if isTransient(err) {
		return &ClassifiedError{Kind: KindTransientNetwork, Err: err}
	}

	return &ClassifiedError{Kind: KindOther, Err: err}
}

func isTransient(err error) bool {
	// Context cancellation is the caller's decision, not a network fault.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE)
}

// IsAuthorization reports whether a classified error carries one of the
// permission-denied codes.
func (e *ClassifiedError) IsAuthorization() bool {
	return e.Kind == KindClientAPI && authorizationCodes[e.Code]
}

// IsInstanceNotFound reports whether a classified error means the instance
// id no longer exists.
func (e *ClassifiedError) IsInstanceNotFound() bool {
	return e.Kind == KindClientAPI && e.Code == instanceNotFoundCode
}
