package usergrid

import (
	"errors"
	"fmt"
)

// ErrorCategory is the machine-checkable classification carried by APIError.
// Categories either come from the fixed set below or are passed through
// verbatim from the service's "error" field.
type ErrorCategory string

const (
	// ErrorCategoryLoginFailed indicates a rejected authentication grant.
	ErrorCategoryLoginFailed ErrorCategory = "login_failed"

	// ErrorCategoryExpiredToken indicates the access token lapsed and
	// auto-reconnect was unavailable or disabled.
	ErrorCategoryExpiredToken ErrorCategory = "expired_token"

	// ErrorCategoryGeneralFailure covers connectivity failures and
	// unclassified service errors.
	ErrorCategoryGeneralFailure ErrorCategory = "usergrid_failure"

	// ErrorCategoryPasswordUpdateFailed indicates the password-change
	// endpoint reported an error.
	ErrorCategoryPasswordUpdateFailed ErrorCategory = "password_update_failed"

	// ErrorCategoryNotFound is the service's own category for a missing
	// resource; kept here because IsNotFound branches on it.
	ErrorCategoryNotFound ErrorCategory = "service_resource_not_found"
)

// APIError represents a classified failure from the service or the client's
// session layer. Its string form is "{category}: {detail}".
type APIError struct {
	Category   ErrorCategory `json:"error"             yaml:"error"`
	Detail     string        `json:"error_description" yaml:"error_description"`
	StatusCode int           `json:"-"                 yaml:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Detail)
}

// Static errors for err113 compliance.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrHostRequired        = errors.New("host is required")
	ErrOrgRequired         = errors.New("org is required")
	ErrAppRequired         = errors.New("app is required")
	ErrTTLTooShort         = errors.New("ttl cannot be less than one second")
	ErrProcessFuncRequired = errors.New("process function is required")
	ErrNoMoreEntities      = errors.New("no more entities")
)

// IsNotFound checks if the error is a missing-resource error, either by the
// service's own category or by HTTP 404 classification.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Category == ErrorCategoryNotFound || apiErr.StatusCode == 404
	}

	return false
}

// IsExpiredToken checks if the error is an expired-token error.
func IsExpiredToken(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Category == ErrorCategoryExpiredToken
	}

	return false
}

// IsLoginFailed checks if the error is a rejected-grant error.
func IsLoginFailed(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Category == ErrorCategoryLoginFailed
	}

	return false
}

// CatchNotFound runs fn and substitutes fallback when the failure is a
// missing-resource error. Every other failure propagates unchanged.
func CatchNotFound[T any](fallback T, fn func() (T, error)) (T, error) {
	result, err := fn()
	if err != nil {
		if IsNotFound(err) {
			return fallback, nil
		}

		return result, err
	}

	return result, nil
}
