package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (Orchestration)

type ServiceError struct {
	Code       string
	Message    string
	Detail     string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeInvalidArgument      = "INVALID_ARGUMENT"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeGatewayError         = "GATEWAY_ERROR"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeConfiguration        = "CONFIGURATION_ERROR"
	ErrCodeDuplicateOrderNumber = "DUPLICATE_ORDER_NUMBER"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

func NewNotFoundError(what string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", what),
		HTTPStatus: http.StatusNotFound,
	}
}

func NewInvalidArgumentError(msg string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidArgument,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewInvalidStateError(msg string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidState,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// NewGatewayError wraps a payment provider failure. Detail carries the
// provider's own error text when available, for support diagnosis.
func NewGatewayError(detail string, err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeGatewayError,
		Message:    "payment provider error",
		Detail:     detail,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewAuthenticationFailedError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeAuthenticationFailed,
		Message:    "webhook signature verification failed",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewConfigurationError surfaces a missing credential or secret
// distinctly so operators do not confuse it with a user input error.
func NewConfigurationError(msg string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeConfiguration,
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewDuplicateOrderNumberError signals an order-number collision under
// concurrent creation. Retryable: the counter is derived, the store's
// uniqueness constraint is the final arbiter.
func NewDuplicateOrderNumberError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeDuplicateOrderNumber,
		Message:    "order number collision, please retry",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "an internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

func IsCode(err error, code string) bool {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code == code
	}
	return false
}
