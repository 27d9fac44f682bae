package mercadopago

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx reply from the provider. Detail carries the
// provider's own description when the body could be parsed.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercadopago error: %s (status: %d)", e.Message, e.StatusCode)
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsNotFound reports whether the provider does not know the payment id.
func IsNotFound(err error) bool {
	apiErr, ok := IsAPIError(err)
	return ok && apiErr.StatusCode == 404
}
