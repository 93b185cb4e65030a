package sheets

import (
	"errors"
	"fmt"
)

// GatewayError is a transport-level failure: the request never completed or
// the gateway answered with a non-2xx status.
type GatewayError struct {
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sheet gateway returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("sheet gateway request failed: %v", e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// AppError is an application-level failure: the gateway answered 200 but the
// body carried success=false.
type AppError struct {
	Message string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return "sheet gateway reported failure"
	}
	return "sheet gateway reported failure: " + e.Message
}

// IsGatewayError reports whether err is a transport-level gateway failure.
func IsGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}

// IsAppError reports whether err is an application-level gateway failure.
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}
