/*
Package errs provides the relay's error type and application-level error codes.

The same codes classify rejected HTTP requests and dropped WebSocket events, so a log line
or an HTTP response can always be traced back to one entry of the code table.
*/
package errs

import (
	"fmt"
	"net/http"
	"strings"

	"debatehub/internal/pkg/logx"
)

// CustomError carries a business code, a client-facing message and an HTTP status.
type CustomError struct {
	Code    int
	Message string
	Status  int
}

// Error implements the error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError builds a *CustomError from the code table. Details are applied to the message
// template with fmt.Sprintf when it contains verbs. Unknown codes map to ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]
	if !ok {
		logx.Error(
			fmt.Errorf("unknown error code %d", code),
			"Unknown error code requested",
			"requested_code", code,
		)
		templateErr = errorMap[ErrUnknown]
	}

	customErr := templateErr
	if customErr.Status == 0 {
		customErr.Status = http.StatusOK
	}

	if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else if cause, isErr := details[0].(error); isErr {
			logx.Error(cause, "Underlying error attached to application error", "code", customErr.Code)
		} else {
			logx.Warn("Details provided for an error without placeholders. Details ignored.", "code", customErr.Code)
		}
	}

	return &customErr
}
