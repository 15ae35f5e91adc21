package apperror

import "fmt"

// AppError carries everything a handler needs to answer a failed request.
// Sentinels are package-level *AppError values compared with errors.Is.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    any
	Err        error

	// sentinel this error was derived from by WithDetails
	base *AppError
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel a detailed copy was derived from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.base != nil && e.base == t
}

// WithDetails returns a copy of e carrying details for the response body.
// The copy still satisfies errors.Is(copy, e).
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	if e.base == nil {
		cp.base = e
	}
	return &cp
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap keeps err reachable through errors.Is/As. A nil err returns nil.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}
