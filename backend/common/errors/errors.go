package errors

import stderrors "errors"

// AppError carries a stable machine-readable code next to the human message.
type AppError struct {
	Code string
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	return e.Msg
}

func (e *AppError) ErrorCode() string {
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, msg string) *AppError {
	return &AppError{
		Code: code,
		Msg:  msg,
		Err:  stderrors.New(msg),
	}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code string, msg string) *AppError {
	return &AppError{
		Code: code,
		Msg:  msg,
		Err:  err,
	}
}

// IsCode reports whether err (or anything it wraps) carries the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the error code, or ERR_INTERNAL_SERVER for plain errors.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternalServer
}
