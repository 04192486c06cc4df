package apperrors

import "errors"

var (
	ErrUnknownDialect     = errors.New("unknown dialect")
	ErrEngineLimitReached = errors.New("engine limit reached")
)
