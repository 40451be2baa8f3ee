package stealth

import "errors"

var (
	ErrDuplicateObserver = errors.New("observer name already registered")
	ErrNilObserver       = errors.New("observer is nil")
	ErrInvalidStep       = errors.New("tick step must be positive")
)
