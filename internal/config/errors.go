package config

import "errors"

var (
	ErrInvalidStep     = errors.New("engine step must be positive")
	ErrNegativeWorkers = errors.New("engine workers must not be negative")
	ErrNegativeHorizon = errors.New("engine horizon must not be negative")
	ErrMissingName     = errors.New("name is required")
	ErrMissingAlarm    = errors.New("alarm is required")
)
