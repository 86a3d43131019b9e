package config

import "errors"

// Error variables for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrNotAnObject        = errors.New("must be an object")
	ErrNotAString         = errors.New("must be a string")
	ErrNotABool           = errors.New("must be a boolean")
)
