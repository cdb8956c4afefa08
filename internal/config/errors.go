package config

import "errors"

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCap      = errors.New("invalid fare cap")
	ErrNoCaps          = errors.New("no fare caps configured")
	ErrNoWeeklyCap     = errors.New("no weekly fare cap configured")
	ErrNoEligibleTypes = errors.New("no eligible product types configured")
)
