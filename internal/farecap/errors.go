package farecap

import "errors"

var (
	ErrInvalidDays = errors.New("cap window must be at least one day")
	ErrInvalidCap  = errors.New("cap amount must be positive")
	ErrInvalidFare = errors.New("fare must be positive")
)
