package models

import "errors"

var (
	ErrMalformedTimestamp = errors.New("malformed civil timestamp")
	ErrUnknownTimezone    = errors.New("unknown timezone")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidChartSpan   = errors.New("invalid chart span")
	ErrInsufficientData   = errors.New("insufficient bars for session")
)
