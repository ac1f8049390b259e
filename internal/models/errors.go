package models

import (
	"errors"
	"fmt"
	"time"
)

// KindInvertedRange marks a range whose start date is after its end date.
const KindInvertedRange = "InvertedRange"

// ErrInvertedRange is wrapped by every InvertedRange ValidationError.
var ErrInvertedRange = errors.New("start date must be before or equal to end date")

// ValidationError is returned when a booking cannot be constructed.
type ValidationError struct {
	Kind  string
	Start time.Time
	End   time.Time
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s > %s)", e.Kind, ErrInvertedRange,
		e.Start.Format("01/02/2006"), e.End.Format("01/02/2006"))
}

func (e *ValidationError) Unwrap() error {
	if e.Kind == KindInvertedRange {
		return ErrInvertedRange
	}
	return nil
}
