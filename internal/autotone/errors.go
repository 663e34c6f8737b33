package autotone

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is matched by every *FormatError.
	ErrFormat = errors.New("invalid color format")
	// ErrRange is matched by every *RangeError.
	ErrRange = errors.New("clip bound out of range")
	// ErrShape reports an invalid or inconsistent image batch.
	ErrShape = errors.New("invalid batch shape")
)

// FormatError reports a color string that cannot be parsed.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid color %q: %s", e.Input, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// RangeError reports that no histogram bin satisfied a clip-bound condition.
type RangeError struct {
	Bound     string // "lower" or "upper"
	Clip      float64
	Threshold float64
	Total     int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("no %s bound for clip %g (threshold %g of %d pixels)",
		e.Bound, e.Clip, e.Threshold, e.Total)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrRange
}
