package layout

import (
	"errors"
	"fmt"
)

// Layout errors.
var (
	// ErrMissingSections indicates the input has no "sections" array.
	ErrMissingSections = errors.New("layout has no sections")

	// ErrInvalidJSON indicates the input is not well-formed JSON.
	ErrInvalidJSON = errors.New("invalid layout json")

	// ErrInvalidSection indicates a malformed section entry.
	ErrInvalidSection = errors.New("invalid section")

	// ErrInvalidColor indicates a color that is not a hex RGB value.
	ErrInvalidColor = errors.New("invalid color")
)

// DecodeError reports which section failed to decode.
type DecodeError struct {
	Index int  // position in the sections array
	Kind  Kind // type tag, if one was readable
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("section %d (%s): %v", e.Index, e.Kind, e.Err)
	}
	return fmt.Sprintf("section %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
