package sampler

import (
	"errors"
	"fmt"
)

// Configuration errors. A sampler built with one of these stays unavailable.
var (
	ErrUnknownKind   = errors.New("unknown monitor kind")
	ErrUnknownFormat = errors.New("unsupported output format")
	ErrMissingTarget = errors.New("missing target")
)

// ErrUnavailable marks every reading that carries no value.
var ErrUnavailable = errors.New("unavailable")

func unavailableErr(what string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, what, cause)
}
