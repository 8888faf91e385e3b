package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrGameNotFound   = fmt.Errorf("game %w", ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("player %w", ErrNotFound)

	ErrInvalidCoordinates = errors.New("row and column must be between 1 and 3")
	ErrInvalidMark        = errors.New("mark must be X or O")

	ErrGameFinished      = errors.New("game is already finished")
	ErrSquareOccupied    = errors.New("square is already occupied")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrGameIsFull        = errors.New("game already has two players")
	// ErrConcurrentMove means another move was stored for the game since it was read.
	ErrConcurrentMove = errors.New("game was changed by a concurrent move")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
)

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (that *ValidationError) Error() string {
	if len(that.Fields) == 0 {
		return ErrValidation.Error()
	}

	keys := make([]string, 0, len(that.Fields))
	for k := range that.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, that.Fields[k]))
	}

	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (that *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}
