package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrBusinessRule = errors.New("business rule violation")
	ErrConflict     = errors.New("conflict")

	ErrMinorIncome          = fmt.Errorf("%w: persons under %d can only record expenses", ErrBusinessRule, AdultAge)
	ErrCategoryTypeMismatch = fmt.Errorf("%w: category purpose does not accept this transaction type", ErrBusinessRule)
)

// NotFound wraps ErrNotFound with the entity kind and id.
func NotFound(entity string, id fmt.Stringer) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}
