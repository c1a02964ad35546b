package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrNoEntryFunction   = errors.New("no entry function")
	ErrMainIsReserved    = errors.New("main is reserved")
	ErrDuplicateFunction = errors.New("duplicate function")
)

// ReservedFunction may not be defined by programs.
const ReservedFunction = "main"

// Validate checks the program-level rules Generate relies on: exactly one
// entry function and no function named main. The first violation in source
// order is reported.
func Validate(program []TopLevel) error {
	seen := make(map[string]bool)
	for _, item := range program {
		f, ok := item.(*FunctionDecl)
		if !ok {
			continue
		}
		if f.Name == ReservedFunction {
			return fmt.Errorf("%w: function %q", ErrMainIsReserved, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %q defined more than once", ErrDuplicateFunction, f.Name)
		}
		seen[f.Name] = true
	}
	if !seen[EntryFunction] {
		return fmt.Errorf("%w: define function %s()", ErrNoEntryFunction, EntryFunction)
	}
	return nil
}
