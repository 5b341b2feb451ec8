package linker

import (
	"errors"

	"github.com/ezrec/a832/translate"
)

var f = translate.From

var (
	ErrNonConvergent = errors.New(f("layout did not converge"))
)

// ErrSymbolUndefined is returned when a reference names a symbol that is
// neither declared in its own section nor declared global elsewhere.
type ErrSymbolUndefined string

func (err ErrSymbolUndefined) Error() string {
	return f("symbol %v undefined", string(err))
}

// ErrInconsistentRelocation is a warning for a PC-relative load of a
// constant. The constant's value is loaded, not a displacement to it.
type ErrInconsistentRelocation string

func (err ErrInconsistentRelocation) Error() string {
	return f("pc-relative reference to constant %v", string(err))
}

// ErrLoad attributes an error to the object file it was read from.
type ErrLoad struct {
	Name string
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}
