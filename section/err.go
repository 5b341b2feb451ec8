package section

import (
	"errors"

	"github.com/ezrec/a832/translate"
)

var f = translate.From

var (
	// Declaration errors
	ErrSectionKindConflict = errors.New(f("can't mix BSS and code/initialised data in a section"))
	ErrAlignment           = errors.New(f("alignment is not a power of two"))
	ErrReferenceKind       = errors.New(f("reference kind invalid"))
	ErrReferenceOrder      = errors.New(f("reference out of order"))

	// Object file errors
	ErrIdentifier      = errors.New(f("identifier too long"))
	ErrObjectFormat    = errors.New(f("object format invalid"))
	ErrObjectTruncated = errors.New(f("object truncated"))
)

// ErrRedefined is returned when a symbol is declared twice.
type ErrRedefined string

func (err ErrRedefined) Error() string {
	return f("symbol %v redefined", string(err))
}

// ErrUnresolved is returned when a reference is sized or emitted before
// it has been resolved to a symbol.
type ErrUnresolved string

func (err ErrUnresolved) Error() string {
	return f("reference %v unresolved", string(err))
}

// ErrRelocationOverflow is returned when a reference's value no longer fits
// the size layout gave it.
type ErrRelocationOverflow string

func (err ErrRelocationOverflow) Error() string {
	return f("reference %v overflows its encoding", string(err))
}

// ErrLocation attributes an error to a source file and line.
type ErrLocation struct {
	File string
	Line int
	Err  error
}

func (err *ErrLocation) Error() string {
	return f("%v:%d: %v", err.File, err.Line, err.Err)
}

func (err *ErrLocation) Unwrap() error {
	return err.Err
}

// At attaches a source location to err. A nil err stays nil.
func At(file string, line int, err error) error {
	if err == nil {
		return nil
	}
	return &ErrLocation{File: file, Line: line, Err: err}
}

// ErrObject attributes an object file error to a section.
type ErrObject struct {
	Section string
	Err     error
}

func (err *ErrObject) Error() string {
	return f("section %v: %v", err.Section, err.Err)
}

func (err *ErrObject) Unwrap() error {
	return err.Err
}
