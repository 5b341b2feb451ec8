// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package section

import (
	"fmt"
)

// SectionFlags describe a section.
type SectionFlags int32

const (
	SECTION_BSS     = SectionFlags(1 << 0) // Zero initialised storage only.
	SECTION_CTOR    = SectionFlags(1 << 1) // Constructor table entries.
	SECTION_DTOR    = SectionFlags(1 << 2) // Destructor table entries.
	SECTION_TOUCHED = SectionFlags(1 << 3) // Reachable at link time.
)

// Section is a named run of code, data or BSS, with the symbols it
// declares and the references it makes.
type Section struct {
	Name    string
	Symbols []*Symbol    // Declarations, in order of first mention.
	Refs    []*Symbol    // References, in emission order.
	Cursor  int          // Bytes emitted or reserved so far.
	Flags   SectionFlags // Section kind and link state.
	Address int          // Base address, set by AssignAddresses.
	Offset  int          // Bytes added by references, set by layout.

	buffers []*codeBuffer
}

// New creates an empty section.
func New(name string) *Section {
	return &Section{Name: name}
}

func (sect *Section) String() string {
	return fmt.Sprintf("%v address:0x%x cursor:%d offset:%d", sect.Name, sect.Address, sect.Cursor, sect.Offset)
}

// BSS returns true if the section only reserves storage.
func (sect *Section) BSS() bool {
	return sect.Flags&SECTION_BSS != 0
}

// Touch marks the section as reachable.
func (sect *Section) Touch() {
	sect.Flags |= SECTION_TOUCHED
}

// Touched returns true if the section was marked reachable.
func (sect *Section) Touched() bool {
	return sect.Flags&SECTION_TOUCHED != 0
}

// Lookup finds a symbol by name.
func (sect *Section) Lookup(name string) (sym *Symbol, ok bool) {
	for _, sym = range sect.Symbols {
		if sym.Name == name {
			return sym, true
		}
	}
	return nil, false
}

// Symbol returns the named symbol, creating an undeclared placeholder if
// the section has never seen it.
func (sect *Section) Symbol(name string) (sym *Symbol) {
	sym, ok := sect.Lookup(name)
	if !ok {
		sym = &Symbol{Name: name, Cursor: UNDECLARED}
		sect.Symbols = append(sect.Symbols, sym)
	}
	return
}

// Declare declares a symbol at the current cursor.
func (sect *Section) Declare(name string, flags Flags) (err error) {
	sym := sect.Symbol(name)
	if sym.Declared() {
		err = ErrRedefined(name)
		return
	}
	sym.Flags |= flags
	sym.Cursor = sect.Cursor
	return
}

func scope(global bool) Flags {
	if global {
		return FLAG_GLOBAL
	}
	return FLAG_LOCAL
}

// DeclareCommon declares a symbol and reserves size bytes of BSS for it.
// Sections holding bytes or references can't become BSS.
func (sect *Section) DeclareCommon(name string, size int, global bool) (err error) {
	if !sect.BSS() && (sect.Cursor != 0 || len(sect.Refs) != 0) {
		err = ErrSectionKindConflict
		return
	}
	err = sect.Declare(name, scope(global)|FLAG_BSS)
	if err != nil {
		return
	}
	sect.Flags |= SECTION_BSS
	sect.Cursor += size
	return
}

// DeclareConstant declares a symbol with a literal value and no position.
func (sect *Section) DeclareConstant(name string, value int, global bool) (err error) {
	sym := sect.Symbol(name)
	if sym.Declared() {
		err = ErrRedefined(name)
		return
	}
	sym.Cursor = value
	sym.Flags |= scope(global) | FLAG_CONSTANT
	return
}

// DeclareReference records a reference to name at the current cursor.
// kind is one of FLAG_REFERENCE, FLAG_LDPCREL or FLAG_LDABS.
func (sect *Section) DeclareReference(name string, kind Flags, offset int) (err error) {
	if sect.BSS() {
		err = ErrSectionKindConflict
		return
	}
	switch kind {
	case FLAG_REFERENCE, FLAG_LDPCREL, FLAG_LDABS:
	default:
		err = ErrReferenceKind
		return
	}
	return sect.addReference(&Symbol{Name: name, Cursor: sect.Cursor, Flags: kind, Offset: offset})
}

// Align pads the following bytes to a multiple of boundary. The alignment
// point is recorded just before the current cursor.
func (sect *Section) Align(boundary int) (err error) {
	if boundary <= 0 || boundary&(boundary-1) != 0 {
		err = ErrAlignment
		return
	}
	return sect.addReference(&Symbol{Name: "algn", Cursor: sect.Cursor - 1, Flags: FLAG_ALIGN, Offset: boundary})
}

// addReference appends a reference, keeping the list ordered by position.
func (sect *Section) addReference(ref *Symbol) (err error) {
	if len(sect.Refs) > 0 && ref.position() < sect.Refs[len(sect.Refs)-1].position() {
		err = ErrReferenceOrder
		return
	}
	if ref.position() > sect.Cursor || ref.position() < 0 {
		err = ErrReferenceOrder
		return
	}
	sect.Refs = append(sect.Refs, ref)
	return
}

// EmitByte appends one byte of code or data.
func (sect *Section) EmitByte(b byte) (err error) {
	return sect.Emit(b)
}

// Emit appends bytes of code or data.
func (sect *Section) Emit(data ...byte) (err error) {
	if sect.BSS() {
		err = ErrSectionKindConflict
		return
	}
	sect.write(data)
	return
}
