package section

import (
	"fmt"
	"math/bits"
	"strings"
)

// Flags describe a symbol declaration, or the kind of a reference.
type Flags int32

const (
	FLAG_GLOBAL   = Flags(1 << 0) // global
	FLAG_LOCAL    = Flags(1 << 1) // local
	FLAG_CONSTANT = Flags(1 << 2) // constant
	FLAG_BSS      = Flags(1 << 3) // bss

	FLAG_REFERENCE = Flags(1 << 4) // ref
	FLAG_LDPCREL   = Flags(1 << 5) // ldpcrel
	FLAG_LDABS     = Flags(1 << 6) // ldabs
	FLAG_ALIGN     = Flags(1 << 7) // align

	// FLAG_KIND_MASK selects the reference kind.
	FLAG_KIND_MASK = FLAG_REFERENCE | FLAG_LDPCREL | FLAG_LDABS | FLAG_ALIGN
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FLAG_GLOBAL, "global"},
	{FLAG_LOCAL, "local"},
	{FLAG_CONSTANT, "constant"},
	{FLAG_BSS, "bss"},
	{FLAG_REFERENCE, "ref"},
	{FLAG_LDPCREL, "ldpcrel"},
	{FLAG_LDABS, "ldabs"},
	{FLAG_ALIGN, "align"},
}

func (flags Flags) String() string {
	var names []string
	for _, entry := range flagNames {
		if flags&entry.flag != 0 {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, "|")
}

const (
	UNDECLARED = -1 // Cursor of a symbol that is referenced but not declared.

	DIRECT_SIZE   = 4    // Bytes in a direct reference.
	LI_OPCODE     = 0xc0 // Load-immediate opcode.
	LI_BITS       = 6    // Payload bits per load-immediate.
	LI_MASK       = (1 << LI_BITS) - 1
	LI_SIGN       = 0x20 // Sign extension bit of the first load-immediate.
	LI_MAX_CHUNKS = 6    // Load-immediates needed for any 32-bit value.
)

// Symbol is either a declaration or a reference.
//
// A declaration has a Cursor within its section (or UNDECLARED) and gets an
// Address from layout. Constant declarations keep their value in Cursor.
//
// A reference names its target, sits at Cursor in the section's byte
// stream, and adds Offset to the target's address. Alignment references
// keep their boundary in Offset. Size is the encoded length chosen by
// layout; Resolve is the target once name resolution has run.
type Symbol struct {
	Name    string
	Cursor  int
	Flags   Flags
	Address int
	Offset  int
	Size    int
	Resolve *Symbol
}

// Declared returns true once the symbol has a position or a value.
func (sym *Symbol) Declared() bool {
	return sym.Cursor != UNDECLARED || sym.Constant()
}

// Constant returns true for symbols declared with a literal value.
func (sym *Symbol) Constant() bool {
	return sym.Flags&FLAG_CONSTANT != 0
}

// Global returns true for symbols visible to other sections.
func (sym *Symbol) Global() bool {
	return sym.Flags&FLAG_GLOBAL != 0
}

// Kind returns the reference kind flag.
func (sym *Symbol) Kind() Flags {
	return sym.Flags & FLAG_KIND_MASK
}

// Value returns the value a reference to the symbol loads: the literal for
// constants, the address otherwise.
func (sym *Symbol) Value() int {
	if sym.Constant() {
		return sym.Cursor
	}
	return sym.Address
}

// position is the point in the byte stream a reference is inserted before.
// Alignment references are declared one byte early, after the byte they follow.
func (sym *Symbol) position() int {
	if sym.Kind() == FLAG_ALIGN {
		return sym.Cursor + 1
	}
	return sym.Cursor
}

// target returns the value a reference encodes.
func (sym *Symbol) target() (value int, err error) {
	if sym.Resolve == nil {
		err = ErrUnresolved(sym.Name)
		return
	}
	if sym.Resolve.Constant() {
		value = sym.Resolve.Cursor
		return
	}
	value = sym.Resolve.Address + sym.Offset
	return
}

func (sym *Symbol) String() string {
	text := fmt.Sprintf("%v cursor:%d flags:%v", sym.Name, sym.Cursor, sym.Flags)
	switch {
	case sym.Kind() != 0:
		text += fmt.Sprintf(" offset:%d size:%d", sym.Offset, sym.Size)
	case !sym.Constant():
		text += fmt.Sprintf(" address:0x%x", sym.Address)
	}
	return text
}

// liChunks returns the number of load-immediates needed for value, given
// that the first one is sign extended from LI_SIGN.
func liChunks(value int32) int {
	if value < 0 {
		value = ^value
	}
	return bits.Len32(uint32(value))/LI_BITS + 1
}

// appendLi appends size load-immediates of value, most significant first.
func appendLi(data []byte, value int32, size int) []byte {
	for n := size - 1; n >= 0; n-- {
		shift := uint(n * LI_BITS)
		chunk := byte(0)
		if shift < 32 {
			chunk = byte(value>>shift) & LI_MASK
		} else if value < 0 {
			chunk = LI_MASK
		}
		data = append(data, LI_OPCODE|chunk)
	}
	return data
}
