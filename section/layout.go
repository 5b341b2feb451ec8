// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package section

import (
	"cmp"
	"slices"
)

// alignment returns the padding an alignment reference needs, given the
// bytes added by earlier references.
func (sect *Section) alignment(ref *Symbol, offset int) int {
	boundary := ref.Offset
	if boundary <= 1 {
		return 0
	}
	addr := sect.Address + ref.Cursor + offset + 1
	aligned := (addr + boundary - 1) &^ (boundary - 1)
	return aligned - addr
}

// pcAddress is the address a PC-relative load is relative to: just past
// the load-immediates and the opcode consuming them.
func (sect *Section) pcAddress(ref *Symbol, size int, offset int) int {
	return sect.Address + ref.Cursor + size + offset + 1
}

// sizeReference grows a reference to the size its target needs now.
func (sect *Section) sizeReference(ref *Symbol, offset int) (grew bool, err error) {
	size := ref.Size

	switch ref.Kind() {
	case FLAG_ALIGN:
		size = sect.alignment(ref, offset)
		grew = size > ref.Size
		ref.Size = size
		return
	case FLAG_REFERENCE:
		size = DIRECT_SIZE
	case FLAG_LDPCREL:
		var target int
		target, err = ref.target()
		if err != nil {
			return
		}
		size = max(size, 1)
		// A longer load moves the PC it is relative to.
		for {
			need := liChunks(int32(target - sect.pcAddress(ref, size, offset)))
			if need <= size {
				break
			}
			size = need
		}
	case FLAG_LDABS:
		var target int
		target, err = ref.target()
		if err != nil {
			return
		}
		size = max(size, liChunks(int32(target)))
	default:
		err = ErrReferenceKind
		return
	}

	if size > ref.Size {
		ref.Size = size
		grew = true
	}

	return
}

// SizeReferences recomputes every reference's size from the addresses of
// the previous layout pass. Sizes never shrink; grew reports whether any
// reference got larger.
func (sect *Section) SizeReferences() (grew bool, err error) {
	sect.Offset = 0
	for _, ref := range sect.Refs {
		var changed bool
		changed, err = sect.sizeReference(ref, sect.Offset)
		if err != nil {
			return
		}
		grew = grew || changed
		sect.Offset += ref.Size
	}
	return
}

// positional returns the symbols that occupy a position, ordered by cursor.
func (sect *Section) positional() (syms []*Symbol) {
	for _, sym := range sect.Symbols {
		if sym.Constant() || sym.Cursor == UNDECLARED {
			continue
		}
		syms = append(syms, sym)
	}
	slices.SortStableFunc(syms, func(a, b *Symbol) int {
		return cmp.Compare(a.Cursor, b.Cursor)
	})
	return
}

// AssignAddresses places the section at base, gives each declared symbol
// its address, and returns the address following the section.
//
// References before a symbol's cursor move it by their size. Alignment
// padding is recomputed here, as it depends on the final placement.
func (sect *Section) AssignAddresses(base int) (next int) {
	sect.Address = base

	refs := sect.Refs
	offset := 0
	fold := func(cursor int) {
		for len(refs) > 0 && (refs[0].Cursor < cursor || cursor == sect.Cursor) {
			ref := refs[0]
			if ref.Kind() == FLAG_ALIGN {
				ref.Size = sect.alignment(ref, offset)
			}
			offset += ref.Size
			refs = refs[1:]
		}
	}

	for _, sym := range sect.positional() {
		fold(sym.Cursor)
		sym.Address = sect.Address + sym.Cursor + offset
	}
	fold(sect.Cursor)

	sect.Offset = offset

	return sect.Address + sect.Cursor + sect.Offset
}
