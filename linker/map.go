package linker

import (
	"cmp"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/ezrec/a832/section"
)

// Entry is one placed symbol of a link map.
type Entry struct {
	Section string
	Symbol  *section.Symbol
}

// Map lists placed symbols in address order.
type Map struct {
	Entries []Entry
}

// Map returns the link map of the laid out sections. Constants have no
// address and are left out.
func (lnk *Linker) Map() (lm *Map) {
	lm = &Map{}
	for _, sect := range lnk.Sections {
		for _, sym := range sect.Symbols {
			if !sym.Declared() || sym.Constant() {
				continue
			}
			lm.Entries = append(lm.Entries, Entry{Section: sect.Name, Symbol: sym})
		}
	}

	slices.SortStableFunc(lm.Entries, func(a, b Entry) int {
		return cmp.Compare(a.Symbol.Address, b.Symbol.Address)
	})

	return
}

// Symbols yields each symbol with its address.
func (lm *Map) Symbols() iter.Seq2[int, *section.Symbol] {
	return func(yield func(addr int, sym *section.Symbol) bool) {
		for _, entry := range lm.Entries {
			if !yield(entry.Symbol.Address, entry.Symbol) {
				return
			}
		}
	}
}

// Lookup finds the symbol at or before addr, and how far past it addr is.
func (lm *Map) Lookup(addr int) (entry Entry, distance int, ok bool) {
	n, found := slices.BinarySearchFunc(lm.Entries, addr, func(e Entry, addr int) int {
		return cmp.Compare(e.Symbol.Address, addr)
	})
	if found {
		// Last of several symbols at the same address.
		for n+1 < len(lm.Entries) && lm.Entries[n+1].Symbol.Address == addr {
			n++
		}
	} else {
		n--
	}
	if n < 0 {
		return
	}

	entry = lm.Entries[n]
	distance = addr - entry.Symbol.Address
	ok = true
	return
}

// Print writes the map, one symbol per line.
func (lm *Map) Print(w io.Writer) (err error) {
	for _, entry := range lm.Entries {
		scope := "l"
		if entry.Symbol.Global() {
			scope = "g"
		}
		_, err = fmt.Fprintf(w, "%08x %v %-12v %v\n", uint32(entry.Symbol.Address), scope, entry.Section, entry.Symbol.Name)
		if err != nil {
			return
		}
	}
	return
}
