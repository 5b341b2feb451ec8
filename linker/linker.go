// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package linker

import (
	"bytes"
	"io"
	"iter"
	"log"
	"slices"

	"github.com/ezrec/a832/internal"
	"github.com/ezrec/a832/section"
)

// DefaultMaxPasses bounds layout when MaxPasses is not set.
const DefaultMaxPasses = 64

// Linker links sections into an image.
type Linker struct {
	Verbose   bool               // If set, logs each link step.
	MaxPasses int                // Layout passes before giving up.
	Sections  []*section.Section // Sections, in link order.
	Warnings  []error            // Non-fatal problems found while linking.
	Passes    int                // Layout passes used by the last Layout.

	owner map[*section.Symbol]*section.Section
}

func (lnk *Linker) warn(err error) {
	lnk.Warnings = append(lnk.Warnings, err)
	log.Print(f("warning: %v", err))
}

// Add appends sections to the link.
func (lnk *Linker) Add(sects ...*section.Section) {
	lnk.Sections = append(lnk.Sections, sects...)
}

// Load reads every section of an object file into the link.
func (lnk *Linker) Load(name string, r io.Reader) (err error) {
	sects, err := section.ReadObject(r)
	if err != nil {
		err = &ErrLoad{Name: name, Err: err}
		return
	}

	if lnk.Verbose {
		log.Printf("linker: %v: %d sections", name, len(sects))
	}

	lnk.Add(sects...)
	return
}

// Symbols yields every declared symbol, section by section.
func (lnk *Linker) Symbols() iter.Seq[*section.Symbol] {
	symbols := func(sect *section.Section) []*section.Symbol {
		return sect.Symbols
	}
	return internal.Gather(lnk.Sections, symbols, (*section.Symbol).Declared)
}

// globals collects global declarations by name.
func (lnk *Linker) globals() (table map[string]*section.Symbol, err error) {
	table = make(map[string]*section.Symbol)
	for sym := range lnk.Symbols() {
		if !sym.Global() {
			continue
		}
		if _, ok := table[sym.Name]; ok {
			err = section.ErrRedefined(sym.Name)
			return
		}
		table[sym.Name] = sym
	}
	return
}

// Resolve points every reference at its target: a declaration in the
// referencing section if there is one, otherwise the global declaration.
func (lnk *Linker) Resolve() (err error) {
	globals, err := lnk.globals()
	if err != nil {
		return
	}

	lnk.owner = make(map[*section.Symbol]*section.Section)
	for _, sect := range lnk.Sections {
		for _, sym := range sect.Symbols {
			lnk.owner[sym] = sect
		}
	}

	for _, sect := range lnk.Sections {
		for _, ref := range sect.Refs {
			if ref.Kind() == section.FLAG_ALIGN {
				continue
			}

			sym, ok := sect.Lookup(ref.Name)
			if !ok || !sym.Declared() {
				sym, ok = globals[ref.Name]
			}
			if !ok {
				err = &section.ErrObject{Section: sect.Name, Err: ErrSymbolUndefined(ref.Name)}
				return
			}

			if ref.Kind() == section.FLAG_LDPCREL && sym.Constant() {
				lnk.warn(&section.ErrObject{Section: sect.Name, Err: ErrInconsistentRelocation(ref.Name)})
			}

			ref.Resolve = sym
		}
	}

	return
}

// Prune drops sections that nothing reachable refers to. The first
// section and every constructor or destructor section are always kept.
func (lnk *Linker) Prune() {
	var pending []*section.Section
	touch := func(sect *section.Section) {
		if sect.Touched() {
			return
		}
		sect.Touch()
		pending = append(pending, sect)
	}

	for n, sect := range lnk.Sections {
		if n == 0 || sect.Flags&(section.SECTION_CTOR|section.SECTION_DTOR) != 0 {
			touch(sect)
		}
	}

	for len(pending) > 0 {
		sect := pending[0]
		pending = pending[1:]
		for _, ref := range sect.Refs {
			if ref.Resolve == nil {
				continue
			}
			if target, ok := lnk.owner[ref.Resolve]; ok {
				touch(target)
			}
		}
	}

	lnk.Sections = slices.DeleteFunc(lnk.Sections, func(sect *section.Section) bool {
		if !sect.Touched() && lnk.Verbose {
			log.Printf("linker: %v: dropped", sect.Name)
		}
		return !sect.Touched()
	})
}

// Order moves BSS sections after code and data, keeping load order otherwise.
func (lnk *Linker) Order() {
	slices.SortStableFunc(lnk.Sections, func(a, b *section.Section) int {
		switch {
		case a.BSS() == b.BSS():
			return 0
		case a.BSS():
			return 1
		default:
			return -1
		}
	})
}

// Layout sizes references and assigns addresses from base, repeating
// until a pass changes nothing. It returns the address past the last
// section.
func (lnk *Linker) Layout(base int) (end int, err error) {
	passes := lnk.MaxPasses
	if passes <= 0 {
		passes = DefaultMaxPasses
	}

	last := -1
	for lnk.Passes = 1; lnk.Passes <= passes; lnk.Passes++ {
		grew := false
		for _, sect := range lnk.Sections {
			var changed bool
			changed, err = sect.SizeReferences()
			if err != nil {
				err = &section.ErrObject{Section: sect.Name, Err: err}
				return
			}
			grew = grew || changed
		}

		end = base
		for _, sect := range lnk.Sections {
			end = sect.AssignAddresses(end)
		}

		if lnk.Verbose {
			log.Printf("linker: pass %d: end 0x%x", lnk.Passes, end)
		}

		if !grew && end == last {
			return
		}
		last = end
	}

	lnk.Passes = passes
	err = ErrNonConvergent
	return
}

// WriteImage writes the laid out sections. BSS is only written when
// initialised sections follow it.
func (lnk *Linker) WriteImage(w io.Writer) (err error) {
	zeros := 0
	for _, sect := range lnk.Sections {
		if sect.BSS() {
			zeros += sect.Cursor + sect.Offset
			continue
		}
		if zeros > 0 {
			_, err = w.Write(bytes.Repeat([]byte{0}, zeros))
			if err != nil {
				return
			}
			zeros = 0
		}
		err = sect.WriteImage(w)
		if err != nil {
			return
		}
	}
	return
}

// Link resolves, prunes, orders and lays out the sections from base, and
// writes the image to w. It returns the address past the last section.
func (lnk *Linker) Link(w io.Writer, base int) (end int, err error) {
	err = lnk.Resolve()
	if err != nil {
		return
	}

	lnk.Prune()
	lnk.Order()

	end, err = lnk.Layout(base)
	if err != nil {
		return
	}

	err = lnk.WriteImage(w)
	return
}
