// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package section

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
)

// Object file tags.
const (
	TAG_SECTION = "SECT"
	TAG_SYMBOLS = "SYMB"
	TAG_REFS    = "REFS"
	TAG_BINARY  = "BNRY"
	TAG_BSS     = "BSS "

	LIST_END       = 0xff // Terminates symbol and reference lists.
	IDENTIFIER_MAX = 0xfe // Longest identifier; keeps LIST_END unambiguous.
)

// objWriter writes little-endian object fields, holding the first error.
type objWriter struct {
	w   io.Writer
	err error
}

func (ow *objWriter) write(p []byte) {
	if ow.err != nil {
		return
	}
	_, ow.err = ow.w.Write(p)
}

func (ow *objWriter) tag(tag string) {
	ow.write([]byte(tag))
}

func (ow *objWriter) int(value int) {
	ow.write(binary.LittleEndian.AppendUint32(nil, uint32(int32(value))))
}

func (ow *objWriter) lstr(text string) {
	if len(text) > IDENTIFIER_MAX {
		if ow.err == nil {
			ow.err = ErrIdentifier
		}
		return
	}
	ow.write(binary.LittleEndian.AppendUint16(nil, uint16(len(text))))
	ow.write([]byte(text))
}

func (ow *objWriter) symbol(sym *Symbol) {
	ow.lstr(sym.Name)
	ow.int(int(sym.Flags))
	ow.int(sym.Cursor)
	ow.int(sym.Address)
	ow.int(sym.Size)
	ow.int(sym.Offset)
}

// WriteObject writes the section as a relocatable object record.
func (sect *Section) WriteObject(w io.Writer) (err error) {
	ow := &objWriter{w: w}

	ow.tag(TAG_SECTION)
	ow.lstr(sect.Name)
	ow.int(int(sect.Flags))

	ow.tag(TAG_SYMBOLS)
	for _, sym := range sect.Symbols {
		ow.symbol(sym)
	}
	ow.write([]byte{LIST_END})

	ow.tag(TAG_REFS)
	for _, ref := range sect.Refs {
		ow.symbol(ref)
	}
	ow.write([]byte{LIST_END})

	if len(sect.buffers) != 0 {
		ow.tag(TAG_BINARY)
		ow.int(sect.Cursor)
		for _, cb := range sect.buffers {
			ow.write(cb.data[:cb.used])
		}
	} else {
		ow.tag(TAG_BSS)
		ow.int(sect.Cursor)
	}

	if ow.err != nil {
		err = &ErrObject{Section: sect.Name, Err: ow.err}
	}

	return
}

// objReader reads little-endian object fields, holding the first error.
type objReader struct {
	r   *bufio.Reader
	err error
}

func (or *objReader) read(n int) (data []byte) {
	if or.err != nil {
		return
	}
	data = make([]byte, n)
	_, err := io.ReadFull(or.r, data)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrObjectTruncated
		}
		or.err = err
		data = nil
	}
	return
}

func (or *objReader) expect(tag string) {
	data := or.read(len(tag))
	if or.err == nil && string(data) != tag {
		or.err = ErrObjectFormat
	}
}

func (or *objReader) int() int {
	data := or.read(4)
	if data == nil {
		return 0
	}
	return int(int32(binary.LittleEndian.Uint32(data)))
}

func (or *objReader) lstr() string {
	data := or.read(2)
	if data == nil {
		return ""
	}
	return string(or.read(int(binary.LittleEndian.Uint16(data))))
}

// end consumes a LIST_END marker if one is next.
func (or *objReader) end() bool {
	if or.err != nil {
		return true
	}
	peek, err := or.r.Peek(1)
	if err != nil {
		or.err = ErrObjectTruncated
		return true
	}
	if peek[0] != LIST_END {
		return false
	}
	_, or.err = or.r.ReadByte()
	return true
}

func (or *objReader) symbol() *Symbol {
	sym := &Symbol{}
	sym.Name = or.lstr()
	sym.Flags = Flags(or.int())
	sym.Cursor = or.int()
	sym.Address = or.int()
	sym.Size = or.int()
	sym.Offset = or.int()
	return sym
}

// validReference checks a reference read from an object file.
func validReference(ref *Symbol) bool {
	switch ref.Kind() {
	case FLAG_REFERENCE, FLAG_LDPCREL, FLAG_LDABS:
		return true
	case FLAG_ALIGN:
		return ref.Offset > 0 && ref.Offset&(ref.Offset-1) == 0
	}
	return false
}

// readSection reads one section record.
func (or *objReader) section() (sect *Section, err error) {
	or.expect(TAG_SECTION)
	sect = New(or.lstr())
	sect.Flags = SectionFlags(or.int())

	defer func() {
		if err != nil {
			err = &ErrObject{Section: sect.Name, Err: err}
		}
	}()

	or.expect(TAG_SYMBOLS)
	for !or.end() {
		sym := or.symbol()
		if or.err != nil {
			break
		}
		if _, ok := sect.Lookup(sym.Name); ok {
			err = ErrRedefined(sym.Name)
			return
		}
		sect.Symbols = append(sect.Symbols, sym)
	}

	var refs []*Symbol
	or.expect(TAG_REFS)
	for !or.end() {
		ref := or.symbol()
		if or.err != nil {
			break
		}
		if !validReference(ref) {
			err = ErrReferenceKind
			return
		}
		refs = append(refs, ref)
	}

	tag := string(or.read(4))
	length := or.int()
	if or.err != nil {
		err = or.err
		return
	}
	if length < 0 {
		err = ErrObjectFormat
		return
	}

	switch tag {
	case TAG_BINARY:
		for length > 0 && or.err == nil {
			chunk := or.read(min(length, CODE_BUFFER_SIZE))
			sect.write(chunk)
			length -= len(chunk)
		}
	case TAG_BSS:
		sect.Cursor = length
	default:
		err = ErrObjectFormat
		return
	}
	if or.err != nil {
		err = or.err
		return
	}

	for _, ref := range refs {
		err = sect.addReference(ref)
		if err != nil {
			return
		}
	}

	return
}

// ReadObject reads every section record from r.
func ReadObject(r io.Reader) (sects []*Section, err error) {
	or := &objReader{r: bufio.NewReader(r)}

	for {
		_, err = or.r.Peek(1)
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		var sect *Section
		sect, err = or.section()
		if err == nil {
			err = or.err
		}
		if err != nil {
			return
		}
		sects = append(sects, sect)
	}
}
