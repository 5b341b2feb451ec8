package section

import (
	"encoding/binary"
	"errors"
	"io"
)

// expand returns the bytes a laid out reference is replaced with. offset
// is the count of bytes added by earlier references.
func (sect *Section) expand(ref *Symbol, offset int) (data []byte, err error) {
	if ref.Kind() == FLAG_ALIGN {
		data = make([]byte, ref.Size)
		return
	}

	target, err := ref.target()
	if err != nil {
		return
	}

	switch ref.Kind() {
	case FLAG_LDPCREL:
		d := int32(target - sect.pcAddress(ref, ref.Size, offset))
		if liChunks(d) > ref.Size {
			err = ErrRelocationOverflow(ref.Name)
			return
		}
		data = appendLi(data, d, ref.Size)
	case FLAG_LDABS:
		if liChunks(int32(target)) > ref.Size {
			err = ErrRelocationOverflow(ref.Name)
			return
		}
		data = appendLi(data, int32(target), ref.Size)
	case FLAG_REFERENCE:
		if ref.Size != DIRECT_SIZE {
			err = ErrRelocationOverflow(ref.Name)
			return
		}
		data = binary.LittleEndian.AppendUint32(data, uint32(int32(target)))
	default:
		err = ErrReferenceKind
	}

	return
}

// WriteImage writes the section's final bytes, with every reference
// expanded. BSS sections write nothing.
func (sect *Section) WriteImage(w io.Writer) (err error) {
	if sect.BSS() {
		return
	}

	defer func() {
		if err != nil {
			err = &ErrObject{Section: sect.Name, Err: err}
		}
	}()

	data := sect.reader()
	copied := func(cursor int, next int) error {
		_, err := io.CopyN(w, data, int64(next-cursor))
		if errors.Is(err, io.EOF) {
			err = ErrObjectTruncated
		}
		return err
	}

	cursor := 0
	offset := 0
	for _, ref := range sect.Refs {
		next := ref.position()
		err = copied(cursor, next)
		if err != nil {
			return
		}
		cursor = next

		var expanded []byte
		expanded, err = sect.expand(ref, offset)
		if err != nil {
			return
		}
		_, err = w.Write(expanded)
		if err != nil {
			return
		}
		offset += ref.Size
	}

	err = copied(cursor, sect.Cursor)

	return
}
