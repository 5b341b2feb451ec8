package section

import (
	"bytes"
	"io"
)

// CODE_BUFFER_SIZE is the capacity of each buffer in a section's chain.
const CODE_BUFFER_SIZE = 2048

// codeBuffer is one fixed capacity link of a section's emitted bytes.
type codeBuffer struct {
	data [CODE_BUFFER_SIZE]byte
	used int
}

// write copies as much of p as fits, and returns the count copied.
func (cb *codeBuffer) write(p []byte) int {
	n := copy(cb.data[cb.used:], p)
	cb.used += n
	return n
}

func (cb *codeBuffer) full() bool {
	return cb.used == CODE_BUFFER_SIZE
}

// write appends p to the buffer chain, starting new buffers as they fill.
func (sect *Section) write(p []byte) {
	for len(p) > 0 {
		if len(sect.buffers) == 0 || sect.buffers[len(sect.buffers)-1].full() {
			sect.buffers = append(sect.buffers, &codeBuffer{})
		}
		n := sect.buffers[len(sect.buffers)-1].write(p)
		p = p[n:]
		sect.Cursor += n
	}
}

// reader returns a sequential reader over the emitted bytes.
func (sect *Section) reader() io.Reader {
	readers := make([]io.Reader, 0, len(sect.buffers))
	for _, cb := range sect.buffers {
		readers = append(readers, bytes.NewReader(cb.data[:cb.used]))
	}
	return io.MultiReader(readers...)
}

// Bytes returns a copy of the emitted bytes, before reference expansion.
func (sect *Section) Bytes() (data []byte) {
	for _, cb := range sect.buffers {
		data = append(data, cb.data[:cb.used]...)
	}
	return
}
