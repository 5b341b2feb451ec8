package section

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// resolveLocal points every reference at the section's own symbols.
func resolveLocal(t *testing.T, sect *Section) {
	for _, ref := range sect.Refs {
		if ref.Kind() == FLAG_ALIGN {
			continue
		}
		sym, ok := sect.Lookup(ref.Name)
		if !ok {
			t.Fatalf("%v: no symbol %v", sect.Name, ref.Name)
		}
		ref.Resolve = sym
	}
}

// relax runs sizing and assignment until no reference grows, and returns
// the number of passes taken.
func relax(t *testing.T, sect *Section, base int) (passes int) {
	for passes = 1; passes < 16; passes++ {
		grew, err := sect.SizeReferences()
		assert.NoError(t, err)
		sect.AssignAddresses(base)
		if !grew {
			return
		}
	}
	t.Fatalf("%v: layout did not converge", sect.Name)
	return
}

func TestLiChunks(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		value  int32
		chunks int
	}{
		{0, 1},
		{31, 1},
		{32, 2},
		{-32, 1},
		{-33, 2},
		{2047, 2},
		{2048, 3},
		{0x1234, 3},
		{0x7fffffff, 6},
		{-0x80000000, 6},
		{-1, 1},
	}

	for _, entry := range table {
		assert.Equal(entry.chunks, liChunks(entry.value), entry.value)
	}
}

func TestAppendLi(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]byte{0xc1, 0xc8, 0xf4}, appendLi(nil, 0x1234, 3))
	assert.Equal([]byte{0xfc}, appendLi(nil, -4, 1))
	assert.Equal([]byte{0xff, 0xfc}, appendLi(nil, -4, 2))
	assert.Equal([]byte{0xc0, 0xe0}, appendLi(nil, 32, 2))

	// Six chunks carry the sign into the unused top bits.
	assert.Equal(bytes.Repeat([]byte{0xff}, 6), appendLi(nil, -1, 6))
	assert.Equal(byte(0xc1), appendLi(nil, 0x7fffffff, 6)[0])
}

func TestSection_SizeReferences_Alignment(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		base    int
		emitted int
		pad     int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{0, 3, 1},
		{0, 5, 3},
		{2, 2, 0},
		{2, 3, 3},
		{0x100, 8, 0},
	}

	for _, entry := range table {
		sect := New("text")
		assert.NoError(sect.Emit(make([]byte, entry.emitted)...))
		assert.NoError(sect.Align(4))
		assert.NoError(sect.Declare("aligned", FLAG_LOCAL))
		assert.NoError(sect.EmitByte(0x90))

		sect.Address = entry.base
		_, err := sect.SizeReferences()
		assert.NoError(err)
		assert.Equal(entry.pad, sect.Refs[0].Size, entry)

		sect.AssignAddresses(entry.base)
		aligned, _ := sect.Lookup("aligned")
		assert.Equal(0, aligned.Address%4, entry)
		assert.Equal(entry.base+entry.emitted+entry.pad, aligned.Address, entry)
	}
}

func TestSection_SizeReferences_Unresolved(t *testing.T) {
	assert := assert.New(t)

	sect := New("text")
	assert.NoError(sect.DeclareReference("nowhere", FLAG_LDABS, 0))

	_, err := sect.SizeReferences()
	assert.ErrorIs(err, ErrUnresolved("nowhere"))
}

func TestSection_SizeReferences_Absolute(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		value int
		size  int
	}{
		{0, 1},
		{31, 1},
		{0x20, 2},
		{-1, 1},
		{0x10000, 3},
	}

	for _, entry := range table {
		sect := New("text")
		assert.NoError(sect.DeclareConstant("K", entry.value, false))
		assert.NoError(sect.DeclareReference("K", FLAG_LDABS, 0))
		assert.NoError(sect.EmitByte(0xa0))
		resolveLocal(t, sect)

		assert.Equal(2, relax(t, sect, 0))
		assert.Equal(entry.size, sect.Refs[0].Size, entry)
	}
}

func TestSection_SizeReferences_Monotonic(t *testing.T) {
	assert := assert.New(t)

	sect := New("text")
	assert.NoError(sect.Declare("target", FLAG_LOCAL))
	assert.NoError(sect.DeclareReference("target", FLAG_LDABS, 0))
	assert.NoError(sect.EmitByte(0xa0))
	resolveLocal(t, sect)

	target, _ := sect.Lookup("target")
	target.Address = 0x1000

	grew, err := sect.SizeReferences()
	assert.NoError(err)
	assert.True(grew)
	assert.Equal(3, sect.Refs[0].Size)

	// A closer target never shrinks the reference.
	target.Address = 0
	grew, err = sect.SizeReferences()
	assert.NoError(err)
	assert.False(grew)
	assert.Equal(3, sect.Refs[0].Size)
}

// growthSection builds:
//
//	0: ldpcrel target; 0x90
//	1: [ref target]     (only if neighbor)
//	1..30: 30 bytes
//	31: target: 0xaa
func growthSection(t *testing.T, neighbor bool) *Section {
	assert := assert.New(t)

	sect := New("text")
	assert.NoError(sect.DeclareReference("target", FLAG_LDPCREL, 0))
	assert.NoError(sect.EmitByte(0x90))
	if neighbor {
		assert.NoError(sect.DeclareReference("target", FLAG_REFERENCE, 0))
	}
	assert.NoError(sect.Emit(make([]byte, 30)...))
	assert.NoError(sect.Declare("target", FLAG_LOCAL))
	assert.NoError(sect.EmitByte(0xaa))
	resolveLocal(t, sect)

	return sect
}

func TestSection_Relaxation(t *testing.T) {
	assert := assert.New(t)

	sect := growthSection(t, true)
	pcrel := sect.Refs[0]
	target, _ := sect.Lookup("target")

	// Pass 1: every reference starts from nothing.
	grew, err := sect.SizeReferences()
	assert.NoError(err)
	assert.True(grew)
	assert.Equal(1, pcrel.Size)
	assert.Equal(DIRECT_SIZE, sect.Refs[1].Size)
	assert.Equal(37, sect.AssignAddresses(0))
	assert.Equal(36, target.Address)

	// Pass 2: the direct reference pushed the target out of reach.
	grew, err = sect.SizeReferences()
	assert.NoError(err)
	assert.True(grew)
	assert.Equal(2, pcrel.Size)
	assert.Equal(38, sect.AssignAddresses(0))
	assert.Equal(37, target.Address)

	// Pass 3: fixed point.
	grew, err = sect.SizeReferences()
	assert.NoError(err)
	assert.False(grew)
	assert.Equal(2, pcrel.Size)

	var image bytes.Buffer
	assert.NoError(sect.WriteImage(&image))
	data := image.Bytes()
	assert.Equal(38, len(data))
	assert.Equal([]byte{0xc0, 0xe2, 0x90, 37, 0, 0, 0}, data[:7])
	assert.Equal(byte(0xaa), data[37])
}

func TestSection_Relaxation_NoNeighbor(t *testing.T) {
	assert := assert.New(t)

	sect := growthSection(t, false)

	assert.Equal(2, relax(t, sect, 0))
	assert.Equal(1, sect.Refs[0].Size)

	target, _ := sect.Lookup("target")
	assert.Equal(32, target.Address)
}

func TestSection_AssignAddresses(t *testing.T) {
	assert := assert.New(t)

	sect := New("text")

	// Mentioned before it is declared, so it is first in the symbol list.
	sect.Symbol("late")
	sect.Symbol("never")

	assert.NoError(sect.DeclareConstant("K", 0x1234, false))
	assert.NoError(sect.Declare("early", FLAG_LOCAL))
	assert.NoError(sect.EmitByte(0x90))
	assert.NoError(sect.DeclareReference("K", FLAG_REFERENCE, 0))
	assert.NoError(sect.EmitByte(0x91))
	assert.NoError(sect.Declare("late", FLAG_LOCAL))
	assert.NoError(sect.EmitByte(0x92))
	assert.NoError(sect.Declare("end", FLAG_LOCAL))
	resolveLocal(t, sect)

	_, err := sect.SizeReferences()
	assert.NoError(err)
	next := sect.AssignAddresses(0x100)

	lookup := func(name string) *Symbol {
		sym, _ := sect.Lookup(name)
		return sym
	}

	assert.Equal(0x100, sect.Address)
	assert.Equal(0x100, lookup("early").Address)
	assert.Equal(0x100+2+DIRECT_SIZE, lookup("late").Address)
	assert.Equal(0x100+3+DIRECT_SIZE, lookup("end").Address)
	assert.Equal(0x100+3+DIRECT_SIZE, next)
	assert.Equal(DIRECT_SIZE, sect.Offset)

	// Constants and placeholders keep out of layout.
	assert.Equal(0x1234, lookup("K").Cursor)
	assert.Equal(0, lookup("K").Address)
	assert.Equal(0, lookup("never").Address)
}
