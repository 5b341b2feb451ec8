package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEquates(t *testing.T) {
	assert := assert.New(t)

	src := `
STACK_TOP = 0x8000
STACK_SIZE = 0x400
STACK_BASE = STACK_TOP - STACK_SIZE
VERSION = "1.0"
MASK = 0xffffffff
FLAGS = [1, 2]
LINES = LINENO + 1
`
	equ, err := LoadEquates("defs.star", src, EquateMap{"LINENO": 10})
	assert.NoError(err)

	assert.Equal(EquateMap{
		"STACK_TOP":  0x8000,
		"STACK_SIZE": 0x400,
		"STACK_BASE": 0x7c00,
		"MASK":       -1,
		"LINES":      11,
		"LINENO":     10,
	}, equ)

	value, err := Value("STACK_BASE + LINES", equ)
	assert.NoError(err)
	assert.Equal(int32(0x7c00+11), value)
}

func TestLoadEquates_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadEquates("range.star", "BIG = 1 << 40\n", nil)
	assert.ErrorIs(err, ErrEquateRange("BIG"))

	_, err = LoadEquates("syntax.star", "X = = 1\n", nil)
	assert.Error(err)

	equ, err := LoadEquates("empty.star", "", nil)
	assert.NoError(err)
	assert.Empty(equ)
}
