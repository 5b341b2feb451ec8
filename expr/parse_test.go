package expr

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_Shape(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		text  string
		shape string
	}{
		{"1", "1"},
		{"  FOO  ", "FOO"},
		{"1+2*3", "(1+(2*3))"},
		{"2*3+4", "((2*3)+4)"},
		{"8-4-2", "(8-(4-2))"},
		{"1-2+3", "(1-(2+3))"},
		{"1+2-3", "((1+2)-3)"},
		{"1+2<<3", "(1+(2<<3))"},
		{"(1+2)*3", "((1+2)*3)"},
		{"((1))", "1"},
		{"(1 + 2) * (3 - 4)", "((1+2)*(3-4))"},
		{"-5", "-5"},
		{"~0", "~0"},
		{"!FOO", "~FOO"},
		{"1+-2", "(1+-2)"},
		{"-(3*4)", "-(3*4)"},
		{"A & B | C", "((A&B)|C)"},
		{"A | B & C", "(A|(B&C))"},
		{"0x10 >> 2", "(0x10>>2)"},
	}

	for _, entry := range table {
		tree, err := Parse(entry.text)
		assert.NoError(err, entry.text)
		assert.Equal(entry.shape, tree.String(), entry.text)
	}
}

func TestParse_Errors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		text string
		err  error
		pos  int
	}{
		{"", ErrOperandMissing, 0},
		{"1+", ErrOperandMissing, 2},
		{"*2", ErrOperandMissing, 0},
		{"(1+2", ErrParenUnbalanced, 0},
		{"1+2)", ErrParenUnbalanced, 3},
		{"FOO(1)", ErrOperatorUnexpected, 3},
		{"(1) 2", ErrOperatorUnexpected, 3},
		{"1 ~ 2", ErrOperatorUnexpected, 2},
		{"4*(1+)", ErrOperandMissing, 5},
	}

	for _, entry := range table {
		_, err := Parse(entry.text)
		assert.ErrorIs(err, entry.err, entry.text)
		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.text) {
			assert.Equal(entry.text, syntax.Text)
			assert.Equal(entry.pos, syntax.Pos, entry.text)
		}
	}
}

func TestTree_Identifiers(t *testing.T) {
	assert := assert.New(t)

	tree, err := Parse("FOO + 0x10 * (BAR - 2) | ~BAZ")
	assert.NoError(err)

	assert.Equal([]string{"FOO", "BAR", "BAZ"}, slices.Collect(tree.Identifiers()))

	tree, err = Parse("1+2+12abc+0b1")
	assert.NoError(err)
	assert.Empty(slices.Collect(tree.Identifiers()))
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{"1+2*3", "(A-1)<<2", "-~(3)", "8-4-2", "((", "1+)"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, text string) {
		tree, err := Parse(text)
		if err != nil {
			var syntax *ErrSyntax
			assert.True(t, errors.As(err, &syntax))
			return
		}

		// Evaluation either succeeds or reports why not.
		_, err = Evaluate(tree, EquateMap{})
		if err != nil {
			var undefined ErrUndefinedValue
			if !errors.As(err, &undefined) {
				assert.ErrorIs(t, err, ErrDivideByZero)
			}
		}
	})
}
