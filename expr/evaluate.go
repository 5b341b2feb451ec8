package expr

import (
	"math"
)

func digit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// literal scans the longest C-style integer literal prefix of text: 0x hex,
// leading 0 octal, or decimal. It returns the value, wrapped to 32 bits,
// and the count of bytes consumed. Values past 64 bits saturate.
func literal(text string) (value int32, consumed int) {
	base := uint64(10)
	pos := 0
	switch {
	case len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') && digit(text[2]) >= 0:
		base = 16
		pos = 2
	case len(text) > 0 && text[0] == '0':
		base = 8
	}

	var v uint64
	overflow := false
	for ; pos < len(text); pos++ {
		d := digit(text[pos])
		if d < 0 || uint64(d) >= base {
			break
		}
		if v > (math.MaxUint64-uint64(d))/base {
			overflow = true
		}
		v = v*base + uint64(d)
	}
	if overflow {
		v = math.MaxUint64
	}

	return int32(uint32(v)), pos
}

// Evaluate computes the value of a tree, looking up non-numeric leaves in
// equates. A nil tree evaluates to zero.
func Evaluate(tree *Tree, equates Equates) (value int32, err error) {
	if tree == nil {
		return
	}

	if tree.Op == OP_VALUE {
		value, consumed := literal(tree.Value)
		if consumed != 0 || value != 0 {
			return value, nil
		}
		ok := false
		if equates != nil {
			value, ok = equates.Equate(tree.Value)
		}
		if !ok {
			return 0, ErrUndefinedValue(tree.Value)
		}
		return value, nil
	}

	left, err := Evaluate(tree.Left, equates)
	if err != nil {
		return
	}
	right, err := Evaluate(tree.Right, equates)
	if err != nil {
		return
	}

	switch tree.Op {
	case OP_MULTIPLY:
		value = left * right
	case OP_DIVIDE:
		if right == 0 {
			err = ErrDivideByZero
			return
		}
		value = left / right
	case OP_MODULO:
		if right == 0 {
			err = ErrDivideByZero
			return
		}
		value = left % right
	case OP_SHIFT_LEFT:
		value = left << (uint32(right) & 0x1f)
	case OP_SHIFT_RIGHT:
		value = left >> (uint32(right) & 0x1f)
	case OP_ADD:
		value = left + right
	case OP_SUBTRACT:
		value = left - right
	case OP_AND:
		value = left & right
	case OP_OR:
		value = left | right
	case OP_XOR:
		value = left ^ right
	case OP_NEGATE:
		value = -right
	case OP_INVERT:
		value = ^right
	default:
		err = ErrOperatorUnexpected
	}

	return
}

// Value parses and evaluates text in one step.
func Value(text string, equates Equates) (value int32, err error) {
	tree, err := Parse(text)
	if err != nil {
		return
	}
	return Evaluate(tree, equates)
}
