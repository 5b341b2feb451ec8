// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package expr

import (
	"iter"
	"strings"
)

// Tree is a parsed expression. Leaves have Op == OP_VALUE and hold their
// source text in Value; unary nodes only use Right.
type Tree struct {
	Op    Operator
	Value string
	Left  *Tree
	Right *Tree
}

// String renders the tree fully parenthesized, exposing its shape.
func (tree *Tree) String() string {
	switch {
	case tree == nil:
		return ""
	case tree.Op == OP_VALUE:
		return tree.Value
	case tree.Op.Unary():
		return tree.Op.String() + tree.Right.String()
	default:
		return "(" + tree.Left.String() + tree.Op.String() + tree.Right.String() + ")"
	}
}

// Identifiers yields the leaves evaluation looks up as equates, left to right.
func (tree *Tree) Identifiers() iter.Seq[string] {
	return func(yield func(string) bool) {
		tree.identifiers(yield)
	}
}

func (tree *Tree) identifiers(yield func(string) bool) bool {
	if tree == nil {
		return true
	}
	if tree.Op == OP_VALUE {
		if _, consumed := literal(tree.Value); consumed != 0 {
			return true
		}
		return yield(tree.Value)
	}
	return tree.Left.identifiers(yield) && tree.Right.identifiers(yield)
}

// scanner walks the immutable expression text.
type scanner struct {
	source string   // Outermost expression, for diagnostics.
	text   string
	base   int      // Column of text[0] within source.
	cursor int      // Next unread byte.
	op     Operator // Operator consumed after the last leaf, or OP_END.
	opPos  int      // Column of op.
}

func (sc *scanner) fail(pos int, err error) error {
	return &ErrSyntax{Text: sc.source, Pos: sc.base + pos, Err: err}
}

func (sc *scanner) skipSpace() {
	for sc.cursor < len(sc.text) && (sc.text[sc.cursor] == ' ' || sc.text[sc.cursor] == '\t') {
		sc.cursor++
	}
}

// scanOperator advances past the next operator token, and returns the
// text preceding it.
func (sc *scanner) scanOperator() (leaf string) {
	start := sc.cursor
	for pos := start; pos < len(sc.text); pos++ {
		op, length := matchOperator(sc.text[pos:])
		if op == OP_NONE {
			continue
		}
		sc.op = op
		sc.opPos = pos
		sc.cursor = pos + length
		return sc.text[start:pos]
	}
	sc.op = OP_END
	sc.opPos = len(sc.text)
	sc.cursor = len(sc.text)
	return sc.text[start:]
}

// closeParen finds the parenthesis matching the one at the cursor.
func (sc *scanner) closeParen() (pos int, ok bool) {
	depth := 0
	for pos = sc.cursor; pos < len(sc.text); pos++ {
		switch sc.text[pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return pos, true
			}
		}
	}
	return
}

// makeLeaf builds a value, a unary node, or a parenthesized subexpression,
// and consumes the operator following it.
func (sc *scanner) makeLeaf() (leaf *Tree, err error) {
	sc.skipSpace()

	if sc.cursor < len(sc.text) && sc.text[sc.cursor] == '(' {
		open := sc.cursor
		end, ok := sc.closeParen()
		if !ok {
			err = sc.fail(open, ErrParenUnbalanced)
			return
		}
		sub := &scanner{source: sc.source, text: sc.text[open+1 : end], base: sc.base + open + 1}
		leaf, err = sub.buildTree()
		if err != nil {
			return
		}
		sc.cursor = end + 1
		if trailing := strings.TrimSpace(sc.scanOperator()); len(trailing) != 0 {
			err = sc.fail(end+1, ErrOperatorUnexpected)
			return
		}
		err = sc.checkOperator()
		return
	}

	start := sc.cursor
	value := strings.TrimSpace(sc.scanOperator())
	if strings.ContainsRune(value, ')') {
		err = sc.fail(start+strings.IndexRune(sc.text[start:], ')'), ErrParenUnbalanced)
		return
	}

	if len(value) == 0 {
		// Prefix operators only.
		var op Operator
		switch sc.op {
		case OP_SUBTRACT:
			op = OP_NEGATE
		case OP_INVERT:
			op = OP_INVERT
		default:
			err = sc.fail(sc.opPos, ErrOperandMissing)
			return
		}
		var operand *Tree
		operand, err = sc.makeLeaf()
		if err != nil {
			return
		}
		leaf = &Tree{Op: op, Right: operand}
		return
	}

	leaf = &Tree{Op: OP_VALUE, Value: value}
	err = sc.checkOperator()
	return
}

// checkOperator verifies the operator following a leaf can join two operands.
func (sc *scanner) checkOperator() error {
	if sc.op == OP_END || sc.op.Binary() {
		return nil
	}
	return sc.fail(sc.opPos, ErrOperatorUnexpected)
}

// makeRightLeaf joins left to the following operand with the pending
// operator. Operands followed by an operator of tighter or equal rank are
// extended first, so they end up deeper in the right branch.
func (sc *scanner) makeRightLeaf(left *Tree) (node *Tree, err error) {
	node = &Tree{Op: sc.op, Left: left}

	right, err := sc.makeLeaf()
	if err != nil {
		return
	}

	for sc.op != OP_END && sc.op.Rank() <= node.Op.Rank() {
		right, err = sc.makeRightLeaf(right)
		if err != nil {
			return
		}
	}

	node.Right = right
	return
}

func (sc *scanner) buildTree() (tree *Tree, err error) {
	tree, err = sc.makeLeaf()
	if err != nil {
		return
	}

	for sc.op != OP_END {
		tree, err = sc.makeRightLeaf(tree)
		if err != nil {
			return
		}
	}

	return
}

// Parse parses an expression into a tree.
func Parse(text string) (tree *Tree, err error) {
	sc := &scanner{source: text, text: text}
	return sc.buildTree()
}
