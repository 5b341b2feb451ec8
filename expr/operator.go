package expr

// Operator is an expression node type. The ordinal is the precedence rank:
// lower values bind tighter.
type Operator int

const (
	OP_PAREN       = Operator(iota) // ()
	OP_MULTIPLY                     // *
	OP_DIVIDE                       // /
	OP_MODULO                       // %
	OP_SHIFT_LEFT                   // <<
	OP_SHIFT_RIGHT                  // >>
	OP_ADD                          // +
	OP_SUBTRACT                     // -
	OP_AND                          // &
	OP_OR                           // |
	OP_XOR                          // ^
	OP_NEGATE                       // unary -
	OP_INVERT                       // unary ~
	OP_VALUE                        // value
	OP_END                          // end
	OP_NONE                         // none
)

var operatorName = [...]string{
	OP_PAREN:       "()",
	OP_MULTIPLY:    "*",
	OP_DIVIDE:      "/",
	OP_MODULO:      "%",
	OP_SHIFT_LEFT:  "<<",
	OP_SHIFT_RIGHT: ">>",
	OP_ADD:         "+",
	OP_SUBTRACT:    "-",
	OP_AND:         "&",
	OP_OR:          "|",
	OP_XOR:         "^",
	OP_NEGATE:      "-",
	OP_INVERT:      "~",
	OP_VALUE:       "value",
	OP_END:         "end",
	OP_NONE:        "none",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorName) {
		return "none"
	}
	return operatorName[op]
}

// Rank returns the precedence rank of the operator.
func (op Operator) Rank() int {
	return int(op)
}

// Binary returns true for operators taking a left and a right operand.
func (op Operator) Binary() bool {
	return op >= OP_MULTIPLY && op <= OP_XOR
}

// Unary returns true for operators taking only a right operand.
func (op Operator) Unary() bool {
	return op == OP_NEGATE || op == OP_INVERT
}

// operatorToken maps source text to operators, in match order.
// '-' always scans as OP_SUBTRACT; negation is decided by position.
var operatorToken = []struct {
	text string
	op   Operator
}{
	{"(", OP_PAREN},
	{"*", OP_MULTIPLY},
	{"/", OP_DIVIDE},
	{"%", OP_MODULO},
	{"<<", OP_SHIFT_LEFT},
	{">>", OP_SHIFT_RIGHT},
	{"+", OP_ADD},
	{"-", OP_SUBTRACT},
	{"&", OP_AND},
	{"|", OP_OR},
	{"^", OP_XOR},
	{"~", OP_INVERT},
	{"!", OP_INVERT},
}

// matchOperator returns the operator starting text, and its length.
func matchOperator(text string) (op Operator, length int) {
	for _, tok := range operatorToken {
		if len(text) >= len(tok.text) && text[:len(tok.text)] == tok.text {
			return tok.op, len(tok.text)
		}
	}
	return OP_NONE, 0
}
