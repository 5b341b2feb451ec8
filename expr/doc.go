// Package expr parses and evaluates the constant integer expressions of the
// 832 assembler.
//
// Expressions are built from C-style integer literals, equate names and the
// operators listed by Operator. Operator precedence follows the Operator
// ordinal rather than C: shifts bind tighter than addition, addition binds
// tighter than subtraction, and operators of equal rank associate right to
// left, so "8-4-2" is 6.
//
// Equate names are resolved when the tree is evaluated, not when it is parsed.
package expr
