package parseval

import (
	"math/big"
	"strconv"
)

// DialectError indicates a dialect tag outside {spice, comsol} at
// construction. The construction fails immediately and is never retried.
type DialectError struct {
	// Dialect is the unrecognized tag.
	Dialect string
}

func (err *DialectError) Error() string {
	return "dialect must be either \"spice\" or \"comsol\", not " + strconv.Quote(err.Dialect)
}

// OperationError indicates a dialect-specific call inconsistent with an
// expression's declared origin dialect.
type OperationError struct {
	// Op is the method that was called.
	Op string
	// Dialect is the expression's declared origin.
	Dialect Dialect
}

func (err *OperationError) Error() string {
	return err.Op + " cannot be called on " + strconv.Quote(err.Dialect.String()) + " expressions"
}

// BracketError indicates unbalanced parentheses in an expression.
type BracketError struct {
	// Left is the unmatched open parenthesis, if any.
	Left string
	// Right is the unmatched close parenthesis, if any.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left != "" {
		return "open parenthesis " + err.Left + " with no close parenthesis"
	}
	return "close parenthesis " + err.Right + " with no open parenthesis"
}

// EmptyExpressionError indicates an expression with no tokens.
type EmptyExpressionError struct{}

func (err *EmptyExpressionError) Error() string {
	return "empty expression"
}

// SyntaxError indicates a token sequence that violates the expression grammar,
// e.g. a trailing operator or an operator missing an operand.
type SyntaxError struct {
	// Token is the offending token, if the malformation is attributable to
	// one.
	Token string
}

func (err *SyntaxError) Error() string {
	if err.Token == "" {
		return "malformed expression: operator missing an operand"
	}
	return "malformed expression at " + strconv.Quote(err.Token)
}

// ArityError indicates an evaluation call with the wrong number of arguments
// for the evaluator's declared argument names.
type ArityError struct {
	// Want is the number of declared argument names.
	Want int
	// Got is the number of arguments supplied.
	Got int
}

func (err *ArityError) Error() string {
	return "expression takes " + strconv.Itoa(err.Want) + " arguments, got " + strconv.Itoa(err.Got)
}

// NameError indicates a variable that is missing from an evaluation call or
// context.
type NameError struct {
	// Name is the missing name.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// DomainError indicates an operand outside an operator's domain, e.g. 0/0 or a
// negative base of an exponentiation.
type DomainError struct {
	// X is the offending operand.
	X *big.Float
	// Op is the operator.
	Op string
}

func (err *DomainError) Error() string {
	return err.X.String() + " is outside the domain of " + err.Op
}
