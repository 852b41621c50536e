package parseval

import "strings"

// Node is a node in the expression tree built from a prefix token sequence.
// The three variants are Leaf, Binary and Power; the set is closed. A tree is
// exclusively owned by the expression that built it and is not safe for
// concurrent mutation.
type Node interface {
	// inorder appends the node's precedence-minimal in-order rendering.
	inorder(out []token) []token
	// prec is the node's operator precedence; 0 for leaves.
	prec() int
	// eval pushes the node's value onto the context's stack.
	eval(ctx *Context) error
	// Replace rewrites every leaf whose text equals match to replace. It
	// changes leaf content only, never tree shape.
	Replace(match, replace string)
}

// Leaf is an operand: a variable name, a numeric literal, or a
// parenthesis-wrapped unary-minus operand such as (-3.14).
type Leaf struct {
	Text string
}

// Binary is an interior node for the operators + - * /.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Power is the interior node for ^. The base and exponent are named rather
// than left and right because exponentiation renders with its own
// parenthesization rule.
type Power struct {
	Base     Node
	Exponent Node
}

func (l *Leaf) inorder(out []token) []token { return append(out, operand(l.Text)) }
func (l *Leaf) prec() int                   { return 0 }

func (l *Leaf) Replace(match, replace string) {
	if l.Text == match {
		l.Text = replace
	}
}

func (b *Binary) prec() int { return precedence(b.Op) }

// inorder renders left, operator, right, parenthesizing a child only when the
// child is itself an operator node of strictly lower precedence. An
// equal-precedence child renders bare; that reproduces the source surface form
// for the expressions this package round-trips.
func (b *Binary) inorder(out []token) []token {
	out = b.child(out, b.Left)
	out = append(out, op(b.Op))
	return b.child(out, b.Right)
}

func (b *Binary) child(out []token, c Node) []token {
	if p := c.prec(); p != 0 && p < b.prec() {
		out = append(out, openParen)
		out = c.inorder(out)
		return append(out, closeParen)
	}
	return c.inorder(out)
}

func (b *Binary) Replace(match, replace string) {
	b.Left.Replace(match, replace)
	b.Right.Replace(match, replace)
}

func (p *Power) prec() int { return precedence("^") }

// inorder parenthesizes any operator-valued base or exponent: ^ binds tighter
// than anything that could legally be its child without parentheses in the
// source dialects.
func (p *Power) inorder(out []token) []token {
	out = p.child(out, p.Base)
	out = append(out, op("^"))
	return p.child(out, p.Exponent)
}

func (p *Power) child(out []token, c Node) []token {
	if c.prec() != 0 {
		out = append(out, openParen)
		out = c.inorder(out)
		return append(out, closeParen)
	}
	return c.inorder(out)
}

func (p *Power) Replace(match, replace string) {
	p.Base.Replace(match, replace)
	p.Exponent.Replace(match, replace)
}

// cursor is a consuming view over an immutable prefix token sequence. It makes
// the recursion's front-to-back consumption explicit instead of sharing a
// mutable list across recursive calls.
type cursor struct {
	toks []token
	i    int
}

func (c *cursor) next() (token, bool) {
	if c.i >= len(c.toks) {
		return token{}, false
	}
	t := c.toks[c.i]
	c.i++
	return t, true
}

func (c *cursor) rest() int { return len(c.toks) - c.i }

// build constructs a tree from a prefix sequence: the first token is the
// current node; an operator consumes its two children recursively in fixed
// order, base then exponent for ^ and left then right otherwise. A sequence
// that runs out of tokens mid-recursion is malformed.
func build(c *cursor) (Node, error) {
	t, ok := c.next()
	if !ok {
		return nil, &SyntaxError{}
	}
	switch t.kind {
	case tokenOperand:
		return &Leaf{Text: t.text}, nil
	case tokenOp:
		if t.text == "^" {
			base, err := build(c)
			if err != nil {
				return nil, err
			}
			exp, err := build(c)
			if err != nil {
				return nil, err
			}
			return &Power{Base: base, Exponent: exp}, nil
		}
		left, err := build(c)
		if err != nil {
			return nil, err
		}
		right, err := build(c)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: t.text, Left: left, Right: right}, nil
	default:
		return nil, &SyntaxError{Token: t.text}
	}
}

// render serializes a tree to its canonical neutral form, with ^ for
// exponentiation and the temperature placeholders T_ABS and T untouched.
func render(n Node) string {
	toks := n.inorder(nil)
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.text)
	}
	return b.String()
}

// Expr is a parsed expression: the root of its tree plus the variable names
// discovered during tokenization.
type Expr struct {
	root  Node
	names []string
}

// parseExpr runs the full pipeline on dialect-normalized text: tokenize,
// reorder to prefix, build the tree.
func parseExpr(s string) (*Expr, error) {
	toks, names := tokenize(s)
	if len(toks) == 0 {
		return nil, &EmptyExpressionError{}
	}
	prefix, err := infixToPrefix(toks)
	if err != nil {
		return nil, err
	}
	c := cursor{toks: prefix}
	root, err := build(&c)
	if err != nil {
		return nil, err
	}
	if c.rest() != 0 {
		t, _ := c.next()
		return nil, &SyntaxError{Token: t.text}
	}
	return &Expr{root: root, names: names}, nil
}

// AST returns the root node of the expression's tree. The tree is owned by the
// expression; Replace mutates it in place.
func (e *Expr) AST() Node { return e.root }

// Vars returns the variable names used in the expression, in order of first
// appearance, excluding numeric literals.
func (e *Expr) Vars() []string {
	return append([]string(nil), e.names...)
}

// String renders the expression in its canonical neutral form.
func (e *Expr) String() string { return render(e.root) }
