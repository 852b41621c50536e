package parseval

import (
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Context is a context for evaluating expression trees. It holds the variable
// table, a cache of parsed numeric literals, and the evaluation stack. It is
// not safe to use a Context concurrently.
type Context struct {
	stack []*big.Float
	nums  map[string]*big.Float
	names map[string]*big.Float
	prec  uint
}

// NewContext creates an evaluation context computing to prec bits. If prec is
// 0, the default is 64.
func NewContext(prec uint) *Context {
	if prec == 0 {
		prec = 64
	}
	return &Context{
		nums:  make(map[string]*big.Float),
		names: make(map[string]*big.Float),
		prec:  prec,
	}
}

// Set sets the value of a variable. Returns ctx for chaining.
func (ctx *Context) Set(name string, value float64) *Context {
	ctx.names[name] = new(big.Float).SetPrec(ctx.prec).SetFloat64(value)
	return ctx
}

// Lookup returns a copy of the value of a variable, or nil if the context has
// no such variable.
func (ctx *Context) Lookup(name string) *big.Float {
	v := ctx.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint { return ctx.prec }

// Eval evaluates a tree and returns the result. The returned value is owned by
// the context and is overwritten by the next Eval call.
func (ctx *Context) Eval(n Node) (*big.Float, error) {
	ctx.stack = ctx.stack[:0]
	if err := n.eval(ctx); err != nil {
		return nil, err
	}
	if len(ctx.stack) != 1 {
		panic("parseval: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
	return ctx.stack[0], nil
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top of the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// num gets a possibly cached number from its text. The second result is false
// if the text is not numeric.
func (ctx *Context) num(s string) (*big.Float, bool) {
	if r := ctx.nums[s]; r != nil {
		return r, true
	}
	if !isNumber(s) {
		return nil, false
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 0)
	if err != nil {
		return nil, false
	}
	ctx.nums[s] = r
	return r, true
}

func (l *Leaf) eval(ctx *Context) error {
	s := l.Text
	if len(s) >= 3 && s[0] == '(' && s[len(s)-1] == ')' {
		// Unary-minus operand, e.g. (-3.14) or (-x).
		s = s[1 : len(s)-1]
	}
	neg := false
	if s != "" && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	v, ok := ctx.num(s)
	if !ok {
		v = ctx.names[s]
		if v == nil {
			return &NameError{Name: s}
		}
	}
	r := ctx.push()
	r.Set(v)
	if neg {
		r.Neg(r)
	}
	return nil
}

func (b *Binary) eval(ctx *Context) error {
	if err := b.Left.eval(ctx); err != nil {
		return err
	}
	if err := b.Right.eval(ctx); err != nil {
		return err
	}
	r := ctx.pop()
	l := ctx.top()
	switch b.Op {
	case "+":
		l.Add(l, r)
	case "-":
		l.Sub(l, r)
	case "*":
		l.Mul(l, r)
	case "/":
		// Guard against invalid divisions, 0/0 or inf/inf.
		if l.Sign() == 0 && r.Sign() == 0 || l.IsInf() && r.IsInf() {
			return &DomainError{X: r, Op: "/"}
		}
		l.Quo(l, r)
	default:
		return &SyntaxError{Token: b.Op}
	}
	return nil
}

func (p *Power) eval(ctx *Context) error {
	if err := p.Base.eval(ctx); err != nil {
		return err
	}
	if err := p.Exponent.eval(ctx); err != nil {
		return err
	}
	r := ctx.pop()
	l := ctx.top()
	// Guard against invalid exponentiations, i.e. negative base.
	if l.Signbit() && l.Sign() != 0 {
		return &DomainError{X: l, Op: "^"}
	}
	bigfloat.Pow(l, l, r)
	return nil
}

// Evaluator evaluates one expression, written in the canonical SPICE syntax,
// for a fixed ordered list of argument names. The expression is parsed once at
// construction. An Evaluator is not safe for concurrent use.
type Evaluator struct {
	expr     string
	argnames []string
	ast      *Expr
	ctx      *Context
}

// NewEvaluator parses a canonical SPICE-syntax expression and binds it to the
// given ordered argument names, computing to the default 64-bit precision.
func NewEvaluator(expr string, argnames []string) (*Evaluator, error) {
	return NewEvaluatorPrec(expr, argnames, 0)
}

// NewEvaluatorPrec is NewEvaluator computing to prec bits. If prec is 0, the
// default is 64.
func NewEvaluatorPrec(expr string, argnames []string, prec uint) (*Evaluator, error) {
	e, err := parseExpr(expr)
	if err != nil {
		return nil, err
	}
	return &Evaluator{
		expr:     expr,
		argnames: append([]string(nil), argnames...),
		ast:      e,
		ctx:      NewContext(prec),
	}, nil
}

// Prec returns the precision in bits to which the evaluator computes.
func (ev *Evaluator) Prec() uint { return ev.ctx.Prec() }

// Aeval evaluates the expression with positional bindings: args[i] is the
// value of the i'th argument name. Supplying any other number of arguments
// than the declared names is an *ArityError.
func (ev *Evaluator) Aeval(args ...float64) (float64, error) {
	if len(args) != len(ev.argnames) {
		return 0, &ArityError{Want: len(ev.argnames), Got: len(args)}
	}
	for i, name := range ev.argnames {
		ev.ctx.Set(name, args[i])
	}
	return ev.run()
}

// Keval evaluates the expression with keyword bindings. Every declared
// argument name must be bound: a count mismatch is an *ArityError and a
// missing name is a *NameError. Nothing is partially evaluated on failure.
func (ev *Evaluator) Keval(args map[string]float64) (float64, error) {
	if len(args) != len(ev.argnames) {
		return 0, &ArityError{Want: len(ev.argnames), Got: len(args)}
	}
	for _, name := range ev.argnames {
		v, ok := args[name]
		if !ok {
			return 0, &NameError{Name: name}
		}
		ev.ctx.Set(name, v)
	}
	return ev.run()
}

func (ev *Evaluator) run() (float64, error) {
	r, err := ev.ctx.Eval(ev.ast.AST())
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}
