package parseval

import (
	"regexp"
	"strings"
)

// Dialect identifies one of the two surface expression syntaxes.
type Dialect int

const (
	DialectNone Dialect = iota
	// DialectSpice is the SPICE-style dialect: temperature is the Celsius
	// variable temp and exponentiation is written **.
	DialectSpice
	// DialectComsol is the COMSOL-style dialect: temperature appears through
	// the unit-annotated idioms (T/1[K]) and ((T-0[degC])/1[K]) and
	// exponentiation is written ^.
	DialectComsol
)

func (d Dialect) String() string {
	switch d {
	case DialectSpice:
		return "spice"
	case DialectComsol:
		return "comsol"
	default:
		return "none"
	}
}

// ParseDialect converts a dialect tag to a Dialect, ignoring case. An
// unrecognized tag is a *DialectError.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "spice":
		return DialectSpice, nil
	case "comsol":
		return DialectComsol, nil
	default:
		return DialectNone, &DialectError{Dialect: s}
	}
}

// Neutral placeholder names for the two temperature forms. T_ABS is absolute
// temperature in kelvin; T is the relative/Celsius value.
const (
	absTempVar = "T_ABS"
	relTempVar = "T"
)

// Surface forms of the temperature idioms.
const (
	comsolAbsTemp = "(T/1[K])"
	comsolRelTemp = "((T-0[degC])/1[K])"
	spiceAbsTemp  = "(temp+273.15)"
	spiceRelTemp  = "temp"
)

var (
	// comsolAbsTempPat matches the absolute-temperature idiom (T/1[K]),
	// allowing internal whitespace. It must be applied before the Celsius
	// pattern check; the ordering keeps the two substitutions from
	// interfering.
	comsolAbsTempPat = regexp.MustCompile(`\(\s*T\s*/\s*1\s*\[\s*K\s*\]\s*\)`)
	// comsolRelTempPat matches the relative/Celsius idiom ((T-0[degC])/1[K]).
	comsolRelTempPat = regexp.MustCompile(`\(\(T-0\[degC\]\)/1\[K\]\)`)
	// spiceAbsTempPat matches the SPICE absolute-temperature form
	// (temp+273.15), allowing internal whitespace.
	spiceAbsTempPat = regexp.MustCompile(`\(\s*temp\s*\+\s*273\.15\s*\)`)
	spiceRelTempPat = regexp.MustCompile(`\btemp\b`)
	absTempVarPat   = regexp.MustCompile(`\bT_ABS\b`)
	relTempVarPat   = regexp.MustCompile(`\bT\b`)
	// tempVarPat matches either neutral placeholder in one pass, so that the
	// T inside an inserted (T/1[K]) is never itself substituted.
	tempVarPat = regexp.MustCompile(`\bT_ABS\b|\bT\b`)
)

// ParseSpice parses a SPICE-dialect expression. SPICE expresses temperature
// directly as temp, so no idiom rewrite is needed before tokenization.
func ParseSpice(expr string) (*Expr, error) {
	return parseExpr(expr)
}

// ParseComsol parses a COMSOL-dialect expression. The two temperature idioms
// are rewritten to the neutral names T_ABS and T before tokenization, absolute
// form first.
func ParseComsol(expr string) (*Expr, error) {
	s := comsolAbsTempPat.ReplaceAllString(expr, absTempVar)
	s = comsolRelTempPat.ReplaceAllString(s, relTempVar)
	return parseExpr(s)
}

// RenderSpice renders a tree in the SPICE dialect: the neutral temperature
// leaves T_ABS and T become (temp+273.15) and temp, and ^ becomes **. It is a
// pure function of the tree.
func RenderSpice(n Node) string {
	toks := n.inorder(nil)
	var b strings.Builder
	for _, t := range toks {
		text := t.text
		if t.kind == tokenOperand {
			switch text {
			case absTempVar:
				text = spiceAbsTemp
			case relTempVar:
				text = spiceRelTemp
			}
		}
		b.WriteString(text)
	}
	return strings.ReplaceAll(b.String(), "^", "**")
}

// RenderComsol renders a tree in the COMSOL dialect. The temperature
// substitution is the exact textual inverse of the ParseComsol rewrite, so
// parse and render round-trip: the SPICE absolute form (temp+273.15) and the
// neutral T_ABS become (T/1[K]), and temp and the neutral T become
// ((T-0[degC])/1[K]). Exponentiation stays ^. It is a pure function of the
// tree.
func RenderComsol(n Node) string {
	// Normalize the SPICE temperature forms to the neutral names first, then
	// expand both neutral names to their idioms in a single pass.
	s := render(n)
	s = spiceAbsTempPat.ReplaceAllString(s, absTempVar)
	s = spiceRelTempPat.ReplaceAllString(s, relTempVar)
	return tempVarPat.ReplaceAllStringFunc(s, func(m string) string {
		if m == absTempVar {
			return comsolAbsTemp
		}
		return comsolRelTemp
	})
}

// ExprParser holds one expression in its declared origin dialect, the tree
// parsed from it, and an evaluator bound to the caller's ordered variable
// names. It is not safe for concurrent use: substitution and evaluation mutate
// shared state.
type ExprParser struct {
	expr    string
	names   []string
	dialect Dialect
	ast     *Expr
	eval    *Evaluator
}

// NewExprParser parses expr in its origin dialect and prepares an evaluator
// over varnames computing to the default 64-bit precision. A dialect outside
// {spice, comsol} is a *DialectError.
func NewExprParser(expr string, varnames []string, dialect Dialect) (*ExprParser, error) {
	return NewExprParserPrec(expr, varnames, dialect, 0)
}

// NewExprParserPrec is NewExprParser with an explicit evaluation precision in
// bits. If prec is 0, the default is 64.
func NewExprParserPrec(expr string, varnames []string, dialect Dialect, prec uint) (*ExprParser, error) {
	p := &ExprParser{
		expr:    expr,
		names:   append([]string(nil), varnames...),
		dialect: dialect,
	}
	var err error
	switch dialect {
	case DialectSpice:
		if p.ast, err = ParseSpice(expr); err != nil {
			return nil, err
		}
		// The raw expression is already the evaluator's canonical form.
		if p.eval, err = NewEvaluatorPrec(expr, p.names, prec); err != nil {
			return nil, err
		}
	case DialectComsol:
		if p.ast, err = ParseComsol(expr); err != nil {
			return nil, err
		}
		if p.eval, err = NewEvaluatorPrec(comsolEvalSource(p.ast), p.names, prec); err != nil {
			return nil, err
		}
	default:
		return nil, &DialectError{Dialect: dialect.String()}
	}
	return p, nil
}

// comsolEvalSource rewrites a COMSOL tree's canonical form into an evaluable
// SPICE-syntax expression over the kelvin variable T: the neutral Celsius
// token T becomes (T-273.15) and T_ABS becomes T. The Celsius rewrite runs
// first; T_ABS is immune to it because _ continues the word.
func comsolEvalSource(e *Expr) string {
	s := strings.ReplaceAll(e.String(), "^", "**")
	s = relTempVarPat.ReplaceAllString(s, "(T-273.15)")
	s = absTempVarPat.ReplaceAllString(s, relTempVar)
	return s
}

// Dialect returns the expression's declared origin dialect.
func (p *ExprParser) Dialect() Dialect { return p.dialect }

// AST returns the tree parsed from the expression.
func (p *ExprParser) AST() Node { return p.ast.AST() }

// Vars returns the variable names discovered while tokenizing the expression.
func (p *ExprParser) Vars() []string { return p.ast.Vars() }

// ParseSpice re-parses the expression as SPICE. Calling it on a comsol-origin
// expression is an *OperationError.
func (p *ExprParser) ParseSpice() (*Expr, error) {
	if p.dialect == DialectComsol {
		return nil, &OperationError{Op: "ParseSpice", Dialect: p.dialect}
	}
	e, err := ParseSpice(p.expr)
	if err != nil {
		return nil, err
	}
	p.ast = e
	return e, nil
}

// ParseComsol re-parses the expression as COMSOL. Calling it on a spice-origin
// expression is an *OperationError.
func (p *ExprParser) ParseComsol() (*Expr, error) {
	if p.dialect == DialectSpice {
		return nil, &OperationError{Op: "ParseComsol", Dialect: p.dialect}
	}
	e, err := ParseComsol(p.expr)
	if err != nil {
		return nil, err
	}
	p.ast = e
	return e, nil
}

// GenerateSpice returns the expression in the SPICE dialect. A spice-origin
// expression is returned as written.
func (p *ExprParser) GenerateSpice() string {
	if p.dialect == DialectSpice {
		return p.expr
	}
	return RenderSpice(p.ast.AST())
}

// GenerateComsol returns the expression in the COMSOL dialect. A comsol-origin
// expression is returned as written.
func (p *ExprParser) GenerateComsol() string {
	if p.dialect == DialectComsol {
		return p.expr
	}
	return RenderComsol(p.ast.AST())
}

// Aeval evaluates the expression with positional bindings for the declared
// variable names.
func (p *ExprParser) Aeval(args ...float64) (float64, error) {
	return p.eval.Aeval(args...)
}

// Keval evaluates the expression with keyword bindings for the declared
// variable names.
func (p *ExprParser) Keval(args map[string]float64) (float64, error) {
	return p.eval.Keval(args)
}
