package parseval

import "strconv"

// token is one element of a tokenized expression. Tokens are value types; each
// position in a token sequence holds its own instance, so rewriting one leaf of
// a tree never aliases an equal-valued token elsewhere.
type token struct {
	kind tokenKind
	text string
}

func (t token) String() string { return t.text }

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenOperand is a variable name, a numeric literal, or a unary-minus
	// operand already wrapped in parentheses, e.g. (-3.14).
	tokenOperand
	// tokenOp is one of the binary operators + - * / ^.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenOperand:
		return "Operand"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func operand(text string) token { return token{kind: tokenOperand, text: text} }
func op(text string) token      { return token{kind: tokenOp, text: text} }

var (
	openParen  = token{kind: tokenOpen, text: "("}
	closeParen = token{kind: tokenClose, text: ")"}
)

// isNumber reports whether an operand's text is a numeric literal, including
// exponent notation such as 1.65e-6.
func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// exponentTail reports whether cur is a partial numeric literal ending in an
// exponent marker, e.g. "1.56e", in which case a + or - that follows is the
// exponent's sign rather than a binary operator.
func exponentTail(cur string) bool {
	if len(cur) < 2 {
		return false
	}
	if c := cur[len(cur)-1]; c != 'e' && c != 'E' {
		return false
	}
	mant := cur[:len(cur)-1]
	if mant[0] == '-' {
		mant = mant[1:]
	}
	return isNumber(mant)
}

// tokenize splits an expression into operand, operator and parenthesis tokens.
// Whitespace and control characters (codepoints at or below 0x20) are
// discarded. A - at the start of the expression or immediately after an open
// parenthesis is a unary minus: it is folded into the operand being
// accumulated, and the operand is emitted wrapped in literal parentheses so
// that the sign survives re-serialization. A + or - that completes an
// exponent-notation literal, as in 1.56e-3, continues the operand instead of
// becoming an operator. ** is normalized to the canonical ^ operator.
//
// The second result is the list of distinct variable names encountered, in
// order of first appearance, excluding numeric literals. tokenize does not
// validate the expression; unbalanced parentheses and misplaced operators are
// the converter's concern.
func tokenize(s string) ([]token, []string) {
	var toks []token
	var names []string
	seen := make(map[string]bool)
	cur := ""
	emit := func() {
		if cur == "" {
			return
		}
		name := cur
		if name[0] == '-' {
			name = name[1:]
		}
		if !isNumber(name) && name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		if cur[0] == '-' {
			cur = "(" + cur + ")"
		}
		toks = append(toks, operand(cur))
		cur = ""
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i == 0 && c == '-' {
			cur = "-"
			continue
		}
		switch c {
		case '*':
			emit()
			if i+1 < len(s) && s[i+1] == '*' {
				toks = append(toks, op("^"))
				i++
			} else {
				toks = append(toks, op("*"))
			}
		case '+', '-', '/', '^':
			if (c == '+' || c == '-') && exponentTail(cur) {
				cur += string(c)
				continue
			}
			emit()
			toks = append(toks, op(string(c)))
		case '(':
			emit()
			toks = append(toks, openParen)
			if i+1 < len(s) && s[i+1] == '-' {
				cur = "-"
				i++
			}
		case ')':
			emit()
			toks = append(toks, closeParen)
		default:
			if c <= 0x20 {
				continue
			}
			cur += string(c)
		}
	}
	emit()
	return toks, names
}
