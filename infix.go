package parseval

// precedence returns the binding strength of an operator symbol. Higher is
// more binding. Non-operator text has precedence 0.
func precedence(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	case "^":
		return 3
	default:
		return 0
	}
}

// infixToPostfix reorders a token sequence with a shunting-yard reduction over
// a parenthesis-wrapped copy of the input. An incoming operator pops stacked
// operators of strictly higher precedence; ^ also pops its equals. Fed the
// reversed input by infixToPrefix, these comparisons make ^ right-associative
// and the other operators left-associative. Mismatched parentheses are
// reported as a *BracketError rather than recovered.
func infixToPostfix(toks []token) ([]token, error) {
	wrapped := make([]token, 0, len(toks)+2)
	wrapped = append(wrapped, openParen)
	wrapped = append(wrapped, toks...)
	wrapped = append(wrapped, closeParen)
	var stack, out []token
	for _, t := range wrapped {
		switch t.kind {
		case tokenOperand:
			out = append(out, t)
		case tokenOpen:
			stack = append(stack, t)
		case tokenClose:
			for {
				if len(stack) == 0 {
					return nil, &BracketError{Right: ")"}
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.kind == tokenOpen {
					break
				}
				out = append(out, top)
			}
		case tokenOp:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.kind != tokenOp {
					break
				}
				if t.text == "^" {
					// Right-associative: pop equal precedence too.
					if precedence(t.text) > precedence(top.text) {
						break
					}
				} else {
					if precedence(t.text) >= precedence(top.text) {
						break
					}
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, t)
		default:
			return nil, &SyntaxError{Token: t.text}
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.kind == tokenOpen {
			return nil, &BracketError{Left: "("}
		}
		out = append(out, top)
	}
	return out, nil
}

// infixToPrefix reorders an infix token sequence to prefix order: reverse the
// sequence, swap every open and close parenthesis, run the postfix reduction,
// and reverse the result. The double reversal yields correct prefix output
// from the postfix-oriented reduction without a second algorithm.
func infixToPrefix(toks []token) ([]token, error) {
	rev := make([]token, len(toks))
	for i, t := range toks {
		switch t.kind {
		case tokenOpen:
			t = closeParen
		case tokenClose:
			t = openParen
		}
		rev[len(toks)-1-i] = t
	}
	post, err := infixToPostfix(rev)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post, nil
}
