//go:build go1.18
// +build go1.18

package parseval_test

import (
	"testing"

	"github.com/AndreasBaschir/parseval"
)

func FuzzParseSpice(f *testing.F) {
	f.Add("temp")
	f.Add("81.5-0.155*temp+0.133e-3*temp**2")
	f.Add("(-3.14)+x")
	f.Add("((")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := parseval.ParseSpice(s)
		if err != nil {
			return
		}
		parseval.RenderSpice(e.AST())
		parseval.RenderComsol(e.AST())
	})
}

func FuzzParseComsol(f *testing.F) {
	f.Add("(T/1[K])")
	f.Add("((T-0[degC])/1[K])^2")
	f.Add("1+2)")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := parseval.ParseComsol(s)
		if err != nil {
			return
		}
		parseval.RenderComsol(e.AST())
	})
}
