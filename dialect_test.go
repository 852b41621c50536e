package parseval

import (
	"errors"
	"testing"
)

func TestParseDialect(t *testing.T) {
	cases := []struct {
		src  string
		want Dialect
		ok   bool
	}{
		{"spice", DialectSpice, true},
		{"SPICE", DialectSpice, true},
		{"comsol", DialectComsol, true},
		{"Comsol", DialectComsol, true},
		{"", DialectNone, false},
		{"matlab", DialectNone, false},
	}
	for _, c := range cases {
		d, err := ParseDialect(c.src)
		if c.ok {
			if err != nil {
				t.Errorf("ParseDialect(%q): unexpected error %v", c.src, err)
			}
			if d != c.want {
				t.Errorf("ParseDialect(%q): want %v, got %v", c.src, c.want, d)
			}
			continue
		}
		var de *DialectError
		if !errors.As(err, &de) {
			t.Errorf("ParseDialect(%q): expected *DialectError, got %#v", c.src, err)
		}
	}
}

func TestParseComsolNormalization(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		// absolute-temperature idiom
		{"(T/1[K])", "T_ABS"},
		{"(T/1[K])^2", "T_ABS^2"},
		// internal whitespace is allowed in the absolute idiom
		{"( T / 1 [ K ] )", "T_ABS"},
		// relative/Celsius idiom
		{"((T-0[degC])/1[K])", "T"},
		{"1.56e-3*((T-0[degC])/1[K])", "1.56e-3*T"},
		// both idioms in one expression
		{
			"(50/(0.03+1.56e-3*((T-0[degC])/1[K])+1.65e-6*(T/1[K])^2))",
			"50/(0.03+1.56e-3*T+1.65e-6*T_ABS^2)",
		},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			e, err := ParseComsol(c.src)
			if err != nil {
				t.Fatalf("parsing %q: unexpected error %v", c.src, err)
			}
			if got := e.String(); got != c.want {
				t.Errorf("parsing %q: want canonical %q, got %q", c.src, c.want, got)
			}
		})
	}
}

func TestComsolRoundTrip(t *testing.T) {
	// Parse and render invert each other, up to dropping a redundant outer
	// parenthesis pair and idiom whitespace.
	cases := []struct {
		src  string
		want string
	}{
		{
			"(50/(0.03+1.56e-3*((T-0[degC])/1[K])+1.65e-6*(T/1[K])^2))",
			"50/(0.03+1.56e-3*((T-0[degC])/1[K])+1.65e-6*(T/1[K])^2)",
		},
		{
			"(104-0.287*((T-0[degC])/1[K])+0.321e-3*((T-0[degC])/1[K])^2)",
			"104-0.287*((T-0[degC])/1[K])+0.321e-3*((T-0[degC])/1[K])^2",
		},
		{
			"81.5-0.155*((T-0[degC])/1[K])",
			"81.5-0.155*((T-0[degC])/1[K])",
		},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			e, err := ParseComsol(c.src)
			if err != nil {
				t.Fatal(err)
			}
			if got := RenderComsol(e.AST()); got != c.want {
				t.Errorf("round trip of %q produced %q, want %q", c.src, got, c.want)
			}
		})
	}
}

func TestSpiceRoundTrip(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"81.5-0.155*temp+0.133e-3*temp**2", "81.5-0.155*temp+0.133e-3*temp**2"},
		{"50/(0.03+1.56e-3*temp+1.65e-6*(temp+273.15)**2)", "50/(0.03+1.56e-3*temp+1.65e-6*(temp+273.15)**2)"},
		{"(700+0.5*temp)*3210", "(700+0.5*temp)*3210"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			e, err := ParseSpice(c.src)
			if err != nil {
				t.Fatal(err)
			}
			if got := RenderSpice(e.AST()); got != c.want {
				t.Errorf("round trip of %q produced %q, want %q", c.src, got, c.want)
			}
		})
	}
}

func TestCrossDialectRendering(t *testing.T) {
	t.Run("spice to comsol", func(t *testing.T) {
		cases := []struct {
			src  string
			want string
		}{
			{
				"81.5-0.155*temp+0.133e-3*temp**2",
				"81.5-0.155*((T-0[degC])/1[K])+0.133e-3*((T-0[degC])/1[K])^2",
			},
			{
				"50/(0.03+1.56e-3*temp+1.65e-6*(temp+273.15)**2)",
				"50/(0.03+1.56e-3*((T-0[degC])/1[K])+1.65e-6*(T/1[K])^2)",
			},
		}
		for _, c := range cases {
			e, err := ParseSpice(c.src)
			if err != nil {
				t.Fatal(err)
			}
			if got := RenderComsol(e.AST()); got != c.want {
				t.Errorf("converting %q: want %q, got %q", c.src, c.want, got)
			}
		}
	})
	t.Run("comsol to spice", func(t *testing.T) {
		cases := []struct {
			src  string
			want string
		}{
			{
				"(50/(0.03+1.56e-3*((T-0[degC])/1[K])+1.65e-6*(T/1[K])^2))",
				"50/(0.03+1.56e-3*temp+1.65e-6*(temp+273.15)**2)",
			},
			{
				"(104-0.287*((T-0[degC])/1[K]))",
				"104-0.287*temp",
			},
		}
		for _, c := range cases {
			e, err := ParseComsol(c.src)
			if err != nil {
				t.Fatal(err)
			}
			if got := RenderSpice(e.AST()); got != c.want {
				t.Errorf("converting %q: want %q, got %q", c.src, c.want, got)
			}
		}
	})
}

func TestRenderPure(t *testing.T) {
	// Renderers are pure: repeated calls agree and leave the tree intact.
	e, err := ParseComsol("(104-0.287*((T-0[degC])/1[K])+0.321e-3*(T/1[K])^2)")
	if err != nil {
		t.Fatal(err)
	}
	canon := e.String()
	s1 := RenderSpice(e.AST())
	c1 := RenderComsol(e.AST())
	s2 := RenderSpice(e.AST())
	c2 := RenderComsol(e.AST())
	if s1 != s2 {
		t.Errorf("RenderSpice not deterministic: %q vs %q", s1, s2)
	}
	if c1 != c2 {
		t.Errorf("RenderComsol not deterministic: %q vs %q", c1, c2)
	}
	if got := e.String(); got != canon {
		t.Errorf("rendering mutated the tree: %q became %q", canon, got)
	}
}

func TestExprParserOriginChecks(t *testing.T) {
	sp, err := NewExprParser("1+temp", []string{"temp"}, DialectSpice)
	if err != nil {
		t.Fatal(err)
	}
	co, err := NewExprParser("1+((T-0[degC])/1[K])", []string{"T"}, DialectComsol)
	if err != nil {
		t.Fatal(err)
	}
	var oe *OperationError
	if _, err := sp.ParseComsol(); !errors.As(err, &oe) {
		t.Errorf("ParseComsol on spice origin: expected *OperationError, got %#v", err)
	}
	if _, err := co.ParseSpice(); !errors.As(err, &oe) {
		t.Errorf("ParseSpice on comsol origin: expected *OperationError, got %#v", err)
	}
	if _, err := sp.ParseSpice(); err != nil {
		t.Errorf("ParseSpice on spice origin: unexpected error %v", err)
	}
	if _, err := co.ParseComsol(); err != nil {
		t.Errorf("ParseComsol on comsol origin: unexpected error %v", err)
	}
}

func TestExprParserGenerateShortCircuit(t *testing.T) {
	// Same-origin generation returns the expression exactly as written, idiom
	// whitespace and all.
	src := "( T / 1[K] ) ^ 2"
	co, err := NewExprParser(src, []string{"T"}, DialectComsol)
	if err != nil {
		t.Fatal(err)
	}
	if got := co.GenerateComsol(); got != src {
		t.Errorf("GenerateComsol on comsol origin: want %q, got %q", src, got)
	}
	if got, want := co.GenerateSpice(), "(temp+273.15)**2"; got != want {
		t.Errorf("GenerateSpice: want %q, got %q", want, got)
	}
	sp, err := NewExprParser("temp**2", []string{"temp"}, DialectSpice)
	if err != nil {
		t.Fatal(err)
	}
	if got := sp.GenerateSpice(); got != "temp**2" {
		t.Errorf("GenerateSpice on spice origin: want %q, got %q", "temp**2", got)
	}
	if got, want := sp.GenerateComsol(), "((T-0[degC])/1[K])^2"; got != want {
		t.Errorf("GenerateComsol: want %q, got %q", want, got)
	}
}

func TestNewExprParserErrors(t *testing.T) {
	var de *DialectError
	if _, err := NewExprParser("1+1", nil, DialectNone); !errors.As(err, &de) {
		t.Errorf("expected *DialectError, got %#v", err)
	}
	var be *BracketError
	if _, err := NewExprParser("(1+1", nil, DialectSpice); !errors.As(err, &be) {
		t.Errorf("expected *BracketError, got %#v", err)
	}
	var ee *EmptyExpressionError
	if _, err := NewExprParser("", nil, DialectComsol); !errors.As(err, &ee) {
		t.Errorf("expected *EmptyExpressionError, got %#v", err)
	}
}
