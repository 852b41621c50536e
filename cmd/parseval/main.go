// Command parseval translates temperature-dependent material property
// expressions between the SPICE and COMSOL dialects, evaluates them, and
// checks fixture files of matched expression pairs for numeric equivalence.
package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AndreasBaschir/parseval"
)

var rootCmd = &cobra.Command{
	Use:   "parseval",
	Short: "Convert material property expressions between SPICE and COMSOL",
	Long: `parseval parses arithmetic expressions describing temperature-dependent
material properties and translates them between two surface syntaxes: the
SPICE-style dialect (Celsius variable temp, exponent operator **) and the
COMSOL-style dialect (unit-annotated temperature idioms such as (T/1[K]) and
((T-0[degC])/1[K]), exponent operator ^).`,
	SilenceUsage: true,
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	convertFrom  string
	convertIn    string
	convertOut   string
	convertWatch bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [expression]",
	Short: "Translate an expression to the other dialect",
	Long: `Translate an expression, or a file of expressions one per line, from its
origin dialect to the other dialect. With --watch, the input file is
re-converted every time it changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	d, err := parseval.ParseDialect(convertFrom)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		s, err := convertExpr(args[0], d)
		if err != nil {
			return err
		}
		fmt.Println(s)
		return nil
	}
	if convertIn == "" {
		return fmt.Errorf("an expression argument or --in file is required")
	}
	if err := convertFile(convertIn, convertOut, d); err != nil {
		return err
	}
	if convertWatch {
		return watchFile(convertIn, func() error {
			return convertFile(convertIn, convertOut, d)
		})
	}
	return nil
}

func convertExpr(expr string, from parseval.Dialect) (string, error) {
	switch from {
	case parseval.DialectSpice:
		e, err := parseval.ParseSpice(expr)
		if err != nil {
			return "", err
		}
		return parseval.RenderComsol(e.AST()), nil
	default:
		e, err := parseval.ParseComsol(expr)
		if err != nil {
			return "", err
		}
		return parseval.RenderSpice(e.AST()), nil
	}
}

func convertFile(in, out string, from parseval.Dialect) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()
	w := os.Stdout
	if out != "" {
		w, err = os.Create(out)
		if err != nil {
			return err
		}
		defer w.Close()
	}
	scan := bufio.NewScanner(f)
	line := 0
	for scan.Scan() {
		line++
		expr := strings.TrimSpace(scan.Text())
		if expr == "" {
			continue
		}
		s, err := convertExpr(expr, from)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", in, line, err)
		}
		fmt.Fprintln(w, s)
	}
	return scan.Err()
}

// watchFile re-runs convert whenever the input file is written. It returns
// only on a watcher error.
func watchFile(name string, convert func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Watch the directory: editors often replace the file rather than write
	// it in place.
	if err := watcher.Add(filepath.Dir(name)); err != nil {
		return err
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	log.Printf("watching %s", name)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			ev, err := filepath.Abs(event.Name)
			if err != nil || ev != abs {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				log.Printf("file changed: %s", name)
				if err := convert(); err != nil {
					log.Printf("convert failed: %v", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

var (
	evalFrom  string
	evalGiven []string
	evalVars  string
	evalPrec  uint
)

var evalCmd = &cobra.Command{
	Use:   "eval expression",
	Short: "Evaluate an expression",
	Long: `Evaluate an expression in its origin dialect. Variable bindings come from
repeated --given name=value flags and from a YAML file of name: value pairs.
For COMSOL expressions, T is bound in kelvin; for SPICE expressions, temp is
bound in Celsius.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	d, err := parseval.ParseDialect(evalFrom)
	if err != nil {
		return err
	}
	vars := make(map[string]float64)
	if evalVars != "" {
		data, err := os.ReadFile(evalVars)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, &vars); err != nil {
			return fmt.Errorf("%s: %w", evalVars, err)
		}
	}
	for _, g := range evalGiven {
		name, val, ok := strings.Cut(g, "=")
		if !ok {
			return fmt.Errorf("variable definitions must be \"name=value\", not %q", g)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
		vars[strings.TrimSpace(name)] = v
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	p, err := parseval.NewExprParserPrec(args[0], names, d, evalPrec)
	if err != nil {
		return err
	}
	r, err := p.Keval(vars)
	if err != nil {
		return err
	}
	fmt.Printf("%g\n", r)
	return nil
}

var checkTemps = []float64{-50, 25, 100}

var checkCmd = &cobra.Command{
	Use:   "check fixtures.csv",
	Short: "Check a fixture CSV of matched expression pairs",
	Long: `Check a CSV with columns spice_thconf, spice_thcapf, comsol_thconf,
comsol_thcapf, comsol_density, where each row is a matched pair of equivalent
expressions in the two dialects. Each row is evaluated at several sample
temperatures and the dialects must agree numerically.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var fixtureHeader = []string{"spice_thconf", "spice_thcapf", "comsol_thconf", "comsol_thcapf", "comsol_density"}

func runCheck(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("%s: empty fixture file", args[0])
	}
	if got := strings.Join(recs[0], ","); got != strings.Join(fixtureHeader, ",") {
		return fmt.Errorf("%s: unexpected header %q", args[0], got)
	}
	failed := 0
	for i, rec := range recs[1:] {
		if err := checkRow(rec); err != nil {
			failed++
			fmt.Printf("row %d: FAIL: %v\n", i+1, err)
			continue
		}
		fmt.Printf("row %d: ok\n", i+1)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d rows failed", failed, len(recs)-1)
	}
	return nil
}

func checkRow(rec []string) error {
	if len(rec) != len(fixtureHeader) {
		return fmt.Errorf("expected %d columns, got %d", len(fixtureHeader), len(rec))
	}
	pairs := []struct {
		name   string
		spice  string
		comsol string
	}{
		{"thconf", rec[0], rec[2]},
		// The COMSOL heat capacity is per unit mass; multiply by density to
		// match the volumetric SPICE form.
		{"thcapf", rec[1], rec[3] + "*" + rec[4]},
	}
	for _, p := range pairs {
		sp, err := parseval.NewExprParser(p.spice, []string{"temp"}, parseval.DialectSpice)
		if err != nil {
			return fmt.Errorf("%s: spice: %w", p.name, err)
		}
		co, err := parseval.NewExprParser(p.comsol, []string{"T"}, parseval.DialectComsol)
		if err != nil {
			return fmt.Errorf("%s: comsol: %w", p.name, err)
		}
		for _, t := range checkTemps {
			a, err := sp.Aeval(t)
			if err != nil {
				return fmt.Errorf("%s: spice at temp=%g: %w", p.name, t, err)
			}
			b, err := co.Aeval(t + 273.15)
			if err != nil {
				return fmt.Errorf("%s: comsol at T=%g: %w", p.name, t+273.15, err)
			}
			if !approxEqual(a, b) {
				return fmt.Errorf("%s at temp=%g: spice %g != comsol %g", p.name, t, a, b)
			}
		}
	}
	return nil
}

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "origin dialect, spice or comsol")
	convertCmd.Flags().StringVar(&convertIn, "in", "", "input file, one expression per line")
	convertCmd.Flags().StringVar(&convertOut, "out", "", "output file (default stdout)")
	convertCmd.Flags().BoolVar(&convertWatch, "watch", false, "re-convert the input file on change")
	convertCmd.MarkFlagRequired("from")
	evalCmd.Flags().StringVar(&evalFrom, "from", "", "origin dialect, spice or comsol")
	evalCmd.Flags().StringArrayVar(&evalGiven, "given", nil, "name=value variable definition (any number of times)")
	evalCmd.Flags().StringVar(&evalVars, "vars", "", "YAML file of name: value variable definitions")
	evalCmd.Flags().UintVar(&evalPrec, "prec", 0, "evaluation precision in bits (default 64)")
	evalCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(convertCmd, evalCmd, checkCmd)
}
