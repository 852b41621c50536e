// Package parseval translates arithmetic expressions for temperature-dependent
// material properties between two surface syntaxes: a SPICE-style dialect,
// where temperature is the Celsius variable temp and exponentiation is written
// **, and a COMSOL-style dialect, where temperature appears through
// unit-annotated idioms such as (T/1[K]) and ((T-0[degC])/1[K]) and
// exponentiation is written ^.
//
// Expressions are tokenized, reordered to prefix form by an operator-precedence
// pass, and built into a small expression tree. Rendering the tree back to text
// reinserts only the parentheses required to preserve evaluation order, so a
// parsed expression round-trips to its source form. The temperature idioms are
// normalized to the neutral names T_ABS and T before tokenization and restored
// on rendering, which is what connects the two dialects.
//
// The package also evaluates parsed expressions with big.Float arithmetic, so
// that matched SPICE/COMSOL pairs can be checked for numeric equivalence at
// corresponding temperatures (T kelvin = temp celsius + 273.15).
package parseval
