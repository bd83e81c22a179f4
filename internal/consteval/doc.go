// Package consteval evaluates side-effect-free Python expressions.
//
// It covers literals, displays, arithmetic, comparisons, boolean logic,
// conditional expressions, subscripts and f-strings, following Python's
// runtime semantics for those forms. Everything that could run user code
// (calls, attribute access, comprehensions, names other than True/False)
// is rejected with ErrUnsupported. Runtime failures such as division by
// zero or a missing key come back as ErrEvaluation.
package consteval
