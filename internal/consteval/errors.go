package consteval

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported marks an expression outside the evaluable subset.
	ErrUnsupported = errors.New("unsupported expression")
	// ErrEvaluation marks an expression that is in the subset but fails at
	// run time, or whose result would exceed the evaluator limits.
	ErrEvaluation = errors.New("evaluation failed")
)

func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}

// evalError mirrors the Python exception a failing operation would raise,
// e.g. evalError("ZeroDivisionError", "division by zero").
func evalError(exc, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrEvaluation, exc, fmt.Sprintf(format, args...))
}

func typeError(format string, args ...any) error {
	return evalError("TypeError", format, args...)
}

func unsupportedOperand(op string, a, b Value) error {
	return typeError("unsupported operand type(s) for %s: '%s' and '%s'", op, a.TypeName(), b.TypeName())
}
