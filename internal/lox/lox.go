package lox

import (
	"fmt"
	"strconv"
)

// stringify renders a Lox runtime value the way `print` and the REPL do.
// Doubles that hold an integral value print without a trailing ".0" or
// exponent, matching how Lox source writes integer literals.
func stringify(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return fmt.Sprint(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// isTruthy applies Lox's truthiness rule: nil and false are falsy, and
// everything else - including 0 and "" - is truthy.
func isTruthy(value interface{}) bool {
	if value == nil {
		return false
	}
	if v, ok := value.(bool); ok {
		return v
	}
	return true
}

// isEqual applies Lox's equality rule: nil equals only nil, and values of
// different runtime types are never equal, so `1 == "1"` is false rather
// than a comparison error.
func isEqual(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}
