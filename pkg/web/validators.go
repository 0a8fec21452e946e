package web

import (
	"net/http"
	"strconv"
	"strings"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// Gte returns a ParamValidator that checks if the argument is greater than or equal to the value captured in the closure.
func Gte(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue >= closedValue
	})
}

// Gt returns a ParamValidator that checks if the argument is greater than the value captured in the closure.
func Gt(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue > closedValue
	})
}

// QueryIntOr reads an integer url parameter. Missing, non-numeric or out of range values yield def.
func QueryIntOr(r *http.Request, key string, def int, pValidator ParamValidator) int {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return def
	}
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil || (pValidator != nil && !pValidator(intValue)) {
		return def
	}
	return int(intValue)
}

// QueryBool reads a boolean url parameter. The second result reports whether a non-empty value was given;
// only the exact text "true" is true, anything else is false.
func QueryBool(r *http.Request, key string) (value bool, present bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, false
	}
	return raw == "true", true
}
