// Package validate runs declarative, ordered checks against a decoded
// JSON request body before any mutation is attempted. The first failing
// check determines the response; checks never aggregate.
package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// Code is the stable error code surfaced in the response body.
type Code string

const (
	CodeMissingField       Code = "MissingField"
	CodeIncorrectDataType  Code = "IncorrectDataType"
	CodeUntrimmedString    Code = "UntrimmedString"
	CodeInvalidFieldSize   Code = "InvalidFieldSize"
	CodeInvalidObjectID    Code = "InvalidObjectId"
	CodeNoActionableFields Code = "NoActionableFields"
)

// Error is the first failing check for a request.
type Error struct {
	Code  Code
	Field string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Field)
}

// Kind is the expected JSON type of a field.
type Kind int

const (
	String Kind = iota
	Number
	Array
	// ID is an externally supplied identifier; it must parse as a
	// positive decimal integer (the storage id format).
	ID
)

// Rule describes the checks for one field. Checks run in a fixed order:
// presence, type, trim, range/size. For String fields Min/Max bound the
// length; for Number fields they bound the value. Nil means unbounded.
type Rule struct {
	Field    string
	Kind     Kind
	Required bool
	// Trimmed requires the string to carry no leading/trailing whitespace.
	Trimmed bool
	Min     *float64
	Max     *float64
	// GreaterThan is a strict lower bound for Number fields.
	GreaterThan *float64
}

// Bound is a convenience for Rule.Min/Max literals.
func Bound(v float64) *float64 { return &v }

// Object evaluates rules in order against a decoded JSON object and
// returns the first failure, or nil when every rule passes.
func Object(body map[string]any, rules []Rule) *Error {
	for i := range rules {
		if err := checkField(body, &rules[i]); err != nil {
			return err
		}
	}
	return nil
}

func checkField(body map[string]any, r *Rule) *Error {
	v, present := body[r.Field]
	if v == nil {
		present = false
	}
	if !present || isEmpty(v) {
		if r.Required {
			return &Error{Code: CodeMissingField, Field: r.Field}
		}
		if !present {
			return nil
		}
	}

	switch r.Kind {
	case String:
		s, ok := v.(string)
		if !ok {
			return &Error{Code: CodeIncorrectDataType, Field: r.Field}
		}
		if r.Trimmed && strings.TrimSpace(s) != s {
			return &Error{Code: CodeUntrimmedString, Field: r.Field}
		}
		n := float64(len(s))
		if (r.Min != nil && n < *r.Min) || (r.Max != nil && n > *r.Max) {
			return &Error{Code: CodeInvalidFieldSize, Field: r.Field}
		}
	case Number:
		n, ok := v.(float64)
		if !ok {
			return &Error{Code: CodeIncorrectDataType, Field: r.Field}
		}
		if (r.Min != nil && n < *r.Min) || (r.Max != nil && n > *r.Max) || (r.GreaterThan != nil && n <= *r.GreaterThan) {
			return &Error{Code: CodeInvalidFieldSize, Field: r.Field}
		}
	case Array:
		if _, ok := v.([]any); !ok {
			return &Error{Code: CodeIncorrectDataType, Field: r.Field}
		}
	case ID:
		if _, err := idFromValue(v); err != nil {
			return &Error{Code: CodeInvalidObjectID, Field: r.Field}
		}
	}
	return nil
}

// isEmpty reports whether a present value counts as missing for the
// presence check: empty string, empty array, or JSON null.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	return false
}

// ParseID validates the storage id format: a positive decimal integer.
func ParseID(s string) (int, *Error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, &Error{Code: CodeInvalidObjectID, Field: "id"}
	}
	return id, nil
}

func idFromValue(v any) (int, error) {
	switch t := v.(type) {
	case string:
		id, err := strconv.Atoi(t)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid id %q", t)
		}
		return id, nil
	case float64:
		id := int(t)
		if float64(id) != t || id <= 0 {
			return 0, fmt.Errorf("invalid id %v", t)
		}
		return id, nil
	}
	return 0, fmt.Errorf("invalid id type %T", v)
}

// IDField extracts an already-validated ID field from the body.
func IDField(body map[string]any, field string) int {
	id, _ := idFromValue(body[field])
	return id
}
