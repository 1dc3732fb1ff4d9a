// Package preference encodes, decodes and validates ranked ticket
// preference lists. A list is a declining willingness curve terminated
// by zero: "4,2,1,0" means "I'd like 4, will accept 2, or 1, or none".
package preference

import (
	"strconv"
	"strings"
)

// Delimiter separates values in the wire form.
const Delimiter = ","

// FormatError reports a wire string that cannot be parsed at all.
type FormatError struct {
	Token string
}

func (e *FormatError) Error() string {
	return "preference list contains a non-integer value: " + strconv.Quote(e.Token)
}

// SequenceError reports a well-formed list that violates the ordering
// rules. Rule names the first violated constraint.
type SequenceError struct {
	Rule string
}

func (e *SequenceError) Error() string {
	return "invalid preference sequence: " + e.Rule
}

// Encode joins a preference list into its wire form.
func Encode(prefs []int) string {
	parts := make([]string, len(prefs))
	for i, p := range prefs {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, Delimiter)
}

// Decode parses a wire string into a preference list. It does not
// validate ordering; callers follow up with Validate.
func Decode(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, Delimiter)
	prefs := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, &FormatError{Token: part}
		}
		prefs[i] = v
	}
	return prefs, nil
}

// Validate enforces the sequence rules: non-empty, first element
// positive, strictly decreasing, terminated by exactly one zero.
func Validate(prefs []int) error {
	if len(prefs) == 0 {
		return &SequenceError{Rule: "list is empty"}
	}
	if prefs[0] == 0 {
		// An all-zero submission means "no interest"; the caller
		// should not submit at all.
		return &SequenceError{Rule: "first choice must be greater than zero"}
	}
	for i := 1; i < len(prefs); i++ {
		if prefs[i] >= prefs[i-1] {
			return &SequenceError{Rule: "each choice must be less than the previous"}
		}
	}
	// Strict decrease plus a zero terminator leaves no room for
	// negatives or duplicate zeros, so no further checks are needed.
	if prefs[len(prefs)-1] != 0 {
		return &SequenceError{Rule: "list must end with 0"}
	}
	return nil
}

// First returns the ideal (largest, first) requested quantity.
func First(prefs []int) int {
	if len(prefs) == 0 {
		return 0
	}
	return prefs[0]
}

// MinAcceptable returns the smallest strictly-positive quantity, or 0
// when the list holds none.
func MinAcceptable(prefs []int) int {
	min := 0
	for _, p := range prefs {
		if p > 0 && (min == 0 || p < min) {
			min = p
		}
	}
	return min
}
