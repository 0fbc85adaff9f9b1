// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
//	n := utils.AtoiDefault("42", 0) // 42
//	n = utils.AtoiDefault("x", 5)   // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ID is any positive integer identifier type.
type ID interface {
	~int | ~uint
}

// ParseIDList parses query values such as ?ids=1,2&ids=3 into a list of
// positive ids. Commas and repeated parameters may be mixed; blanks are
// skipped and duplicates dropped, keeping first-seen order. No values yields
// an empty, non-nil slice.
func ParseIDList[T ID](values []string) ([]T, error) {
	out := make([]T, 0, len(values))
	seen := make(map[T]struct{})
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.ParseInt(part, 10, 32)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid id %q", part)
			}
			id := T(n)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}

// ParseID parses a single positive path id.
func ParseID[T ID](s string) (T, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil || n <= 0 {
		return 0, false
	}
	return T(n), true
}
