/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package version

import (
	"fmt"
	"strings"
)

// Constraint restricts acceptable versions. Supported forms:
//
//	""          matches everything
//	"*"         matches everything
//	"1.25.3"    exact match up to the constraint's precision
//	"1.25.x"    wildcard: any patch of 1.25
//	">=1.25"    at least (also >, <=, <)
type Constraint struct {
	op      string
	version Version
	any     bool
}

// ParseConstraint parses a constraint expression.
func ParseConstraint(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return Constraint{any: true}, nil
	}

	op := "="
	for _, candidate := range []string{">=", "<=", ">", "<"} {
		if strings.HasPrefix(s, candidate) {
			op = candidate
			s = strings.TrimSpace(s[len(candidate):])
			break
		}
	}

	// Wildcard components lower the precision: "1.25.x" behaves like
	// the two-component constraint "1.25".
	for _, wildcard := range []string{".x", ".X", ".*"} {
		for strings.HasSuffix(s, wildcard) {
			if op != "=" {
				return Constraint{}, fmt.Errorf("wildcard constraint cannot carry operator %s", op)
			}
			s = s[:len(s)-len(wildcard)]
		}
	}

	v, err := Parse(s)
	if err != nil {
		return Constraint{}, fmt.Errorf("invalid constraint %q: %w", s, err)
	}
	return Constraint{op: op, version: v}, nil
}

// Matches reports whether the version satisfies the constraint.
// Comparison precision is the constraint's, so "=1.25" accepts any
// 1.25.x.
func (c Constraint) Matches(v Version) bool {
	if c.any {
		return true
	}
	cmp := v.Compare(c.version)
	switch c.op {
	case ">=":
		return cmp >= 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case "<":
		return cmp < 0
	default:
		return cmp == 0
	}
}

// String renders the constraint in its canonical form.
func (c Constraint) String() string {
	if c.any {
		return "*"
	}
	if c.op == "=" {
		return c.version.String()
	}
	return c.op + c.version.String()
}
