/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package resolver

import "regexp"

// tokenPattern matches ${identifier} where identifier follows the usual
// variable naming rules.
var tokenPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Substitute replaces every ${name} token in text with the matching
// value. Unmatched tokens are left verbatim so partially-resolved
// documents remain inspectable.
func Substitute(text string, values map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[2 : len(token)-1]
		if v, ok := values[name]; ok {
			return v
		}
		return token
	})
}

// SubstituteValue walks an arbitrary structured value (mappings, ordered
// sequences, scalars) and interpolates every string leaf. Non-string
// scalars pass through unchanged.
func SubstituteValue(v any, values map[string]string) any {
	switch node := v.(type) {
	case string:
		return Substitute(node, values)
	case []any:
		out := make([]any, len(node))
		for i, item := range node {
			out[i] = SubstituteValue(item, values)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(node))
		for key, item := range node {
			out[key] = SubstituteValue(item, values)
		}
		return out
	default:
		return v
	}
}
