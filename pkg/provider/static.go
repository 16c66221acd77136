/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"context"
)

// Static resolves substitutions from a fixed in-memory map. Used by
// tests and local development where no external provider is available.
type Static struct {
	values map[string]string
}

// NewStatic creates a static provider over the given name→value map.
func NewStatic(values map[string]string) *Static {
	return &Static{values: values}
}

// Resolve returns values for the batch members present in the map.
func (s *Static) Resolve(ctx context.Context, req *Request) (map[string]string, error) {
	out := make(map[string]string)
	for _, sub := range req.Substitutions {
		if v, ok := s.values[sub.Name()]; ok {
			out[sub.Name()] = v
		}
	}
	return out, nil
}

var _ Provider = (*Static)(nil)
