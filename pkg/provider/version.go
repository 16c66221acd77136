/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"context"
	"fmt"

	"github.com/distribution/reference"

	"github.com/kustodian/kustodian/pkg/resource"
	"github.com/kustodian/kustodian/pkg/version"
)

// TagLister lists the tags of an image repository. Implementations talk
// to a registry; tests inject a fixture.
type TagLister interface {
	Tags(ctx context.Context, repository string) ([]string, error)
}

// TagListerFunc adapts a function to the TagLister interface.
type TagListerFunc func(ctx context.Context, repository string) ([]string, error)

// Tags implements TagLister.
func (f TagListerFunc) Tags(ctx context.Context, repository string) ([]string, error) {
	return f(ctx, repository)
}

// Versions resolves version substitutions by listing registry tags and
// selecting the newest one satisfying the substitution's constraint.
type Versions struct {
	lister TagLister
}

// NewVersions creates a version provider over the given tag lister.
func NewVersions(lister TagLister) *Versions {
	return &Versions{lister: lister}
}

// Resolve selects a tag per version substitution. Substitutions without
// a registry keep their declared default and are skipped.
func (p *Versions) Resolve(ctx context.Context, req *Request) (map[string]string, error) {
	out := make(map[string]string)
	for _, sub := range req.Substitutions {
		vs, ok := sub.(resource.VersionSubstitution)
		if !ok || vs.Registry == "" {
			continue
		}

		named, err := reference.ParseNormalizedNamed(vs.Registry)
		if err != nil {
			return nil, fmt.Errorf("substitution %q: invalid registry reference %q: %w",
				vs.Name(), vs.Registry, err)
		}

		tags, err := p.lister.Tags(ctx, named.Name())
		if err != nil {
			return nil, fmt.Errorf("substitution %q: listing tags for %s: %w",
				vs.Name(), named.Name(), err)
		}

		tag, err := version.SelectTag(tags, vs.Constraint, vs.TagFilter)
		if err != nil {
			return nil, fmt.Errorf("substitution %q: %w", vs.Name(), err)
		}
		out[vs.Name()] = tag
	}
	return out, nil
}

var _ Provider = (*Versions)(nil)
