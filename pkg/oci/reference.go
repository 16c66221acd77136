/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	"github.com/kustodian/kustodian/pkg/errors"
)

// URIScheme prefixes OCI registry targets (e.g.
// "oci://ghcr.io/org/gitops:prod").
const URIScheme = "oci://"

// Reference is a parsed push target: either an OCI registry reference
// or a local directory path.
type Reference struct {
	// IsOCI distinguishes registry references from local paths.
	IsOCI bool

	// Registry is the registry host. Set only when IsOCI.
	Registry string

	// Repository is the repository path. Set only when IsOCI.
	Repository string

	// Tag is the artifact tag. Empty means none was specified and the
	// caller should apply a default.
	Tag string

	// LocalPath is the directory path for non-OCI targets.
	LocalPath string
}

// ParseTarget parses a push target string. Targets with the oci://
// scheme are validated as image references; anything else is a local
// directory path.
func ParseTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	return &Reference{
		IsOCI:      true,
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
		Tag:        tag,
	}, nil
}

// String renders the full target: "oci://registry/repository:tag" for
// OCI references, the path otherwise.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s%s/%s", URIScheme, r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s%s/%s:%s", URIScheme, r.Registry, r.Repository, r.Tag)
}

// ImageReference renders the Docker-style reference without the scheme,
// or empty for local targets.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy with the tag replaced. Local targets are
// returned unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	return &Reference{
		IsOCI:      true,
		Registry:   r.Registry,
		Repository: r.Repository,
		Tag:        tag,
	}
}
