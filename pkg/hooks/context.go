/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package hooks

import (
	"github.com/kustodian/kustodian/pkg/manifest"
	"github.com/kustodian/kustodian/pkg/resolver"
	"github.com/kustodian/kustodian/pkg/resource"
)

// Context is the mutable bag threaded through the hook pipeline for one
// generation run. Handlers may mutate the resolved kustomizations and
// the in-progress result, and may stash arbitrary values in the
// extension map for later phases to read.
//
// Context is not safe for concurrent use; the pipeline runs handlers
// sequentially.
type Context struct {
	Cluster   *resource.Cluster
	Templates []*resource.Template

	// Resolved lists every resolved kustomization for the cluster,
	// including disabled ones.
	Resolved []*resolver.ResolvedKustomization

	// Result is the in-progress generation result. Nil until manifests
	// have been generated (the before-write phase).
	Result *manifest.Result

	ext   map[string]any
	files []File
}

// File is an auxiliary output file a handler wants emitted alongside the
// generated manifests. Path is relative to the cluster output directory.
type File struct {
	Path string
	Data []byte
}

// NewContext builds a hook context for one generation run.
func NewContext(cluster *resource.Cluster, templates []*resource.Template, resolved []*resolver.ResolvedKustomization) *Context {
	return &Context{
		Cluster:   cluster,
		Templates: templates,
		Resolved:  resolved,
		ext:       make(map[string]any),
	}
}

// Set stores a value in the extension map.
func (c *Context) Set(key string, value any) {
	c.ext[key] = value
}

// Value reads a value from the extension map.
func (c *Context) Value(key string) (any, bool) {
	v, ok := c.ext[key]
	return v, ok
}

// ValueAs reads a value from the extension map with a type assertion.
func ValueAs[T any](c *Context, key string) (T, bool) {
	var zero T
	v, ok := c.ext[key]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// AddFile queues an auxiliary file for the output writer. Files are
// append-only; later handlers cannot remove earlier files.
func (c *Context) AddFile(path string, data []byte) {
	c.files = append(c.files, File{Path: path, Data: data})
}

// Files returns the queued auxiliary files in registration order.
func (c *Context) Files() []File {
	return c.files
}

// InjectValues overwrites resolved substitution values by name across
// all resolved kustomizations that declare the variable. This is the
// highest precedence tier, intended for provider-resolved secrets.
func (c *Context) InjectValues(values map[string]string) {
	if len(values) == 0 {
		return
	}
	for _, rk := range c.Resolved {
		for _, sub := range rk.Kustomization.Substitutions {
			if v, ok := values[sub.Name()]; ok {
				rk.Values[sub.Name()] = v
			}
		}
	}
}
