/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package writer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/kustodian/kustodian/pkg/errors"
	"github.com/kustodian/kustodian/pkg/manifest"
)

const (
	// SourceFile is the cluster-relative path of the source repository
	// manifest.
	SourceFile = "flux-system/source.yaml"

	// PatchesFile is the cluster-relative path of the controller tuning
	// patches.
	PatchesFile = "flux-system/patches.yaml"

	// AggregateFile is the cluster-relative path of the aggregating
	// kustomization.
	AggregateFile = "kustomization.yaml"

	fileHeader = "# Code generated by kustodian; DO NOT EDIT.\n"

	dirMode  = 0755
	fileMode = 0600
)

// Writer persists generation results under an output root.
type Writer struct {
	root string
}

// Option defines a functional option for configuring the Writer.
type Option func(*Writer)

// WithOutputDir sets the output root directory. Defaults to the current
// directory.
func WithOutputDir(dir string) Option {
	return func(w *Writer) {
		if dir != "" {
			w.root = dir
		}
	}
}

// New creates a new Writer with the given options.
func New(opts ...Option) (*Writer, error) {
	w := &Writer{root: "."}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Write persists one cluster's generation result, including any
// auxiliary files contributed by before-write hooks. It returns the
// written paths relative to the cluster directory, sorted.
//
// Auxiliary file paths must stay inside the cluster directory; an
// absolute path or one escaping via ".." is rejected.
func (w *Writer) Write(result *manifest.Result) ([]string, error) {
	if result == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "result cannot be nil")
	}
	if result.Cluster == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "result has no cluster name")
	}

	clusterDir := filepath.Join(w.root, result.Cluster)
	var written []string

	for _, entry := range result.Kustomizations {
		rel := filepath.Join(entry.Template, entry.Manifest.Metadata.Name+".yaml")
		if err := w.writeYAML(clusterDir, rel, entry.Manifest); err != nil {
			return nil, err
		}
		written = append(written, rel)
	}

	if result.Source != nil {
		if err := w.writeYAML(clusterDir, SourceFile, result.Source); err != nil {
			return nil, err
		}
		written = append(written, SourceFile)
	}

	if len(result.ControllerPatches) > 0 {
		if err := w.writeYAML(clusterDir, PatchesFile, patchDocument(result.ControllerPatches)); err != nil {
			return nil, err
		}
		written = append(written, PatchesFile)
	}

	if err := w.writeYAML(clusterDir, AggregateFile, aggregateFor(result)); err != nil {
		return nil, err
	}
	written = append(written, AggregateFile)

	for _, f := range result.Files {
		if !filepath.IsLocal(f.Path) {
			return nil, errors.Newf(errors.ErrCodeInvalidRequest,
				"auxiliary file path escapes the output directory: %s", f.Path)
		}
		if err := w.writeBytes(clusterDir, f.Path, f.Data); err != nil {
			return nil, err
		}
		written = append(written, f.Path)
	}

	sort.Strings(written)
	slog.Debug("wrote generation output",
		"cluster", result.Cluster,
		"dir", clusterDir,
		"files", len(written))
	return written, nil
}

func (w *Writer) writeYAML(clusterDir, rel string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to serialize %s", rel), err)
	}
	return w.writeBytes(clusterDir, rel, append([]byte(fileHeader), data...))
}

func (w *Writer) writeBytes(clusterDir, rel string, data []byte) error {
	path := filepath.Join(clusterDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal,
			"failed to create output directory", err)
	}
	if err := os.WriteFile(path, data, fileMode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("failed to write %s", rel), err)
	}
	return nil
}

// aggregate is the kustomize overlay referencing every generated
// manifest.
type aggregate struct {
	APIVersion string   `json:"apiVersion"`
	Kind       string   `json:"kind"`
	Resources  []string `json:"resources"`
}

func aggregateFor(result *manifest.Result) aggregate {
	resources := make([]string, 0, len(result.Kustomizations)+1)
	for _, entry := range result.Kustomizations {
		// Forward slashes regardless of platform; these paths end up in
		// a manifest, not in filesystem calls.
		resources = append(resources,
			entry.Template+"/"+entry.Manifest.Metadata.Name+".yaml")
	}
	if result.Source != nil {
		resources = append(resources, SourceFile)
	}
	sort.Strings(resources)

	return aggregate{
		APIVersion: "kustomize.config.k8s.io/v1beta1",
		Kind:       "Kustomization",
		Resources:  resources,
	}
}

// patchDocument renders controller tuning patches as a kustomize
// patches block, ready to merge into a bootstrap overlay.
func patchDocument(patches []manifest.ControllerPatch) map[string][]manifest.Patch {
	out := make([]manifest.Patch, 0, len(patches))
	for _, p := range patches {
		out = append(out, p.Patch)
	}
	return map[string][]manifest.Patch{"patches": out}
}
