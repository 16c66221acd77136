/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package loader

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/kustodian/kustodian/pkg/errors"
	"github.com/kustodian/kustodian/pkg/resource"
)

const (
	// MarkerFile identifies a project root directory.
	MarkerFile = "kustodian.yaml"

	// TemplatesDir is the templates directory under the project root.
	TemplatesDir = "templates"

	// ClustersDir is the clusters directory under the project root.
	ClustersDir = "clusters"
)

//go:embed schemas/template.schema.json
var templateSchemaJSON string

//go:embed schemas/cluster.schema.json
var clusterSchemaJSON string

// Loader reads, validates, and decodes project configuration files.
type Loader struct {
	templateSchema *jsonschema.Schema
	clusterSchema  *jsonschema.Schema
}

// New creates a Loader with the embedded schemas compiled.
func New() (*Loader, error) {
	templateSchema, err := jsonschema.CompileString("template.schema.json", templateSchemaJSON)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal,
			"failed to compile template schema", err)
	}
	clusterSchema, err := jsonschema.CompileString("cluster.schema.json", clusterSchemaJSON)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal,
			"failed to compile cluster schema", err)
	}
	return &Loader{
		templateSchema: templateSchema,
		clusterSchema:  clusterSchema,
	}, nil
}

// Project is a fully loaded configuration set.
type Project struct {
	// Root is the project root directory.
	Root string

	// Templates in file-name order.
	Templates []*resource.Template

	// Clusters in file-name order.
	Clusters []*resource.Cluster
}

// Cluster returns the named cluster, or nil when absent.
func (p *Project) Cluster(name string) *resource.Cluster {
	for _, c := range p.Clusters {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindRoot walks up from start looking for the project marker file and
// returns the directory containing it.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest,
			"failed to resolve start directory", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, MarkerFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf(errors.ErrCodeNotFound,
				"no %s found in %s or any parent directory", MarkerFile, start)
		}
		dir = parent
	}
}

// LoadProject loads every template and cluster under root.
func (l *Loader) LoadProject(root string) (*Project, error) {
	templates, err := l.LoadTemplates(filepath.Join(root, TemplatesDir))
	if err != nil {
		return nil, err
	}
	clusters, err := l.LoadClusters(filepath.Join(root, ClustersDir))
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded project",
		"root", root,
		"templates", len(templates),
		"clusters", len(clusters))

	return &Project{Root: root, Templates: templates, Clusters: clusters}, nil
}

// LoadTemplates loads every template document under dir. A missing
// directory yields an empty set.
func (l *Loader) LoadTemplates(dir string) ([]*resource.Template, error) {
	paths, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}

	var templates []*resource.Template
	seen := make(map[string]string)
	for _, path := range paths {
		t, err := l.LoadTemplate(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[t.Name]; ok {
			return nil, errors.Newf(errors.ErrCodeConfiguration,
				"duplicate template %q declared in %s and %s", t.Name, prev, path)
		}
		seen[t.Name] = path
		templates = append(templates, t)
	}
	return templates, nil
}

// LoadTemplate loads one template document.
func (l *Loader) LoadTemplate(path string) (*resource.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound,
			"failed to read template file", err)
	}
	if err := validate(l.templateSchema, data, path); err != nil {
		return nil, err
	}

	var t resource.Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration,
			fmt.Sprintf("failed to decode template %s", path), err)
	}
	if err := validateTemplate(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration,
			fmt.Sprintf("invalid template %s", path), err)
	}
	return &t, nil
}

// LoadClusters loads every cluster document under dir. A missing
// directory yields an empty set.
func (l *Loader) LoadClusters(dir string) ([]*resource.Cluster, error) {
	paths, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}

	var clusters []*resource.Cluster
	seen := make(map[string]string)
	for _, path := range paths {
		c, err := l.LoadCluster(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[c.Name]; ok {
			return nil, errors.Newf(errors.ErrCodeConfiguration,
				"duplicate cluster %q declared in %s and %s", c.Name, prev, path)
		}
		seen[c.Name] = path
		clusters = append(clusters, c)
	}
	return clusters, nil
}

// LoadCluster loads one cluster document.
func (l *Loader) LoadCluster(path string) (*resource.Cluster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound,
			"failed to read cluster file", err)
	}
	if err := validate(l.clusterSchema, data, path); err != nil {
		return nil, err
	}

	var c resource.Cluster
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration,
			fmt.Sprintf("failed to decode cluster %s", path), err)
	}
	return &c, nil
}

// validate checks a YAML document against the compiled schema before
// any typed decoding happens.
func validate(schema *jsonschema.Schema, data []byte, path string) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration,
			fmt.Sprintf("failed to parse %s", path), err)
	}
	if err := schema.Validate(doc); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration,
			fmt.Sprintf("%s failed schema validation", path), err)
	}
	return nil
}

// validateTemplate runs the semantic checks the schema cannot express.
func validateTemplate(t *resource.Template) error {
	seen := make(map[string]bool)
	for i := range t.Kustomizations {
		k := &t.Kustomizations[i]
		if seen[k.Name] {
			return fmt.Errorf("duplicate kustomization %q", k.Name)
		}
		seen[k.Name] = true

		if k.Preservation != nil {
			if err := k.Preservation.Validate(); err != nil {
				return fmt.Errorf("kustomization %q: %w", k.Name, err)
			}
		}
	}
	for i := range t.Versions {
		if err := t.Versions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// yamlFiles lists *.yaml and *.yml files under dir, sorted by name. A
// missing directory is not an error.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal,
			"failed to list "+dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
