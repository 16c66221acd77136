/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package resource

import "fmt"

// VersionEntry is a template-wide shared version variable. Exactly one of
// Image or Helm must be set: either the version tracks an image registry
// reference or a helm chart reference.
type VersionEntry struct {
	// Name is the variable name referenced as ${name}.
	Name string `yaml:"name"`

	// Default is the value used when no resolver or override applies.
	Default string `yaml:"default,omitempty"`

	// Image tracks an image registry tag.
	Image *ImageVersion `yaml:"image,omitempty"`

	// Helm tracks a helm chart version.
	Helm *HelmVersion `yaml:"helm,omitempty"`
}

// ImageVersion is the image variant payload of a VersionEntry.
type ImageVersion struct {
	// Registry is the image reference queried for tags
	// (e.g. "ghcr.io/org/app").
	Registry string `yaml:"registry"`

	// Constraint is a semver constraint restricting candidate tags.
	Constraint string `yaml:"constraint,omitempty"`

	// TagFilter is a substring filter applied before constraint matching.
	TagFilter string `yaml:"tag_filter,omitempty"`
}

// HelmVersion is the helm variant payload of a VersionEntry.
type HelmVersion struct {
	// Repository is the chart repository URL.
	Repository string `yaml:"repository"`

	// Chart is the chart name within the repository.
	Chart string `yaml:"chart"`

	// Constraint is a semver constraint restricting candidate versions.
	Constraint string `yaml:"constraint,omitempty"`
}

// Validate enforces the exactly-one-payload invariant.
func (v VersionEntry) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("version entry: name is required")
	}
	if (v.Image == nil) == (v.Helm == nil) {
		return fmt.Errorf("version entry %q: exactly one of image or helm must be set", v.Name)
	}
	return nil
}
