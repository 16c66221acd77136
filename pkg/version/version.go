/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// Version is a semantic version with flexible precision: "1", "1.25",
// and "1.25.3" are all valid, and Precision records how many components
// are significant for comparisons. Build metadata after the numeric
// part (e.g. "-alpine", "+build.7") is preserved in Extras.
type Version struct {
	Major int `json:"major,omitempty" yaml:"major,omitempty"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision is the number of significant components (1, 2, or 3).
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras holds suffix metadata like "-alpine" or "+build.7".
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// New creates a full-precision Version.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch, Precision: 3}
}

// String renders the version respecting its precision. Extras are not
// included.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// Parse parses a version string. The "v" prefix is optional; suffix
// metadata after '-' or '+' following a digit lands in Extras.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}
	s = strings.TrimPrefix(s, "v")

	var v Version
	mainPart := s
	for i, ch := range s {
		// A '-' right after a digit starts a suffix, not a negative
		// component.
		if (ch == '-' || ch == '+') && i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
			mainPart = s[:i]
			v.Extras = s[i:]
			break
		}
	}

	parts := strings.Split(mainPart, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		if num < 0 {
			return Version{}, fmt.Errorf("%w: %d", ErrNegativeComponent, num)
		}
		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}

	v.Precision = len(parts)
	return v, nil
}

// MustParse parses a version string and panics on failure. For
// hardcoded strings and tests only.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("version.MustParse: %v", err))
	}
	return v
}

// Compare returns -1, 0, or 1. Components beyond the lower of the two
// precisions are ignored, so 1.25 compares equal to 1.25.3.
func (v Version) Compare(other Version) int {
	precision := v.Precision
	if other.Precision < precision {
		precision = other.Precision
	}

	if c := compareInt(v.Major, other.Major); c != 0 || precision == 1 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 || precision == 2 {
		return c
	}
	return compareInt(v.Patch, other.Patch)
}

// EqualsOrNewer reports whether v is at least other, compared up to v's
// precision.
func (v Version) EqualsOrNewer(other Version) bool {
	if c := compareInt(v.Major, other.Major); c != 0 || v.Precision == 1 {
		return c >= 0
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 || v.Precision == 2 {
		return c >= 0
	}
	return v.Patch >= other.Patch
}

// IsNewer reports whether v is strictly newer than other, compared up
// to v's precision.
func (v Version) IsNewer(other Version) bool {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c > 0
	}
	if v.Precision == 1 {
		return false
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c > 0
	}
	if v.Precision == 2 {
		return false
	}
	return v.Patch > other.Patch
}

// Equals reports exact component equality, ignoring precision and
// extras.
func (v Version) Equals(other Version) bool {
	return v.Major == other.Major && v.Minor == other.Minor && v.Patch == other.Patch
}

// IsValid reports whether all components are non-negative and the
// precision is 1, 2, or 3.
func (v Version) IsValid() bool {
	if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
		return false
	}
	return v.Precision >= 1 && v.Precision <= 3
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
