/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package version

import (
	"fmt"
	"strings"
)

// SelectTag picks the newest tag satisfying the constraint. The filter,
// when non-empty, is a substring applied before parsing; tags that do
// not parse as versions are skipped. The returned value is the original
// tag string, prefix and extras intact.
func SelectTag(tags []string, constraint, filter string) (string, error) {
	c, err := ParseConstraint(constraint)
	if err != nil {
		return "", err
	}

	var (
		bestTag string
		best    Version
		found   bool
	)
	for _, tag := range tags {
		if filter != "" && !strings.Contains(tag, filter) {
			continue
		}
		v, err := Parse(tag)
		if err != nil {
			continue
		}
		if !c.Matches(v) {
			continue
		}
		if !found || v.IsNewer(best) || (v.Compare(best) == 0 && betterTag(v, best)) {
			best = v
			bestTag = tag
			found = true
		}
	}

	if !found {
		return "", fmt.Errorf("no tag matches constraint %q (filter %q)", constraint, filter)
	}
	return bestTag, nil
}

// betterTag breaks ties between equal versions: a plain release beats
// one with suffix metadata ("1.26.0" over "1.26.0-rc.1").
func betterTag(candidate, current Version) bool {
	return candidate.Extras == "" && current.Extras != ""
}
