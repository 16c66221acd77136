/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"fmt"

	"oras.land/oras-go/v2/registry/remote"
)

// ListTags returns every tag of the repository, paging through the
// registry's tag list. Credentials come from the Docker credential
// store, same as Push.
func ListTags(ctx context.Context, repository string) ([]string, error) {
	repo, err := remote.NewRepository(repository)
	if err != nil {
		return nil, fmt.Errorf("invalid repository reference %q: %w", repository, err)
	}
	repo.Client = createAuthClient(false, false)

	var tags []string
	if err := repo.Tags(ctx, "", func(page []string) error {
		tags = append(tags, page...)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("listing tags for %s: %w", repository, err)
	}
	return tags, nil
}
