/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantIsOCI bool
		wantReg   string
		wantRepo  string
		wantTag   string
		wantDir   string
		wantErr   bool
	}{
		{
			name:    "local directory relative",
			input:   "./out",
			wantDir: "./out",
		},
		{
			name:    "local directory absolute",
			input:   "/tmp/out",
			wantDir: "/tmp/out",
		},
		{
			name:      "oci reference with tag",
			input:     "oci://ghcr.io/org/gitops:prod",
			wantIsOCI: true,
			wantReg:   "ghcr.io",
			wantRepo:  "org/gitops",
			wantTag:   "prod",
		},
		{
			name:      "oci reference without tag",
			input:     "oci://ghcr.io/org/gitops",
			wantIsOCI: true,
			wantReg:   "ghcr.io",
			wantRepo:  "org/gitops",
		},
		{
			name:      "oci reference with port",
			input:     "oci://localhost:5000/gitops:dev",
			wantIsOCI: true,
			wantReg:   "localhost:5000",
			wantRepo:  "gitops",
			wantTag:   "dev",
		},
		{
			name:    "invalid oci reference",
			input:   "oci://ghcr.io/ORG/gitops:prod",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ref, err := ParseTarget(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantIsOCI, ref.IsOCI)
			assert.Equal(t, tc.wantReg, ref.Registry)
			assert.Equal(t, tc.wantRepo, ref.Repository)
			assert.Equal(t, tc.wantTag, ref.Tag)
			assert.Equal(t, tc.wantDir, ref.LocalPath)
		})
	}
}

func TestReferenceString(t *testing.T) {
	t.Parallel()

	ref, err := ParseTarget("oci://ghcr.io/org/gitops:prod")
	require.NoError(t, err)
	assert.Equal(t, "oci://ghcr.io/org/gitops:prod", ref.String())
	assert.Equal(t, "ghcr.io/org/gitops:prod", ref.ImageReference())

	retagged := ref.WithTag("dev")
	assert.Equal(t, "oci://ghcr.io/org/gitops:dev", retagged.String())
	assert.Equal(t, "prod", ref.Tag, "WithTag must not mutate the receiver")

	local, err := ParseTarget("./out")
	require.NoError(t, err)
	assert.Equal(t, "./out", local.String())
	assert.Empty(t, local.ImageReference())
	assert.Same(t, local, local.WithTag("x"))
}
