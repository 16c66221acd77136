/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

// ArtifactType is the media type of pushed manifest artifacts.
const ArtifactType = "application/vnd.kustodian.manifests"

// PushOptions configures a push.
type PushOptions struct {
	// SourceDir is the directory to push.
	SourceDir string
	// Registry is the registry host (e.g. "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g. "org/gitops").
	Repository string
	// Tag is the artifact tag.
	Tag string
	// SubDir limits the push to one subdirectory of SourceDir while
	// preserving its path inside the artifact. Used to push a single
	// cluster's output.
	SubDir string
	// Annotations are added to the artifact manifest.
	Annotations map[string]string
	// PlainHTTP uses HTTP instead of HTTPS.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult describes a successful push.
type PushResult struct {
	// Digest is the SHA256 digest of the pushed artifact.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// Push packs the source directory as an ORAS artifact and copies it to
// the registry. Tars are reproducible, so pushing identical content
// yields an identical digest.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if opts.Tag == "" {
		return nil, fmt.Errorf("tag is required to push an artifact")
	}

	pushFromDir, cleanup, err := preparePushDir(opts.SourceDir, opts.SubDir)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	absPushDir, err := filepath.Abs(pushFromDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve push dir: %w", err)
	}

	registryHost := stripProtocol(opts.Registry)
	refString := fmt.Sprintf("%s/%s:%s", registryHost, opts.Repository, opts.Tag)
	if _, parseErr := reference.ParseNormalizedNamed(refString); parseErr != nil {
		return nil, fmt.Errorf("invalid image reference %q: %w", refString, parseErr)
	}

	fs, err := file.New(absPushDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()

	// Deterministic tars keep the digest stable across pushes.
	fs.TarReproducible = true

	layerDesc, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, absPushDir)
	if err != nil {
		return nil, fmt.Errorf("failed to add source directory to store: %w", err)
	}

	packOpts := oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layerDesc},
		ManifestAnnotations: opts.Annotations,
	}
	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, packOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to pack manifest: %w", err)
	}
	if err := fs.Tag(ctx, manifestDesc, opts.Tag); err != nil {
		return nil, fmt.Errorf("failed to tag manifest in local store: %w", err)
	}

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", registryHost, opts.Repository))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote repository: %w", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	desc, err := oras.Copy(ctx, fs, opts.Tag, repo, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to push artifact to registry: %w", err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
	}, nil
}

// preparePushDir returns the directory to push from. With a subDir set,
// it builds a temp tree of hard links so the subdirectory keeps its
// path inside the artifact without copying bytes.
func preparePushDir(sourceDir, subDir string) (string, func(), error) {
	if subDir == "" {
		return sourceDir, nil, nil
	}

	tempDir, err := os.MkdirTemp("", "kustodian-push-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	srcPath := filepath.Join(sourceDir, subDir)
	dstPath := filepath.Join(tempDir, subDir)
	if err := hardLinkDir(srcPath, dstPath); err != nil {
		os.RemoveAll(tempDir)
		return "", nil, fmt.Errorf("failed to create hard links: %w", err)
	}

	return tempDir, func() { os.RemoveAll(tempDir) }, nil
}

func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return registry
}

// createAuthClient builds an HTTP client with Docker credential support
// and optional TLS relaxation.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}

// hardLinkDir recursively hard-links src into dst.
func hardLinkDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source directory: %w", err)
	}
	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read source directory: %w", err)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := hardLinkDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := os.Link(srcPath, dstPath); err != nil {
			return fmt.Errorf("failed to create hard link: %w", err)
		}
	}
	return nil
}
