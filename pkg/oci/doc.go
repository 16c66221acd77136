// Package oci pushes a generated output directory to an OCI-compliant
// registry as a reproducible ORAS artifact, and parses output targets
// that may be either local directories or oci:// references.
//
// Artifacts carry the media type "application/vnd.kustodian.manifests"
// to distinguish them from runnable container images. Tars are built
// reproducibly, so pushing identical content yields an identical
// digest and a reconciler can skip unchanged artifacts.
//
// Authentication uses the standard Docker credential store
// (~/.docker/config.json) through the ORAS credentials package.
package oci
