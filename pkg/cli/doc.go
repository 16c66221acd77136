/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the kustodian command tree: generate,
// validate, graph, and push.
package cli
