/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"github.com/kustodian/kustodian/pkg/cli"
)

func main() {
	cli.Execute()
}
