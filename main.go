// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/robert-sjoblom/pg-migration-lint/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
