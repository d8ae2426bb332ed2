// Command retedemo is a small driver for exercising the rete engine end
// to end: it loads a fact fixture, validates it, runs it through a
// fixed three-rule demonstration Rulebase, and reports the outcome.
package main

import (
	"os"

	"github.com/latticeforge/rete/cmd/retedemo/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
