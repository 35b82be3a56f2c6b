// Command ifxgo inspects Informix databases through the adapter and renders
// the statements it would send.
package main

import (
	"os"

	"github.com/ifxgo/adapter/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
