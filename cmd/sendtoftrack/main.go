// sendtoftrack installs the bundled ftrack Connect plugins and restarts
// ftrack Connect.
package main

import (
	"os"

	"github.com/steveyegge/sendtoftrack/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
