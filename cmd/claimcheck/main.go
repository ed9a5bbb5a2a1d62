// Command claimcheck decides insurance claims against policy documents.
package main

import (
	"os"

	"github.com/0xcro3dile/claimcheck-go/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	os.Exit(cli.Execute())
}
