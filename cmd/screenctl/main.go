// Command screenctl is the operator CLI for screenctld (SPEC_FULL.md
// §4.L): every subcommand talks to the running daemon over its loopback
// HTTP API via internal/apiclient, mirroring the teacher's api.Client-
// mediated architecture. Command tree structure (one cobra.Command per
// file, wired together in cobraInit()) follows stacklok-toolhive/cmd/vt.
package main

import (
	"fmt"
	"os"

	"github.com/screenctl/screenctld/internal/apiclient"
	"github.com/screenctl/screenctld/internal/config"
)

// version is stamped at release build time via -ldflags; "dev" otherwise.
var version = "dev"

var (
	jsonOutput bool
	noColor    bool
	portFlag   int
	client     *apiclient.Client
)

func main() {
	cobraInit()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveClient picks the port to talk to: --port if given, otherwise the
// port from the daemon's own config file, otherwise config.Defaults().
func resolveClient() *apiclient.Client {
	if portFlag != 0 {
		return apiclient.New(portFlag)
	}
	cfg, err := config.Load("")
	if err != nil {
		return apiclient.New(config.Defaults().HTTPPort)
	}
	return apiclient.New(cfg.Get().HTTPPort)
}
