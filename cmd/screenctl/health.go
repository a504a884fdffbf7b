package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/screenctl/screenctld/internal/cliutil"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the daemon is reachable and responding",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Health(); err != nil {
				cliutil.PrintError(fmt.Sprintf("screenctld is not running: %v", err))
				return err
			}
			cliutil.PrintSuccess("screenctld is running")
			return nil
		},
	}
}
