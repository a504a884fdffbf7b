package main

import (
	"github.com/spf13/cobra"

	"github.com/screenctl/screenctld/internal/console"
)

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Launch the live status dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return console.Run(client)
		},
	}
}
