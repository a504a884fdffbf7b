package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screenctl",
	Short: "Operate a screencontrol agent over its local HTTP API",
	Long: `screenctl talks to a running screenctld daemon on the same machine,
over its loopback HTTP API — it never touches the dispatcher or the
control-server connection directly.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		client = resolveClient()
	},
}

func cobraInit() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().IntVar(&portFlag, "port", 0, "override the daemon's HTTP API port")

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newLogsCmd())
	rootCmd.AddCommand(newPairCmd())
	rootCmd.AddCommand(newConsoleCmd())
	rootCmd.AddCommand(newServiceCmd())
	rootCmd.AddCommand(newVersionCmd())
}
