package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/screenctl/screenctld/internal/cliutil"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the agent's connection and session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := client.Status()
			if err != nil {
				cliutil.PrintError(fmt.Sprintf("could not reach daemon: %v", err))
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}

			fmt.Println(cliutil.Title("screenctld status"))
			state, _ := status["controlServerState"].(string)
			fmt.Printf("  Connection:    %s\n", cliutil.GetConnectionBadge(state))
			if v, ok := status["version"].(string); ok {
				fmt.Printf("  Version:       %s\n", v)
			}
			if v, ok := status["machineId"].(string); ok {
				fmt.Printf("  Machine ID:    %s\n", v)
			}
			if v, ok := status["activeShellSessions"].(float64); ok {
				fmt.Printf("  Shell sessions: %d\n", int(v))
			}
			if v, ok := status["lastHeartbeatAckSeconds"].(float64); ok {
				fmt.Printf("  Last heartbeat ack: %.0fs ago\n", v)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI and agent versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("screenctl %s\n", version)
			agentVersion, err := client.Version()
			if err != nil {
				cliutil.PrintWarning(fmt.Sprintf("agent unreachable: %v", err))
				return nil
			}
			fmt.Printf("screenctld %s\n", agentVersion)
			return nil
		},
	}
}
