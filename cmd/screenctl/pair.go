package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/screenctl/screenctld/internal/cliutil"
)

func newPairCmd() *cobra.Command {
	var customerID string
	var licenseUUID string

	cmd := &cobra.Command{
		Use:   "pair <control-server-url>",
		Short: "Point the agent at a control server and (re)connect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			if err := client.Pair(url, customerID, licenseUUID); err != nil {
				cliutil.PrintError(fmt.Sprintf("pairing failed: %v", err))
				return err
			}
			cliutil.PrintSuccess(fmt.Sprintf("paired with %s", url))
			return nil
		},
	}

	cmd.Flags().StringVar(&customerID, "customer-id", "", "customer id to register under")
	cmd.Flags().StringVar(&licenseUUID, "license-uuid", "", "license UUID to register under")
	return cmd
}
