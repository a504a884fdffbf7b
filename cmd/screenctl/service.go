package main

import (
	"github.com/spf13/cobra"

	"github.com/screenctl/screenctld/internal/cliutil"
	"github.com/screenctl/screenctld/internal/svcinstall"
)

func newServiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Register or remove screenctld from the platform service manager",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Register screenctld to start on login/boot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svcinstall.Install(); err != nil {
				cliutil.PrintError(err.Error())
				return err
			}
			cliutil.PrintSuccess("screenctld registered with the platform service manager")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "uninstall",
		Short: "Remove screenctld's service registration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svcinstall.Uninstall(); err != nil {
				cliutil.PrintError(err.Error())
				return err
			}
			cliutil.PrintSuccess("screenctld removed from the platform service manager")
			return nil
		},
	})
	return cmd
}
