package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/screenctl/screenctld/internal/cliutil"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read or update the agent's configuration",
	}
	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsSetCmd())
	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := client.Settings()
			if err != nil {
				cliutil.PrintError(fmt.Sprintf("could not reach daemon: %v", err))
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}
			printSettingsTable(cfg)
			return nil
		},
	}
}

// newSettingsSetCmd takes one or more key=value pairs, e.g.
// `screenctl settings set httpPort=3456 debug=true`. Values are parsed as
// JSON scalars first (so booleans and numbers round-trip) and fall back to
// plain strings.
func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value [key=value...]",
		Short: "Patch one or more configuration fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := make(map[string]interface{}, len(args))
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid key=value pair: %q", arg)
				}
				patch[key] = parseSettingValue(value)
			}

			cfg, err := client.UpdateSettings(patch)
			if err != nil {
				cliutil.PrintError(fmt.Sprintf("update failed: %v", err))
				return err
			}
			cliutil.PrintSuccess("configuration updated")
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}
			printSettingsTable(cfg)
			return nil
		},
	}
}

func parseSettingValue(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func printSettingsTable(cfg map[string]interface{}) {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprintf("%v", cfg[k])})
	}
	cliutil.RenderTable([]string{"KEY", "VALUE"}, rows)
}
