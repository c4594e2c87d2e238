package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justyntemme/libcat/internal/config"
)

func (e *env) configCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `View and modify libcat configuration.

Configuration is stored in ~/.config/libcat/config.yaml by default.
Every setting can be overridden with a LIBCAT_ environment variable,
e.g. LIBCAT_SERVER_URL for server.url.`,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintf(e.out, "%v\n", e.store.Get(args[0]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Long: `Set a configuration value.

Examples:
  libcat config set server.url https://catalog.example.com
  libcat config set ui.theme nord
  libcat config set network.timeout 10s`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := e.store.Set(args[0], args[1]); err != nil {
					return err
				}
				e.Successf("Set %s = %s", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, key := range config.Keys {
					fmt.Fprintf(e.out, "%s = %v\n", key, e.store.Get(key))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(e.out, e.store.Path())
				return nil
			},
		},
	)

	return configCmd
}
