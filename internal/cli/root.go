package cli

import (
	"github.com/spf13/cobra"

	"storefront/internal/config"
)

const appName = "storefront"

// Version is overridden at build time with -ldflags.
var Version = "dev"

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Storefront order and checkout API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.Load()
			if config.AppEnv.ServiceVersion == "dev" {
				config.AppEnv.ServiceVersion = Version
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newIndexesCommand())
	cmd.AddCommand(newGrantRoleCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}
