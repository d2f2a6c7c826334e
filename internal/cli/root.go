// Package cli defines the badreads command tree.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/config"
	"github.com/badreads/badreads/internal/log"
)

type rootOptions struct {
	configFile string
	version    string
}

// NewRootCommand builds the command tree. Running the root without a
// subcommand starts the server.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	root := &cobra.Command{
		Use:           "badreads",
		Short:         "BadReads is a reading log and book social network",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to a config file (yaml, json or toml)")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newImportCatalogCommand(opts),
	)
	return root
}

// setup loads configuration and builds the logger for a command.
func (o *rootOptions) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log.New(cfg.Log), nil
}
