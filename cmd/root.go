/*
Package cmd wires the apidocgen command line.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
	logJSON  bool
	logger   hclog.Logger
}

// NewRootCommand builds the apidocgen command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{logger: hclog.NewNullLogger()}

	rootCmd := &cobra.Command{
		Use:   "apidocgen",
		Short: "Generate API documentation from endpoint annotations",
		Long: `apidocgen reads endpoint annotations (@ApiRoute, @ApiMethod, @ApiParams, ...)
from annotation files or Go doc comments and assembles them into a single
document: an HTML or markdown page, an OpenAPI description or the raw
document model.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := hclog.LevelFromString(opts.logLevel)
			if level == hclog.NoLevel {
				return fmt.Errorf("invalid log level %q", opts.logLevel)
			}
			opts.logger = hclog.New(&hclog.LoggerOptions{
				Name:       "apidocgen",
				Level:      level,
				JSONFormat: opts.logJSON,
				Output:     cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Emit logs as JSON")

	rootCmd.AddCommand(newGenerateCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
