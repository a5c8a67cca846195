// Package cli implements the petfit command-line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petfit/backend/internal/logging"
	"github.com/petfit/backend/internal/version"
)

var flagLogLevel string

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "petfit",
		Short:         "Score pet food products against a pet profile",
		Long:          "petfit runs the PetFit recommendation scoring engine over a YAML scenario and prints the ranked products.\nIt also manages the SQLite config tables the server reads with tables.source=sqlite.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Config{
				Level:  flagLogLevel,
				Format: "console",
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newScoreCmd())
	root.AddCommand(newTablesCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "petfit %s\n", version.Version)
		},
	}
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
