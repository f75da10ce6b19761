package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/alanmeadows/autosync/internal/config"
	"github.com/alanmeadows/autosync/internal/logging"
)

var (
	verbose    bool
	logFile    string
	configPath string
	logCloser  io.Closer
	rootCmd    = &cobra.Command{
		Use:   "autosync",
		Short: "Keep long-lived branches in sync through pull requests",
		Long: `Autosync merges each configured base branch into its destination branches
by opening pull requests, auto-resolving conflicts confined to a protected
path prefix, and optionally merging requests that are ready.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also append logs to this file (JSON)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the config file (.json, .jsonc, .yaml)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		closer, err := logging.Setup(verbose, logFile)
		if err != nil {
			return err
		}
		logCloser = closer
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pairsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(reportCmd)
}

// Execute runs the root command. ctx is cancelled on SIGINT/SIGTERM by main.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
