package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alanmeadows/autosync/internal/config"
	"github.com/alanmeadows/autosync/internal/platform"
	"github.com/alanmeadows/autosync/internal/platform/github"
	"github.com/alanmeadows/autosync/internal/report"
	"github.com/alanmeadows/autosync/internal/store"
	"github.com/alanmeadows/autosync/internal/syncer"
	"github.com/alanmeadows/autosync/internal/vcs"
)

type runOptions struct {
	configPath string
	envFile    string
	reportPath string
	sync       syncer.Options
}

var runFlags runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sync every configured branch pair",
	Long: `Fetch the repository, then for each base -> destination pair open or
update a sync pull request, auto-resolve conflicts confined to the protected
prefix, and optionally merge requests that are ready.

Per-pair failures are reported but do not change the exit code.`,
	Example: `  autosync run --dry-run
  autosync run --merge-prs --auto-resolve-docs --report out/sync.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runFlags
		opts.configPath = configPath
		if opts.envFile == "" {
			opts.envFile = filepath.Join(filepath.Dir(configPath), ".env")
		}
		return runSync(cmd.Context(), cmd.OutOrStdout(), opts, slog.Default())
	},
}

func init() {
	runCmd.Flags().BoolVar(&runFlags.sync.DryRun, "dry-run", false, "Log what would happen without pushing, opening, merging or closing anything")
	runCmd.Flags().BoolVar(&runFlags.sync.MergeRequests, "merge-prs", false, "Merge sync pull requests that are ready")
	runCmd.Flags().BoolVar(&runFlags.sync.AutoResolve, "auto-resolve-docs", false, "Resolve conflicts confined to the protected prefix in favor of the destination")
	runCmd.Flags().StringVar(&runFlags.envFile, "env-file", "", "KEY=VALUE file holding GITHUB_TOKEN (default: .env next to the config)")
	runCmd.Flags().StringVar(&runFlags.reportPath, "report", "", "Also write the run report as markdown to this path")
}

// platformFor picks the hosting backend for the repository URL.
var platformFor = func(cfg *config.Config, token string) (platform.Gateway, error) {
	registry := platform.NewRegistry()
	registry.Register("github", github.Open)
	return registry.Open(cfg.RepoURL, token)
}

func runSync(ctx context.Context, w io.Writer, opts runOptions, logger *slog.Logger) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	token, err := config.ResolveToken(cfg, opts.envFile)
	if err != nil {
		return err
	}

	gateway, err := platformFor(cfg, token)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		return fmt.Errorf("creating work dir: %w", err)
	}

	var result *syncer.Report
	err = store.WithLock(ctx, cfg.CloneDir(), store.DefaultLockTimeout, func() error {
		repo, err := vcs.Open(ctx, cfg.RepoURL, cfg.CloneDir())
		if err != nil {
			return fmt.Errorf("preparing clone: %w", err)
		}

		logger.Info("starting sync", "repo", cfg.RepoURL, "platform", gateway.Name(), "pairs", len(syncer.ExpandPairs(cfg.Branches)),
			"dry_run", opts.sync.DryRun, "merge_prs", opts.sync.MergeRequests, "auto_resolve", opts.sync.AutoResolve)

		result, err = syncer.NewOrchestrator(repo, gateway, cfg, opts.sync, logger).Run(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if err := report.Render(w, result); err != nil {
		return err
	}
	if opts.reportPath != "" {
		if err := report.WriteMarkdown(opts.reportPath, result); err != nil {
			return err
		}
		logger.Info("wrote report", "path", opts.reportPath)
	}
	return nil
}
