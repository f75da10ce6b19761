package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/sjson"

	"github.com/alanmeadows/autosync/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage autosync configuration",
	Long:  `Show, create and modify the autosync configuration file.`,
}

var (
	configJSONFlag  bool
	configForceFlag bool
)

func init() {
	configShowCmd.Flags().BoolVar(&configJSONFlag, "json", false, "Output raw JSON without formatting")
	configInitCmd.Flags().BoolVar(&configForceFlag, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration after defaults and environment overrides are applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		redacted := redactConfig(cfg)

		var data []byte
		if configJSONFlag {
			data, err = json.Marshal(redacted)
		} else {
			data, err = json.MarshalIndent(redacted, "", "  ")
		}
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

// redactConfig returns a copy of the config with the token masked.
func redactConfig(cfg *config.Config) *config.Config {
	copy := *cfg
	if copy.GitHubToken != "" {
		copy.GitHubToken = "***"
	}
	return &copy
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a configuration value using a dotted key path.

Only JSON and JSONC config files can be edited this way. Comments are not
preserved on write.

Examples:
  autosync config set protected_prefix docs/
  autosync config set branches.0.destinations.-1 release-3`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := setConfigValue(configPath, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", args[0], value)
		return nil
	},
}

// setConfigValue writes key=rawValue into the JSON config at path, creating
// the file if needed. The value is typed as bool, then number, then string.
func setConfigValue(path, key, rawValue string) (any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return nil, fmt.Errorf("config set only edits JSON config files; edit %s directly", path)
	}

	var value any
	if b, err := strconv.ParseBool(rawValue); err == nil {
		value = b
	} else if i, err := strconv.ParseInt(rawValue, 10, 64); err == nil {
		value = i
	} else if f, err := strconv.ParseFloat(rawValue, 64); err == nil {
		value = f
	} else {
		value = rawValue
	}

	existing := []byte("{}")
	if data, err := os.ReadFile(path); err == nil {
		// sjson needs plain JSON.
		existing = jsonc.ToJSON(data)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	updated, err := sjson.SetBytes(existing, key, value)
	if err != nil {
		return nil, fmt.Errorf("setting key %q: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, updated, 0644); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return value, nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	Long: `Launches an interactive form for the repository URL, the base branch and
its destinations, and the protected prefix, then writes the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configForceFlag {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}

		defaults := config.DefaultConfig()
		answers := initAnswers{
			Base:            "main",
			ProtectedPrefix: defaults.ProtectedPrefix,
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Repository URL").
					Value(&answers.RepoURL).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("repository URL is required")
						}
						return nil
					}),
				huh.NewInput().
					Title("Base branch").
					Value(&answers.Base),
				huh.NewInput().
					Title("Destination branches (comma separated)").
					Value(&answers.Destinations).
					Validate(func(s string) error {
						if len(splitList(s)) == 0 {
							return fmt.Errorf("at least one destination is required")
						}
						return nil
					}),
				huh.NewInput().
					Title("Protected prefix (conflicts here may be auto-resolved)").
					Value(&answers.ProtectedPrefix),
			),
		)

		if err := form.Run(); err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}

		if err := writeInitialConfig(configPath, answers); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
		return nil
	},
}

type initAnswers struct {
	RepoURL         string
	Base            string
	Destinations    string
	ProtectedPrefix string
}

// writeInitialConfig validates the answers as a full config and writes it as JSON.
func writeInitialConfig(path string, a initAnswers) error {
	cfg := config.DefaultConfig()
	cfg.RepoURL = strings.TrimSpace(a.RepoURL)
	cfg.ProtectedPrefix = strings.TrimSpace(a.ProtectedPrefix)
	cfg.Branches = []config.BranchGroup{{
		Base:         strings.TrimSpace(a.Base),
		Destinations: splitList(a.Destinations),
	}}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
