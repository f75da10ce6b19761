package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/joho/godotenv"
)

// ErrNoToken is returned when no hosting platform token can be found.
var ErrNoToken = errors.New("GITHUB_TOKEN not found in the environment, env file, or gh CLI")

// ResolveToken returns the token used to talk to the hosting platform.
// Lookup order: the config (already carrying GITHUB_TOKEN from the environment),
// the env file, then `gh auth token`.
func ResolveToken(cfg *Config, envFile string) (string, error) {
	if cfg.GitHubToken != "" {
		return cfg.GitHubToken, nil
	}

	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("reading env file %s: %w", envFile, err)
		}
		if token := vars["GITHUB_TOKEN"]; token != "" {
			return token, nil
		}
	}

	if out, err := exec.Command("gh", "auth", "token").Output(); err == nil {
		if token := strings.TrimSpace(string(out)); token != "" {
			return token, nil
		}
	}

	return "", ErrNoToken
}
