package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/errors"
)

// HomeDir returns the karate-runner home directory. KARATE_RUNNER_HOME wins
// when set; otherwise it is ~/.karate-runner.
//
// Returns an error if the home directory cannot be determined.
func HomeDir() (string, error) {
	if dir := os.Getenv(constants.HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.HomeDir), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the project configuration file inside workspace.
func ProjectConfigPath(workspace string) string {
	return filepath.Join(workspace, constants.ProjectConfigDir, constants.ConfigFileName)
}
