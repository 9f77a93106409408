package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/errors"
)

// newViperInstance creates a new Viper instance with the KARATE_RUNNER_ env
// prefix, the "." to "_" key replacer and all defaults registered.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration for workspace from all available sources with
// proper precedence. Missing config files are not an error.
func Load(ctx context.Context, workspace string) (*Config, error) {
	v := newViperInstance()

	if globalPath, err := GlobalConfigPath(); err == nil {
		if err := mergeConfigFile(v, globalPath); err != nil {
			return nil, errors.Wrap(err, "failed to read global config file")
		}
	}

	if err := mergeConfigFile(v, ProjectConfigPath(workspace)); err != nil {
		return nil, errors.Wrap(err, "failed to read project config file")
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("artifact.version", cfg.Artifact.Version).
		Strs("runner.command", cfg.Runner.Command).
		Int("history.max_entries", cfg.History.MaxEntries).
		Msg("configuration loaded")

	return cfg, nil
}

// mergeConfigFile merges the YAML file at path over v. A missing file is
// skipped silently.
func mergeConfigFile(v *viper.Viper, path string) error {
	if !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return err
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, workspace string, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx, workspace)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("artifact.version", d.Artifact.Version)
	v.SetDefault("artifact.url_template", d.Artifact.URLTemplate)
	v.SetDefault("artifact.dir", d.Artifact.Dir)
	v.SetDefault("artifact.file_name", d.Artifact.FileName)
	v.SetDefault("artifact.download_timeout", d.Artifact.DownloadTimeout.String())

	v.SetDefault("runner.command", d.Runner.Command)
	v.SetDefault("runner.extra_args", []string{})
	v.SetDefault("runner.timeout", "0s")
	v.SetDefault("runner.env", []string{})

	v.SetDefault("history.file", d.History.File)
	v.SetDefault("history.max_entries", d.History.MaxEntries)

	v.SetDefault("reports.dir", d.Reports.Dir)
	v.SetDefault("reports.archive_dir", d.Reports.ArchiveDir)
	v.SetDefault("reports.max_age_days", d.Reports.MaxAgeDays)
	v.SetDefault("reports.cleanup_schedule", d.Reports.CleanupSchedule)

	v.SetDefault("host.websocket_url", "")
	v.SetDefault("metrics.addr", "")
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Artifact.Version != "" {
		cfg.Artifact.Version = overrides.Artifact.Version
	}
	if len(overrides.Runner.Command) > 0 {
		cfg.Runner.Command = overrides.Runner.Command
	}
	if overrides.Runner.Timeout != 0 {
		cfg.Runner.Timeout = overrides.Runner.Timeout
	}
	if overrides.Reports.MaxAgeDays != 0 {
		cfg.Reports.MaxAgeDays = overrides.Reports.MaxAgeDays
	}
	if overrides.Host.WebSocketURL != "" {
		cfg.Host.WebSocketURL = overrides.Host.WebSocketURL
	}
	if overrides.Metrics.Addr != "" {
		cfg.Metrics.Addr = overrides.Metrics.Addr
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Durations decode from strings like "5m"; comma-separated env values
// decode into string slices.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
