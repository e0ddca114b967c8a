// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/addreality/tagger/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "tagger"
	// ConfigFileName is the name of the configuration file looked up by default.
	ConfigFileName = ".tagger.cfg.json"
	// EnvPrefix prefixes environment variable overrides (TAGGER_COMMAND, ...).
	EnvPrefix = "TAGGER"
)

// ErrConfigNotFound is the sentinel error wrapped by ConfigNotFoundError.
var ErrConfigNotFound = errors.New("config file not found")

//go:embed config_schema.cue
var configSchema string

// ConfigNotFoundError is returned when no configuration file exists in any
// searched location.
//
//nolint:revive // ConfigNotFoundError reads better than NotFoundError at call sites
type ConfigNotFoundError struct {
	Searched []string
}

// Error implements the error interface.
func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("cannot find tagger config in default paths [%s]", strings.Join(e.Searched, ", "))
}

// Unwrap returns ErrConfigNotFound for errors.Is() compatibility.
func (e *ConfigNotFoundError) Unwrap() error { return ErrConfigNotFound }

// SearchPaths lists the default locations in lookup order: the working
// directory, then the home directory. Unresolvable directories are skipped.
func SearchPaths(opts LoadOptions) []string {
	var paths []string

	workDir := opts.WorkDir
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		}
	}
	if workDir != "" {
		paths = append(paths, filepath.Join(workDir, ConfigFileName))
	}

	homeDir := opts.HomeDir
	if homeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			homeDir = home
		}
	}
	if homeDir != "" {
		paths = append(paths, filepath.Join(homeDir, ConfigFileName))
	}

	return paths
}

// loadWithOptions performs option-driven config loading: defaults, then the
// resolved file, then TAGGER_* environment overrides.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	path, err := resolvePath(opts)
	if err != nil {
		return nil, err
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("repos", []map[string]any{})
	v.SetDefault("command", defaults.Command)
	v.SetDefault("runtime", string(defaults.Runtime))
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("ssh_key", defaults.SSHKey)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := loadFileIntoViper(v, path); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithIssue(issue.ConfigInvalidId).
			WithSuggestion("Check that the file is valid JSON").
			WithSuggestion(`Each entry of "repos" needs a "name" and a "url"`).
			WithSuggestion("Run 'tagger config show' to see the effective configuration").
			Wrap(err).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse configuration").
			WithResource(path).
			WithIssue(issue.ConfigInvalidId).
			WithSuggestion("Check TAGGER_* environment variables for malformed values").
			Wrap(err).
			BuildError()
	}
	cfg.source = path
	cfg.SSHKey = expandHome(cfg.SSHKey, opts.HomeDir)

	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.ConfigInvalidId).
			WithSuggestion("Give every repo a unique name without '@'").
			WithSuggestion(`Use "native" or "virtual" for runtime`).
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, nil
}

// resolvePath picks the configuration file. An explicit path must exist;
// otherwise the first existing default location wins.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigNotFoundId).
				WithSuggestion("Verify the --cfg path is correct").
				WithSuggestion("Omit --cfg to search ./" + ConfigFileName + " and ~/" + ConfigFileName).
				Wrap(fmt.Errorf("there is no tagger config in path %s: %w", opts.ConfigFilePath, ErrConfigNotFound)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	searched := SearchPaths(opts)
	for _, p := range searched {
		if fileExists(p) {
			return p, nil
		}
	}

	return "", issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(issue.ConfigNotFoundId).
		WithSuggestion("Create " + ConfigFileName + " in the current or home directory").
		WithSuggestion("Or pass one explicitly: tagger --cfg ../tagger.json --show-latest my_pkg").
		Wrap(&ConfigNotFoundError{Searched: searched}).
		BuildError()
}

// loadFileIntoViper validates the file against the embedded schema and merges
// its contents into v, preserving defaults and environment overrides.
func loadFileIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	values, err := decodeWithSchema(data, path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// expandHome replaces a leading "~/" with the home directory.
func expandHome(path, homeDir string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	if homeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		homeDir = home
	}
	return filepath.Join(homeDir, rest)
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
