// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/addreality/tagger/pkg/pkgref"
)

const (
	// RuntimeNative runs the command through the host shell (sh -c, cmd /C on Windows).
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs the command in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"

	// DefaultTimeout bounds the remote operations of one run.
	DefaultTimeout = 60 * time.Second
)

var (
	// ErrInvalidRuntimeMode is returned when a RuntimeMode value is not recognized.
	ErrInvalidRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidRepoEntry is the sentinel error wrapped by InvalidRepoEntryError.
	ErrInvalidRepoEntry = errors.New("invalid repo entry")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RuntimeMode selects how the exec command is run.
	RuntimeMode string

	// InvalidRuntimeModeError is returned when a RuntimeMode value is not recognized.
	InvalidRuntimeModeError struct {
		Value RuntimeMode
	}

	// InvalidRepoEntryError describes one bad entry of the repos list.
	InvalidRepoEntryError struct {
		Index  int
		Name   string
		Reason string
	}

	// InvalidConfigError collects field-level validation errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// RepoEntry binds a package name to its git remote.
	RepoEntry struct {
		Name string `json:"name" mapstructure:"name" toml:"name"`
		URL  string `json:"url" mapstructure:"url" toml:"url"`
	}

	// Config holds the tagger configuration.
	Config struct {
		// Repos lists the packages tagger can resolve.
		Repos []RepoEntry `json:"repos" mapstructure:"repos" toml:"repos"`
		// Command is the exec-mode template with {NAME}, {URL} and {VERSION} placeholders.
		Command string `json:"command,omitempty" mapstructure:"command" toml:"command,omitempty"`
		// Runtime selects the command runtime.
		Runtime RuntimeMode `json:"runtime,omitempty" mapstructure:"runtime" toml:"runtime,omitempty"`
		// Timeout bounds remote operations; zero disables the bound.
		Timeout time.Duration `json:"timeout,omitempty" mapstructure:"timeout" toml:"timeout,omitempty"`
		// SSHKey overrides the default private key (~/.ssh/id_rsa).
		SSHKey string `json:"ssh_key,omitempty" mapstructure:"ssh_key" toml:"ssh_key,omitempty"`

		source string
	}
)

// String returns the string representation of the RuntimeMode.
func (m RuntimeMode) String() string { return string(m) }

// IsValid returns whether the RuntimeMode is one of the defined modes,
// and a list of validation errors if it is not.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidRuntimeModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidRuntimeModeError.
func (e *InvalidRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrInvalidRuntimeMode for errors.Is() compatibility.
func (e *InvalidRuntimeModeError) Unwrap() error { return ErrInvalidRuntimeMode }

// Error implements the error interface for InvalidRepoEntryError.
func (e *InvalidRepoEntryError) Error() string {
	return fmt.Sprintf("repos[%d] (%q): %s", e.Index, e.Name, e.Reason)
}

// Unwrap returns ErrInvalidRepoEntry for errors.Is() compatibility.
func (e *InvalidRepoEntryError) Unwrap() error { return ErrInvalidRepoEntry }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s):\n  %s", len(e.FieldErrors), strings.Join(msgs, "\n  "))
}

// Unwrap returns ErrInvalidConfig followed by every field error, so errors.Is
// matches both the umbrella sentinel and the specific field sentinels.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid checks what the schema cannot see: repo names must be unique, and
// environment overrides must still hold valid values.
func (c Config) IsValid() (bool, []error) {
	var errs []error

	seen := make(map[string]int, len(c.Repos))
	for i, repo := range c.Repos {
		switch {
		case strings.TrimSpace(repo.Name) == "":
			errs = append(errs, &InvalidRepoEntryError{Index: i, Name: repo.Name, Reason: "name must not be empty"})
		case strings.ContainsRune(repo.Name, '@'):
			errs = append(errs, &InvalidRepoEntryError{Index: i, Name: repo.Name, Reason: "name must not contain '@'"})
		case strings.TrimSpace(repo.URL) == "":
			errs = append(errs, &InvalidRepoEntryError{Index: i, Name: repo.Name, Reason: "url must not be empty"})
		}
		if first, dup := seen[repo.Name]; dup {
			errs = append(errs, &InvalidRepoEntryError{
				Index:  i,
				Name:   repo.Name,
				Reason: fmt.Sprintf("duplicate name (same as repos[%d])", first),
			})
			continue
		}
		seen[repo.Name] = i
	}

	if valid, fieldErrs := c.Runtime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout %s must not be negative", c.Timeout))
	}

	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// PackageRepos converts the configured repos to the bindings package
// specifiers are resolved against.
func (c *Config) PackageRepos() []pkgref.Repo {
	repos := make([]pkgref.Repo, len(c.Repos))
	for i, r := range c.Repos {
		repos[i] = pkgref.Repo{Name: r.Name, URL: r.URL}
	}
	return repos
}

// Source returns the file the configuration was read from.
func (c *Config) Source() string { return c.source }

// DefaultConfig returns the values used for keys the file omits.
func DefaultConfig() *Config {
	return &Config{
		Repos:   []RepoEntry{},
		Runtime: RuntimeNative,
		Timeout: DefaultTimeout,
	}
}
