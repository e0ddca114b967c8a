// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/addreality/tagger/internal/config"
)

// Output formats of `tagger config show`.
const (
	formatJSON = "json"
	formatTOML = "toml"
)

// configView is the printable form of a loaded configuration.
type configView struct {
	Source  string             `json:"source" toml:"source"`
	Command string             `json:"command" toml:"command"`
	Runtime string             `json:"runtime" toml:"runtime"`
	Timeout string             `json:"timeout" toml:"timeout"`
	SSHKey  string             `json:"ssh_key,omitempty" toml:"ssh_key,omitempty"`
	Repos   []config.RepoEntry `json:"repos" toml:"repos"`
}

// newConfigCommand creates the `tagger config` command tree.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect tagger configuration",
		Long: `Inspect tagger configuration.

The config is read from --cfg, ./.tagger.cfg.json or ~/.tagger.cfg.json,
and TAGGER_* environment variables override single keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: opts.cfgFile})
			if err != nil {
				return err
			}
			return showConfig(app.stdout, cfg, format)
		},
	}
	showCmd.Flags().StringVar(&format, "format", formatJSON, "output format: json or toml")
	cfgCmd.AddCommand(showCmd)

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config, format string) error {
	view := newConfigView(cfg)

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case formatTOML:
		enc := toml.NewEncoder(w)
		return enc.Encode(view)
	default:
		return fmt.Errorf("unknown format %q (use %s or %s)", format, formatJSON, formatTOML)
	}
}

func newConfigView(cfg *config.Config) configView {
	repos := cfg.Repos
	if repos == nil {
		repos = []config.RepoEntry{}
	}
	return configView{
		Source:  cfg.Source(),
		Command: cfg.Command,
		Runtime: cfg.Runtime.String(),
		Timeout: cfg.Timeout.String(),
		SSHKey:  cfg.SSHKey,
		Repos:   repos,
	}
}
