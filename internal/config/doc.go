// SPDX-License-Identifier: MPL-2.0

// Package config loads the tagger configuration file with Viper, validating it
// against an embedded CUE schema (config_schema.cue).
//
// The file is JSON and named .tagger.cfg.json. An explicit path must exist;
// otherwise the current directory is searched first, then the home directory.
// TAGGER_* environment variables override scalar keys (TAGGER_COMMAND,
// TAGGER_RUNTIME, TAGGER_TIMEOUT, TAGGER_SSH_KEY).
package config
