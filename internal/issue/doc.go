// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown guidance
// for the failures a tagger run can hit.
//
// An [ActionableError] names the failed operation, the resource involved and
// suggestions; when it points at a catalog entry the CLI renders that entry with
// glamour in verbose mode.
package issue
