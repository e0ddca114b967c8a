// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/addreality/tagger/pkg/pkgref"
)

// Command template placeholders.
const (
	PlaceholderName    = "{NAME}"
	PlaceholderURL     = "{URL}"
	PlaceholderVersion = "{VERSION}"
)

var (
	// ErrNoCommand is returned when exec mode is requested without a command template.
	ErrNoCommand = errors.New("no command configured")
	// ErrVersionUnresolved is the sentinel error wrapped by VersionUnresolvedError.
	ErrVersionUnresolved = errors.New("version not resolved")
)

// VersionUnresolvedError is returned when a template needs {VERSION} but the
// ref carries none.
type VersionUnresolvedError struct {
	Package string
}

// Error implements the error interface.
func (e *VersionUnresolvedError) Error() string {
	return fmt.Sprintf("command for package %s uses %s but no version was resolved", e.Package, PlaceholderVersion)
}

// Unwrap returns ErrVersionUnresolved so callers can use errors.Is for programmatic detection.
func (e *VersionUnresolvedError) Unwrap() error { return ErrVersionUnresolved }

// RenderCommand substitutes {NAME}, {URL} and {VERSION} in template with ref's
// fields. Substituted values are not re-scanned for placeholders.
func RenderCommand(template string, ref pkgref.Ref) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", ErrNoCommand
	}
	if strings.Contains(template, PlaceholderVersion) && !ref.HasVersion() {
		return "", &VersionUnresolvedError{Package: ref.Name}
	}

	r := strings.NewReplacer(
		PlaceholderName, ref.Name,
		PlaceholderURL, ref.URL,
		PlaceholderVersion, ref.Version,
	)
	return r.Replace(template), nil
}
