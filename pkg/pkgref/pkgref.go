// SPDX-License-Identifier: MPL-2.0

package pkgref

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/addreality/tagger/pkg/tagver"
)

var (
	// ErrInvalidPackageSpec is the sentinel error wrapped by InvalidPackageSpecError.
	ErrInvalidPackageSpec = errors.New("invalid package specifier")
	// ErrUnknownPackage is the sentinel error wrapped by UnknownPackageError.
	ErrUnknownPackage = errors.New("unknown package")
	// ErrNoValidPackages is returned when every specifier was dropped.
	ErrNoValidPackages = errors.New("no valid package")
)

type (
	// Ref identifies one resolution unit: a package name, its repository URL
	// and, once known, the version to act on.
	Ref struct {
		Name string
		URL  string
		// Version is empty until supplied by the caller or resolved from tags.
		Version string
	}

	// Repo is a configured name -> URL binding.
	Repo struct {
		Name string
		URL  string
	}

	// Spec is a parsed command-line specifier before it is bound to a repository.
	Spec struct {
		Name    string
		Version string
	}

	// InvalidPackageSpecError is returned when a specifier has no name or its
	// version segment is not semantic version text.
	InvalidPackageSpecError struct {
		Spec string
		Err  error
	}

	// UnknownPackageError is returned when a specifier names no configured repository.
	UnknownPackageError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *InvalidPackageSpecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("package `%s` has invalid version: %v", e.Spec, e.Err)
	}
	return fmt.Sprintf("package `%s` is not a valid specifier", e.Spec)
}

// Unwrap returns ErrInvalidPackageSpec so callers can use errors.Is for programmatic detection.
func (e *InvalidPackageSpecError) Unwrap() error { return ErrInvalidPackageSpec }

// Error implements the error interface.
func (e *UnknownPackageError) Error() string {
	return fmt.Sprintf("cannot find repo in config for package `%s`", e.Name)
}

// Unwrap returns ErrUnknownPackage so callers can use errors.Is for programmatic detection.
func (e *UnknownPackageError) Unwrap() error { return ErrUnknownPackage }

// HasVersion reports whether the version is already known.
func (r Ref) HasVersion() bool { return r.Version != "" }

// WithVersion returns a copy of r carrying version.
func (r Ref) WithVersion(version string) Ref {
	r.Version = version
	return r
}

// String renders the ref as a specifier.
func (r Ref) String() string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + "@" + r.Version
}

// ParseSpec splits "name[@version]" and validates the version segment.
func ParseSpec(s string) (Spec, error) {
	name, version, hasVersion := strings.Cut(s, "@")
	if name == "" {
		return Spec{}, &InvalidPackageSpecError{Spec: s}
	}
	if !hasVersion {
		return Spec{Name: name}, nil
	}
	if _, err := tagver.Parse(version); err != nil {
		return Spec{}, &InvalidPackageSpecError{Spec: s, Err: err}
	}
	return Spec{Name: name, Version: version}, nil
}

// Bind resolves s against repos, returning the first repository with a matching name.
func (s Spec) Bind(repos []Repo) (Ref, error) {
	for _, repo := range repos {
		if repo.Name == s.Name {
			return Ref{Name: s.Name, URL: repo.URL, Version: s.Version}, nil
		}
	}
	return Ref{}, &UnknownPackageError{Name: s.Name}
}

// FromArgs turns command-line specifiers into bound refs, in argument order.
// Invalid or unknown specifiers are dropped and reported through warn (slog when nil).
// ErrNoValidPackages is returned when nothing survives.
func FromArgs(args []string, repos []Repo, warn func(error)) ([]Ref, error) {
	if warn == nil {
		warn = func(err error) { slog.Warn(err.Error()) }
	}

	refs := make([]Ref, 0, len(args))
	for _, arg := range args {
		spec, err := ParseSpec(arg)
		if err != nil {
			warn(err)
			continue
		}
		ref, err := spec.Bind(repos)
		if err != nil {
			warn(err)
			continue
		}
		refs = append(refs, ref)
	}

	if len(refs) == 0 {
		return nil, ErrNoValidPackages
	}
	return refs, nil
}
