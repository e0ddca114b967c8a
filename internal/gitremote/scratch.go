// SPDX-License-Identifier: MPL-2.0

package gitremote

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

const scratchPrefix = "tagger__"

// Scratch is a bare repository in a private temporary directory. It only hosts
// remote configuration; no objects are ever fetched into it.
type Scratch struct {
	dir  string
	repo *git.Repository
}

// AcquireScratch creates a uniquely named directory under baseDir (os.TempDir when
// empty) and opens or initializes a bare repository in it. The caller must Close
// the returned Scratch, normally with defer, so the directory is removed on every path.
func AcquireScratch(baseDir, packageName string) (*Scratch, error) {
	dir, err := os.MkdirTemp(baseDir, scratchPrefix+sanitizeName(packageName)+"-*")
	if err != nil {
		return nil, &ScratchRepoError{Package: packageName, Err: err}
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		repo, err = git.PlainInit(dir, true)
	}
	if err != nil {
		rmErr := os.RemoveAll(dir)
		return nil, &ScratchRepoError{Package: packageName, Err: errors.Join(err, rmErr)}
	}

	return &Scratch{dir: dir, repo: repo}, nil
}

// Dir returns the scratch directory path.
func (s *Scratch) Dir() string { return s.dir }

// Repository returns the bare repository.
func (s *Scratch) Repository() *git.Repository { return s.repo }

// Close removes the scratch directory. It is safe to call more than once.
func (s *Scratch) Close() error {
	if s == nil || s.dir == "" {
		return nil
	}
	dir := s.dir
	s.dir, s.repo = "", nil
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove scratch repository %s: %w", dir, err)
	}
	return nil
}

// sanitizeName keeps the package name readable in the directory name while
// dropping anything a temp-dir pattern or filesystem would reject.
func sanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	if len(cleaned) > 64 {
		cleaned = cleaned[:64]
	}
	if cleaned == "" {
		return "pkg"
	}
	return cleaned
}
