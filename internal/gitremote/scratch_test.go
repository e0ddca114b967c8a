// SPDX-License-Identifier: MPL-2.0

package gitremote

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/addreality/tagger/internal/testutil"
)

func TestAcquireScratch(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	s, err := AcquireScratch(base, "cli")
	if err != nil {
		t.Fatalf("AcquireScratch() error = %v", err)
	}
	dir := s.Dir()

	if filepath.Dir(dir) != base {
		t.Errorf("scratch dir %q not under %q", dir, base)
	}
	if !strings.HasPrefix(filepath.Base(dir), "tagger__cli-") {
		t.Errorf("scratch dir name = %q, want prefix %q", filepath.Base(dir), "tagger__cli-")
	}
	if s.Repository() == nil {
		t.Fatal("Repository() = nil")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("scratch dir still exists after Close(): %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if got := testutil.DirEntries(t, base); len(got) != 0 {
		t.Errorf("base dir entries = %v, want none", got)
	}
}

func TestAcquireScratch_SamePackageTwice(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	a, err := AcquireScratch(base, "cli")
	if err != nil {
		t.Fatalf("AcquireScratch() error = %v", err)
	}
	defer testutil.MustClose(t, a)

	b, err := AcquireScratch(base, "cli")
	if err != nil {
		t.Fatalf("AcquireScratch() second error = %v", err)
	}
	defer testutil.MustClose(t, b)

	if a.Dir() == b.Dir() {
		t.Errorf("both scratches share %q", a.Dir())
	}
}

func TestAcquireScratch_MissingBase(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), "does", "not", "exist")
	_, err := AcquireScratch(base, "cli")
	if !errors.Is(err, ErrScratchRepo) {
		t.Fatalf("AcquireScratch() error = %v, want ErrScratchRepo", err)
	}

	var scratchErr *ScratchRepoError
	if !errors.As(err, &scratchErr) {
		t.Fatalf("error is not *ScratchRepoError: %T", err)
	}
	if scratchErr.Package != "cli" {
		t.Errorf("Package = %q, want %q", scratchErr.Package, "cli")
	}
	if !strings.Contains(err.Error(), "cannot create temp repository for cli") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"cli", "cli"},
		{"my-lib_2.x", "my-lib_2.x"},
		{"../evil", ".._evil"},
		{"a/b*c", "a_b_c"},
		{"", "pkg"},
		{strings.Repeat("x", 80), strings.Repeat("x", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := sanitizeName(tt.in); got != tt.want {
				t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
