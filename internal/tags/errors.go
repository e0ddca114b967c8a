// SPDX-License-Identifier: MPL-2.0

package tags

import (
	"errors"
	"fmt"
)

// ErrNoValidTags is the sentinel error wrapped by NoValidTagsError.
var ErrNoValidTags = errors.New("no valid tags")

// NoValidTagsError is returned when a remote advertises no tag that parses as a
// semantic version. It is a per-package condition, not a failure of the run.
type NoValidTagsError struct {
	Package string
}

// Error implements the error interface.
func (e *NoValidTagsError) Error() string {
	return fmt.Sprintf("repo %s does not have any valid tags", e.Package)
}

// Unwrap returns ErrNoValidTags so callers can use errors.Is for detection.
func (e *NoValidTagsError) Unwrap() error { return ErrNoValidTags }
