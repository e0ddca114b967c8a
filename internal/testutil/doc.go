// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Besides environment and filesystem helpers (MustSetenv, MustChdir, MustWriteFile),
// it serves in-process git remotes (ServeRefs) so resolver tests never touch the
// network, and writes throwaway SSH identities (WriteRSAKey).
package testutil
