// SPDX-License-Identifier: MPL-2.0

// Package runtime renders and runs the per-package exec command.
//
// Two runtimes are registered: "native" hands the command to the host shell
// (sh -c, or cmd /C on Windows) and "virtual" interprets it with the embedded
// mvdan/sh POSIX shell, so no host shell is required.
package runtime
