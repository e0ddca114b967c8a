// SPDX-License-Identifier: MPL-2.0

// Package pkgref parses package specifiers ("name" or "name@version") and binds
// them to configured repositories, producing the Ref values the resolver works on.
package pkgref
