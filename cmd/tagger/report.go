// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
)

const tagIndent = "    "

// printAllTags writes the --list-all report for one repository:
//
//	Valid tags available in repo <name> :
//	[
//	    v1.0.0
//	]
func printAllTags(w io.Writer, repo string, tagNames []string) {
	fmt.Fprintf(w, "Valid tags available in repo %s :\n", TitleStyle.Render(repo))
	fmt.Fprintln(w, SubtitleStyle.Render("["))
	for _, name := range tagNames {
		fmt.Fprintln(w, tagIndent+SuccessStyle.Render(name))
	}
	fmt.Fprintln(w, SubtitleStyle.Render("]"))
}

// printLatest writes the --show-latest report for one repository.
func printLatest(w io.Writer, repo, tag string) {
	fmt.Fprintf(w, "Latest valid tag for repo `%s`: %s\n", TitleStyle.Render(repo), SuccessStyle.Render(tag))
}

// printWarning writes a user-facing warning line.
func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, WarningStyle.Render("Warning: ")+msg)
}
