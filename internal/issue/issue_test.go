// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_StartsAtOne(t *testing.T) {
	if ConfigNotFoundId != 1 {
		t.Errorf("ConfigNotFoundId = %d, want 1", ConfigNotFoundId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		contains string
	}{
		{ConfigNotFoundId, "No tagger config found"},
		{ConfigInvalidId, "config is invalid"},
		{NoValidPackageId, "No valid package"},
		{ScratchRepoFailedId, "temporary repository"},
		{RemoteConnectFailedId, "list the remote's tags"},
		{NoValidTagsId, "no valid tags"},
		{CommandMissingId, "No command configured"},
		{CommandFailedId, "command failed"},
	}

	for _, tt := range tests {
		got := Get(tt.id)
		if got == nil {
			t.Errorf("Get(%d) = nil", tt.id)
			continue
		}
		if got.Id() != tt.id {
			t.Errorf("Get(%d).Id() = %d", tt.id, got.Id())
		}
		if !strings.Contains(string(got.MarkdownMsg()), tt.contains) {
			t.Errorf("Get(%d).MarkdownMsg() does not contain %q", tt.id, tt.contains)
		}
	}

	if Get(0) != nil {
		t.Error("Get(0) should be nil")
	}
}

func TestValues_SortedAndComplete(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d entries, want %d", len(values), len(issues))
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	i := Get(NoValidTagsId)
	links := i.ExtLinks()
	if len(links) == 0 {
		t.Fatal("NoValidTags issue should have external links")
	}
	links[0] = "modified"
	if i.ExtLinks()[0] == "modified" {
		t.Error("ExtLinks() should return a copy")
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in string, _ string) (string, error) {
		return in, nil
	}

	rendered, err := Get(RemoteConnectFailedId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "## See also") {
		t.Error("Render() output should list links under 'See also'")
	}
	if !strings.Contains(rendered, "<https://git-scm.com/") {
		t.Error("Render() output should contain the external link")
	}

	rendered, err = Get(CommandMissingId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() should not add 'See also' without links")
	}
}

func TestAllIssuesRenderWithGlamour(t *testing.T) {
	for _, i := range Values() {
		rendered, err := i.Render("notty")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", i.Id(), err)
		}
		if strings.TrimSpace(rendered) == "" {
			t.Errorf("issue %d rendered to empty string", i.Id())
		}
	}
}
