// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int //nolint:revive // matches the catalog's established naming

const (
	ConfigNotFoundId Id = iota + 1
	ConfigInvalidId
	NoValidPackageId
	ScratchRepoFailedId
	RemoteConnectFailedId
	NoValidTagsId
	CommandMissingId
	CommandFailedId
)

type (
	// MarkdownMsg is catalog text rendered with glamour.
	MarkdownMsg string

	// HttpLink is a documentation URL shown under "See also".
	HttpLink string //nolint:revive // matches the catalog's established naming

	// Issue is one catalog entry.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id } //nolint:revive

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render returns the entry as terminal-styled Markdown. stylePath is a glamour
// style name or JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configNotFoundIssue = &Issue{
		id: ConfigNotFoundId,
		mdMsg: `
# No tagger config found!

tagger needs a JSON config that maps package names to git repositories.

## Search locations (in order):
1. The path given with ` + "`--cfg`" + `
2. ` + "`./.tagger.cfg.json`" + `
3. ` + "`~/.tagger.cfg.json`" + `

## Example config:
~~~json
{
  "repos": [
    {"name": "ui", "url": "git@github.com:acme/ui.git"}
  ],
  "command": "npm install {URL}#{VERSION}"
}
~~~`,
	}

	configInvalidIssue = &Issue{
		id: ConfigInvalidId,
		mdMsg: `
# The tagger config is invalid!

## Common issues:
- The file is not valid JSON (trailing commas, missing quotes)
- A repo entry lacks ` + "`name`" + ` or ` + "`url`" + `
- Two repos share a name, or a name contains ` + "`@`" + `
- ` + "`runtime`" + ` is neither ` + "`native`" + ` nor ` + "`virtual`" + `
- ` + "`timeout`" + ` is not a duration such as ` + "`90s`" + `

## Things you can try:
~~~
$ tagger config show
~~~`,
	}

	noValidPackageIssue = &Issue{
		id: NoValidPackageId,
		mdMsg: `
# No valid package passed!

Every package argument was dropped, so there is nothing to resolve.

## Things you can try:
- Use names that appear in the config's ` + "`repos`" + ` list
- Write explicit versions as semantic versions: ` + "`ui@2.1.3`" + ` or ` + "`ui@v2.1.3`" + ``,
	}

	scratchRepoFailedIssue = &Issue{
		id: ScratchRepoFailedId,
		mdMsg: `
# Could not create a temporary repository!

tagger creates an empty bare repository in the system temp directory to talk
to remotes. Creating it failed.

## Things you can try:
- Check free space and permissions of the temp directory
- Point ` + "`TMPDIR`" + ` at a writable directory`,
	}

	remoteConnectFailedIssue = &Issue{
		id: RemoteConnectFailedId,
		mdMsg: `
# Could not list the remote's tags!

## Things you can try:
- Check the repository URL in the config
- For SSH remotes, make sure ` + "`~/.ssh/id_rsa`" + ` (or ` + "`ssh_key`" + `) is an authorized, unencrypted key
- For SSH remotes, make sure the host is in ` + "`~/.ssh/known_hosts`" + `
- For HTTPS remotes, export ` + "`GITHUB_TOKEN`" + `, ` + "`GITLAB_TOKEN`" + ` or ` + "`GIT_TOKEN`" + `
- Raise ` + "`--timeout`" + ` on slow networks`,
		extLinks: []HttpLink{"https://git-scm.com/book/en/v2/Git-on-the-Server-Generating-Your-SSH-Public-Key"},
	}

	noValidTagsIssue = &Issue{
		id: NoValidTagsId,
		mdMsg: `
# The repository has no valid tags!

Only tags that are semantic versions count, such as ` + "`1.4.0`" + `,
` + "`v2.0.0-rc.1`" + ` or ` + "`3.1.2+build.7`" + `. Partial versions like ` + "`1.2`" + `
are ignored.

## Things you can try:
~~~
$ git tag v1.0.0 && git push origin v1.0.0
~~~`,
		extLinks: []HttpLink{"https://semver.org"},
	}

	commandMissingIssue = &Issue{
		id: CommandMissingId,
		mdMsg: `
# No command configured!

Exec mode runs the config's ` + "`command`" + ` for every package, but none is set.

## Things you can try:
- Add a command using the ` + "`{NAME}`" + `, ` + "`{URL}`" + ` and ` + "`{VERSION}`" + ` placeholders
- Or set ` + "`TAGGER_COMMAND`" + `
- Use ` + "`--show-latest`" + ` or ` + "`--list-all`" + ` to only inspect tags`,
	}

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# The command failed!

tagger exits with the command's own exit code.

## Things you can try:
- Preview the rendered command:
~~~
$ tagger --dry-run my_pkg
~~~
- Run it with ` + "`--runtime virtual`" + ` when no POSIX shell is available`,
	}

	issues = map[Id]*Issue{
		configNotFoundIssue.Id():      configNotFoundIssue,
		configInvalidIssue.Id():       configInvalidIssue,
		noValidPackageIssue.Id():      noValidPackageIssue,
		scratchRepoFailedIssue.Id():   scratchRepoFailedIssue,
		remoteConnectFailedIssue.Id(): remoteConnectFailedIssue,
		noValidTagsIssue.Id():         noValidTagsIssue,
		commandMissingIssue.Id():      commandMissingIssue,
		commandFailedIssue.Id():       commandFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
