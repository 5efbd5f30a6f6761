package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/osg/internal/models"
	"github.com/joescharf/osg/internal/render"
)

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &UI{Out: out, ErrOut: errOut}, out, errOut
}

func TestInfo(t *testing.T) {
	u, out, _ := newTestUI()
	u.Info("hello %s", "world")
	assert.Contains(t, out.String(), "hello world")
}

func TestSuccess(t *testing.T) {
	u, out, _ := newTestUI()
	u.Success("done %d", 42)
	assert.Contains(t, out.String(), "done 42")
}

func TestWarning(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Warning("careful %s", "now")
	assert.Contains(t, errOut.String(), "careful now")
}

func TestError(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Error("failed %s", "badly")
	assert.Contains(t, errOut.String(), "failed badly")
}

func TestVerboseLog_Enabled(t *testing.T) {
	u, out, _ := newTestUI()
	u.Verbose = true
	u.VerboseLog("detail %d", 1)
	assert.Contains(t, out.String(), "detail 1")
}

func TestVerboseLog_Disabled(t *testing.T) {
	u, out, _ := newTestUI()
	u.Verbose = false
	u.VerboseLog("detail %d", 1)
	assert.Empty(t, out.String())
}

func TestDryRunMsg_Enabled(t *testing.T) {
	u, _, errOut := newTestUI()
	u.DryRun = true
	u.DryRunMsg("would create %s", "file")
	assert.Contains(t, errOut.String(), "[DRY-RUN]")
	assert.Contains(t, errOut.String(), "would create file")
}

func TestDryRunMsg_Disabled(t *testing.T) {
	u, _, errOut := newTestUI()
	u.DryRun = false
	u.DryRunMsg("would create %s", "file")
	assert.Empty(t, errOut.String())
}

func TestStarsColor(t *testing.T) {
	assert.Contains(t, StarsColor(2500), "2500")
	assert.Contains(t, StarsColor(150), "150")
	assert.Equal(t, "7", StarsColor(7))
}

func TestTable(t *testing.T) {
	u, out, _ := newTestUI()
	table := u.Table([]string{"Project", "Language"})
	require.NotNil(t, table)

	table.Append([]string{"acme / osg", "Go"})
	table.Append([]string{"acme / web", "Rust"})
	err := table.Render()
	require.NoError(t, err)

	result := out.String()
	assert.Contains(t, result, "acme / osg", "table output should contain project names")
	assert.Contains(t, result, "acme / web", "table output should contain project names")
}

func TestProjects(t *testing.T) {
	u, out, _ := newTestUI()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	err := u.Projects([]models.Project{
		{Name: "alpha", OwnerName: "acme", Language: "Go", Stars: 12, CreatedAt: now.Add(-2 * time.Hour), GithubURL: "https://github.com/acme/alpha"},
		{Name: "beta", OwnerName: "acme", CreatedAt: now, GithubURL: "https://github.com/acme/beta"},
	}, now)
	require.NoError(t, err)

	result := out.String()
	assert.Contains(t, result, "acme / alpha")
	assert.Contains(t, result, "2 hours ago")
	assert.Contains(t, result, render.UnknownLanguage)
	assert.Contains(t, result, "just now")
	assert.Less(t, strings.Index(result, "alpha"), strings.Index(result, "beta"), "backend order is kept")
}

func TestProjects_Empty(t *testing.T) {
	u, out, _ := newTestUI()
	require.NoError(t, u.Projects(nil, time.Now()))
	assert.Contains(t, out.String(), render.EmptyMessage)
}

func TestPreview(t *testing.T) {
	u, out, _ := newTestUI()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	u.Preview(models.Project{Name: "Hello-World", OwnerName: "octocat", Stars: 3, CreatedAt: now.AddDate(0, 0, -3)}, now)

	result := out.String()
	assert.Contains(t, result, "octocat / Hello-World")
	assert.Contains(t, result, render.NoDescription)
	assert.Contains(t, result, "3 days ago")
}
