package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/osg/internal/github"
	"github.com/joescharf/osg/internal/modal"
	"github.com/joescharf/osg/internal/models"
	"github.com/joescharf/osg/internal/render"
)

// ---------------------------------------------------------------------------
// Mock implementations
// ---------------------------------------------------------------------------

type mockBackend struct {
	projects []models.Project
	created  []string
	pages    []string

	listErr   error
	createErr error
}

func (m *mockBackend) ListProjects(_ context.Context, page *url.URL) ([]models.Project, error) {
	m.pages = append(m.pages, page.String())
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.projects, nil
}

func (m *mockBackend) CreateProject(_ context.Context, page *url.URL, githubURL string) error {
	m.pages = append(m.pages, page.String())
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, githubURL)
	return nil
}

type mockPreviewer struct {
	repos map[string]*models.Project
	err   error
}

func (m *mockPreviewer) FetchRepoMetadata(_ context.Context, owner, repo string) (*models.Project, error) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.repos[owner+"/"+repo]; ok {
		return p, nil
	}
	return nil, github.ErrRepoNotFound
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *mockBackend, *mockPreviewer) {
	t.Helper()

	mb := &mockBackend{}
	mp := &mockPreviewer{repos: map[string]*models.Project{
		"octocat/Hello-World": {
			Name:        "Hello-World",
			OwnerName:   "octocat",
			Description: "My first repository",
			Language:    "Go",
			Stars:       99,
			CreatedAt:   testNow.Add(-48 * time.Hour),
			GithubURL:   "https://github.com/octocat/Hello-World",
		},
	}}
	page, err := url.Parse("https://osg.example.org/")
	require.NoError(t, err)

	srv := NewServer(mb, mp, page, "test")
	require.NotNil(t, srv)
	srv.now = func() time.Time { return testNow }

	return srv, mb, mp
}

// callToolReq builds a mcpgo.CallToolRequest with the given name and arguments.
func callToolReq(name string, args map[string]any) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the concatenated text from a CallToolResult.
func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		tc, ok := c.(mcpgo.TextContent)
		if ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

// resultJSON parses the text result as JSON into the provided target.
func resultJSON(t *testing.T, result *mcpgo.CallToolResult, target any) {
	t.Helper()
	text := resultText(t, result)
	err := json.Unmarshal([]byte(text), target)
	require.NoError(t, err, "failed to parse result JSON: %s", text)
}

// ---------------------------------------------------------------------------
// Tests: MCPServer registration
// ---------------------------------------------------------------------------

func TestNewServer(t *testing.T) {
	srv, _, _ := newTestServer(t)
	mcpSrv := srv.MCPServer()
	require.NotNil(t, mcpSrv, "MCPServer() should return non-nil")
}

func TestNewServer_DefaultVersion(t *testing.T) {
	srv := NewServer(&mockBackend{}, &mockPreviewer{}, &url.URL{}, "")
	assert.Equal(t, "dev", srv.version)
}

// ---------------------------------------------------------------------------
// Tests: osg_list_projects
// ---------------------------------------------------------------------------

func TestHandleListProjects_Empty(t *testing.T) {
	srv, _, _ := newTestServer(t)

	result, err := srv.handleListProjects(context.Background(), callToolReq("osg_list_projects", nil))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	assert.Equal(t, "[]", resultText(t, result))
}

func TestHandleListProjects_WithProjects(t *testing.T) {
	srv, mb, _ := newTestServer(t)
	mb.projects = []models.Project{
		{Name: "beta", OwnerName: "acme", Language: "Go", Stars: 3, CreatedAt: testNow.Add(-90 * time.Second), GithubURL: "https://github.com/acme/beta"},
		{Name: "alpha", OwnerName: "acme", CreatedAt: testNow, GithubURL: "https://github.com/acme/alpha"},
	}

	result, err := srv.handleListProjects(context.Background(), callToolReq("osg_list_projects", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var cards []cardOut
	resultJSON(t, result, &cards)
	require.Len(t, cards, 2)
	assert.Equal(t, "acme / beta", cards[0].FullName, "backend order is kept")
	assert.Equal(t, "1 minutes ago", cards[0].LastActive)
	assert.Equal(t, render.UnknownLanguage, cards[1].Language)
	assert.Equal(t, render.NoDescription, cards[1].Description)
	assert.Equal(t, []string{"https://osg.example.org/"}, mb.pages)
}

func TestHandleListProjects_LanguageFilter(t *testing.T) {
	srv, mb, _ := newTestServer(t)
	mb.projects = []models.Project{
		{Name: "a", OwnerName: "x", Language: "Go"},
		{Name: "b", OwnerName: "x", Language: "Rust"},
	}

	result, err := srv.handleListProjects(context.Background(), callToolReq("osg_list_projects", map[string]any{"language": "go"}))
	require.NoError(t, err)

	var cards []cardOut
	resultJSON(t, result, &cards)
	require.Len(t, cards, 1)
	assert.Equal(t, "a", cards[0].Name)
}

func TestHandleListProjects_BackendError(t *testing.T) {
	srv, mb, _ := newTestServer(t)
	mb.listErr = errors.New("backend unreachable")

	result, err := srv.handleListProjects(context.Background(), callToolReq("osg_list_projects", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "backend unreachable")
}

// ---------------------------------------------------------------------------
// Tests: osg_preview_repository
// ---------------------------------------------------------------------------

func TestHandlePreviewRepository(t *testing.T) {
	srv, _, _ := newTestServer(t)

	result, err := srv.handlePreviewRepository(context.Background(),
		callToolReq("osg_preview_repository", map[string]any{"url": "https://github.com/octocat/Hello-World"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var card cardOut
	resultJSON(t, result, &card)
	assert.Equal(t, "octocat / Hello-World", card.FullName)
	assert.Equal(t, "2 days ago", card.LastActive)
	assert.Equal(t, 99, card.Stars)
}

func TestHandlePreviewRepository_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		err  error
		want string
	}{
		{"missing url", nil, nil, "missing required parameter: url"},
		{"blank url", map[string]any{"url": "   "}, nil, modal.InvalidURLMessage},
		{"invalid url", map[string]any{"url": "https://github.com/octocat"}, nil, modal.InvalidURLMessage},
		{"not found", map[string]any{"url": "https://github.com/octocat/nope"}, nil, modal.NotFoundMessage},
		{"api error", map[string]any{"url": "https://github.com/octocat/Hello-World"}, &github.StatusError{StatusCode: 403}, "GitHub API error: 403"},
		{"transport", map[string]any{"url": "https://github.com/octocat/Hello-World"}, errors.New("dial tcp: refused"), modal.FetchFailedMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, mp := newTestServer(t)
			mp.err = tt.err

			result, err := srv.handlePreviewRepository(context.Background(), callToolReq("osg_preview_repository", tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Equal(t, tt.want, resultText(t, result))
		})
	}
}

// ---------------------------------------------------------------------------
// Tests: osg_add_project
// ---------------------------------------------------------------------------

func TestHandleAddProject(t *testing.T) {
	srv, mb, _ := newTestServer(t)

	result, err := srv.handleAddProject(context.Background(),
		callToolReq("osg_add_project", map[string]any{"url": "  https://github.com/octocat/Hello-World/ "}))
	require.NoError(t, err)
	assert.False(t, result.IsError, resultText(t, result))
	assert.Contains(t, resultText(t, result), "octocat / Hello-World")
	assert.Equal(t, []string{"https://github.com/octocat/Hello-World/"}, mb.created)
}

func TestHandleAddProject_NotFoundSkipsBackend(t *testing.T) {
	srv, mb, _ := newTestServer(t)

	result, err := srv.handleAddProject(context.Background(),
		callToolReq("osg_add_project", map[string]any{"url": "https://github.com/octocat/missing"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, modal.NotFoundMessage, resultText(t, result))
	assert.Empty(t, mb.created)
}

func TestHandleAddProject_BackendError(t *testing.T) {
	srv, mb, _ := newTestServer(t)
	mb.createErr = errors.New("Project already exists")

	result, err := srv.handleAddProject(context.Background(),
		callToolReq("osg_add_project", map[string]any{"url": "https://github.com/octocat/Hello-World"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Project already exists", resultText(t, result))
}

func TestHandleAddProject_MissingURL(t *testing.T) {
	srv, _, _ := newTestServer(t)

	result, err := srv.handleAddProject(context.Background(), callToolReq("osg_add_project", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
