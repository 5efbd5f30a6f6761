package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/osg/internal/github"
	"github.com/joescharf/osg/internal/modal"
	"github.com/joescharf/osg/internal/models"
	"github.com/joescharf/osg/internal/render"
)

// Backend is the subset of the backend client the tools call.
type Backend interface {
	ListProjects(ctx context.Context, page *url.URL) ([]models.Project, error)
	CreateProject(ctx context.Context, page *url.URL, githubURL string) error
}

// Server exposes the showcase as MCP tools.
type Server struct {
	backend Backend
	preview github.Previewer
	page    *url.URL
	version string
	now     func() time.Time
}

// NewServer creates the MCP server wrapper. page stands in for the browser
// location when resolving the backend.
func NewServer(b Backend, p github.Previewer, page *url.URL, version string) *Server {
	if version == "" {
		version = "dev"
	}
	return &Server{
		backend: b,
		preview: p,
		page:    page,
		version: version,
		now:     time.Now,
	}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("osg", s.version, server.WithToolCapabilities(true))

	srv.AddTool(s.listProjectsTool())
	srv.AddTool(s.previewRepositoryTool())
	srv.AddTool(s.addProjectTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// cardOut is the JSON shape of a rendered card.
type cardOut struct {
	FullName    string `json:"full_name"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	LastActive  string `json:"last_activity"`
	GithubURL   string `json:"github_url"`
	Avatar      string `json:"owner_avatar,omitempty"`
}

func (s *Server) toCard(p models.Project) cardOut {
	c := render.Card(p, s.now())
	return cardOut{
		FullName:    c.Title,
		Name:        c.Name,
		Owner:       c.Owner,
		Description: c.Description,
		Language:    c.Language,
		Stars:       c.Stars,
		LastActive:  c.TimeAgo,
		GithubURL:   c.URL,
		Avatar:      c.Avatar,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// osg_list_projects
func (s *Server) listProjectsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("osg_list_projects",
		mcp.WithDescription("List the projects in the showcase, in backend order. Returns a JSON array of cards with full_name, description, language, stars, last_activity, and github_url."),
		mcp.WithString("language", mcp.Description("Only return projects in this language (case-insensitive)")),
	)
	return tool, s.handleListProjects
}

func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	language := strings.TrimSpace(request.GetString("language", ""))

	projects, err := s.backend.ListProjects(ctx, s.page)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list projects: %v", err)), nil
	}

	out := make([]cardOut, 0, len(projects))
	for _, p := range projects {
		card := s.toCard(p)
		if language != "" && !strings.EqualFold(card.Language, language) {
			continue
		}
		out = append(out, card)
	}
	return jsonResult(out)
}

// osg_preview_repository
func (s *Server) previewRepositoryTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("osg_preview_repository",
		mcp.WithDescription("Validate a GitHub repository URL and fetch the card that would be shown for it. Does not add anything."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Repository URL, e.g. https://github.com/owner/repo")),
	)
	return tool, s.handlePreviewRepository
}

func (s *Server) handlePreviewRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: url"), nil
	}

	st := s.controller().Input(ctx, modal.Open(modal.State{}), raw)
	if st.Phase != modal.PreviewReady {
		return mcp.NewToolResultError(modal.InputError(st)), nil
	}
	return jsonResult(s.toCard(*st.Preview))
}

// osg_add_project
func (s *Server) addProjectTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("osg_add_project",
		mcp.WithDescription("Add a GitHub repository to the showcase. The repository is previewed first; only its URL is sent to the backend."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Repository URL, e.g. https://github.com/owner/repo")),
	)
	return tool, s.handleAddProject
}

func (s *Server) handleAddProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: url"), nil
	}

	ctrl := s.controller()
	st := ctrl.Input(ctx, modal.Open(modal.State{}), raw)
	if st.Phase != modal.PreviewReady {
		return mcp.NewToolResultError(modal.InputError(st)), nil
	}
	name, githubURL := st.Preview.FullName(), st.Submission.GithubURL

	if st, added := ctrl.Submit(ctx, st); !added {
		return mcp.NewToolResultError(st.Error), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added %s (%s)", name, githubURL)), nil
}

// controller runs the add dialog against the backend for one tool call.
func (s *Server) controller() *modal.Controller {
	return modal.NewController(s.preview, modal.SubmitterFunc(func(ctx context.Context, sub models.Submission) error {
		return s.backend.CreateProject(ctx, s.page, sub.GithubURL)
	}))
}
