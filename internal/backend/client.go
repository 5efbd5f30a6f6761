package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/joescharf/osg/internal/endpoint"
	"github.com/joescharf/osg/internal/models"
)

// ProjectsPath is the backend collection every call goes through.
const ProjectsPath = "/api/projects"

// maxErrorBody caps how much of an error response is read into a message.
const maxErrorBody = 4 << 10

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// Client talks to the showcase backend through an endpoint chain.
type Client struct {
	chain     *endpoint.Chain
	userAgent string
}

// NewClient creates a backend client.
func NewClient(chain *endpoint.Chain, userAgent string) *Client {
	if userAgent == "" {
		userAgent = "osg"
	}
	return &Client{chain: chain, userAgent: userAgent}
}

// ListProjects fetches the project collection for a page served from page.
// The backend's order is preserved.
func (c *Client) ListProjects(ctx context.Context, page *url.URL) ([]models.Project, error) {
	resp, err := c.chain.Do(ctx, page, http.MethodGet, ProjectsPath, nil, c.headers(false))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("list projects: status %d", resp.StatusCode),
		}
	}

	var projects []models.Project
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// CreateProject submits a repository URL. Only github_url is sent.
func (c *Client) CreateProject(ctx context.Context, page *url.URL, githubURL string) error {
	body, err := json.Marshal(models.Submission{GithubURL: githubURL})
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	resp, err := c.chain.Do(ctx, page, http.MethodPost, ProjectsPath, body, c.headers(true))
	if err != nil {
		return fmt.Errorf("add project: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg := errorBody(resp)
	if msg == "" {
		msg = fmt.Sprintf("failed to add project: status %d", resp.StatusCode)
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}

func (c *Client) headers(hasBody bool) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("User-Agent", c.userAgent)
	if hasBody {
		h.Set("Content-Type", "application/json")
	}
	return h
}

// errorBody extracts a human message from an error response: either the
// "error" field of a JSON object or the text of a plain body.
func errorBody(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return ""
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" || strings.HasPrefix(text, "{") {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			return strings.TrimSpace(payload.Error)
		}
	}
	if mediaType == "" || strings.HasPrefix(mediaType, "text/") {
		return text
	}
	return ""
}
