package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"

	"github.com/joescharf/osg/internal/models"
)

// ErrRepoNotFound is returned when GitHub answers 404 for a repository.
var ErrRepoNotFound = errors.New("repository not found")

// StatusError is returned for any other non-2xx GitHub response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub API error: %d", e.StatusCode)
}

// Previewer fetches display metadata for a repository.
type Previewer interface {
	FetchRepoMetadata(ctx context.Context, owner, repo string) (*models.Project, error)
}

// Options configures a Client.
type Options struct {
	// Token authenticates requests for a higher rate limit. Optional.
	Token string
	// BaseURL overrides https://api.github.com/. Optional.
	BaseURL string
	// HTTPClient is the underlying transport. Optional.
	HTTPClient *http.Client
	UserAgent  string
}

// Client reads repository metadata from the GitHub REST API.
type Client struct {
	gh *gh.Client
}

// NewClient builds a GitHub client from opts.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if opts.Token != "" {
		ctx := context.Background()
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := gh.NewClient(httpClient)
	if opts.BaseURL != "" {
		base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse GitHub API URL: %w", err)
		}
		client.BaseURL = base
	}
	if opts.UserAgent != "" {
		client.UserAgent = opts.UserAgent
	}
	return &Client{gh: client}, nil
}

// FetchRepoMetadata returns the repository as a display-only Project.
func (c *Client) FetchRepoMetadata(ctx context.Context, owner, repo string) (*models.Project, error) {
	r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.Response != nil {
			if resp.StatusCode == http.StatusNotFound {
				return nil, ErrRepoNotFound
			}
			return nil, &StatusError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("fetch repository %s/%s: %w", owner, repo, err)
	}
	return toProject(r, owner, repo), nil
}

func toProject(r *gh.Repository, owner, repo string) *models.Project {
	p := &models.Project{
		Name:        r.GetName(),
		OwnerName:   r.GetOwner().GetLogin(),
		OwnerAvatar: r.GetOwner().GetAvatarURL(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		Stars:       r.GetStargazersCount(),
		CreatedAt:   r.GetCreatedAt().Time,
		GithubURL:   r.GetHTMLURL(),
	}
	if p.Name == "" {
		p.Name = repo
	}
	if p.OwnerName == "" {
		p.OwnerName = owner
	}
	if p.GithubURL == "" {
		p.GithubURL = fmt.Sprintf("https://github.com/%s/%s", p.OwnerName, p.Name)
	}
	return p
}
