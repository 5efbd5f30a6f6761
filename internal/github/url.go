package github

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned for input that is not a repository URL of the
// form http(s)://github.com/<owner>/<repo>.
var ErrInvalidURL = errors.New("invalid GitHub repository URL")

var repoURLPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+)/?$`)

// RepoRef identifies a repository typed in by a user.
type RepoRef struct {
	Owner string
	Name  string
	// URL is the trimmed input exactly as validated.
	URL string
}

// ParseRepoURL validates raw and extracts owner and repository name.
// Nested paths such as /tree/main are rejected.
func ParseRepoURL(raw string) (RepoRef, error) {
	u := strings.TrimSpace(raw)
	m := repoURLPattern.FindStringSubmatch(u)
	if m == nil {
		return RepoRef{}, ErrInvalidURL
	}
	return RepoRef{Owner: m[1], Name: m[2], URL: u}, nil
}
