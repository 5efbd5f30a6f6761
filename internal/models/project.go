package models

import "time"

// Project is a showcase entry as served by the backend's project list.
// Fields the backend adds for its own bookkeeping (ID, Category) are decoded
// but never rendered.
type Project struct {
	ID          int       `json:"id,omitempty"`
	Name        string    `json:"name"`
	OwnerName   string    `json:"owner_name"`
	OwnerAvatar string    `json:"owner_avatar,omitempty"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Stars       int       `json:"stars"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	GithubURL   string    `json:"github_url"`
}

// FullName returns "owner / name" as shown on a card heading.
func (p Project) FullName() string {
	return p.OwnerName + " / " + p.Name
}

// Submission is the only payload ever sent when adding a project.
// The backend derives every other field by querying GitHub itself.
type Submission struct {
	GithubURL string `json:"github_url"`
}
