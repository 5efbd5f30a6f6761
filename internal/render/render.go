package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/joescharf/osg/internal/models"
)

// Fixed texts shown in place of missing data.
const (
	NoDescription   = "No description available"
	UnknownLanguage = "Unknown"
	EmptyMessage    = "No projects found. Be the first to add one!"
	ErrorMessage    = "Failed to load projects. Please try again later."
)

// DefaultLoadingCount is the number of skeleton cards shown before data arrives.
const DefaultLoadingCount = 6

//go:embed templates/*.html
var templateFS embed.FS

// CardData is a project with display placeholders applied. Every surface
// (HTML, table, TUI) renders from it so they agree on the fallbacks.
type CardData struct {
	Title       string
	Name        string
	Owner       string
	URL         string
	Avatar      string
	Description string
	Language    string
	Stars       int
	TimeAgo     string
}

// Card builds the display data for p as of now.
func Card(p models.Project, now time.Time) CardData {
	c := CardData{
		Title:       p.FullName(),
		Name:        p.Name,
		Owner:       p.OwnerName,
		URL:         p.GithubURL,
		Avatar:      p.OwnerAvatar,
		Description: p.Description,
		Language:    p.Language,
		Stars:       p.Stars,
		TimeAgo:     TimeAgo(p.CreatedAt, now),
	}
	if c.Description == "" {
		c.Description = NoDescription
	}
	if c.Language == "" {
		c.Language = UnknownLanguage
	}
	return c
}

// Renderer writes HTML fragments for the card area.
type Renderer struct {
	tmpl *template.Template
	// Now is the clock used for relative times.
	Now func() time.Time
}

// New parses the embedded templates.
func New() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html")),
		Now:  time.Now,
	}
}

// List writes one card per project in the given order, or the empty
// placeholder when there are none.
func (r *Renderer) List(w io.Writer, projects []models.Project) error {
	now := r.Now()
	cards := make([]CardData, len(projects))
	for i, p := range projects {
		cards[i] = Card(p, now)
	}
	return r.tmpl.ExecuteTemplate(w, "list", cards)
}

// Card writes a single self-contained card.
func (r *Renderer) Card(w io.Writer, p models.Project) error {
	return r.tmpl.ExecuteTemplate(w, "card", Card(p, r.Now()))
}

// Loading writes count skeleton cards; count <= 0 uses DefaultLoadingCount.
func (r *Renderer) Loading(w io.Writer, count int) error {
	if count <= 0 {
		count = DefaultLoadingCount
	}
	return r.tmpl.ExecuteTemplate(w, "loading", make([]struct{}, count))
}

// Error writes the list failure placeholder.
func (r *Renderer) Error(w io.Writer) error {
	return r.tmpl.ExecuteTemplate(w, "error", ErrorMessage)
}

// HTML captures a fragment for embedding in another template.
func HTML(write func(io.Writer) error) (template.HTML, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
