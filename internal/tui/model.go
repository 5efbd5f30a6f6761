package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joescharf/osg/internal/github"
	"github.com/joescharf/osg/internal/modal"
	"github.com/joescharf/osg/internal/models"
	"github.com/joescharf/osg/internal/render"
)

// Backend is the subset of the backend client the browser uses.
type Backend interface {
	ListProjects(ctx context.Context, page *url.URL) ([]models.Project, error)
	CreateProject(ctx context.Context, page *url.URL, githubURL string) error
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#58A6FF"))
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#30363D")).Padding(0, 1)
	selectedStyle = cardStyle.BorderForeground(lipgloss.Color("#58A6FF"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B949E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F85149"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	dialogStyle   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#58A6FF")).Padding(1, 2)
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("#238636")).Foreground(lipgloss.Color("#FFFFFF"))
	disabledStyle = buttonStyle.Background(lipgloss.Color("#30363D")).Foreground(lipgloss.Color("#8B949E"))
)

// Model is the bubbletea model for the showcase browser.
type Model struct {
	ctx       context.Context
	backend   Backend
	previewer github.Previewer
	page      *url.URL
	keys      KeyMap
	help      help.Model
	input     textinput.Model
	now       func() time.Time

	title    string
	projects []models.Project
	loading  bool
	loadErr  error
	cursor   int
	dialog   modal.State
	status   string
	width    int
	height   int
}

// New creates the browser model. page stands in for the browser location
// when resolving the backend.
func New(ctx context.Context, b Backend, p github.Previewer, page *url.URL, title string) Model {
	ti := textinput.New()
	ti.Placeholder = "https://github.com/username/repository"
	ti.CharLimit = 256
	ti.Width = 50

	h := help.New()
	h.ShowAll = false

	return Model{
		ctx:       ctx,
		backend:   b,
		previewer: p,
		page:      page,
		keys:      DefaultKeyMap(),
		help:      h,
		input:     ti,
		now:       time.Now,
		title:     title,
		loading:   true,
	}
}

// Init starts the first list load.
func (m Model) Init() tea.Cmd {
	return m.loadProjects()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ProjectsLoadedMsg:
		m.loading = false
		m.loadErr = msg.Err
		if msg.Err == nil {
			m.projects = msg.Projects
		} else {
			m.projects = nil
		}
		if m.cursor >= len(m.projects) {
			m.cursor = max(len(m.projects)-1, 0)
		}
		return m, nil

	case PreviewLoadedMsg:
		m.dialog = modal.ApplyPreview(m.dialog, msg.Req, msg.Project, msg.Err)
		return m, nil

	case SubmittedMsg:
		m.dialog = modal.FinishSubmit(m.dialog, msg.Err)
		if msg.Err != nil {
			return m, nil
		}
		m.input.Reset()
		m.input.Blur()
		m.status = "Added " + msg.GithubURL
		m.loading = true
		return m, m.loadProjects()

	case tea.KeyMsg:
		if m.dialog.Visible() {
			return m.updateDialog(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.projects)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(m.projects) {
			m.status = "Open in your browser: " + m.projects[m.cursor].GithubURL
		}
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.loadProjects()
	case key.Matches(msg, m.keys.Add):
		m.dialog = modal.Open(m.dialog)
		m.input.Reset()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.dialog = modal.Close(m.dialog)
		m.input.Reset()
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		next, sub, ok := modal.BeginSubmit(m.dialog)
		if !ok {
			return m, nil
		}
		m.dialog = next
		return m, m.submit(sub)
	}

	if m.dialog.Phase == modal.Submitting {
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	next, req := modal.Edit(m.dialog, m.input.Value())
	m.dialog = next
	if req == nil {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.fetchPreview(*req))
}

func (m Model) loadProjects() tea.Cmd {
	ctx, b, page := m.ctx, m.backend, m.page
	return func() tea.Msg {
		projects, err := b.ListProjects(ctx, page)
		return ProjectsLoadedMsg{Projects: projects, Err: err}
	}
}

func (m Model) fetchPreview(req modal.PreviewRequest) tea.Cmd {
	ctx, p := m.ctx, m.previewer
	return func() tea.Msg {
		project, err := p.FetchRepoMetadata(ctx, req.Ref.Owner, req.Ref.Name)
		return PreviewLoadedMsg{Req: req, Project: project, Err: err}
	}
}

func (m Model) submit(sub models.Submission) tea.Cmd {
	ctx, b, page := m.ctx, m.backend, m.page
	return func() tea.Msg {
		err := b.CreateProject(ctx, page, sub.GithubURL)
		return SubmittedMsg{GithubURL: sub.GithubURL, Err: err}
	}
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.dialog.Visible() {
		b.WriteString(m.viewDialog())
	} else {
		b.WriteString(m.viewList())
	}

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) viewList() string {
	switch {
	case m.loading:
		lines := make([]string, render.DefaultLoadingCount)
		for i := range lines {
			lines[i] = cardStyle.Render(mutedStyle.Render("░░░░░░░░░░░░░░░░░░░░"))
		}
		return strings.Join(lines, "\n") + "\n"
	case m.loadErr != nil:
		return errorStyle.Render(render.ErrorMessage) + "\n"
	case len(m.projects) == 0:
		return mutedStyle.Render(render.EmptyMessage) + "\n"
	}

	now := m.now()
	var b strings.Builder
	for i, p := range m.projects {
		style := cardStyle
		if i == m.cursor {
			style = selectedStyle
		}
		b.WriteString(style.Render(cardText(render.Card(p, now))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewDialog() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add a project"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.dialog.Error != "" {
		b.WriteString(errorStyle.Render(m.dialog.Error))
		b.WriteString("\n\n")
	}
	if m.dialog.Phase == modal.Validating {
		b.WriteString(mutedStyle.Render("Fetching repository..."))
		b.WriteString("\n\n")
	}
	if m.dialog.Preview != nil {
		b.WriteString(cardStyle.Render(cardText(render.Card(*m.dialog.Preview, m.now()))))
		b.WriteString("\n\n")
	}

	button := disabledStyle
	if m.dialog.SubmitEnabled {
		button = buttonStyle
	}
	b.WriteString(button.Render(m.dialog.SubmitLabel))
	return dialogStyle.Render(b.String()) + "\n"
}

func cardText(c render.CardData) string {
	return fmt.Sprintf("%s\n%s\n%s",
		titleStyle.Render(c.Title),
		c.Description,
		mutedStyle.Render(fmt.Sprintf("lang: %s  ★ %d  last activity: %s", c.Language, c.Stars, c.TimeAgo)),
	)
}
