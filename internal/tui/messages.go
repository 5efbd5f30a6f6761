package tui

import (
	"github.com/joescharf/osg/internal/modal"
	"github.com/joescharf/osg/internal/models"
)

// Messages for the async work the model starts.

// ProjectsLoadedMsg contains the showcase list.
type ProjectsLoadedMsg struct {
	Projects []models.Project
	Err      error
}

// PreviewLoadedMsg carries a preview result back to the dialog. Req
// identifies the keystroke that asked for it.
type PreviewLoadedMsg struct {
	Req     modal.PreviewRequest
	Project *models.Project
	Err     error
}

// SubmittedMsg reports the outcome of adding a project.
type SubmittedMsg struct {
	GithubURL string
	Err       error
}
