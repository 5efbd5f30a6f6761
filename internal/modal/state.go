package modal

import (
	"errors"
	"strings"

	"github.com/joescharf/osg/internal/github"
	"github.com/joescharf/osg/internal/models"
)

// Phase is the position of the add-project dialog in its lifecycle.
type Phase int

const (
	Closed Phase = iota
	Empty
	Validating
	Invalid
	PreviewReady
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case Empty:
		return "empty"
	case Validating:
		return "validating"
	case Invalid:
		return "invalid"
	case PreviewReady:
		return "preview_ready"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// User-facing texts.
const (
	SubmitLabel = "Add Project"
	BusyLabel   = "Adding..."

	InvalidURLMessage   = "Please enter a valid GitHub repository URL (e.g., https://github.com/username/repository)"
	NotFoundMessage     = "Repository not found. Please check the URL."
	FetchFailedMessage  = "Failed to fetch repository information. Please try again."
	SubmitFailedMessage = "Failed to add project. Please try again."
)

// State is everything the dialog shows. Transitions take a State and
// return the next one; nothing is shared.
type State struct {
	Phase Phase
	Input string
	Error string

	// Preview is display only. Submission is what gets sent.
	Preview    *models.Project
	Submission *models.Submission

	SubmitLabel   string
	SubmitEnabled bool

	// Generation increases on every edit so a late preview for older input
	// can be recognised and dropped.
	Generation uint64
}

// Visible reports whether the dialog is shown.
func (s State) Visible() bool { return s.Phase != Closed }

// PreviewRequest asks for metadata of a validated repository URL.
type PreviewRequest struct {
	Generation uint64
	Ref        github.RepoRef
}

func cleared(phase Phase, generation uint64) State {
	return State{Phase: phase, SubmitLabel: SubmitLabel, Generation: generation}
}

// Open shows an empty dialog.
func Open(s State) State {
	return cleared(Empty, s.Generation+1)
}

// Close hides the dialog and drops every transient field.
func Close(s State) State {
	return cleared(Closed, s.Generation+1)
}

// Edit handles new input text. Any previous error or preview is dropped and
// submission disabled. A request is returned only when the input is a valid
// repository URL. Input is ignored while a submission is in flight.
func Edit(s State, raw string) (State, *PreviewRequest) {
	if s.Phase == Submitting {
		return s, nil
	}
	next := cleared(Empty, s.Generation+1)
	next.Input = raw

	if strings.TrimSpace(raw) == "" {
		return next, nil
	}

	ref, err := github.ParseRepoURL(raw)
	if err != nil {
		next.Phase = Invalid
		next.Error = InvalidURLMessage
		return next, nil
	}

	next.Phase = Validating
	return next, &PreviewRequest{Generation: next.Generation, Ref: ref}
}

// ApplyPreview records the outcome of req. Results for a superseded
// request, or arriving after the dialog moved on, leave s unchanged.
func ApplyPreview(s State, req PreviewRequest, p *models.Project, err error) State {
	if s.Phase != Validating || s.Generation != req.Generation {
		return s
	}
	if err != nil {
		s.Phase = Invalid
		s.Error = PreviewErrorMessage(err)
		return s
	}
	s.Phase = PreviewReady
	s.Preview = p
	s.Submission = &models.Submission{GithubURL: req.Ref.URL}
	s.SubmitEnabled = true
	return s
}

// BeginSubmit moves a ready preview to Submitting and returns what to send.
// It reports false when there is nothing to submit.
func BeginSubmit(s State) (State, models.Submission, bool) {
	if s.Phase != PreviewReady || s.Submission == nil {
		return s, models.Submission{}, false
	}
	sub := *s.Submission
	s.Phase = Submitting
	s.Error = ""
	s.SubmitEnabled = false
	s.SubmitLabel = BusyLabel
	return s, sub, true
}

// FinishSubmit records the outcome of a submission. On success the dialog
// closes and the caller reloads the list. On failure the preview stays up
// with the error shown and the button re-enabled.
func FinishSubmit(s State, err error) State {
	if s.Phase != Submitting {
		return s
	}
	if err == nil {
		return Close(s)
	}
	s.Phase = PreviewReady
	s.Error = SubmitErrorMessage(err)
	s.SubmitEnabled = true
	s.SubmitLabel = SubmitLabel
	return s
}

// PreviewErrorMessage maps a preview failure to the text shown in the dialog.
func PreviewErrorMessage(err error) string {
	var se *github.StatusError
	switch {
	case errors.Is(err, github.ErrInvalidURL):
		return InvalidURLMessage
	case errors.Is(err, github.ErrRepoNotFound):
		return NotFoundMessage
	case errors.As(err, &se):
		return se.Error()
	default:
		return FetchFailedMessage
	}
}

// SubmitErrorMessage maps a submission failure to the text shown in the
// dialog, preferring the backend's own message.
func SubmitErrorMessage(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return SubmitFailedMessage
}
