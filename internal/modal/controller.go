package modal

import (
	"context"

	"github.com/joescharf/osg/internal/github"
	"github.com/joescharf/osg/internal/models"
)

// Submitter sends a validated repository URL to the backend.
type Submitter interface {
	Submit(ctx context.Context, sub models.Submission) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, sub models.Submission) error

func (f SubmitterFunc) Submit(ctx context.Context, sub models.Submission) error { return f(ctx, sub) }

// Controller runs whole keystrokes and submits against real collaborators.
// The add command and the MCP tools drive the dialog through it. Surfaces
// that need to interleave other work (the web server, the TUI) call the
// transition functions directly instead.
type Controller struct {
	Previewer github.Previewer
	Submitter Submitter
}

// NewController creates a Controller.
func NewController(p github.Previewer, s Submitter) *Controller {
	return &Controller{Previewer: p, Submitter: s}
}

// Input applies raw as the new field value and, when it is a valid URL,
// fetches the preview before returning.
func (c *Controller) Input(ctx context.Context, s State, raw string) State {
	next, req := Edit(s, raw)
	if req == nil {
		return next
	}
	p, err := c.Previewer.FetchRepoMetadata(ctx, req.Ref.Owner, req.Ref.Name)
	return ApplyPreview(next, *req, p, err)
}

// InputError is the message to report when s is not ready to submit. Blank
// input has no dialog error of its own and reads as an invalid URL.
func InputError(s State) string {
	if s.Error != "" {
		return s.Error
	}
	return InvalidURLMessage
}

// Submit sends the previewed URL. The returned bool is true when the
// project was added and the list should be reloaded.
func (c *Controller) Submit(ctx context.Context, s State) (State, bool) {
	next, sub, ok := BeginSubmit(s)
	if !ok {
		return s, false
	}
	err := c.Submitter.Submit(ctx, sub)
	return FinishSubmit(next, err), err == nil
}
