package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/osg/internal/modal"
	"github.com/joescharf/osg/internal/models"
)

var previewJSON bool

var previewCmd = &cobra.Command{
	Use:   "preview <github-url>",
	Short: "Show the card a GitHub repository would get",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := previewRepo(cmd, args[0])
		if err != nil {
			return err
		}
		if previewJSON {
			return printJSON(p)
		}
		ui.Preview(*p, time.Now())
		return nil
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "Print the fetched metadata as JSON")
	rootCmd.AddCommand(previewCmd)
}

// previewRepo validates raw and fetches its metadata, returning the card
// and the URL that would be submitted.
func previewRepo(cmd *cobra.Command, raw string) (*models.Project, string, error) {
	gc, err := newPreviewer()
	if err != nil {
		return nil, "", err
	}
	st, err := openPreview(cmd.Context(), modal.NewController(gc, nil), raw)
	if err != nil {
		return nil, "", err
	}
	return st.Preview, st.Submission.GithubURL, nil
}

// openPreview runs raw through a fresh dialog. Errors carry the same
// wording the add dialog shows.
func openPreview(ctx context.Context, ctrl *modal.Controller, raw string) (modal.State, error) {
	ui.VerboseLog("Fetching %s from GitHub", raw)
	st := ctrl.Input(ctx, modal.Open(modal.State{}), raw)
	if st.Phase != modal.PreviewReady {
		return st, errors.New(modal.InputError(st))
	}
	return st, nil
}
