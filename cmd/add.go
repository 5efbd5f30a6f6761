package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/osg/internal/modal"
	"github.com/joescharf/osg/internal/models"
)

var addCmd = &cobra.Command{
	Use:   "add <github-url>",
	Short: "Preview a GitHub repository and add it to the showcase",
	Long: `Preview a GitHub repository and add it to the showcase.

The repository is looked up on GitHub first; only its URL is sent to the
backend. Use --dry-run to print the request body instead of sending it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addRun(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func addRun(cmd *cobra.Command, raw string) error {
	gc, err := newPreviewer()
	if err != nil {
		return err
	}
	ctrl := modal.NewController(gc, modal.SubmitterFunc(submitProject))

	st, err := openPreview(cmd.Context(), ctrl, raw)
	if err != nil {
		return err
	}
	project := *st.Preview
	ui.Preview(project, time.Now())

	st, added := ctrl.Submit(cmd.Context(), st)
	if !added {
		return errors.New(st.Error)
	}
	if !dryRun {
		ui.Success("Added %s", project.FullName())
	}
	return nil
}

// submitProject posts sub to the backend, or prints it under --dry-run.
func submitProject(ctx context.Context, sub models.Submission) error {
	if dryRun {
		body, err := json.Marshal(sub)
		if err != nil {
			return fmt.Errorf("marshal submission: %w", err)
		}
		ui.DryRunMsg("Would POST to the backend:")
		fmt.Fprintln(ui.Out, string(body))
		return nil
	}

	page, err := sitePage()
	if err != nil {
		return err
	}
	return newBackend().CreateProject(ctx, page, sub.GithubURL)
}
