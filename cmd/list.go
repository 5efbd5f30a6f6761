package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/osg/internal/models"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the projects in the showcase",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRun(cmd)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the raw project records as JSON")
	rootCmd.AddCommand(listCmd)
}

func listRun(cmd *cobra.Command) error {
	page, err := sitePage()
	if err != nil {
		return err
	}

	ui.VerboseLog("Fetching projects for %s", page)
	projects, err := newBackend().ListProjects(cmd.Context(), page)
	if err != nil {
		return err
	}

	if listJSON {
		return printJSON(projects)
	}
	return ui.Projects(projects, time.Now())
}

func printJSON(v any) error {
	if projects, ok := v.([]models.Project); ok && projects == nil {
		v = []models.Project{}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	fmt.Fprintln(ui.Out, string(data))
	return nil
}
