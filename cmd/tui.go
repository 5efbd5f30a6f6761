package cmd

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/joescharf/osg/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the showcase in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := sitePage()
		if err != nil {
			return err
		}
		gc, err := newPreviewer()
		if err != nil {
			return err
		}

		// The alt screen owns the terminal; keep log lines off it.
		configureLogging(io.Discard)

		m := tui.New(cmd.Context(), newBackend(), gc, page, "Open Source Ghana")
		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
