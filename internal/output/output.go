package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/joescharf/osg/internal/models"
	"github.com/joescharf/osg/internal/render"
)

// UI provides colored output and respects verbose/dry-run modes.
type UI struct {
	Verbose bool
	DryRun  bool
	Out     io.Writer
	ErrOut  io.Writer
}

// New creates a UI with default stdout/stderr writers.
func New() *UI {
	return &UI{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

var (
	infoPrefix    = color.New(color.FgHiBlue).Sprint("i")
	successPrefix = color.New(color.FgHiGreen).Sprint("\u2713")
	warningPrefix = color.New(color.FgHiYellow).Sprint("\u26a0")
	errorPrefix   = color.New(color.FgHiRed).Sprint("\u2717")
	verbosePrefix = color.New(color.FgHiBlue).Sprint("  \u2192")
	cyan          = color.New(color.FgHiCyan).SprintFunc()
	green         = color.New(color.FgHiGreen).SprintFunc()
	yellow        = color.New(color.FgHiYellow).SprintFunc()
)

// StarsColor returns the star count colored by popularity.
func StarsColor(stars int) string {
	s := fmt.Sprintf("%d", stars)
	switch {
	case stars >= 1000:
		return green(s)
	case stars >= 100:
		return yellow(s)
	default:
		return s
	}
}

func (u *UI) Info(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", infoPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Success(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Warning(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", warningPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Error(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", errorPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) VerboseLog(format string, a ...any) {
	if u.Verbose {
		fmt.Fprintf(u.Out, "%s %s\n", verbosePrefix, fmt.Sprintf(format, a...))
	}
}

func (u *UI) DryRunMsg(format string, a ...any) {
	if u.DryRun {
		u.Warning("[DRY-RUN] "+format, a...)
	}
}

// Table creates a new tablewriter configured with consistent styling.
func (u *UI) Table(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(u.Out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

// Projects prints the showcase as a table, one row per card, in the order
// the backend returned them.
func (u *UI) Projects(projects []models.Project, now time.Time) error {
	if len(projects) == 0 {
		u.Info(render.EmptyMessage)
		return nil
	}
	table := u.Table([]string{"Project", "Language", "Stars", "Last Activity", "URL"})
	for _, p := range projects {
		c := render.Card(p, now)
		if err := table.Append([]string{
			cyan(c.Title),
			c.Language,
			StarsColor(c.Stars),
			c.TimeAgo,
			c.URL,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// Preview prints a single card the way the add dialog shows it.
func (u *UI) Preview(p models.Project, now time.Time) {
	c := render.Card(p, now)
	fmt.Fprintf(u.Out, "%s\n", cyan(c.Title))
	fmt.Fprintf(u.Out, "  %s\n", c.Description)
	fmt.Fprintf(u.Out, "  lang: %s  \u2b50 %s  last activity: %s\n", c.Language, StarsColor(c.Stars), c.TimeAgo)
	fmt.Fprintf(u.Out, "  %s\n", c.URL)
}
