package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/yearlit/internal/cli"
	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	// Hold the writer lock for the whole session
	return ctx.Workspace.Exclusive(func() error {
		model := tui.NewModel(ctx.Workspace, tui.Options{
			DefaultMode: constants.CalendarMode(ctx.Config.DefaultMode),
		})
		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("alas, there's been an error: %w", err)
		}
		return nil
	})
}
