package tui

import (
	"time"

	"cadence-cli/internal/board"
	"cadence-cli/internal/config"
	"cadence-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the board. Mouse motion reporting is required for hover
// tracking while a drag is in flight.
func Run(cfg config.Config, db *store.DB, writer board.Persister) error {
	today := time.Now().Format("2006-01-02")
	m := newAppModel(cfg, db, writer, today)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
