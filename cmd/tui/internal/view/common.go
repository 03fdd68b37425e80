package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/tally/internal/sink"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// StatusMsg replaces the status line shown under every screen.
type StatusMsg string

func status(text string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg(text)
	}
}

// waitForSync turns the outcome of a delivery into a status line once it is
// known.
func waitForSync(ch <-chan sink.Status) tea.Cmd {
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}

		return StatusMsg(s.Message())
	}
}
