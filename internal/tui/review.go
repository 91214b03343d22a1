// Package tui is a small review screen for reconciliation runs: pick a run,
// scroll its activity log. Read-only by design; flags are owned by the
// engine.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ledgersift/internal/database/repository"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
)

type viewState string

const (
	viewRuns viewState = "runs"
	viewLog  viewState = "log"
)

// App browses reconciliation runs.
type App struct {
	runs      []repository.ReconciliationRun
	state     viewState
	runCursor int
	logLines  []string
	logOffset int
	height    int
	status    string
}

// NewApp loads run history and returns the model.
func NewApp(ctx context.Context, runRepo *repository.RunRepo) (*App, error) {
	runs, err := runRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return &App{runs: runs, state: viewRuns, height: 24}, nil
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if a.state == viewLog {
				a.state = viewRuns
				return a, nil
			}
			return a, tea.Quit
		case "up", "k":
			a.scroll(-1)
		case "down", "j":
			a.scroll(1)
		case "enter":
			if a.state == viewRuns && len(a.runs) > 0 {
				run := a.runs[a.runCursor]
				a.logLines = strings.Split(run.Log, "\n")
				a.logOffset = 0
				a.state = viewLog
			}
		}
	}
	return a, nil
}

func (a *App) scroll(delta int) {
	if a.state == viewRuns {
		a.runCursor = clamp(a.runCursor+delta, 0, len(a.runs)-1)
		return
	}
	a.logOffset = clamp(a.logOffset+delta, 0, max(0, len(a.logLines)-a.pageSize()))
}

func (a *App) pageSize() int {
	return max(1, a.height-4)
}

func (a *App) View() string {
	var b strings.Builder
	switch a.state {
	case viewRuns:
		b.WriteString(titleStyle.Render("reconciliation runs") + "\n\n")
		if len(a.runs) == 0 {
			b.WriteString(dimStyle.Render("no runs yet — run `ledgersift reconcile` first") + "\n")
		}
		for i, run := range a.runs {
			line := fmt.Sprintf("%s  %d passes  %d transfers  %d returns",
				run.StartedAt.Format("2006-01-02 15:04"), run.Passes, run.TransferPairs, run.ReturnPairs)
			if i == a.runCursor {
				b.WriteString(selectedStyle.Render("> "+line) + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
		b.WriteString("\n" + statusStyle.Render("enter: view log  ↑/↓: select  q: quit"))
	case viewLog:
		run := a.runs[a.runCursor]
		b.WriteString(titleStyle.Render("run "+run.StartedAt.Format("2006-01-02 15:04")) + "\n\n")
		end := min(a.logOffset+a.pageSize(), len(a.logLines))
		for _, line := range a.logLines[a.logOffset:end] {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + statusStyle.Render(fmt.Sprintf("%d/%d  ↑/↓: scroll  q: back", end, len(a.logLines))))
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
