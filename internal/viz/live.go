package viz

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sindy/internal/discover"
)

// SweepProgressMsg reports one completed threshold evaluation.
type SweepProgressMsg struct {
	Step      int
	Total     int
	Threshold float64
}

// SweepDoneMsg reports sweep completion.
type SweepDoneMsg struct {
	Result *discover.Result
	Err    error
}

// LiveSweep is a bubbletea model showing sweep progress and, on completion,
// the discovered equations. The sweep itself runs in a separate goroutine
// and feeds messages through the program.
type LiveSweep struct {
	model     string
	step      int
	total     int
	threshold float64
	result    *discover.Result
	err       error
	done      bool
}

func NewLiveSweep(model string) LiveSweep {
	return LiveSweep{model: model}
}

func (m LiveSweep) Init() tea.Cmd { return nil }

func (m LiveSweep) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SweepProgressMsg:
		m.step = msg.Step
		m.total = msg.Total
		m.threshold = msg.Threshold
		return m, nil
	case SweepDoneMsg:
		m.result = msg.Result
		m.err = msg.Err
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m LiveSweep) View() string {
	if m.done {
		if m.err != nil {
			return DivergedStyle.Render(fmt.Sprintf("sweep failed: %v", m.err)) + "\n"
		}
		return RenderResult(m.model, m.result)
	}

	header := HeaderStyle.Render(fmt.Sprintf("threshold sweep: %s", m.model))
	if m.total == 0 {
		return header + "\n" + Subtle.Render("starting...") + "\n"
	}

	percent := float64(m.step) / float64(m.total)
	return fmt.Sprintf("%s\n%s %3d/%d  λ=%.4g\n%s\n",
		header,
		ProgressBar(percent, 40), m.step, m.total, m.threshold,
		Subtle.Render("press q to abort"),
	)
}

// Result returns the completed sweep outcome, once the program has quit.
func (m LiveSweep) Result() (*discover.Result, error) {
	return m.result, m.err
}
