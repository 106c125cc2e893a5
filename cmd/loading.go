package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loadDoneMsg struct {
	err error
}

type loadStatusMsg string

type loadingSpinnerModel struct {
	spinner spinner.Model
	label   string
	status  string
	load    tea.Cmd
	err     error
	done    bool
}

func newLoadingSpinnerModel(label string, load tea.Cmd) loadingSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return loadingSpinnerModel{
		spinner: s,
		label:   label,
		load:    load,
	}
}

func (m loadingSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

func (m loadingSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case loadStatusMsg:
		m.status = string(msg)
		return m, nil
	case loadDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m loadingSpinnerModel) View() string {
	if m.done {
		return ""
	}

	view := fmt.Sprintf("%s %s", m.spinner.View(), m.label)
	if m.status != "" {
		view += "\n" + m.status
	}
	return view
}

// runLoading shows a spinner on output while load runs. Retry notices raised
// during the load are shown under the spinner.
func runLoading(ctx context.Context, output io.Writer, status *statusLine, label string, load func(context.Context) error) error {
	loadCmd := func() tea.Msg {
		return loadDoneMsg{err: load(ctx)}
	}

	p := tea.NewProgram(
		newLoadingSpinnerModel(label, loadCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)

	restore := status.route(func(text string) {
		p.Send(loadStatusMsg(text))
	})
	defer restore()

	finalModel, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	result, ok := finalModel.(loadingSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}

const (
	transferChunkDelay = 100 * time.Millisecond
	slowChunkDelay     = 300 * time.Millisecond
	slowChunkPercent   = 20
)

type transferTickMsg struct{}

type transferModel struct {
	bar    progress.Model
	chunks int
	sent   int
	delay  func() time.Duration
}

func newTransferModel(chunks int, delay func() time.Duration) transferModel {
	return transferModel{
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		chunks: max(chunks, 1),
		delay:  delay,
	}
}

func (m transferModel) tick() tea.Cmd {
	return tea.Tick(m.delay(), func(time.Time) tea.Msg {
		return transferTickMsg{}
	})
}

func (m transferModel) Init() tea.Cmd {
	return m.tick()
}

func (m transferModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(transferTickMsg); !ok {
		return m, nil
	}

	m.sent++
	if m.sent >= m.chunks {
		return m, tea.Quit
	}
	return m, m.tick()
}

func (m transferModel) View() string {
	return "Progress: " + m.bar.ViewAs(float64(m.sent)/float64(m.chunks))
}

// runTransfer draws the download progress bar, one step per chunk. Roughly one
// chunk in five stalls like a noisy line.
func runTransfer(ctx context.Context, output io.Writer, chunks int, roll func(n int) int) error {
	delay := func() time.Duration {
		if roll(100) < slowChunkPercent {
			return slowChunkDelay
		}
		return transferChunkDelay
	}

	p := tea.NewProgram(
		newTransferModel(chunks, delay),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)

	if _, err := p.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}
