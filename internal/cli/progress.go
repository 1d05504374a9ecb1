package cli

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status     lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Hint       lipgloss.Color
	ProgressBg lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:     lipgloss.Color("#5FAFD7"), // light blue
	Success:    lipgloss.Color("#00D787"), // green
	Error:      lipgloss.Color("#FF005F"), // red
	Hint:       lipgloss.Color("#6C6C6C"), // dim gray
	ProgressBg: lipgloss.Color("#3A3A3A"), // dark gray
}

// Style functions for dynamic theming
func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// progressUpdateMsg carries batch completion counts from the pipeline.
type progressUpdateMsg struct {
	done  int
	total int
}

// runDoneMsg signals the pipeline goroutine has returned.
type runDoneMsg struct {
	err error
}

// progressModel is the bubbletea model for run progress.
type progressModel struct {
	progress progress.Model
	theme    Theme
	cancel   context.CancelFunc

	done     int
	total    int
	finished bool
	quitting bool
	err      error
}

// newProgressModel creates a new progress model.
func newProgressModel(total int, cancel context.CancelFunc) progressModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return progressModel{
		progress: prog,
		theme:    defaultTheme,
		cancel:   cancel,
		total:    total,
	}
}

// Init returns the initial command.
func (m progressModel) Init() tea.Cmd {
	return m.progress.Init()
}

// Update handles messages and returns the updated model.
func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// Cancel the run but keep the UI alive until the pipeline
			// goroutine acknowledges, so workers are not abandoned.
			m.quitting = true
			m.cancel()
			return m, nil
		}

	case progressUpdateMsg:
		m.done = msg.done
		m.total = msg.total
		return m, nil

	case runDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}

	// Update progress bar animation
	var cmd tea.Cmd
	m.progress, cmd = m.progress.Update(msg)
	return m, cmd
}

// View renders the progress display.
func (m progressModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m progressModel) renderContent() string {
	if m.finished {
		return m.finalView()
	}

	var pct float64
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}

	status := m.theme.statusStyle().Render("[generating]")
	if m.quitting {
		status = m.theme.statusStyle().Render("[cancelling]")
	}

	progressBar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d rows", m.done, m.total)
	hint := m.theme.hintStyle().Render("Press Ctrl+C to cancel")

	return fmt.Sprintf("%s %s %s\n%s\n", status, progressBar, counts, hint)
}

// finalView renders the completion message.
func (m progressModel) finalView() string {
	if m.err != nil {
		if m.quitting {
			return m.theme.hintStyle().Render("\nRun cancelled.\n")
		}
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Run failed: %s\n", m.err))
	}
	return m.theme.completedStyle().Render(fmt.Sprintf("✓ Generated %d/%d rows\n", m.done, m.total))
}

// RunWithProgress runs the pipeline with an interactive progress UI.
// run executes on its own goroutine and must report progress through
// the callback it receives; cancel is invoked when the user aborts.
func RunWithProgress(total int, cancel context.CancelFunc, run func(onProgress func(done, total int)) error) error {
	model := newProgressModel(total, cancel)
	p := tea.NewProgram(model)

	go func() {
		err := run(func(done, total int) {
			p.Send(progressUpdateMsg{done: done, total: total})
		})
		p.Send(runDoneMsg{err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("progress UI error: %w", err)
	}

	if m, ok := finalModel.(progressModel); ok {
		return m.err
	}
	return nil
}
