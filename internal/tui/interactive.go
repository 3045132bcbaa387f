package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quentik/flowlab/internal/brush"
	"github.com/quentik/flowlab/internal/config"
	"github.com/quentik/flowlab/internal/fluid"
	"github.com/quentik/flowlab/internal/viz"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type tickMsg time.Time

func frame() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	solver *fluid.Solver
	brush  *brush.Brush
	cfg    *config.Config

	cursorX, cursorY int
	paused           bool
	ticks            int
	maxSeen          float64
	err              error
}

// NewInteractive builds the interactive brush mode from a scenario
// config. The solver starts empty; all smoke comes from the user.
func NewInteractive(cfg *config.Config) (tea.Model, error) {
	s, err := fluid.New(cfg.SolverParams())
	if err != nil {
		return nil, err
	}
	return model{
		solver:  s,
		brush:   brush.New(cfg.Brush),
		cfg:     cfg,
		cursorX: cfg.N / 2,
		cursorY: cfg.N / 2,
		maxSeen: 1,
	}, nil
}

// RunInteractive blocks inside the Bubble Tea program loop.
func RunInteractive(cfg *config.Config) error {
	m, err := NewInteractive(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m model) Init() tea.Cmd { return frame() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if !m.paused {
			m.solver.Step(fluid.Tick{Iterations: m.cfg.Iterations, Fade: m.cfg.Fade})
			m.ticks++
			n := m.solver.N()
			for j := 1; j <= n; j++ {
				for i := 1; i <= n; i++ {
					if d := m.solver.DensityAt(i, j); d > m.maxSeen {
						m.maxSeen = d
					}
				}
			}
		}
		return m, frame()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "x":
		m.solver.Reset()
		m.ticks = 0
		m.maxSeen = 1
	case "e":
		m.brush.Stroke(m.solver, m.cursorX, m.cursorY, 0, 0)
	case "up", "k":
		m.cursorY--
		m.brush.Stroke(m.solver, m.cursorX, m.cursorY, 0, -6)
	case "down", "j":
		m.cursorY++
		m.brush.Stroke(m.solver, m.cursorX, m.cursorY, 0, 6)
	case "left", "h":
		m.cursorX--
		m.brush.Stroke(m.solver, m.cursorX, m.cursorY, -6, 0)
	case "right", "l":
		m.cursorX++
		m.brush.Stroke(m.solver, m.cursorX, m.cursorY, 6, 0)
	case "[":
		m.cfg.Fade -= 0.002
		if m.cfg.Fade < 0 {
			m.cfg.Fade = 0
		}
	case "]":
		m.cfg.Fade += 0.002
		if m.cfg.Fade > 1 {
			m.cfg.Fade = 1
		}
	case "-":
		if m.cfg.Iterations > 0 {
			m.cfg.Iterations--
		}
	case "+", "=":
		m.cfg.Iterations++
	}

	// Keep the cursor on the interior; injection itself would saturate
	// anyway, but the marker should stay visible.
	n := m.solver.N()
	if m.cursorX < 1 {
		m.cursorX = 1
	}
	if m.cursorX > n {
		m.cursorX = n
	}
	if m.cursorY < 1 {
		m.cursorY = 1
	}
	if m.cursorY > n {
		m.cursorY = n
	}
	return m, nil
}

func (m model) View() string {
	if m.err != nil {
		return errStyle.Render(m.err.Error())
	}

	n := m.solver.N()
	var b strings.Builder

	b.WriteString(titleStyle.Render("flowlab"))
	b.WriteString(dimStyle.Render("  arrows/hjkl push smoke · e emit · space pause · x clear · q quit"))
	b.WriteString("\n")

	mass := 0.0
	for j := 1; j <= n; j++ {
		for i := 1; i <= n; i++ {
			mass += m.solver.DensityAt(i, j)
		}
	}

	b.WriteString(dimStyle.Render("+" + strings.Repeat("-", n) + "+\n"))
	for j := 1; j <= n; j++ {
		b.WriteString(dimStyle.Render("|"))
		for i := 1; i <= n; i++ {
			if i == m.cursorX && j == m.cursorY {
				b.WriteString(cursorStyle.Render("+"))
				continue
			}
			b.WriteByte(viz.Shade(m.solver.DensityAt(i, j), m.maxSeen))
		}
		b.WriteString(dimStyle.Render("|") + "\n")
	}
	b.WriteString(dimStyle.Render("+" + strings.Repeat("-", n) + "+\n"))

	state := "running"
	if m.paused {
		state = "paused"
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf(
		"tick %d · %s · mass %.0f · iters %d · fade %.3f",
		m.ticks, state, mass, m.cfg.Iterations, m.cfg.Fade)))
	b.WriteString("\n")

	return b.String()
}
