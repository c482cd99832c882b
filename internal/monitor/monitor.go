// Package monitor is a live terminal view of a running Crucible: current
// stage, time scale, and rolling graphs of max joint speed and max
// strain, driven by a bubbletea program ticking at the host frame rate.
package monitor

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/beautiful-code/crucible/internal/crucible"
)

const historyCapacity = 300

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// TickMsg drives one animation frame.
type TickMsg time.Time

// Model is the bubbletea model wrapping a live Crucible.
type Model struct {
	cr  *crucible.Crucible
	fps float64

	running bool

	speedHistory  []float64
	strainHistory []float64

	lastStage string
	frames    uint64
}

// NewModel wraps cr for live display at the given target frame rate.
func NewModel(cr *crucible.Crucible, fps float64) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		cr:            cr,
		fps:           fps,
		running:       true,
		speedHistory:  make([]float64, 0, historyCapacity),
		strainHistory: make([]float64, 0, historyCapacity),
		lastStage:     cr.CurrentStage().String(),
	}
}

func (m Model) Init() tea.Cmd {
	return tick(m.fps)
}

func tick(fps float64) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update implements tea.Model: on each tick it advances the Crucible by
// round(target_time_scale * 20000 / fps) sub-steps so simulated time
// tracks the stage's time scale regardless of frame cadence, records
// telemetry, and reports the frame over the Crucible's own radio.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "p":
			m.cr.RequestPhysicsTesting()
		case "b":
			m.cr.RequestRebuild()
		}
		return m, nil
	case TickMsg:
		if m.running {
			subSteps := uint32(0)
			if scale := m.cr.TargetTimeScale(); scale > 0 {
				subSteps = uint32(scale*20000/float32(m.fps) + 0.5)
			}
			if subSteps > 0 {
				m.cr.Iterate(subSteps)
			}
			m.cr.ReportFrame(m.fps)
			m.frames++

			fab := m.cr.Fabric()
			m.speedHistory = appendCapped(m.speedHistory, float64(fab.MaxJointSpeed()), historyCapacity)
			m.strainHistory = appendCapped(m.strainHistory, float64(fab.MaxStrain()), historyCapacity)
			m.lastStage = m.cr.CurrentStage().String()
		}
		return m, tick(m.fps)
	}
	return m, nil
}

func appendCapped(series []float64, v float64, capacity int) []float64 {
	series = append(series, v)
	if len(series) > capacity {
		series = series[len(series)-capacity:]
	}
	return series
}

// View implements tea.Model.
func (m Model) View() string {
	fab := m.cr.Fabric()

	header := headerStyle.Render("crucible monitor")
	stats := fmt.Sprintf("%s%s\n%s%s\n%s%.1fx\n%s%d\n%s%d\n%s%.6f\n%s%.6f",
		labelStyle.Render("stage"), valueStyle.Render(m.lastStage),
		labelStyle.Render("frame"), valueStyle.Render(fmt.Sprintf("%d", m.frames)),
		labelStyle.Render("time scale"), m.cr.TargetTimeScale(),
		labelStyle.Render("age"), fab.Age,
		labelStyle.Render("joints"), len(fab.Joints),
		labelStyle.Render("max speed"), fab.MaxJointSpeed(),
		labelStyle.Render("max strain"), fab.MaxStrain(),
	)

	var speedGraph, strainGraph string
	if len(m.speedHistory) > 1 {
		speedGraph = asciigraph.Plot(m.speedHistory, asciigraph.Height(4), asciigraph.Width(50), asciigraph.Caption("max joint speed"))
	}
	if len(m.strainHistory) > 1 {
		strainGraph = asciigraph.Plot(m.strainHistory, asciigraph.Height(4), asciigraph.Width(50), asciigraph.Caption("max strain"))
	}

	help := helpStyle.Render("space: pause   p: enter physics test   b: rebuild   q: quit")

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n\n%s",
		header, stats, graphStyle.Render(speedGraph), graphStyle.Render(strainGraph), help)
}
