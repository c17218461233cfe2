// Package viz renders a running simulation in the terminal.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/callumhay/mpm-go/internal/metrics"
	"github.com/callumhay/mpm-go/internal/mpm"
)

const (
	canvasWidth     = 64
	canvasHeight    = 28
	historyCapacity = 400
	frameRate       = 30
)

// shades orders density glyphs from empty to crowded.
var shades = []rune(" .:-=+*#%@")

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	canvasStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Padding(0, 2).Width(32)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).MarginTop(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps a simulation on a timer and draws the particle cloud
// projected onto the x/y plane.
type Model struct {
	build        func() *mpm.Simulation
	sim          *mpm.Simulation
	scene        string
	dt           float64
	stepsPerTick int
	running      bool

	energy        *metrics.KineticEnergy
	speed         *metrics.SpeedStats
	energyHistory []float64
}

// NewModel builds a live view. build must return a freshly seeded
// simulation; it is reinvoked on reset.
func NewModel(scene string, dt float64, stepsPerTick int, build func() *mpm.Simulation) Model {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	return Model{
		build:         build,
		sim:           build(),
		scene:         scene,
		dt:            dt,
		stepsPerTick:  stepsPerTick,
		running:       true,
		energy:        metrics.NewKineticEnergy(),
		speed:         metrics.NewSpeedStats(),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.sim = m.build()
			m.energy.Reset()
			m.speed.Reset()
			m.energyHistory = m.energyHistory[:0]
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerTick; i++ {
				m.sim.Step(m.dt)
			}
			m.energy.Observe(m.sim.Particles(), m.sim.Time())
			m.speed.Observe(m.sim.Particles(), m.sim.Time())
			m.energyHistory = append(m.energyHistory, m.energy.Value())
			if len(m.energyHistory) > historyCapacity {
				m.energyHistory = m.energyHistory[1:]
			}
		}
		return m, tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("mpm live — %s", m.scene))
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.renderCanvas()),
		statsStyle.Render(m.renderStats()),
	)

	var graph string
	if len(m.energyHistory) > 1 {
		graph = graphStyle.Render(asciigraph.Plot(m.energyHistory,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy"),
		))
	}

	help := helpStyle.Render("space pause · r reset · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, graph, help)
}

// renderCanvas bins particles into a rune grid over the grid's x/y
// extent, shading by occupancy.
func (m Model) renderCanvas() string {
	lo, hi := m.sim.Grid().MinCorner(), m.sim.Grid().MaxCorner()
	spanX := hi.X() - lo.X()
	spanY := hi.Y() - lo.Y()

	counts := make([]int, canvasWidth*canvasHeight)
	maxCount := 0
	for _, p := range m.sim.Particles() {
		cx := int((p.Pos.X() - lo.X()) / spanX * canvasWidth)
		cy := int((hi.Y() - p.Pos.Y()) / spanY * canvasHeight)
		if cx < 0 || cx >= canvasWidth || cy < 0 || cy >= canvasHeight {
			continue
		}
		counts[cy*canvasWidth+cx]++
		if counts[cy*canvasWidth+cx] > maxCount {
			maxCount = counts[cy*canvasWidth+cx]
		}
	}

	var b strings.Builder
	for y := 0; y < canvasHeight; y++ {
		for x := 0; x < canvasWidth; x++ {
			n := counts[y*canvasWidth+x]
			if n == 0 || maxCount == 0 {
				b.WriteRune(' ')
				continue
			}
			shade := n * (len(shades) - 1) / maxCount
			if shade < 1 {
				shade = 1
			}
			b.WriteRune(shades[shade])
		}
		if y < canvasHeight-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) renderStats() string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}
	status := "running"
	if !m.running {
		status = "paused"
	}
	dims := m.sim.Grid().Size()
	lines := []string{
		row("status", status),
		row("time", fmt.Sprintf("%.2fs", m.sim.Time())),
		row("steps", fmt.Sprintf("%d", m.sim.StepCount())),
		row("particles", fmt.Sprintf("%d", len(m.sim.Particles()))),
		row("grid", fmt.Sprintf("%dx%dx%d", dims.X, dims.Y, dims.Z)),
		row("energy", fmt.Sprintf("%.4f", m.energy.Value())),
		row("mean speed", fmt.Sprintf("%.4f", m.speed.Value())),
	}
	return strings.Join(lines, "\n")
}

// Run starts the live view and blocks until the user quits.
func Run(scene string, dt float64, stepsPerTick int, build func() *mpm.Simulation) error {
	_, err := tea.NewProgram(NewModel(scene, dt, stepsPerTick, build)).Run()
	return err
}
