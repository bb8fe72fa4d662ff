package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"canvasmap/internal/config"
	"canvasmap/internal/minimap"
)

var (
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

func newModel(cfg *config.Config, settings minimap.Settings, logger *slog.Logger, metrics *minimap.Metrics) model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg == nil {
		cfg = config.FromSettings(settings)
	}
	return model{
		buffers:   []*Buffer{},
		helpModel: help.New(),
		keys:      defaultKeyMap(),
		config:    cfg,
		settings:  settings,
		logger:    logger,
		metrics:   metrics,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpModel.Width = msg.Width
		m.resizeViews()
		return m, nil

	case tickMsg:
		if buf := m.getCurrentBuffer(); buf != nil {
			buf.host.tick()
		}
		return m, tickCmd()

	case fileChangedMsg:
		if err := m.reloadFile(msg.path); err != nil {
			m.errorMessage = err.Error()
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	if m.help {
		if key.Matches(msg, m.keys.Help, m.keys.Quit) || msg.String() == "esc" {
			m.help = false
		}
		return m, nil
	}

	buf := m.getCurrentBuffer()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help = true
	case key.Matches(msg, m.keys.Pan, m.keys.FastPan, m.keys.Zoom, m.keys.Fit):
		k := msg.String()
		m.handleNavigation(k, m.getMoveSpeed(k))
	case key.Matches(msg, m.keys.NextBuffer):
		m.cycleBuffer(1)
	case key.Matches(msg, m.keys.PrevBuffer):
		m.cycleBuffer(-1)
	case key.Matches(msg, m.keys.Toggle):
		s := m.settings
		s.Enabled = !s.Enabled
		m.applySettings(s)
	case key.Matches(msg, m.keys.Side):
		s := m.settings
		s.Placement = minimap.PlacementLeft
		if m.settings.Placement == minimap.PlacementLeft {
			s.Placement = minimap.PlacementRight
		}
		m.applySettings(s)
	case key.Matches(msg, m.keys.Viewport):
		s := m.settings
		s.DrawActiveViewport = !s.DrawActiveViewport
		m.applySettings(s)
	case key.Matches(msg, m.keys.Reload):
		if buf != nil {
			buf.session.Reload()
			m.successMessage = "Minimap reloaded"
		}
	case key.Matches(msg, m.keys.Copy):
		if buf == nil {
			break
		}
		if err := copyMinimapSVG(buf.session); err != nil {
			m.errorMessage = fmt.Sprintf("Copy failed: %v", err)
		} else {
			m.successMessage = "Minimap SVG copied to clipboard"
		}
	case key.Matches(msg, m.keys.Export):
		path, err := m.exportMinimap()
		if err != nil {
			m.errorMessage = fmt.Sprintf("Export failed: %v", err)
		} else {
			m.successMessage = "Exported " + path
		}
	}
	return m, nil
}

// applySettings hands new settings to the current session and keeps them
// for buffers switched to later. Turning the minimap on sets up the
// current buffer's surface.
func (m *model) applySettings(s minimap.Settings) {
	if buf := m.getCurrentBuffer(); buf != nil {
		if err := buf.session.ApplySettings(s); err != nil {
			m.errorMessage = err.Error()
			return
		}
		if s.Enabled && buf.session.State() == minimap.StateAbsent {
			buf.session.Setup()
		}
	}
	m.settings = s
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return
	}
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		col, row, ok := m.panelCell(msg.X, msg.Y)
		if !ok {
			return
		}
		x, y := m.panelCellCenter(col, row)
		d := buf.session.HandleClick(x, y, msg.Alt || msg.Ctrl)
		if d.Hit() {
			m.successMessage = fmt.Sprintf("%s to %s", d.Strategy, d.NodeID)
		}
	case msg.Button == tea.MouseButtonWheelUp:
		buf.view.ZoomBy(zoomStep)
		buf.host.viewportChanged()
	case msg.Button == tea.MouseButtonWheelDown:
		buf.view.ZoomBy(1 / zoomStep)
		buf.host.viewportChanged()
	}
}

func (m *model) resizeViews() {
	cols, rows := m.mainViewSize()
	for _, buf := range m.buffers {
		buf.view.Resize(cols, rows)
	}
	if buf := m.getCurrentBuffer(); buf != nil {
		buf.host.resized()
	}
}

func (m *model) showBufferBar() bool {
	return len(m.buffers) > 1
}

// mainViewSize is the diagram area: everything but the buffer bar and the
// status line.
func (m *model) mainViewSize() (int, int) {
	if m.width <= 0 || m.height <= 0 {
		return defaultCols, defaultRows
	}
	rows := m.height - 1
	if m.showBufferBar() {
		rows--
	}
	return max(m.width, 1), max(rows, 1)
}

// panelSize is the minimap surface in cells, borders excluded.
func (m *model) panelSize() (int, int) {
	cols := int(m.settings.Width / cellWidth)
	rows := int(m.settings.Height / cellHeight)
	return max(cols, 1), max(rows, 1)
}

// panelOrigin returns the outer top-left corner of the panel inside the
// main view, or false when the panel does not fit.
func (m *model) panelOrigin() (int, int, bool) {
	cols, rows := m.panelSize()
	mainCols, mainRows := m.mainViewSize()
	outerW, outerH := cols+2, rows+2
	if outerW > mainCols || outerH > mainRows {
		return 0, 0, false
	}
	x := 0
	if m.settings.Placement == minimap.PlacementRight {
		x = mainCols - outerW
	}
	return x, mainRows - outerH, true
}

// panelCell maps a terminal position to a cell of the minimap surface.
func (m *model) panelCell(x, y int) (int, int, bool) {
	buf := m.getCurrentBuffer()
	if buf == nil || buf.session.State() != minimap.StateActive {
		return 0, 0, false
	}
	x0, y0, ok := m.panelOrigin()
	if !ok {
		return 0, 0, false
	}
	if m.showBufferBar() {
		y--
	}
	cols, rows := m.panelSize()
	col, row := x-x0-1, y-y0-1
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return 0, 0, false
	}
	return col, row, true
}

// panelCellCenter is the surface position under the middle of a panel cell.
func (m *model) panelCellCenter(col, row int) (float64, float64) {
	cols, rows := m.panelSize()
	cw := m.settings.Width / float64(cols)
	ch := m.settings.Height / float64(rows)
	return (float64(col) + 0.5) * cw, (float64(row) + 0.5) * ch
}

// panelGrid returns the cell rendering of the buffer's scene. It is rebuilt
// only when the scene, its overlay or the panel size changed.
func (m *model) panelGrid(buf *Buffer) *minimap.Grid {
	scene := buf.session.Scene()
	if scene == nil {
		buf.panel = panelCache{}
		return nil
	}
	cols, rows := m.panelSize()
	key := panelCache{scene: scene, overlay: scene.Overlay, cols: cols, rows: rows}
	if buf.panel.grid != nil && buf.panel.sameKey(key) {
		return buf.panel.grid
	}
	grid, err := minimap.CellGrid(scene, cols, rows)
	if err != nil {
		buf.panel = panelCache{}
		return nil
	}
	key.grid = grid
	buf.panel = key
	return grid
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	buf := m.getCurrentBuffer()
	if buf == nil {
		return ""
	}

	var result strings.Builder
	if m.showBufferBar() {
		result.WriteString(m.renderBufferBar())
		result.WriteString("\n")
	}

	lines := buf.canvas.Render(buf.view)
	m.drawPanel(lines, buf)
	result.WriteString(strings.Join(lines, "\n"))
	result.WriteString("\n")
	result.WriteString(m.statusLine(buf))
	return result.String()
}

// drawPanel splices the bordered minimap into the rendered main view.
func (m *model) drawPanel(lines []string, buf *Buffer) {
	if buf.session.State() != minimap.StateActive {
		return
	}
	x0, y0, ok := m.panelOrigin()
	if !ok {
		return
	}
	cols, rows := m.panelSize()
	panel := panelStyle.Render(strings.Join(m.panelContent(buf, cols, rows), "\n"))

	for i, pl := range strings.Split(panel, "\n") {
		y := y0 + i
		if y >= len(lines) {
			break
		}
		row := []rune(lines[y])
		if len(row) < x0+cols+2 {
			continue
		}
		lines[y] = string(row[:x0]) + pl + string(row[x0+cols+2:])
	}
}

func (m *model) panelContent(buf *Buffer, cols, rows int) []string {
	bg := lipgloss.NewStyle().Background(termColor(m.settings.BackgroundColor))
	grid := m.panelGrid(buf)
	if grid == nil {
		out := make([]string, rows)
		for i := range out {
			out[i] = bg.Render(strings.Repeat(" ", cols))
		}
		msg := "(empty)"
		if len(msg) <= cols {
			pad := (cols - len(msg)) / 2
			out[rows/2] = bg.Render(strings.Repeat(" ", pad) + msg + strings.Repeat(" ", cols-pad-len(msg)))
		}
		return out
	}

	styles := map[minimap.CellRole]lipgloss.Style{
		minimap.CellEmpty:    bg,
		minimap.CellGroup:    bg.Foreground(termColor(m.settings.GroupColor)),
		minimap.CellNode:     bg.Foreground(termColor(m.settings.NodeColor)),
		minimap.CellEdge:     bg.Foreground(lipgloss.Color("245")),
		minimap.CellViewport: bg.Foreground(lipgloss.Color("208")),
	}

	out := make([]string, 0, rows)
	var line, run strings.Builder
	for _, cells := range grid.Cells {
		line.Reset()
		run.Reset()
		role := cells[0].Role
		for _, c := range cells {
			if c.Role != role {
				line.WriteString(styles[role].Render(run.String()))
				run.Reset()
				role = c.Role
			}
			run.WriteRune(c.Rune)
		}
		line.WriteString(styles[role].Render(run.String()))
		out = append(out, line.String())
	}
	return out
}

// termColor drops the alpha channel lipgloss cannot show.
func termColor(hex string) lipgloss.Color {
	if len(hex) == 9 {
		hex = hex[:7]
	}
	return lipgloss.Color(hex)
}

func (m *model) renderBufferBar() string {
	var bar strings.Builder
	bar.WriteString("Open Charts: ")
	for i, buf := range m.buffers {
		if i > 0 {
			bar.WriteString(" | ")
		}
		name := bufferName(buf, i)
		if i == m.currentBufferIndex {
			bar.WriteString(activeTabStyle.Render("[" + name + "]"))
		} else {
			bar.WriteString(name)
		}
	}
	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(bar.String())
}

func (m *model) statusLine(buf *Buffer) string {
	var status string
	switch {
	case m.errorMessage != "":
		status = errorStyle.Render("Error: " + m.errorMessage)
	case m.successMessage != "":
		status = okStyle.Render(m.successMessage)
	default:
		state := "minimap off"
		if buf.session.State() == minimap.StateActive {
			state = "minimap " + string(m.settings.Placement)
		}
		info := fmt.Sprintf("%s  %.0f%%  %s", bufferName(buf, m.currentBufferIndex), buf.view.Zoom*100, state)
		if canvas := m.getCanvas(); canvas != nil {
			if i := canvas.GetBoxAt(buf.view.Center); i >= 0 {
				info += "  @ " + canvas.boxes[i].Lines[0]
			}
		}
		status = statusStyle.Render(info) + "  " + m.helpModel.ShortHelpView(m.keys.ShortHelp())
	}
	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(status)
}

func (m *model) helpView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("canvasmap"))
	b.WriteString("\n\n")
	b.WriteString(m.helpModel.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(subtleStyle.Render("Click the minimap to jump there. Hold alt or ctrl for the secondary action."))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Press ? or esc to close this help."))
	return b.String()
}
