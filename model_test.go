package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvasmap/internal/geom"
	"canvasmap/internal/minimap"
)

func testModel(t *testing.T) model {
	t.Helper()
	s := minimap.DefaultSettings()
	s.RedrawInterval = 0
	s.SetupDebounce = 0
	return newModel(nil, s, nil, minimap.NewMetrics(nil))
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func press(t *testing.T, m model, k string) model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func TestBufferSwitchMovesTheSession(t *testing.T) {
	m := testModel(t)
	m.addNewBuffer(sampleCanvas(t), "one.canvas")
	m.addNewBuffer(NewCanvas(), "two.canvas")
	first, second := m.buffers[0], m.buffers[1]

	assert.Equal(t, 1, m.currentBufferIndex)
	assert.Equal(t, minimap.StateAbsent, first.session.State())
	assert.Equal(t, minimap.StateActive, second.session.State())
	// an empty diagram is active but has nothing to draw
	assert.Nil(t, second.session.Scene())
	assert.False(t, second.session.ContentBounds().IsValid())

	m.cycleBuffer(1)
	assert.Equal(t, 0, m.currentBufferIndex)
	assert.Equal(t, minimap.StateActive, first.session.State())
	assert.Equal(t, minimap.StateAbsent, second.session.State())
	require.NotNil(t, first.session.Scene())
	assert.Len(t, first.host.listeners, 1)
	assert.Empty(t, second.host.listeners)

	m.cycleBuffer(-1)
	assert.Equal(t, 1, m.currentBufferIndex)
	assert.Equal(t, minimap.StateAbsent, first.session.State())
}

func TestClickOnMinimapNavigates(t *testing.T) {
	m := testModel(t)
	m.addNewBuffer(sampleCanvas(t), "board.canvas")
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	buf := m.getCurrentBuffer()

	scene := buf.session.Scene()
	require.NotNil(t, scene)
	grid := m.panelGrid(buf)
	require.NotNil(t, grid)

	// aim at the centre of leaf b
	p := scene.Projection.ToSurface(geom.Vec(460, 300))
	col, row := int(p.X/grid.CellW), int(p.Y/grid.CellH)
	x0, y0, ok := m.panelOrigin()
	require.True(t, ok)
	click := tea.MouseMsg{
		X:      x0 + 1 + col,
		Y:      y0 + 1 + row,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}

	m = update(t, m, click)
	assert.Equal(t, geom.Vec(460, 300), buf.view.Center)
	assert.Contains(t, m.successMessage, "b")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.Navigations.WithLabelValues("pan")))

	click.Alt = true
	m = update(t, m, click)
	assert.Equal(t, geom.Vec(460, 300), buf.view.Center)
	// 39 rows * 16 / 80 is tighter than 120 cols * 8 / 120
	assert.InDelta(t, 7.8, buf.view.Zoom, 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.Navigations.WithLabelValues("zoom")))

	// clicks outside the panel leave the view alone
	before := buf.view
	m = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, before, buf.view)

	m = press(t, m, "x")
	assert.Contains(t, m.View(), "@ notes/b.md")
}

func TestPanUpdatesOverlay(t *testing.T) {
	m := testModel(t)
	m.addNewBuffer(sampleCanvas(t), "board.canvas")
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	buf := m.getCurrentBuffer()

	overlays := testutil.ToFloat64(m.metrics.OverlayUpdates)
	center := buf.view.Center
	m = press(t, m, "l")

	assert.Greater(t, buf.view.Center.X, center.X)
	assert.Equal(t, center.Y, buf.view.Center.Y)
	assert.Equal(t, overlays+1, testutil.ToFloat64(m.metrics.OverlayUpdates))
	assert.Equal(t, buf.view.Region().MinX, buf.session.Scene().Overlay.X)
}

func TestPanelGridIsReusedBetweenFrames(t *testing.T) {
	m := testModel(t)
	m.addNewBuffer(sampleCanvas(t), "board.canvas")
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	buf := m.getCurrentBuffer()

	_ = m.View()
	grid := buf.panel.grid
	require.NotNil(t, grid)
	m = update(t, m, tickMsg{})
	_ = m.View()
	assert.Same(t, grid, buf.panel.grid)

	// clicks map cells without rendering
	x, y := m.panelCellCenter(3, 4)
	gx, gy := grid.CellCenter(3, 4)
	assert.InDelta(t, gx, x, 1e-9)
	assert.InDelta(t, gy, y, 1e-9)

	// moving the viewport changes the overlay
	m = press(t, m, "l")
	_ = m.View()
	assert.NotSame(t, grid, buf.panel.grid)
}

func TestToggleMinimap(t *testing.T) {
	m := testModel(t)
	m.addNewBuffer(sampleCanvas(t), "board.canvas")
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	buf := m.getCurrentBuffer()
	assert.Contains(t, m.View(), "╭")

	m = press(t, m, "m")
	assert.False(t, m.settings.Enabled)
	assert.Equal(t, minimap.StateAbsent, buf.session.State())
	assert.NotContains(t, m.View(), "╭")
	assert.Contains(t, m.View(), "minimap off")

	m = press(t, m, "m")
	assert.True(t, m.settings.Enabled)
	assert.Equal(t, minimap.StateActive, buf.session.State())
	assert.NotNil(t, buf.session.Scene())
}

func TestSwitchSideAndViewportFrame(t *testing.T) {
	m := testModel(t)
	m.addNewBuffer(sampleCanvas(t), "board.canvas")
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	buf := m.getCurrentBuffer()

	x, _, ok := m.panelOrigin()
	require.True(t, ok)
	assert.Equal(t, 120-42, x)

	m = press(t, m, "s")
	assert.Equal(t, minimap.PlacementLeft, m.settings.Placement)
	x, _, _ = m.panelOrigin()
	assert.Equal(t, 0, x)
	assert.Equal(t, minimap.StateActive, buf.session.State())

	m = press(t, m, "v")
	assert.False(t, m.settings.DrawActiveViewport)
	assert.False(t, buf.session.Scene().Overlay.Visible)
}

func TestPanelDoesNotFitSmallTerminal(t *testing.T) {
	m := testModel(t)
	m.addNewBuffer(sampleCanvas(t), "board.canvas")
	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})

	_, _, ok := m.panelOrigin()
	assert.False(t, ok)
	assert.NotContains(t, m.View(), "╭")
}

func TestFileChangeReloadsBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.canvas")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0644))

	c := NewCanvas()
	require.NoError(t, c.LoadFromFile(path))
	m := testModel(t)
	m.addNewBuffer(c, path)
	buf := m.getCurrentBuffer()
	require.Len(t, buf.session.Scene().Leaves, 3)

	grown := strings.Replace(sampleDocument, `"nodes": [`,
		`"nodes": [{"id": "d", "type": "text", "x": 900, "y": 900, "width": 50, "height": 50, "text": "new"},`, 1)
	require.NoError(t, os.WriteFile(path, []byte(grown), 0644))

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	m = update(t, m, fileChangedMsg{path: abs})

	assert.Empty(t, m.errorMessage)
	assert.Len(t, buf.session.Scene().Leaves, 4)

	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": [`), 0644))
	m = update(t, m, fileChangedMsg{path: abs})
	assert.NotEmpty(t, m.errorMessage)
	assert.Len(t, buf.session.Scene().Leaves, 4)
}

func TestExportKey(t *testing.T) {
	m := testModel(t)
	m.config.SaveDirectory = t.TempDir()
	m.addNewBuffer(sampleCanvas(t), "charts/board.canvas")

	m = press(t, m, "e")
	require.Empty(t, m.errorMessage)
	assert.FileExists(t, filepath.Join(m.config.SaveDirectory, "board-minimap.png"))
}

func TestExportScene(t *testing.T) {
	m := testModel(t)
	m.addNewBuffer(sampleCanvas(t), "board.canvas")
	scene := m.getCurrentBuffer().session.Scene()
	dir := t.TempDir()

	svgPath := filepath.Join(dir, "map.svg")
	require.NoError(t, exportScene(scene, svgPath, 40, 15))
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("<svg ")))

	txtPath := filepath.Join(dir, "map.txt")
	require.NoError(t, exportScene(scene, txtPath, 40, 15))
	data, err = os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimRight(string(data), "\n"), "\n"), 15)

	err = exportScene(nil, filepath.Join(dir, "none.svg"), 40, 15)
	assert.True(t, errors.Is(err, minimap.ErrEmptyContent))
	assert.NoFileExists(t, filepath.Join(dir, "none.svg"))
}

func TestExportFormatFor(t *testing.T) {
	assert.Equal(t, ExportPNG, exportFormatFor("a.PNG"))
	assert.Equal(t, ExportTXT, exportFormatFor("dir/a.txt"))
	assert.Equal(t, ExportSVG, exportFormatFor("a.svg"))
	assert.Equal(t, ExportSVG, exportFormatFor("noext"))
}

func TestHelpToggle(t *testing.T) {
	m := testModel(t)
	m.addNewBuffer(sampleCanvas(t), "board.canvas")

	m = press(t, m, "?")
	assert.True(t, m.help)
	assert.Contains(t, m.View(), "toggle minimap")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.help)
}

func TestTickKeepsTicking(t *testing.T) {
	m := testModel(t)
	m.addNewBuffer(sampleCanvas(t), "board.canvas")
	_, cmd := m.Update(tickMsg{})
	assert.NotNil(t, cmd)
}

func TestCanvasHost(t *testing.T) {
	buf := &Buffer{view: View{Zoom: 1}}
	h := newCanvasHost(buf)

	_, err := h.Nodes()
	assert.ErrorIs(t, err, errNoCanvas)
	_, err = h.Edges()
	assert.ErrorIs(t, err, errNoCanvas)
	_, err = h.VisibleRegion()
	assert.ErrorIs(t, err, errNoView)

	buf.canvas = sampleCanvas(t)
	buf.view.Resize(10, 10)
	nodes, err := h.Nodes()
	require.NoError(t, err)
	assert.Len(t, nodes, 4)
	region, err := h.VisibleRegion()
	require.NoError(t, err)
	assert.Equal(t, buf.view.Region(), region)

	calls := &countingListener{}
	unsubscribe := h.Subscribe(calls)
	h.CenterOn(geom.Vec(5, 5))
	h.FitTo(geom.BoxFromRect(0, 0, 100, 100))
	h.contentChanged()
	h.resized()
	h.tick()
	assert.Equal(t, countingListener{content: 1, viewport: 2, resize: 1, tick: 1}, *calls)

	unsubscribe()
	h.tick()
	assert.Equal(t, 1, calls.tick)
}

type countingListener struct {
	content, viewport, resize, tick int
}

func (c *countingListener) OnContentChanged()  { c.content++ }
func (c *countingListener) OnViewportChanged() { c.viewport++ }
func (c *countingListener) OnResize()          { c.resize++ }
func (c *countingListener) OnTick()            { c.tick++ }
