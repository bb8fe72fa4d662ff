package main

import (
	"math"

	"canvasmap/internal/geom"
)

// View is the main viewport: which diagram point sits in the middle of the
// screen and how many screen cells a diagram unit takes.
type View struct {
	Center geom.Vector2
	Zoom   float64
	Cols   int
	Rows   int
}

func NewView(cols, rows int) View {
	return View{Zoom: 1, Cols: cols, Rows: rows}
}

func (v View) unitsPerCol() float64 {
	return cellWidth / v.Zoom
}

func (v View) unitsPerRow() float64 {
	return cellHeight / v.Zoom
}

// Region is the diagram-space rectangle currently on screen.
func (v View) Region() geom.Box {
	w := float64(v.Cols) * v.unitsPerCol()
	h := float64(v.Rows) * v.unitsPerRow()
	return geom.BoxFromRect(v.Center.X-w/2, v.Center.Y-h/2, w, h)
}

// ToScreen maps a diagram point to the cell containing it.
func (v View) ToScreen(p geom.Vector2) (col, row int) {
	r := v.Region()
	col = int(math.Floor((p.X - r.MinX) / v.unitsPerCol()))
	row = int(math.Floor((p.Y - r.MinY) / v.unitsPerRow()))
	return col, row
}

// ToDiagram maps the centre of a cell back to the diagram.
func (v View) ToDiagram(col, row int) geom.Vector2 {
	r := v.Region()
	return geom.Vec(
		r.MinX+(float64(col)+0.5)*v.unitsPerCol(),
		r.MinY+(float64(row)+0.5)*v.unitsPerRow(),
	)
}

func (v *View) CenterOn(p geom.Vector2) {
	v.Center = p
}

// FitTo centres b and picks the largest zoom that shows all of it.
func (v *View) FitTo(b geom.Box) {
	if !b.IsValid() {
		return
	}
	v.Center = b.Center()
	if v.Cols <= 0 || v.Rows <= 0 {
		return
	}
	zx := float64(v.Cols) * cellWidth / b.Width()
	zy := float64(v.Rows) * cellHeight / b.Height()
	v.setZoom(math.Min(zx, zy))
}

// Pan moves the view by whole cells.
func (v *View) Pan(cols, rows int) {
	v.Center = v.Center.Add(geom.Vec(float64(cols)*v.unitsPerCol(), float64(rows)*v.unitsPerRow()))
}

func (v *View) ZoomBy(factor float64) {
	v.setZoom(v.Zoom * factor)
}

func (v *View) setZoom(z float64) {
	v.Zoom = math.Max(minZoom, math.Min(maxZoom, z))
}

func (v *View) Resize(cols, rows int) {
	v.Cols, v.Rows = cols, rows
}

// handleNavigation moves the current view and tells its minimap.
func (m *model) handleNavigation(key string, speed int) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return
	}
	switch key {
	case "h", "left", "H", "shift+left":
		buf.view.Pan(-speed, 0)
	case "l", "right", "L", "shift+right":
		buf.view.Pan(speed, 0)
	case "k", "up", "K", "shift+up":
		buf.view.Pan(0, -speed)
	case "j", "down", "J", "shift+down":
		buf.view.Pan(0, speed)
	case "+", "=":
		buf.view.ZoomBy(zoomStep)
	case "-", "_":
		buf.view.ZoomBy(1 / zoomStep)
	case "0":
		buf.view.FitTo(buf.canvas.Bounds())
	default:
		return
	}
	buf.host.viewportChanged()
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return fastPanCells
	default:
		return panCells
	}
}
