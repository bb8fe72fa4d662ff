package minimap

import (
	"math"
	"strings"

	"canvasmap/internal/geom"
)

// CellRole records which layer last drew a cell, for colouring.
type CellRole uint8

const (
	CellEmpty CellRole = iota
	CellGroup
	CellNode
	CellEdge
	CellViewport
)

type Cell struct {
	Rune rune
	Role CellRole
}

// Grid is the scene rendered onto a character grid covering the surface.
// Each cell stands for a CellW x CellH block of surface pixels.
type Grid struct {
	Cols  int
	Rows  int
	CellW float64
	CellH float64
	Cells [][]Cell

	proj Projection
}

// CellGrid renders the scene in the same back-to-front order as the other
// encoders.
func CellGrid(scene *Scene, cols, rows int) (*Grid, error) {
	if scene == nil {
		return nil, ErrEmptyContent
	}
	if cols <= 0 || rows <= 0 {
		return nil, ErrInvalidArgument
	}

	g := &Grid{
		Cols:  cols,
		Rows:  rows,
		CellW: scene.Projection.SurfaceW / float64(cols),
		CellH: scene.Projection.SurfaceH / float64(rows),
		Cells: make([][]Cell, rows),
		proj:  scene.Projection,
	}
	for r := range g.Cells {
		g.Cells[r] = make([]Cell, cols)
		for c := range g.Cells[r] {
			g.Cells[r][c] = Cell{Rune: ' ', Role: CellEmpty}
		}
	}

	for _, sh := range scene.Groups {
		g.fillBox(sh.Box, '░', CellGroup)
	}
	for _, sh := range scene.Leaves {
		g.fillBox(sh.Box, '█', CellNode)
	}

	steps := 2 * (cols + rows)
	for _, e := range scene.Edges {
		for i := 0; i <= steps; i++ {
			c, r := g.cellAt(e.Point(float64(i) / float64(steps)))
			g.set(c, r, '·', CellEdge)
		}
	}

	if o := scene.Overlay; o.Visible && o.Width > 0 && o.Height > 0 {
		g.drawFrame(o.Box())
	}
	return g, nil
}

// CellCenter returns the surface pixel at the middle of a cell.
func (g *Grid) CellCenter(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * g.CellW, (float64(row) + 0.5) * g.CellH
}

func (g *Grid) Lines() []string {
	lines := make([]string, g.Rows)
	var sb strings.Builder
	for r, row := range g.Cells {
		sb.Reset()
		for _, cell := range row {
			sb.WriteRune(cell.Rune)
		}
		lines[r] = sb.String()
	}
	return lines
}

func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}

func (g *Grid) cellAt(v geom.Vector2) (int, int) {
	s := g.proj.ToSurface(v)
	return int(math.Floor(s.X / g.CellW)), int(math.Floor(s.Y / g.CellH))
}

func (g *Grid) isValidPos(c, r int) bool {
	return r >= 0 && r < g.Rows && c >= 0 && c < g.Cols
}

func (g *Grid) set(c, r int, ch rune, role CellRole) {
	if g.isValidPos(c, r) {
		g.Cells[r][c] = Cell{Rune: ch, Role: role}
	}
}

func (g *Grid) fillBox(b geom.Box, ch rune, role CellRole) {
	c0, r0 := g.cellAt(b.Corner())
	c1, r1 := g.cellAt(geom.Vec(b.MaxX, b.MaxY))
	for r := max(r0, 0); r <= min(r1, g.Rows-1); r++ {
		for c := max(c0, 0); c <= min(c1, g.Cols-1); c++ {
			g.Cells[r][c] = Cell{Rune: ch, Role: role}
		}
	}
}

// drawFrame outlines b, clipped to the grid.
func (g *Grid) drawFrame(b geom.Box) {
	c0, r0 := g.cellAt(b.Corner())
	c1, r1 := g.cellAt(geom.Vec(b.MaxX, b.MaxY))
	if c1 < 0 || r1 < 0 || c0 >= g.Cols || r0 >= g.Rows {
		return
	}
	c0, r0 = max(c0, 0), max(r0, 0)
	c1, r1 = min(c1, g.Cols-1), min(r1, g.Rows-1)

	for c := c0; c <= c1; c++ {
		g.set(c, r0, '─', CellViewport)
		g.set(c, r1, '─', CellViewport)
	}
	for r := r0; r <= r1; r++ {
		g.set(c0, r, '│', CellViewport)
		g.set(c1, r, '│', CellViewport)
	}
	g.set(c0, r0, '┌', CellViewport)
	g.set(c1, r0, '┐', CellViewport)
	g.set(c0, r1, '└', CellViewport)
	g.set(c1, r1, '┘', CellViewport)
}
