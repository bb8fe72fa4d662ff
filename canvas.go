package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"canvasmap/internal/geom"
	"canvasmap/internal/minimap"
)

// Canvas is an in-memory JSON Canvas document. Coordinates are diagram
// units, the same space the minimap works in.
type Canvas struct {
	boxes       []Box
	connections []Connection
}

type Box struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Group  bool
	Lines  []string
}

func (b Box) GetText() string {
	return strings.Join(b.Lines, "\n")
}

func (b Box) rect() geom.Box {
	return geom.BoxFromRect(b.X, b.Y, b.Width, b.Height)
}

func (b Box) center() geom.Vector2 {
	return geom.Vec(b.X+b.Width/2, b.Y+b.Height/2)
}

type Connection struct {
	ID       string
	FromID   string
	ToID     string
	FromSide minimap.Side
	ToSide   minimap.Side
}

// on-disk shapes
type canvasFile struct {
	Nodes []canvasNode `json:"nodes"`
	Edges []canvasEdge `json:"edges"`
}

type canvasNode struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label,omitempty"`
	Text   string  `json:"text,omitempty"`
	File   string  `json:"file,omitempty"`
	URL    string  `json:"url,omitempty"`
}

type canvasEdge struct {
	ID       string `json:"id"`
	FromNode string `json:"fromNode"`
	FromSide string `json:"fromSide,omitempty"`
	ToNode   string `json:"toNode"`
	ToSide   string `json:"toSide,omitempty"`
}

func NewCanvas() *Canvas {
	return &Canvas{
		boxes:       []Box{},
		connections: []Connection{},
	}
}

// LoadFromFile replaces the canvas contents with the document at filename.
// On error the canvas is left untouched.
func (c *Canvas) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	loaded, err := ParseCanvas(file)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	*c = *loaded
	return nil
}

// ParseCanvas decodes a JSON Canvas document. Edges without explicit sides
// get them from the relative position of their endpoints.
func ParseCanvas(r io.Reader) (*Canvas, error) {
	var doc canvasFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding canvas: %w", err)
	}

	c := NewCanvas()
	for _, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node without id")
		}
		c.boxes = append(c.boxes, Box{
			ID:     n.ID,
			X:      n.X,
			Y:      n.Y,
			Width:  n.Width,
			Height: n.Height,
			Group:  n.Type == "group",
			Lines:  strings.Split(nodeLabel(n), "\n"),
		})
	}

	for _, e := range doc.Edges {
		conn := Connection{ID: e.ID, FromID: e.FromNode, ToID: e.ToNode}
		inferredFrom, inferredTo := c.calculateConnectionSides(e.FromNode, e.ToNode)

		var err error
		if conn.FromSide, err = edgeSide(e.FromSide, inferredFrom); err != nil {
			return nil, fmt.Errorf("edge %s: %w", e.ID, err)
		}
		if conn.ToSide, err = edgeSide(e.ToSide, inferredTo); err != nil {
			return nil, fmt.Errorf("edge %s: %w", e.ID, err)
		}
		c.connections = append(c.connections, conn)
	}
	return c, nil
}

func nodeLabel(n canvasNode) string {
	switch {
	case n.Label != "":
		return n.Label
	case n.Text != "":
		return n.Text
	case n.File != "":
		return n.File
	default:
		return n.URL
	}
}

func edgeSide(raw string, inferred minimap.Side) (minimap.Side, error) {
	if raw == "" {
		return inferred, nil
	}
	return minimap.ParseSide(raw)
}

func (c *Canvas) findBox(id string) (Box, bool) {
	for _, b := range c.boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}

// calculateConnectionSides picks the facing sides of two boxes along the
// axis where their centres are further apart. Unknown ids fall back to
// right/left.
func (c *Canvas) calculateConnectionSides(fromID, toID string) (from, to minimap.Side) {
	fromBox, ok1 := c.findBox(fromID)
	toBox, ok2 := c.findBox(toID)
	if !ok1 || !ok2 {
		return minimap.SideRight, minimap.SideLeft
	}

	fc, tc := fromBox.center(), toBox.center()
	if math.Abs(fc.X-tc.X) > math.Abs(fc.Y-tc.Y) {
		if fc.X < tc.X {
			return minimap.SideRight, minimap.SideLeft
		}
		return minimap.SideLeft, minimap.SideRight
	}
	if fc.Y < tc.Y {
		return minimap.SideBottom, minimap.SideTop
	}
	return minimap.SideTop, minimap.SideBottom
}

// GetBoxAt returns the index of the topmost leaf containing p, falling back
// to the topmost group, or -1.
func (c *Canvas) GetBoxAt(p geom.Vector2) int {
	group := -1
	for i := len(c.boxes) - 1; i >= 0; i-- {
		if !c.boxes[i].rect().Contains(p) {
			continue
		}
		if !c.boxes[i].Group {
			return i
		}
		if group == -1 {
			group = i
		}
	}
	return group
}

// Bounds is the union of all boxes, invalid for an empty canvas.
func (c *Canvas) Bounds() geom.Box {
	b := geom.EmptyBox()
	for _, box := range c.boxes {
		b = b.Union(box.rect())
	}
	return b
}

// Nodes converts the boxes for the minimap.
func (c *Canvas) Nodes() []minimap.Node {
	nodes := make([]minimap.Node, 0, len(c.boxes))
	for _, b := range c.boxes {
		kind := minimap.KindLeaf
		if b.Group {
			kind = minimap.KindGroup
		}
		nodes = append(nodes, minimap.Node{
			ID:     b.ID,
			X:      b.X,
			Y:      b.Y,
			Width:  b.Width,
			Height: b.Height,
			Kind:   kind,
			Label:  b.Lines[0],
		})
	}
	return nodes
}

func (c *Canvas) Edges() []minimap.Edge {
	edges := make([]minimap.Edge, 0, len(c.connections))
	for _, conn := range c.connections {
		edges = append(edges, minimap.Edge{
			ID:         conn.ID,
			FromNodeID: conn.FromID,
			ToNodeID:   conn.ToID,
			FromSide:   conn.FromSide,
			ToSide:     conn.ToSide,
		})
	}
	return edges
}

// Render draws the part of the canvas seen through view as text rows.
// Groups come first so leaves and connections overwrite them.
func (c *Canvas) Render(view View) []string {
	width, height := view.Cols, view.Rows
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, box := range c.boxes {
		if box.Group {
			c.drawBoxAt(canvas, box, view)
		}
	}
	for _, conn := range c.connections {
		c.drawConnection(canvas, conn, view)
	}
	for _, box := range c.boxes {
		if !box.Group {
			c.drawBoxAt(canvas, box, view)
		}
	}

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func (c *Canvas) drawBoxAt(canvas [][]rune, box Box, view View) {
	corner, horizontal, vertical := '+', '-', '|'
	if box.Group {
		corner, horizontal, vertical = '·', '·', '·'
	}

	boxX, boxY := view.ToScreen(geom.Vec(box.X, box.Y))
	right, bottom := view.ToScreen(geom.Vec(box.X+box.Width, box.Y+box.Height))
	right--
	bottom--
	if right <= boxX {
		right = boxX + 1
	}
	if bottom <= boxY {
		bottom = boxY + 1
	}

	for y := max(boxY, 0); y <= min(bottom, len(canvas)-1); y++ {
		for x := max(boxX, 0); x <= min(right, len(canvas[y])-1); x++ {
			switch {
			case (y == boxY || y == bottom) && (x == boxX || x == right):
				canvas[y][x] = corner
			case y == boxY || y == bottom:
				canvas[y][x] = horizontal
			case x == boxX || x == right:
				canvas[y][x] = vertical
			case !box.Group:
				canvas[y][x] = ' '
			}
		}
	}

	// groups carry their label on the top border
	textY := boxY + 1
	if box.Group {
		textY = boxY
	}
	maxWidth := right - boxX - 1
	for lineIdx, line := range box.Lines {
		y := textY + lineIdx
		if y >= bottom || (box.Group && lineIdx > 0) || maxWidth <= 0 {
			break
		}
		displayText := []rune(line)
		if len(displayText) > maxWidth {
			displayText = displayText[:maxWidth]
		}
		for i, char := range displayText {
			if c.isValidPos(canvas, boxX+1+i, y) {
				canvas[y][boxX+1+i] = char
			}
		}
	}
}

// drawConnection walks a straight line between the two anchors and ends it
// with an arrow pointing into the target side.
func (c *Canvas) drawConnection(canvas [][]rune, conn Connection, view View) {
	fromBox, ok1 := c.findBox(conn.FromID)
	toBox, ok2 := c.findBox(conn.ToID)
	if !ok1 || !ok2 {
		return
	}
	from, err := minimap.Anchor(fromBox.node(), conn.FromSide)
	if err != nil {
		return
	}
	to, err := minimap.Anchor(toBox.node(), conn.ToSide)
	if err != nil {
		return
	}

	x0, y0 := view.ToScreen(from)
	x0, y0 = outside(x0, y0, conn.FromSide)
	x1, y1 := view.ToScreen(to)
	x1, y1 = outside(x1, y1, conn.ToSide)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if c.isValidPos(canvas, x0, y0) {
			canvas[y0][x0] = '.'
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
	if c.isValidPos(canvas, x1, y1) {
		canvas[y1][x1] = arrowInto(conn.ToSide)
	}
}

// outside nudges an anchor cell off the box border. Left and top anchors
// land on the border itself; right and bottom ones are already past it.
func outside(col, row int, side minimap.Side) (int, int) {
	switch side {
	case minimap.SideLeft:
		return col - 1, row
	case minimap.SideTop:
		return col, row - 1
	}
	return col, row
}

func arrowInto(side minimap.Side) rune {
	switch side {
	case minimap.SideLeft:
		return '>'
	case minimap.SideRight:
		return '<'
	case minimap.SideTop:
		return 'v'
	default:
		return '^'
	}
}

func (b Box) node() minimap.Node {
	return minimap.Node{ID: b.ID, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

func (c *Canvas) isValidPos(canvas [][]rune, x, y int) bool {
	return y >= 0 && y < len(canvas) && x >= 0 && x < len(canvas[0])
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
