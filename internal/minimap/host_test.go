package minimap

import (
	"time"

	"canvasmap/internal/geom"
)

// fakeHost is an in-memory diagram with a fixed visible region.
type fakeHost struct {
	nodes  []Node
	edges  []Edge
	region geom.Box

	nodesErr  error
	regionErr error
	nodeReads int

	centered []geom.Vector2
	fitted   []geom.Box

	listeners map[int]Listener
	nextID    int
}

func newFakeHost(nodes ...Node) *fakeHost {
	return &fakeHost{
		nodes:     nodes,
		region:    geom.BoxFromRect(0, 0, 50, 25),
		listeners: make(map[int]Listener),
	}
}

func (h *fakeHost) Nodes() ([]Node, error) {
	h.nodeReads++
	if h.nodesErr != nil {
		return nil, h.nodesErr
	}
	return h.nodes, nil
}

func (h *fakeHost) Edges() ([]Edge, error) {
	return h.edges, nil
}

func (h *fakeHost) VisibleRegion() (geom.Box, error) {
	if h.regionErr != nil {
		return geom.Box{}, h.regionErr
	}
	return h.region, nil
}

func (h *fakeHost) CenterOn(p geom.Vector2) {
	h.centered = append(h.centered, p)
}

func (h *fakeHost) FitTo(b geom.Box) {
	h.fitted = append(h.fitted, b)
}

func (h *fakeHost) Subscribe(l Listener) func() {
	id := h.nextID
	h.nextID++
	h.listeners[id] = l
	return func() { delete(h.listeners, id) }
}

func leaf(id string, x, y, w, h float64) Node {
	return Node{ID: id, X: x, Y: y, Width: w, Height: h, Kind: KindLeaf}
}

func group(id string, x, y, w, h float64, label string) Node {
	return Node{ID: id, X: x, Y: y, Width: w, Height: h, Kind: KindGroup, Label: label}
}

func testSettings() Settings {
	s := DefaultSettings()
	s.Width = 400
	s.Height = 300
	s.Margin = 10
	return s
}

// testClock is a manually advanced clock.
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *testClock) Now() time.Time {
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}
