package minimap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvasmap/internal/geom"
)

func renderFor(t *testing.T, settings Settings, nodes ...Node) (*Scene, BoxLookup) {
	t.Helper()
	scene, err := Render(Aggregate(nodes, settings.Margin), nil, settings)
	require.NoError(t, err)
	boxes := make(map[string]geom.Box)
	for _, n := range nodes {
		boxes[n.ID] = n.Box()
	}
	return scene, func(id string) (geom.Box, bool) {
		b, ok := boxes[id]
		return b, ok
	}
}

func clickAt(scene *Scene, p geom.Vector2, modifier bool) Click {
	s := scene.Projection.ToSurface(p)
	return Click{X: s.X, Y: s.Y, Modifier: modifier}
}

func TestResolveZoomScenario(t *testing.T) {
	settings := testSettings()
	settings.PrimaryStrategy = StrategyZoom
	host := newFakeHost(leaf("a", 0, 0, 100, 50))
	scene, lookup := renderFor(t, settings, host.nodes...)

	d := Resolve(scene, clickAt(scene, geom.Vec(5, 5), false), lookup, settings)
	require.True(t, d.Hit())
	assert.Equal(t, "a", d.NodeID)
	assert.Equal(t, StrategyZoom, d.Strategy)

	assert.True(t, Dispatch(host, d))
	require.Len(t, host.fitted, 1)
	assert.Equal(t, geom.BoxFromRect(0, 0, 100, 50), host.fitted[0])
	assert.Empty(t, host.centered)
}

func TestResolveOutsideContentIsNoop(t *testing.T) {
	settings := testSettings()
	host := newFakeHost(leaf("a", 0, 0, 100, 50))
	scene, lookup := renderFor(t, settings, host.nodes...)

	// the 400x300 surface letterboxes 120x70 content vertically
	for _, c := range []Click{{X: 200, Y: 1}, {X: 200, Y: 299}, {X: -5, Y: 150}, {X: 405, Y: 150}} {
		d := Resolve(scene, c, lookup, settings)
		assert.False(t, d.Hit())
		assert.Equal(t, StrategyNone, d.Strategy)
		assert.False(t, Dispatch(host, d))
	}
	assert.Empty(t, host.fitted)
	assert.Empty(t, host.centered)
}

func TestResolveInsideContentButOnNoShape(t *testing.T) {
	settings := testSettings()
	scene, lookup := renderFor(t, settings, leaf("a", 0, 0, 100, 50))

	d := Resolve(scene, clickAt(scene, geom.Vec(-5, -5), false), lookup, settings)
	assert.False(t, d.Hit())
}

func TestResolvePrefersNearestCorner(t *testing.T) {
	settings := testSettings()
	scene, lookup := renderFor(t, settings,
		group("g", 0, 0, 200, 200, "outer"),
		leaf("inner", 50, 50, 50, 50),
	)

	d := Resolve(scene, clickAt(scene, geom.Vec(60, 60), false), lookup, settings)
	assert.Equal(t, "inner", d.NodeID)

	d = Resolve(scene, clickAt(scene, geom.Vec(10, 10), false), lookup, settings)
	assert.Equal(t, "g", d.NodeID)
}

func TestResolveTieFirstSeenWins(t *testing.T) {
	settings := testSettings()
	scene, lookup := renderFor(t, settings,
		leaf("first", 0, 0, 100, 100),
		leaf("second", 0, 0, 100, 100),
	)

	for i := 0; i < 5; i++ {
		d := Resolve(scene, clickAt(scene, geom.Vec(40, 40), false), lookup, settings)
		assert.Equal(t, "first", d.NodeID)
	}
}

func TestResolveStrategyByModifier(t *testing.T) {
	settings := testSettings()
	settings.PrimaryStrategy = StrategyPan
	settings.SecondaryStrategy = StrategyZoom
	host := newFakeHost(leaf("a", 0, 0, 100, 50))
	scene, lookup := renderFor(t, settings, host.nodes...)

	d := Resolve(scene, clickAt(scene, geom.Vec(50, 25), false), lookup, settings)
	assert.Equal(t, StrategyPan, d.Strategy)
	Dispatch(host, d)
	require.Len(t, host.centered, 1)
	assert.Equal(t, geom.Vec(50, 25), host.centered[0])

	d = Resolve(scene, clickAt(scene, geom.Vec(50, 25), true), lookup, settings)
	assert.Equal(t, StrategyZoom, d.Strategy)

	settings.SecondaryStrategy = StrategyNone
	d = Resolve(scene, clickAt(scene, geom.Vec(50, 25), true), lookup, settings)
	assert.True(t, d.Hit())
	assert.False(t, Dispatch(host, d))
	assert.Len(t, host.centered, 1)
	assert.Empty(t, host.fitted)
}

func TestResolveIgnoresOverlay(t *testing.T) {
	settings := testSettings()
	scene, lookup := renderFor(t, settings, leaf("a", 0, 0, 100, 50))
	UpdateOverlay(scene, geom.Box{MinX: -10, MinY: -10, MaxX: 110, MaxY: 60})

	d := Resolve(scene, clickAt(scene, geom.Vec(105, 55), false), lookup, settings)
	assert.False(t, d.Hit())
}

func TestResolveSkipsShapesWithoutSourceNode(t *testing.T) {
	settings := testSettings()
	scene, _ := renderFor(t, settings, leaf("a", 0, 0, 100, 50))

	d := Resolve(scene, clickAt(scene, geom.Vec(5, 5), false), func(string) (geom.Box, bool) {
		return geom.Box{}, false
	}, settings)
	assert.False(t, d.Hit())
}
