package minimap

import "canvasmap/internal/geom"

// Click is a press on the overview surface, in surface pixels.
type Click struct {
	X        float64
	Y        float64
	Modifier bool
}

// BoxLookup returns the current diagram bounds of a node.
type BoxLookup func(nodeID string) (geom.Box, bool)

// Decision is the outcome of resolving a click. Strategy is StrategyNone
// whenever nothing should happen.
type Decision struct {
	Strategy Strategy
	NodeID   string
	Target   geom.Box
	Point    geom.Vector2
}

// Hit reports whether the decision selected a shape.
func (d Decision) Hit() bool {
	return d.NodeID != ""
}

// Resolve maps a click to a navigation decision. It only reads its inputs.
//
// Among the shapes containing the click, the one whose node box corner is
// nearest wins; a later candidate replaces the current one only on a
// strictly smaller distance, so the first one seen wins ties.
func Resolve(scene *Scene, click Click, lookup BoxLookup, settings Settings) Decision {
	none := Decision{Strategy: StrategyNone}
	if scene == nil {
		return none
	}

	p := scene.Projection.ToContent(click.X, click.Y)
	none.Point = p
	if !scene.Projection.Content.Contains(p) {
		return none
	}

	var (
		best     Decision
		bestDist float64
		found    bool
	)
	consider := func(shapes []Shape) {
		for _, sh := range shapes {
			if !sh.Box.Contains(p) {
				continue
			}
			box, ok := lookup(sh.NodeID)
			if !ok {
				continue
			}
			d := box.Corner().Sub(p).LengthSquared()
			if !found || d < bestDist {
				best = Decision{NodeID: sh.NodeID, Target: box, Point: p}
				bestDist = d
				found = true
			}
		}
	}
	consider(scene.Groups)
	consider(scene.Leaves)

	if !found {
		return none
	}
	best.Strategy = settings.Strategy(click.Modifier)
	return best
}

// Dispatch performs the navigation a decision asks for.
func Dispatch(nav Navigator, d Decision) bool {
	if !d.Hit() {
		return false
	}
	switch d.Strategy {
	case StrategyPan:
		nav.CenterOn(d.Target.Center())
		return true
	case StrategyZoom:
		nav.FitTo(d.Target)
		return true
	}
	return false
}
