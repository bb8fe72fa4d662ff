package minimap

import "canvasmap/internal/geom"

// Content is the result of one aggregation pass over the node set.
type Content struct {
	// Bounds covers every node plus the margin. It stays invalid when there
	// are no nodes.
	Bounds geom.Box
	Groups []Node
	Leaves []Node
}

// Aggregate scans nodes once, computing the content bounds and splitting
// groups from leaves. Order within each list follows the input order.
func Aggregate(nodes []Node, margin float64) Content {
	c := Content{Bounds: geom.EmptyBox()}
	for _, n := range nodes {
		c.Bounds = c.Bounds.
			ExpandPoint(geom.Vec(n.X, n.Y)).
			ExpandPoint(geom.Vec(n.X+n.Width, n.Y)).
			ExpandPoint(geom.Vec(n.X, n.Y+n.Height)).
			ExpandPoint(geom.Vec(n.X+n.Width, n.Y+n.Height))

		if n.Kind == KindGroup {
			c.Groups = append(c.Groups, n)
		} else {
			c.Leaves = append(c.Leaves, n)
		}
	}

	if len(nodes) == 0 {
		c.Bounds = geom.Box{}
		return c
	}
	c.Bounds = c.Bounds.Grow(margin)
	return c
}

// index maps node IDs to nodes for edge resolution.
func (c Content) index() map[string]Node {
	idx := make(map[string]Node, len(c.Groups)+len(c.Leaves))
	for _, n := range c.Groups {
		idx[n.ID] = n
	}
	for _, n := range c.Leaves {
		idx[n.ID] = n
	}
	return idx
}
