package minimap

import (
	"fmt"

	"canvasmap/internal/geom"
)

// Side names the boundary of a node an edge attaches to.
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// ParseSide validates a side token.
func ParseSide(s string) (Side, error) {
	switch side := Side(s); side {
	case SideLeft, SideRight, SideTop, SideBottom:
		return side, nil
	}
	return "", fmt.Errorf("%w: unknown edge side %q", ErrInvalidArgument, s)
}

// Horizontal reports whether edges leaving this side bend horizontally.
func (s Side) Horizontal() bool {
	return s == SideLeft || s == SideRight
}

// Anchor returns the midpoint of the given side of n.
func Anchor(n Node, side Side) (geom.Vector2, error) {
	center := geom.Vec(n.X+n.Width/2, n.Y+n.Height/2)
	switch side {
	case SideLeft:
		return center.Sub(geom.Vec(n.Width/2, 0)), nil
	case SideRight:
		return center.Add(geom.Vec(n.Width/2, 0)), nil
	case SideTop:
		return center.Sub(geom.Vec(0, n.Height/2)), nil
	case SideBottom:
		return center.Add(geom.Vec(0, n.Height/2)), nil
	}
	return geom.Vector2{}, fmt.Errorf("%w: unknown edge side %q on node %s", ErrInvalidArgument, side, n.ID)
}
