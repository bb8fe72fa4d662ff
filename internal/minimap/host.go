package minimap

import "canvasmap/internal/geom"

// Kind separates group containers from leaf nodes. Groups are drawn behind
// leaves; no parent/child structure is implied.
type Kind int

const (
	KindLeaf Kind = iota
	KindGroup
)

func (k Kind) String() string {
	if k == KindGroup {
		return "group"
	}
	return "leaf"
}

// Node is a read-only snapshot of one diagram element.
type Node struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Kind   Kind
	Label  string
}

// Box returns the node's diagram-space bounds.
func (n Node) Box() geom.Box {
	return geom.BoxFromRect(n.X, n.Y, n.Width, n.Height)
}

// Edge links two nodes through named sides.
type Edge struct {
	ID         string
	FromNodeID string
	ToNodeID   string
	FromSide   Side
	ToSide     Side
}

// Navigator is the subset of the host used to move the main view.
type Navigator interface {
	CenterOn(p geom.Vector2)
	FitTo(b geom.Box)
}

// Host is the narrow adapter the engine reads the diagram through. Read
// methods may fail when the underlying view goes away mid-event; the
// engine aborts the current handler and waits for the next notification.
type Host interface {
	Navigator
	Nodes() ([]Node, error)
	Edges() ([]Edge, error)
	VisibleRegion() (geom.Box, error)
}

// Listener receives host notifications. Session implements it.
type Listener interface {
	OnContentChanged()
	OnViewportChanged()
	OnResize()
	OnTick()
}

// Observable is implemented by hosts that can push notifications. The
// returned func detaches the listener.
type Observable interface {
	Subscribe(l Listener) (unsubscribe func())
}
