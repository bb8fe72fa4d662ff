package minimap

import (
	"fmt"
	"math"

	"canvasmap/internal/geom"
)

// Projection maps content bounds onto a W x H surface with a single uniform
// scale. Content is centered along the axis with slack, the same placement
// as an SVG viewBox with preserveAspectRatio="xMidYMid meet".
type Projection struct {
	Content  geom.Box
	SurfaceW float64
	SurfaceH float64
	Scale    float64
	OffsetX  float64
	OffsetY  float64
}

// NewProjection fails with ErrEmptyContent for invalid bounds instead of
// dividing by a zero extent.
func NewProjection(content geom.Box, w, h float64) (Projection, error) {
	if !content.IsValid() {
		return Projection{}, ErrEmptyContent
	}
	if w <= 0 || h <= 0 {
		return Projection{}, fmt.Errorf("%w: surface size %gx%g", ErrInvalidArgument, w, h)
	}
	s := math.Min(w/content.Width(), h/content.Height())
	return Projection{
		Content:  content,
		SurfaceW: w,
		SurfaceH: h,
		Scale:    s,
		OffsetX:  (w - content.Width()*s) / 2,
		OffsetY:  (h - content.Height()*s) / 2,
	}, nil
}

// ToSurface converts a diagram point to surface pixels.
func (p Projection) ToSurface(v geom.Vector2) geom.Vector2 {
	return geom.Vec(
		p.OffsetX+(v.X-p.Content.MinX)*p.Scale,
		p.OffsetY+(v.Y-p.Content.MinY)*p.Scale,
	)
}

// ToContent is the inverse of ToSurface.
func (p Projection) ToContent(px, py float64) geom.Vector2 {
	return geom.Vec(
		p.Content.MinX+(px-p.OffsetX)/p.Scale,
		p.Content.MinY+(py-p.OffsetY)/p.Scale,
	)
}

// Shape is a drawn group or leaf rectangle. NodeID is the only thing the
// hit tester reads back.
type Shape struct {
	NodeID string
	Kind   Kind
	Box    geom.Box
	Label  string
}

// EdgePath is a cubic curve from an anchor of one node to an anchor of another.
type EdgePath struct {
	EdgeID     string
	From       geom.Vector2
	C1         geom.Vector2
	C2         geom.Vector2
	To         geom.Vector2
	Horizontal bool
}

// Overlay is the visible-region rectangle, in diagram coordinates.
type Overlay struct {
	Visible bool
	X       float64
	Y       float64
	Width   float64
	Height  float64
}

func (o Overlay) Box() geom.Box {
	return geom.BoxFromRect(o.X, o.Y, o.Width, o.Height)
}

// Style carries the colours and sizes resolved for one scene. Sizes are in
// diagram units so they look constant on the surface.
type Style struct {
	Background    string
	GroupFill     string
	GroupStroke   string
	NodeFill      string
	FontColor     string
	OverlayFill   string
	OverlayStroke string
	LabelSize     float64
	StrokeWidth   float64
}

// Scene is the whole drawn tree of the overview, back to front: background,
// groups, leaves, edges, overlay.
type Scene struct {
	Projection Projection
	Style      Style
	Groups     []Shape
	Leaves     []Shape
	Edges      []EdgePath
	Overlay    Overlay

	// SkippedEdges counts edges whose endpoints were not in the node set.
	SkippedEdges int
}

// Render builds a new scene. It fails with ErrEmptyContent when the content
// bounds are invalid and with ErrInvalidArgument when an edge names an
// unknown side.
func Render(content Content, edges []Edge, settings Settings) (*Scene, error) {
	proj, err := NewProjection(content.Bounds, settings.Width, settings.Height)
	if err != nil {
		return nil, err
	}

	scene := &Scene{
		Projection: proj,
		Style: Style{
			Background:    settings.BackgroundColor,
			GroupFill:     settings.GroupColor,
			GroupStroke:   groupStroke,
			NodeFill:      settings.NodeColor,
			FontColor:     settings.FontColor,
			OverlayFill:   overlayFill,
			OverlayStroke: overlayStroke,
			LabelSize:     settings.FontSize / proj.Scale,
			StrokeWidth:   1 / proj.Scale,
		},
		Groups:  make([]Shape, 0, len(content.Groups)),
		Leaves:  make([]Shape, 0, len(content.Leaves)),
		Edges:   make([]EdgePath, 0, len(edges)),
		Overlay: Overlay{Visible: settings.DrawActiveViewport},
	}

	for _, n := range content.Groups {
		scene.Groups = append(scene.Groups, Shape{NodeID: n.ID, Kind: KindGroup, Box: n.Box(), Label: n.Label})
	}
	for _, n := range content.Leaves {
		scene.Leaves = append(scene.Leaves, Shape{NodeID: n.ID, Kind: KindLeaf, Box: n.Box()})
	}

	idx := content.index()
	for _, e := range edges {
		from, okFrom := idx[e.FromNodeID]
		to, okTo := idx[e.ToNodeID]
		if !okFrom || !okTo {
			scene.SkippedEdges++
			continue
		}
		path, err := edgePath(e, from, to)
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", e.ID, err)
		}
		scene.Edges = append(scene.Edges, path)
	}

	return scene, nil
}

func edgePath(e Edge, from, to Node) (EdgePath, error) {
	fromPos, err := Anchor(from, e.FromSide)
	if err != nil {
		return EdgePath{}, err
	}
	toPos, err := Anchor(to, e.ToSide)
	if err != nil {
		return EdgePath{}, err
	}

	p := EdgePath{EdgeID: e.ID, From: fromPos, To: toPos, Horizontal: e.FromSide.Horizontal()}
	if p.Horizontal {
		half := (toPos.X - fromPos.X) / 2
		p.C1 = geom.Vec(fromPos.X+half, fromPos.Y)
		p.C2 = geom.Vec(toPos.X-half, toPos.Y)
	} else {
		half := (toPos.Y - fromPos.Y) / 2
		p.C1 = geom.Vec(fromPos.X, fromPos.Y+half)
		p.C2 = geom.Vec(toPos.X, toPos.Y-half)
	}
	return p, nil
}

// Point evaluates the curve at t in [0, 1].
func (p EdgePath) Point(t float64) geom.Vector2 {
	u := 1 - t
	return p.From.Scale(u * u * u).
		Add(p.C1.Scale(3 * u * u * t)).
		Add(p.C2.Scale(3 * u * t * t)).
		Add(p.To.Scale(t * t * t))
}
