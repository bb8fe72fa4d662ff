package geom

import "math"

// Box is an axis-aligned bounding box in diagram space.
//
// A box is valid only when MinX < MaxX and MinY < MaxY. The zero Box and any
// inverted box are the recognized "no content yet" state and must not be
// used as a projection source.
type Box struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// EmptyBox returns the accumulator used before any point has been added.
// Expanding it by a single point yields a zero-area, still invalid box.
func EmptyBox() Box {
	return Box{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// BoxFromRect builds a box from a top-left corner and a size.
func BoxFromRect(x, y, width, height float64) Box {
	return Box{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}

func (b Box) IsValid() bool {
	return b.MinX < b.MaxX && b.MinY < b.MaxY
}

func (b Box) Width() float64 {
	return b.MaxX - b.MinX
}

func (b Box) Height() float64 {
	return b.MaxY - b.MinY
}

func (b Box) Center() Vector2 {
	return Vector2{X: b.MinX + b.Width()/2, Y: b.MinY + b.Height()/2}
}

// Corner returns the top-left corner.
func (b Box) Corner() Vector2 {
	return Vector2{X: b.MinX, Y: b.MinY}
}

// Contains is inclusive on all four edges.
func (b Box) Contains(p Vector2) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// ContainsBox reports whether o lies entirely inside b.
func (b Box) ContainsBox(o Box) bool {
	return o.MinX >= b.MinX && o.MaxX <= b.MaxX && o.MinY >= b.MinY && o.MaxY <= b.MaxY
}

// ExpandPoint grows b so that it includes p.
func (b Box) ExpandPoint(p Vector2) Box {
	return Box{
		MinX: math.Min(b.MinX, p.X),
		MinY: math.Min(b.MinY, p.Y),
		MaxX: math.Max(b.MaxX, p.X),
		MaxY: math.Max(b.MaxY, p.Y),
	}
}

// Union returns the smallest box covering both operands. An invalid operand
// contributes nothing.
func (b Box) Union(o Box) Box {
	if !o.IsValid() {
		return b
	}
	if !b.IsValid() {
		return o
	}
	return Box{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Grow moves every edge outward by margin.
func (b Box) Grow(margin float64) Box {
	return Box{
		MinX: b.MinX - margin,
		MinY: b.MinY - margin,
		MaxX: b.MaxX + margin,
		MaxY: b.MaxY + margin,
	}
}
