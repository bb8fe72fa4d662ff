package minimap

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"canvasmap/internal/geom"
)

const arrowSize = 6.0

// Rasterize draws the scene onto an image the size of the surface. Points
// are projected one by one, so stroke widths and label sizes are in pixels.
func Rasterize(scene *Scene) (image.Image, error) {
	if scene == nil {
		return nil, ErrEmptyContent
	}
	p := scene.Projection
	st := scene.Style

	dc := gg.NewContext(int(math.Ceil(p.SurfaceW)), int(math.Ceil(p.SurfaceH)))
	dc.SetHexColor(st.Background)
	dc.Clear()

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    st.LabelSize * p.Scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetLineWidth(1)

	for _, g := range scene.Groups {
		drawRect(dc, p, g.Box)
		dc.SetHexColor(st.GroupFill)
		dc.FillPreserve()
		dc.SetHexColor(st.GroupStroke)
		dc.Stroke()
		if g.Label != "" {
			at := p.ToSurface(g.Box.Corner())
			dc.SetHexColor(st.FontColor)
			dc.DrawString(g.Label, at.X+2, at.Y-2)
		}
	}

	dc.SetHexColor(st.NodeFill)
	for _, n := range scene.Leaves {
		drawRect(dc, p, n.Box)
		dc.Fill()
	}

	dc.SetHexColor(st.GroupStroke)
	for _, e := range scene.Edges {
		from, c1, c2, to := p.ToSurface(e.From), p.ToSurface(e.C1), p.ToSurface(e.C2), p.ToSurface(e.To)
		dc.MoveTo(from.X, from.Y)
		dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, to.X, to.Y)
		dc.Stroke()

		tail := c2
		if tail == to {
			tail = from
		}
		drawArrow(dc, tail, to)
	}

	if o := scene.Overlay; o.Visible && o.Width > 0 && o.Height > 0 {
		drawRect(dc, p, o.Box())
		dc.SetHexColor(st.OverlayFill)
		dc.FillPreserve()
		dc.SetHexColor(st.OverlayStroke)
		dc.SetLineWidth(2)
		dc.Stroke()
	}

	return dc.Image(), nil
}

// RasterizePNG writes the rasterized scene as PNG.
func RasterizePNG(w io.Writer, scene *Scene) error {
	img, err := Rasterize(scene)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func drawRect(dc *gg.Context, p Projection, b geom.Box) {
	tl := p.ToSurface(b.Corner())
	dc.DrawRectangle(tl.X, tl.Y, b.Width()*p.Scale, b.Height()*p.Scale)
}

// drawArrow fills a small triangle at tip pointing away from tail.
func drawArrow(dc *gg.Context, tail, tip geom.Vector2) {
	dir := tip.Sub(tail)
	length := dir.Length()
	if length < 0.1 {
		return
	}
	dx, dy := dir.X/length, dir.Y/length

	spread := 0.5
	baseX1 := tip.X - arrowSize*dx + arrowSize*dy*spread
	baseY1 := tip.Y - arrowSize*dy - arrowSize*dx*spread
	baseX2 := tip.X - arrowSize*dx - arrowSize*dy*spread
	baseY2 := tip.Y - arrowSize*dy + arrowSize*dx*spread

	dc.MoveTo(tip.X, tip.Y)
	dc.LineTo(baseX1, baseY1)
	dc.LineTo(baseX2, baseY2)
	dc.ClosePath()
	dc.Fill()
}
