package minimap

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
)

// ViewportElementID is the id attribute of the overlay rect in SVG output.
const ViewportElementID = "minimap-viewport"

// WriteSVG encodes the scene as a standalone SVG document. Shapes are
// written in diagram coordinates; the viewBox performs the projection.
func WriteSVG(w io.Writer, scene *Scene) error {
	if scene == nil {
		return ErrEmptyContent
	}
	bw := bufio.NewWriter(w)
	p := scene.Projection
	c := p.Content
	st := scene.Style

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s" preserveAspectRatio="xMidYMid meet">`+"\n",
		num(p.SurfaceW), num(p.SurfaceH), num(c.MinX), num(c.MinY), num(c.Width()), num(c.Height()))
	bw.WriteString("  <defs>\n")
	fmt.Fprintf(bw, `    <marker id="minimap-arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n", st.GroupStroke)
	bw.WriteString("  </defs>\n")

	fmt.Fprintf(bw, `  <rect class="minimap-background" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(c.MinX), num(c.MinY), num(c.Width()), num(c.Height()), st.Background)

	bw.WriteString(`  <g class="minimap-groups">` + "\n")
	for _, g := range scene.Groups {
		fmt.Fprintf(bw, `    <rect data-node-id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
			html.EscapeString(g.NodeID), num(g.Box.MinX), num(g.Box.MinY), num(g.Box.Width()), num(g.Box.Height()),
			st.GroupFill, st.GroupStroke, num(st.StrokeWidth))
		if g.Label != "" {
			fmt.Fprintf(bw, `    <text x="%s" y="%s" font-size="%s" fill="%s">%s</text>`+"\n",
				num(g.Box.MinX), num(g.Box.MinY-st.LabelSize/4), num(st.LabelSize), st.FontColor, html.EscapeString(g.Label))
		}
	}
	bw.WriteString("  </g>\n")

	bw.WriteString(`  <g class="minimap-nodes">` + "\n")
	for _, n := range scene.Leaves {
		fmt.Fprintf(bw, `    <rect data-node-id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			html.EscapeString(n.NodeID), num(n.Box.MinX), num(n.Box.MinY), num(n.Box.Width()), num(n.Box.Height()), st.NodeFill)
	}
	bw.WriteString("  </g>\n")

	bw.WriteString(`  <g class="minimap-edges" fill="none">` + "\n")
	for _, e := range scene.Edges {
		fmt.Fprintf(bw, `    <path d="M %s %s C %s %s, %s %s, %s %s" stroke="%s" stroke-width="%s" marker-end="url(#minimap-arrow)"/>`+"\n",
			num(e.From.X), num(e.From.Y), num(e.C1.X), num(e.C1.Y), num(e.C2.X), num(e.C2.Y), num(e.To.X), num(e.To.Y),
			st.GroupStroke, num(st.StrokeWidth))
	}
	bw.WriteString("  </g>\n")

	if scene.Overlay.Visible {
		o := scene.Overlay
		fmt.Fprintf(bw, `  <rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
			ViewportElementID, num(o.X), num(o.Y), num(o.Width), num(o.Height), st.OverlayFill, st.OverlayStroke, num(2*st.StrokeWidth))
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
