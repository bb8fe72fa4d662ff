// Package minimap renders a clickable overview of a node-and-edge diagram.
//
// A Session is attached to one diagram view through the Host adapter. On
// setup and on every content change it aggregates the node bounds, projects
// them onto a fixed-size surface and builds a Scene (groups, leaves, edges
// and a viewport overlay). Viewport changes and ticks only move the overlay.
// Clicks on the surface are resolved to the nearest containing shape and
// turned into a pan or zoom of the host view.
//
// Scenes can be encoded as SVG (WriteSVG), raster images (Rasterize) or a
// character grid for terminal display (CellGrid).
package minimap
