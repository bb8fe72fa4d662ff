package minimap

import "canvasmap/internal/geom"

// UpdateOverlay copies the visible region into the scene's overlay. It is the
// only write made to a scene after Render and costs O(1) regardless of the
// diagram size. It reports whether anything was written.
func UpdateOverlay(scene *Scene, region geom.Box) bool {
	if scene == nil || !scene.Overlay.Visible || !region.IsValid() {
		return false
	}
	scene.Overlay.X = region.MinX
	scene.Overlay.Y = region.MinY
	scene.Overlay.Width = region.Width()
	scene.Overlay.Height = region.Height()
	return true
}
