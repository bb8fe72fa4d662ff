package main

import (
	"errors"

	"canvasmap/internal/geom"
	"canvasmap/internal/minimap"
)

var (
	errNoCanvas = errors.New("buffer has no canvas")
	errNoView   = errors.New("view has no size yet")
)

// canvasHost exposes one buffer to its minimap session and fans buffer
// events out to subscribed listeners.
type canvasHost struct {
	buf       *Buffer
	listeners map[int]minimap.Listener
	nextID    int
}

func newCanvasHost(buf *Buffer) *canvasHost {
	return &canvasHost{buf: buf, listeners: make(map[int]minimap.Listener)}
}

func (h *canvasHost) Nodes() ([]minimap.Node, error) {
	if h.buf.canvas == nil {
		return nil, errNoCanvas
	}
	return h.buf.canvas.Nodes(), nil
}

func (h *canvasHost) Edges() ([]minimap.Edge, error) {
	if h.buf.canvas == nil {
		return nil, errNoCanvas
	}
	return h.buf.canvas.Edges(), nil
}

func (h *canvasHost) VisibleRegion() (geom.Box, error) {
	if h.buf.view.Cols <= 0 || h.buf.view.Rows <= 0 {
		return geom.Box{}, errNoView
	}
	return h.buf.view.Region(), nil
}

func (h *canvasHost) CenterOn(p geom.Vector2) {
	h.buf.view.CenterOn(p)
	h.viewportChanged()
}

func (h *canvasHost) FitTo(b geom.Box) {
	h.buf.view.FitTo(b)
	h.viewportChanged()
}

func (h *canvasHost) Subscribe(l minimap.Listener) func() {
	id := h.nextID
	h.nextID++
	h.listeners[id] = l
	return func() {
		delete(h.listeners, id)
	}
}

func (h *canvasHost) contentChanged() {
	for _, l := range h.listeners {
		l.OnContentChanged()
	}
}

func (h *canvasHost) viewportChanged() {
	for _, l := range h.listeners {
		l.OnViewportChanged()
	}
}

func (h *canvasHost) resized() {
	for _, l := range h.listeners {
		l.OnResize()
	}
}

func (h *canvasHost) tick() {
	for _, l := range h.listeners {
		l.OnTick()
	}
}
