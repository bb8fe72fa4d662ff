package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"canvasmap/internal/minimap"
)

func (m *model) getCurrentBuffer() *Buffer {
	if len(m.buffers) == 0 {
		return nil
	}
	return m.buffers[m.currentBufferIndex]
}

func (m *model) getCanvas() *Canvas {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.canvas
	}
	return nil
}

func (m *model) sessionOptions() []minimap.Option {
	return []minimap.Option{
		minimap.WithLogger(m.logger),
		minimap.WithMetrics(m.metrics),
	}
}

// newBuffer wraps canvas in a buffer whose view is fitted to the diagram.
// The session starts absent.
func newBuffer(canvas *Canvas, filename string, cols, rows int, settings minimap.Settings, opts ...minimap.Option) *Buffer {
	buf := &Buffer{
		canvas:   canvas,
		filename: filename,
		view:     NewView(cols, rows),
	}
	buf.view.FitTo(canvas.Bounds())
	buf.host = newCanvasHost(buf)
	buf.session = minimap.NewSession(buf.host, settings, opts...)
	return buf
}

// addNewBuffer appends a buffer and makes it current.
func (m *model) addNewBuffer(canvas *Canvas, filename string) {
	cols, rows := m.mainViewSize()
	buf := newBuffer(canvas, filename, cols, rows, m.settings, m.sessionOptions()...)
	m.buffers = append(m.buffers, buf)
	// the buffer bar may have just appeared
	m.resizeViews()
	m.switchBuffer(len(m.buffers) - 1)
}

// switchBuffer is a view switch: the outgoing session is torn down and the
// incoming one set up.
func (m *model) switchBuffer(index int) {
	if index < 0 || index >= len(m.buffers) {
		return
	}
	if cur := m.getCurrentBuffer(); cur != nil && m.currentBufferIndex != index {
		cur.session.Teardown()
	}
	m.currentBufferIndex = index
	next := m.buffers[index].session
	if err := next.ApplySettings(m.settings); err != nil {
		m.logger.Warn("keeping previous minimap settings", "err", err)
	}
	next.Setup()
}

func (m *model) cycleBuffer(delta int) {
	if len(m.buffers) < 2 {
		return
	}
	next := (m.currentBufferIndex + delta + len(m.buffers)) % len(m.buffers)
	m.switchBuffer(next)
}

// reloadFile re-reads a changed file into every buffer showing it.
func (m *model) reloadFile(path string) error {
	for _, buf := range m.buffers {
		abs, err := filepath.Abs(buf.filename)
		if err != nil || abs != path {
			continue
		}
		if err := buf.canvas.LoadFromFile(buf.filename); err != nil {
			return err
		}
		buf.host.contentChanged()
	}
	return nil
}

func bufferName(buf *Buffer, index int) string {
	if buf.filename == "" {
		return fmt.Sprintf("Buffer %d", index+1)
	}
	return strings.TrimSuffix(filepath.Base(buf.filename), filepath.Ext(buf.filename))
}

// copyMinimapSVG puts the current minimap on the system clipboard.
func copyMinimapSVG(session *minimap.Session) error {
	var out bytes.Buffer
	if err := minimap.WriteSVG(&out, session.Scene()); err != nil {
		return err
	}
	return clipboard.WriteAll(out.String())
}
