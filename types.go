package main

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/help"

	"canvasmap/internal/config"
	"canvasmap/internal/minimap"
)

// Buffer is one open diagram with its own view and minimap session. Only
// the current buffer's session is set up at any time.
type Buffer struct {
	canvas   *Canvas
	filename string
	view     View
	host     *canvasHost
	session  *minimap.Session
	panel    panelCache
}

// panelCache holds the last cell rendering of the minimap panel.
type panelCache struct {
	scene   *minimap.Scene
	overlay minimap.Overlay
	cols    int
	rows    int
	grid    *minimap.Grid
}

func (c panelCache) sameKey(o panelCache) bool {
	return c.scene == o.scene && c.overlay == o.overlay && c.cols == o.cols && c.rows == o.rows
}

type model struct {
	width              int
	height             int
	buffers            []*Buffer
	currentBufferIndex int
	help               bool
	helpModel          help.Model
	keys               keyMap
	errorMessage       string
	successMessage     string
	config             *config.Config
	settings           minimap.Settings
	logger             *slog.Logger
	metrics            *minimap.Metrics
}

type tickMsg struct{}

// fileChangedMsg is sent from the watcher goroutine when a buffer's file
// was written on disk.
type fileChangedMsg struct {
	path string
}
