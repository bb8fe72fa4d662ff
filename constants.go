package main

import "time"

// A screen cell covers cellWidth x cellHeight diagram units at zoom 1,
// roughly the pixel size of a terminal character.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

const (
	minZoom  = 0.02
	maxZoom  = 8.0
	zoomStep = 1.25

	panCells     = 2
	fastPanCells = 8
)

const (
	tickInterval = 100 * time.Millisecond

	// fallback terminal size for exports made outside the TUI
	defaultCols = 160
	defaultRows = 48
)

// ExportFormat is chosen from the output file extension.
type ExportFormat int

const (
	ExportSVG ExportFormat = iota
	ExportPNG
	ExportTXT
)
