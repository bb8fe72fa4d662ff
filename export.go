package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"canvasmap/internal/minimap"
)

// exportFormatFor picks the encoder from the file extension; anything
// unknown is written as SVG.
func exportFormatFor(filename string) ExportFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return ExportPNG
	case ".txt":
		return ExportTXT
	default:
		return ExportSVG
	}
}

// exportScene writes scene to filename. Text exports use a cols x rows
// cell grid.
func exportScene(scene *minimap.Scene, filename string, cols, rows int) error {
	if scene == nil {
		return minimap.ErrEmptyContent
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	switch exportFormatFor(filename) {
	case ExportPNG:
		err = minimap.RasterizePNG(file, scene)
	case ExportTXT:
		var grid *minimap.Grid
		grid, err = minimap.CellGrid(scene, cols, rows)
		if err == nil {
			_, err = fmt.Fprintln(file, grid.String())
		}
	default:
		err = minimap.WriteSVG(file, scene)
	}
	if err != nil {
		return fmt.Errorf("exporting %s: %w", filename, err)
	}
	return nil
}

// exportMinimap writes the current buffer's minimap as a PNG next to the
// chart, or into the configured save directory.
func (m *model) exportMinimap() (string, error) {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return "", minimap.ErrNoActiveTarget
	}
	name := "minimap.png"
	if buf.filename != "" {
		name = strings.TrimSuffix(filepath.Base(buf.filename), filepath.Ext(buf.filename)) + "-minimap.png"
	}
	path := m.config.GetSavePath(name)
	cols, rows := m.panelSize()
	if err := exportScene(buf.session.Scene(), path, cols, rows); err != nil {
		return "", err
	}
	return path, nil
}
