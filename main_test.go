package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvasmap/internal/minimap"
)

func withRenderFlags(t *testing.T, out string) {
	t.Helper()
	prevCfg, prevOut, prevLog := cfgFile, outputFile, logFile
	cfgFile = filepath.Join(t.TempDir(), "none.yaml")
	outputFile = out
	logFile = filepath.Join(t.TempDir(), "render.log")
	t.Cleanup(func() {
		cfgFile, outputFile, logFile = prevCfg, prevOut, prevLog
	})
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "board.canvas")
	require.NoError(t, os.WriteFile(in, []byte(sampleDocument), 0644))

	svg := filepath.Join(dir, "out.svg")
	withRenderFlags(t, svg)
	require.NoError(t, runRender(in))
	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `data-node-id="b"`)
	// no frame unless asked for
	assert.NotContains(t, string(data), minimap.ViewportElementID)

	txt := filepath.Join(dir, "out.txt")
	withRenderFlags(t, txt)
	require.NoError(t, runRender(in))
	data, err = os.ReadFile(txt)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimRight(string(data), "\n"), "\n"), 15)
}

func TestRunRenderEmptyDiagram(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "empty.canvas")
	require.NoError(t, os.WriteFile(in, []byte(`{"nodes": [], "edges": []}`), 0644))

	withRenderFlags(t, filepath.Join(dir, "out.svg"))
	err := runRender(in)
	assert.True(t, errors.Is(err, minimap.ErrEmptyContent))
	assert.NoFileExists(t, filepath.Join(dir, "out.svg"))
}

func TestRunConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvasmap.yaml")

	written, err := runConfigInit(path, false)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	cfg, settings, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, minimap.DefaultSettings(), settings)
	assert.Equal(t, "right", cfg.Side)

	// an existing file is only replaced with force
	require.NoError(t, os.WriteFile(path, []byte("side: left\n"), 0644))
	_, err = runConfigInit(path, false)
	assert.Error(t, err)
	cfg, _, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "left", cfg.Side)

	_, err = runConfigInit(path, true)
	require.NoError(t, err)
	cfg, _, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "right", cfg.Side)
}

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := minimap.NewMetrics(reg)
	metrics.Redraws.Inc()

	addr, stop, err := serveMetrics("127.0.0.1:0", reg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "canvasmap_redraws_total 1")

	stop()
	_, err = http.Get("http://" + addr.String() + "/metrics")
	assert.Error(t, err)

	_, _, err = serveMetrics("not an address", reg, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}
