package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"canvasmap/internal/config"
	"canvasmap/internal/minimap"
	"canvasmap/internal/watcher"
)

var (
	cfgFile string
	logFile string
	verbose bool

	metricsAddr string

	outputFile  string
	textCols    int
	textRows    int
	toClipboard bool
	withFrame   bool

	forceInit bool
)

var rootCmd = &cobra.Command{
	Use:   "canvasmap",
	Short: "Terminal viewer for JSON Canvas diagrams with a clickable minimap",
	Long: `canvasmap opens .canvas diagrams in the terminal and keeps a scaled
overview of the whole diagram in a corner. Clicking the overview pans or
zooms the main view to the node under the pointer.`,
	SilenceUsage: true,
}

var viewCmd = &cobra.Command{
	Use:   "view [file.canvas...]",
	Short: "Open diagrams in the terminal viewer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd.Context(), args)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the canvasmap config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with the default minimap settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if len(args) == 1 {
			path = args[0]
		}
		written, err := runConfigInit(path, forceInit)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", written)
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <file.canvas>",
	Short: "Write the minimap of a diagram as SVG, PNG or text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.canvasmap.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	viewCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")

	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file; the extension picks svg, png or txt")
	renderCmd.Flags().IntVar(&textCols, "cols", 0, "columns of a txt export (default from width)")
	renderCmd.Flags().IntVar(&textRows, "rows", 0, "rows of a txt export (default from height)")
	renderCmd.Flags().BoolVar(&toClipboard, "clipboard", false, "also copy the SVG to the clipboard")
	renderCmd.Flags().BoolVar(&withFrame, "viewport", false, "draw the viewport frame around the whole diagram")

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(viewCmd, renderCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runView(ctx context.Context, files []string) error {
	cfg, settings, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	logger, closer, err := setupLogger(logFile, verbose, nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	metrics := minimap.NewMetrics(reg)
	if metricsAddr != "" {
		_, stop, err := serveMetrics(metricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	m := newModel(cfg, settings, logger, metrics)
	for _, file := range files {
		canvas := NewCanvas()
		if err := canvas.LoadFromFile(file); err != nil {
			return err
		}
		m.addNewBuffer(canvas, file)
	}
	if len(files) == 0 {
		m.addNewBuffer(welcomeCanvas(logger), "")
	}
	if len(m.buffers) > 1 {
		m.switchBuffer(0)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if len(files) > 0 {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		w := watcher.New(files, func(path string) {
			p.Send(fileChangedMsg{path: path})
		}).WithLogger(logger)
		go func() {
			if err := w.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("file watcher stopped", "err", err)
			}
		}()
	}

	logger.Info("viewer started", "files", len(files))
	_, err = p.Run()
	return err
}

// serveMetrics exposes reg on addr until stop is called. The listener is
// opened before returning so a bad address fails the command.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (net.Addr, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics listener: %w", err)
	}
	srv := &http.Server{Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Debug("metrics server shutdown", "err", err)
		}
	}
	return ln.Addr(), stop, nil
}

// runRender draws the minimap of a whole diagram without the TUI.
func runRender(file string) error {
	cfg, settings, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	logger, closer, err := setupLogger(logFile, verbose, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	canvas := NewCanvas()
	if err := canvas.LoadFromFile(file); err != nil {
		return err
	}

	settings.Enabled = true
	settings.DrawActiveViewport = withFrame
	buf := newBuffer(canvas, file, defaultCols, defaultRows, settings, minimap.WithLogger(logger))
	buf.session.Setup()
	defer buf.session.Teardown()

	scene := buf.session.Scene()
	if scene == nil {
		return fmt.Errorf("%s: %w", file, minimap.ErrEmptyContent)
	}

	out := outputFile
	if out == "" {
		out = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + "-minimap.svg"
		out = cfg.GetSavePath(out)
	}
	cols, rows := textCols, textRows
	if cols <= 0 {
		cols = int(settings.Width / cellWidth)
	}
	if rows <= 0 {
		rows = int(settings.Height / cellHeight)
	}
	if err := exportScene(scene, out, cols, rows); err != nil {
		return err
	}
	logger.Info("minimap written", "file", out, "nodes", len(scene.Groups)+len(scene.Leaves))

	if toClipboard {
		var svg bytes.Buffer
		if err := minimap.WriteSVG(&svg, scene); err != nil {
			return err
		}
		if err := clipboard.WriteAll(svg.String()); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
	}
	return nil
}

const welcomeDocument = `{
  "nodes": [
    {"id": "intro", "type": "group", "x": 0, "y": 0, "width": 1040, "height": 420, "label": "Welcome to canvasmap"},
    {"id": "open", "type": "text", "x": 40, "y": 60, "width": 280, "height": 120, "text": "canvasmap view board.canvas\nopens a diagram"},
    {"id": "pan", "type": "text", "x": 380, "y": 60, "width": 280, "height": 120, "text": "hjkl pans, +/- zooms\n0 fits the diagram"},
    {"id": "click", "type": "text", "x": 720, "y": 60, "width": 280, "height": 120, "text": "Click the minimap\nto jump to a node"},
    {"id": "keys", "type": "text", "x": 380, "y": 260, "width": 280, "height": 120, "text": "? shows every key\nq quits"},
    {"id": "far", "type": "text", "x": 1400, "y": 900, "width": 320, "height": 160, "text": "You found the far corner"}
  ],
  "edges": [
    {"id": "e1", "fromNode": "open", "fromSide": "right", "toNode": "pan", "toSide": "left"},
    {"id": "e2", "fromNode": "pan", "fromSide": "right", "toNode": "click", "toSide": "left"},
    {"id": "e3", "fromNode": "pan", "fromSide": "bottom", "toNode": "keys", "toSide": "top"},
    {"id": "e4", "fromNode": "click", "toNode": "far"}
  ]
}`

func welcomeCanvas(logger *slog.Logger) *Canvas {
	canvas, err := ParseCanvas(strings.NewReader(welcomeDocument))
	if err != nil {
		logger.Error("welcome canvas", "err", err)
		return NewCanvas()
	}
	return canvas
}

// runConfigInit writes the default settings to path, or to
// ~/.canvasmap.yaml when path is empty. An existing file is kept unless
// force is set.
func runConfigInit(path string, force bool) (string, error) {
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return "", errors.New("no config path: pass one or set --config")
	}
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("accessing config %s: %w", path, err)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return "", err
	}
	return path, nil
}
