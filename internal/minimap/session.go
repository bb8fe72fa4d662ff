package minimap

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"canvasmap/internal/geom"
)

// State is the lifecycle state of a session's surface.
type State int

const (
	StateAbsent State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "absent"
}

// Session owns the minimap surface for one diagram view. All methods are
// expected to run on the host's event loop; none of them block and none of
// them are safe for concurrent use.
type Session struct {
	host     Host
	settings Settings
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time

	state       State
	scene       *Scene
	content     geom.Box
	boxes       map[string]geom.Box
	dirty       bool
	lastRedraw  time.Time
	lastSetup   time.Time
	unsubscribe func()
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession creates a session in the Absent state. Call Setup to create
// the surface.
func NewSession(host Host, settings Settings, opts ...Option) *Session {
	s := &Session{
		host:     host,
		settings: settings,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Settings() Settings {
	return s.settings
}

// Scene is the current drawn tree, nil when absent or empty. Callers must
// treat it as read-only.
func (s *Session) Scene() *Scene {
	return s.scene
}

// Dirty reports a content change still waiting for a redraw.
func (s *Session) Dirty() bool {
	return s.dirty
}

// ContentBounds is invalid until a redraw saw at least one node.
func (s *Session) ContentBounds() geom.Box {
	return s.content
}

// Setup creates the surface if the feature is enabled. Calling it on an
// active session reuses the surface: within the debounce window it does
// nothing, after it the content is refreshed.
func (s *Session) Setup() {
	if !s.settings.Enabled || s.host == nil {
		return
	}

	now := s.now()
	if s.state == StateActive {
		if now.Sub(s.lastSetup) < s.settings.SetupDebounce {
			s.logger.Debug("minimap setup debounced")
			return
		}
		s.lastSetup = now
		s.refresh("setup")
		return
	}

	s.state = StateActive
	s.lastSetup = now
	if obs, ok := s.host.(Observable); ok {
		s.unsubscribe = obs.Subscribe(s)
	}
	s.logger.Debug("minimap surface created", "width", s.settings.Width, "height", s.settings.Height)
	s.refresh("setup")
}

// Teardown releases the surface and detaches from the host.
func (s *Session) Teardown() {
	if s.state == StateAbsent {
		return
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.state = StateAbsent
	s.scene = nil
	s.boxes = nil
	s.content = geom.Box{}
	s.dirty = false
	s.logger.Debug("minimap surface released")
}

// Reload always starts from a clean slate.
func (s *Session) Reload() {
	s.Teardown()
	s.Setup()
}

// ApplySettings swaps the settings snapshot. On an active session, changes
// to the surface itself reload it and anything else refreshes the content.
// An absent session only keeps the snapshot; the next Setup uses it.
func (s *Session) ApplySettings(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	prev := s.settings
	s.settings = next
	if s.state != StateActive {
		return nil
	}
	if !prev.sameSurface(next) {
		s.Reload()
		return nil
	}
	s.refresh("settings")
	return nil
}

// Redraw rebuilds the scene from the host's current nodes and edges. It
// returns ErrNoActiveTarget when there is no surface. An empty diagram is
// not an error: the scene is cleared and ContentBounds stays invalid.
func (s *Session) Redraw() error {
	if s.state != StateActive {
		return ErrNoActiveTarget
	}

	nodes, err := s.host.Nodes()
	if err != nil {
		return fmt.Errorf("read nodes: %w", err)
	}
	edges, err := s.host.Edges()
	if err != nil {
		return fmt.Errorf("read edges: %w", err)
	}

	// A failed render still counts as an attempt, so a broken edge is not
	// retried on every tick. Scene, bounds and lookup are only replaced
	// together.
	s.dirty = false
	s.lastRedraw = s.now()

	content := Aggregate(nodes, s.settings.Margin)
	if !content.Bounds.IsValid() {
		s.content = content.Bounds
		s.scene = nil
		s.boxes = nil
		return nil
	}

	scene, err := Render(content, edges, s.settings)
	if err != nil {
		return err
	}
	if scene.SkippedEdges > 0 {
		s.logger.Debug("edges with missing endpoints skipped", "count", scene.SkippedEdges)
	}

	boxes := make(map[string]geom.Box, len(nodes))
	for _, n := range nodes {
		boxes[n.ID] = n.Box()
	}
	s.content = content.Bounds
	s.scene = scene
	s.boxes = boxes
	s.metrics.redraw()
	return nil
}

// OnContentChanged schedules a full redraw. It runs immediately unless one
// ran within RedrawInterval; in that case the next tick picks it up.
func (s *Session) OnContentChanged() {
	if s.state != StateActive {
		return
	}
	s.dirty = true
	if s.now().Sub(s.lastRedraw) >= s.settings.RedrawInterval {
		s.refresh("content")
	}
}

// OnViewportChanged only moves the overlay.
func (s *Session) OnViewportChanged() {
	if s.state != StateActive {
		return
	}
	s.updateOverlay("viewport")
}

// OnResize redraws unconditionally.
func (s *Session) OnResize() {
	if s.state != StateActive {
		return
	}
	s.refresh("resize")
}

// OnTick performs a pending redraw once the rate limit allows it, then
// updates the overlay so it is always applied after the redraw.
func (s *Session) OnTick() {
	if s.state != StateActive {
		return
	}
	if s.dirty && s.now().Sub(s.lastRedraw) >= s.settings.RedrawInterval {
		if err := s.Redraw(); err != nil {
			s.abort("tick", err)
			return
		}
	}
	s.updateOverlay("tick")
}

// HandleClick resolves a click on the surface and navigates the host.
func (s *Session) HandleClick(x, y float64, modifier bool) Decision {
	if s.state != StateActive || s.scene == nil {
		return Decision{Strategy: StrategyNone}
	}
	d := Resolve(s.scene, Click{X: x, Y: y, Modifier: modifier}, s.lookup, s.settings)
	if Dispatch(s.host, d) {
		s.metrics.navigation(d.Strategy)
		s.logger.Debug("minimap navigation", "strategy", d.Strategy, "node", d.NodeID)
	}
	return d
}

func (s *Session) lookup(id string) (geom.Box, bool) {
	b, ok := s.boxes[id]
	return b, ok
}

func (s *Session) refresh(handler string) {
	if err := s.Redraw(); err != nil {
		s.abort(handler, err)
		return
	}
	s.updateOverlay(handler)
}

func (s *Session) updateOverlay(handler string) {
	if s.scene == nil || !s.scene.Overlay.Visible {
		return
	}
	region, err := s.host.VisibleRegion()
	if err != nil {
		s.abort(handler, fmt.Errorf("read visible region: %w", err))
		return
	}
	if UpdateOverlay(s.scene, region) {
		s.metrics.overlay()
	}
}

func (s *Session) abort(handler string, err error) {
	s.metrics.aborted(handler)
	if errors.Is(err, ErrInvalidArgument) {
		s.logger.Error("minimap redraw failed", "handler", handler, "err", err)
		return
	}
	s.logger.Warn("minimap handler aborted", "handler", handler, "err", err)
}
