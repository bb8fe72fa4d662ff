package minimap

import (
	"fmt"
	"strings"
	"time"
)

// Strategy is the navigation performed when a minimap shape is clicked.
type Strategy string

const (
	StrategyPan  Strategy = "pan"
	StrategyZoom Strategy = "zoom"
	StrategyNone Strategy = "none"
)

// ParseStrategy accepts the strategy names case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyPan:
		return StrategyPan, nil
	case StrategyZoom:
		return StrategyZoom, nil
	case StrategyNone, "":
		return StrategyNone, nil
	}
	return StrategyNone, fmt.Errorf("%w: unknown navigation strategy %q", ErrInvalidArgument, s)
}

// Placement is the screen corner the surface is attached to.
type Placement string

const (
	PlacementLeft  Placement = "left"
	PlacementRight Placement = "right"
)

// Overlay colours are not configurable.
const (
	overlayFill   = "#7f7f7f33"
	overlayStroke = "#ff6a00"
	groupStroke   = "#888888"
)

// Settings is an immutable snapshot of the minimap options.
type Settings struct {
	Width              float64
	Height             float64
	Margin             float64
	FontSize           float64
	FontColor          string
	Placement          Placement
	Enabled            bool
	BackgroundColor    string
	GroupColor         string
	NodeColor          string
	DrawActiveViewport bool
	PrimaryStrategy    Strategy
	SecondaryStrategy  Strategy

	// RedrawInterval rate-limits full redraws; overlay updates are never limited.
	RedrawInterval time.Duration
	// SetupDebounce suppresses repeated setups for an already active surface.
	SetupDebounce time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		Width:              320,
		Height:             240,
		Margin:             100,
		FontSize:           14,
		FontColor:          "#ffffff",
		Placement:          PlacementRight,
		Enabled:            true,
		BackgroundColor:    "#1e1e1e",
		GroupColor:         "#bdd5de55",
		NodeColor:          "#c3d6d7",
		DrawActiveViewport: true,
		PrimaryStrategy:    StrategyPan,
		SecondaryStrategy:  StrategyZoom,
		RedrawInterval:     250 * time.Millisecond,
		SetupDebounce:      300 * time.Millisecond,
	}
}

// Strategy picks the secondary strategy when the modifier key is held.
func (s Settings) Strategy(modifier bool) Strategy {
	if modifier {
		return s.SecondaryStrategy
	}
	return s.PrimaryStrategy
}

func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: surface size must be positive, got %gx%g", ErrInvalidArgument, s.Width, s.Height)
	}
	if s.Margin < 0 {
		return fmt.Errorf("%w: margin must be non-negative", ErrInvalidArgument)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("%w: font size must be positive", ErrInvalidArgument)
	}
	if s.Placement != PlacementLeft && s.Placement != PlacementRight {
		return fmt.Errorf("%w: placement must be left or right, got %q", ErrInvalidArgument, s.Placement)
	}
	for _, st := range []Strategy{s.PrimaryStrategy, s.SecondaryStrategy} {
		if _, err := ParseStrategy(string(st)); err != nil {
			return err
		}
	}
	for name, c := range map[string]string{
		"font_color":       s.FontColor,
		"background_color": s.BackgroundColor,
		"group_color":      s.GroupColor,
		"node_color":       s.NodeColor,
	} {
		if !isHexColor(c) {
			return fmt.Errorf("%w: %s must be a hex colour, got %q", ErrInvalidArgument, name, c)
		}
	}
	return nil
}

// sameSurface reports whether two snapshots produce the same surface, so a
// settings change can be applied without a reload.
func (s Settings) sameSurface(o Settings) bool {
	return s.Width == o.Width && s.Height == o.Height && s.Enabled == o.Enabled && s.Placement == o.Placement
}

func isHexColor(c string) bool {
	if !strings.HasPrefix(c, "#") {
		return false
	}
	hex := c[1:]
	switch len(hex) {
	case 3, 6, 8:
	default:
		return false
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
