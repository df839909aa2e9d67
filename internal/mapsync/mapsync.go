// internal/mapsync/mapsync.go
//
// Keeps a rendered map in step with the guessed regions.
//
// The map widget itself is external; this package only knows the Canvas
// contract: shapes are addressed by region code and may not exist until the
// widget has finished mounting. Syncing is best effort:
//   - every sync clears all highlights, then paints one shape per guessed name;
//   - names without a code and codes without a shape are skipped silently;
//   - a canvas that is not ready yet gets exactly one deferred retry.

package mapsync

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/statesquiz/internal/debounce"
	"github.com/robalobadob/statesquiz/internal/regions"
)

// DefaultPaintDelay gives the widget time to mount before shapes are looked up.
const DefaultPaintDelay = 300 * time.Millisecond

// Style is the visual treatment applied to a shape.
type Style struct {
	Fill        string `json:"fill"`
	Stroke      string `json:"stroke"`
	StrokeWidth string `json:"strokeWidth"`
}

// HighlightStyle marks a guessed region.
var HighlightStyle = Style{Fill: "#22c55e", Stroke: "#16a34a", StrokeWidth: "2"}

// WidgetConfig is the display configuration handed to the map widget.
type WidgetConfig struct {
	Size        string `json:"size"`
	MapColor    string `json:"mapColor"`
	StrokeColor string `json:"strokeColor"`
	StrokeWidth string `json:"strokeWidth"`
	HoverColor  string `json:"hoverColor"`
}

// DefaultWidgetConfig matches the look of the browser map.
var DefaultWidgetConfig = WidgetConfig{
	Size:        "600px",
	MapColor:    "#f8fafc",
	StrokeColor: "#9ca3af",
	StrokeWidth: "1",
	HoverColor:  "#d1d5db",
}

// Canvas is the rendered map.
type Canvas interface {
	// Ready reports whether shapes can be addressed yet.
	Ready() bool
	// ClearAll returns every shape to the default, unstyled look.
	ClearAll()
	// Paint styles the shape with the given code; false if there is no such shape.
	Paint(code string, s Style) bool
}

// Highlight addresses one shape to paint.
type Highlight struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Style Style  `json:"style"`
}

// Highlights derives the shapes to paint for guessed, in guess order.
// Names the table has no code for are dropped.
func Highlights(table *regions.Table, guessed []string, s Style) []Highlight {
	out := make([]Highlight, 0, len(guessed))
	for _, name := range guessed {
		code, ok := table.CodeFor(name)
		if !ok {
			continue
		}
		out = append(out, Highlight{Name: name, Code: code, Style: s})
	}
	return out
}

// Apply clears the canvas and paints every highlight. It returns the number
// of shapes actually painted.
func Apply(c Canvas, hs []Highlight) int {
	c.ClearAll()
	painted := 0
	for _, h := range hs {
		if c.Paint(h.Code, h.Style) {
			painted++
		}
	}
	return painted
}

// Syncer paints a canvas after a delay, debounced per state change.
type Syncer struct {
	canvas Canvas
	table  *regions.Table
	style  Style
	delay  time.Duration
	timer  debounce.Timer

	mu     sync.Mutex
	epoch  uint64             // bumped by Sync, Reset and Close; a paint from an older epoch is dropped
	synced func(painted int) // test hook, called after each paint
}

// NewSyncer builds a Syncer; a non-positive delay uses DefaultPaintDelay.
func NewSyncer(c Canvas, table *regions.Table, delay time.Duration) *Syncer {
	if delay <= 0 {
		delay = DefaultPaintDelay
	}
	return &Syncer{canvas: c, table: table, style: HighlightStyle, delay: delay}
}

// OnSynced registers fn to run after each completed paint.
func (s *Syncer) OnSynced(fn func(painted int)) {
	s.mu.Lock()
	s.synced = fn
	s.mu.Unlock()
}

// Sync schedules a repaint for guessed, cancelling any repaint still pending.
func (s *Syncer) Sync(guessed []string) {
	hs := Highlights(s.table, guessed, s.style)
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()
	s.timer.Schedule(s.delay, func() { s.paint(hs, epoch, true) })
}

// Reset cancels pending work and clears the canvas right away. A paint
// already in flight is discarded rather than applied over the cleared map.
func (s *Syncer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.timer.Cancel()
	s.canvas.ClearAll()
}

// Close stops the syncer; later Sync calls do nothing.
func (s *Syncer) Close() {
	s.mu.Lock()
	s.epoch++
	s.mu.Unlock()
	s.timer.Stop()
}

// Pending reports whether a repaint is scheduled.
func (s *Syncer) Pending() bool { return s.timer.Pending() }

func (s *Syncer) paint(hs []Highlight, epoch uint64, retry bool) {
	if !s.canvas.Ready() {
		if retry {
			log.Debug().Int("highlights", len(hs)).Msg("map not mounted, retrying paint")
			s.timer.Schedule(s.delay, func() { s.paint(hs, epoch, false) })
			return
		}
		log.Debug().Int("highlights", len(hs)).Msg("map still not mounted, skipping paint")
		return
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		log.Debug().Msg("discarding stale paint")
		return
	}
	n := Apply(s.canvas, hs)
	fn := s.synced
	s.mu.Unlock()
	if fn != nil {
		fn(n)
	}
}
