package play

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/robalobadob/statesquiz/internal/mapsync"
)

// tileLayout is a rough geographic arrangement of region codes, north at the
// top. Empty strings are sea or gaps.
var tileLayout = [][]string{
	{"", "", "JK", "LA", "", "", "", ""},
	{"", "", "HP", "PB", "CH", "", "", "AR"},
	{"", "RJ", "HR", "DL", "UT", "SK", "AS", "NL"},
	{"GJ", "MP", "UP", "BR", "WB", "ML", "MN", ""},
	{"DD", "MH", "CT", "JH", "OR", "TR", "MZ", ""},
	{"GA", "TG", "AP", "", "", "", "", ""},
	{"LD", "KA", "TN", "PY", "", "", "", "AN"},
	{"", "KL", "", "", "", "", "", ""},
}

// TileCanvas renders the map as a grid of region codes. It is a
// mapsync.Canvas that becomes ready the first time it is drawn.
type TileCanvas struct {
	mu      sync.Mutex
	layout  [][]string
	known   map[string]bool
	painted map[string]mapsync.Style
	mounted bool

	hit  *color.Color
	miss *color.Color
}

// NewTileCanvas builds a canvas over the built-in layout. colorize forces
// ANSI colours on or off regardless of the process's own terminal.
func NewTileCanvas(colorize bool) *TileCanvas {
	c := &TileCanvas{
		layout:  tileLayout,
		known:   map[string]bool{},
		painted: map[string]mapsync.Style{},
		hit:     color.New(color.BgGreen, color.FgBlack, color.Bold),
		miss:    color.New(color.FgHiBlack),
	}
	for _, row := range c.layout {
		for _, code := range row {
			if code != "" {
				c.known[code] = true
			}
		}
	}
	if colorize {
		c.hit.EnableColor()
		c.miss.EnableColor()
	} else {
		c.hit.DisableColor()
		c.miss.DisableColor()
	}
	return c
}

func (c *TileCanvas) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

func (c *TileCanvas) ClearAll() {
	c.mu.Lock()
	c.painted = map[string]mapsync.Style{}
	c.mu.Unlock()
}

func (c *TileCanvas) Paint(code string, s mapsync.Style) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.known[code] {
		return false
	}
	c.painted[code] = s
	return true
}

// Painted lists painted codes, sorted.
func (c *TileCanvas) Painted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.painted))
	for code := range c.painted {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Draw writes the grid to w and marks the canvas mounted. Painted tiles are
// shown as [XX], the rest as a dim lowercase code.
func (c *TileCanvas) Draw(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b strings.Builder
	for _, row := range c.layout {
		var line strings.Builder
		for _, code := range row {
			if code == "" {
				line.WriteString("    ")
				continue
			}
			if _, ok := c.painted[code]; ok {
				line.WriteString(c.hit.Sprintf("[%s]", code))
			} else {
				line.WriteString(c.miss.Sprintf(" %s ", strings.ToLower(code)))
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteString("\n")
	}
	c.mounted = true
	_, err := io.WriteString(w, b.String())
	return err
}
