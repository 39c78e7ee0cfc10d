// Package tui is the terminal frame-drawing backend.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"roomview/pkg/engine/input"
	"roomview/pkg/engine/terminal"
	"roomview/pkg/game/client"
	"roomview/pkg/game/renderer"
	"roomview/pkg/game/world"
)

// Viewport margins and minimum sizes
const (
	ViewportMinRows = 7
	ViewportMinCols = 15
	// Lines needed outside the grid:
	// - Header (2)
	// - Status banner (1)
	// - Info panel (up to 8)
	// - Key hints (2)
	ViewportTopMargin = 13
)

// clearScreen homes the cursor and wipes the display. ANSI rather than
// spawning `clear`: a full repaint per event must not flicker.
const clearScreen = "\x1b[2J\x1b[H"

// TUIRenderer draws frames to a terminal with ANSI styling.
type TUIRenderer struct {
	out io.Writer

	// Raw mode disables output post-processing, so lines need explicit
	// carriage returns.
	rawMode bool

	colorHeader    color.Style
	colorRoomID    color.Style
	colorSubtle    color.Style
	colorCursor    color.Style
	colorSwamp     color.Style
	colorWall      color.Style
	colorCreep     color.Style
	colorStructure color.Style
	colorResource  color.Style
	colorError     color.Style
	colorLoading   color.Style
	colorInfo      color.Style

	connColors map[client.ConnState]color.Style
}

// New creates a TUI renderer writing to stdout for a raw-mode terminal.
func New() *TUIRenderer {
	return &TUIRenderer{out: os.Stdout, rawMode: true}
}

// NewPlain creates a renderer for cooked-mode output (dry runs, tests).
func NewPlain(out io.Writer) *TUIRenderer {
	return &TUIRenderer{out: out}
}

// Init initializes the TUI renderer (colors, etc.)
func (t *TUIRenderer) Init() {
	t.colorHeader = color.Style{color.FgCyan}
	t.colorRoomID = color.Style{color.FgCyan, color.OpBold}
	t.colorSubtle = color.Style{color.FgGray}
	t.colorCursor = color.Style{color.OpReverse, color.OpBold}
	t.colorSwamp = color.Style{color.FgGreen}
	t.colorWall = color.Style{color.FgGray, color.OpBold}
	t.colorCreep = color.Style{color.FgYellow, color.OpBold}
	t.colorStructure = color.Style{color.FgBlue}
	t.colorResource = color.Style{color.FgMagenta}
	t.colorError = color.Style{color.FgRed, color.OpBold}
	t.colorLoading = color.Style{color.FgYellow}
	t.colorInfo = color.Style{color.FgWhite}

	t.connColors = map[client.ConnState]color.Style{
		client.ConnPolling:        {color.FgGray},
		client.ConnAuthenticating: {color.FgYellow},
		client.ConnConnected:      {color.FgGreen},
		client.ConnDisconnected:   {color.FgRed},
		client.ConnError:          {color.FgRed, color.OpBold},
	}
}

// ViewportSize returns the grid viewport dimensions based on terminal size.
func (t *TUIRenderer) ViewportSize() (w, h int) {
	termWidth, termHeight := terminal.GetSize()

	w = termWidth - 2
	h = termHeight - ViewportTopMargin

	if w < ViewportMinCols {
		w = ViewportMinCols
	}
	if h < ViewportMinRows {
		h = ViewportMinRows
	}
	return w, h
}

// Draw renders a complete frame.
func (t *TUIRenderer) Draw(f *renderer.Frame) {
	var b strings.Builder
	b.WriteString(clearScreen)

	t.writeHeader(&b, f)

	if f.Loading {
		t.writeLine(&b, t.colorLoading.Sprint(gotext.Get("Loading room state...")))
	} else {
		t.writeGrid(&b, f)
	}

	if f.Status != "" {
		t.writeLine(&b, t.colorError.Sprint(f.Status))
	}

	if len(f.Info) > 0 {
		t.writeLine(&b, t.colorSubtle.Sprint(strings.Repeat("─", 24)))
		for _, line := range f.Info {
			t.writeLine(&b, t.colorInfo.Sprint(line))
		}
	}

	t.writeLine(&b, "")
	t.writeHints(&b)

	fmt.Fprint(t.out, b.String())
}

// writeLine terminates lines with an explicit carriage return when the
// terminal is raw.
func (t *TUIRenderer) writeLine(b *strings.Builder, s string) {
	b.WriteString(s)
	if t.rawMode {
		b.WriteString("\r\n")
	} else {
		b.WriteString("\n")
	}
}

func (t *TUIRenderer) writeHeader(b *strings.Builder, f *renderer.Frame) {
	parts := []string{
		t.colorRoomID.Sprint(f.Key.String()),
	}
	if f.Header.Owned {
		parts = append(parts, t.colorHeader.Sprint(gotext.Get("yours")))
	}
	if f.GameTime > 0 {
		parts = append(parts, t.colorSubtle.Sprintf("tick %d", f.GameTime))
	}
	if f.Header.Username != "" {
		parts = append(parts, t.colorHeader.Sprint(f.Header.Username))
	}
	if f.Header.Server != "" {
		parts = append(parts, t.colorSubtle.Sprint(f.Header.Server))
	}
	if style, ok := t.connColors[f.Header.Conn]; ok {
		parts = append(parts, style.Sprint(f.Header.Conn.String()))
	}
	t.writeLine(b, strings.Join(parts, t.colorSubtle.Sprint(" │ ")))
	t.writeLine(b, "")
}

func (t *TUIRenderer) writeGrid(b *strings.Builder, f *renderer.Frame) {
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			b.WriteString(t.renderCell(f, x, y))
		}
		if t.rawMode {
			b.WriteString("\r\n")
		} else {
			b.WriteString("\n")
		}
	}
}

// renderCell returns the styled string for one visible cell.
func (t *TUIRenderer) renderCell(f *renderer.Frame, x, y int) string {
	cell := f.CellAt(x, y)

	var symbol string
	var style color.Style
	if cell.HasObject {
		symbol = renderer.ObjectSymbol(cell.Kind)
		style = t.objectStyle(cell.Kind)
	} else {
		symbol = renderer.TerrainSymbol(cell.Terrain)
		style = t.terrainStyle(cell.Terrain)
	}

	if x == f.CursorX && y == f.CursorY {
		if symbol == renderer.SymbolPlain {
			symbol = "+"
		}
		return t.colorCursor.Sprint(symbol)
	}
	if len(style) == 0 {
		return symbol
	}
	return style.Sprint(symbol)
}

func (t *TUIRenderer) terrainStyle(terrain world.Terrain) color.Style {
	switch terrain {
	case world.TerrainWall:
		return t.colorWall
	case world.TerrainSwamp:
		return t.colorSwamp
	default:
		return nil
	}
}

func (t *TUIRenderer) objectStyle(kind world.ObjectKind) color.Style {
	switch kind {
	case world.KindCreep:
		return t.colorCreep
	case world.KindResource, world.KindTombstone, world.KindMineral:
		return t.colorResource
	default:
		return t.colorStructure
	}
}

// writeHints derives the key hint line from the live bindings table, so
// the help text always matches what the keys actually do. Arrow codes
// collapse to one "arrows" entry to keep the line short.
func (t *TUIRenderer) writeHints(b *strings.Builder) {
	byAction := input.GetBindingsByAction()
	hint := func(label string, actions ...input.Action) string {
		var codes []string
		arrows := false
		for _, a := range actions {
			for _, code := range byAction[a] {
				if strings.HasPrefix(code, "arrow_") {
					arrows = true
					continue
				}
				codes = append(codes, code)
			}
		}
		if arrows {
			codes = append(codes, gotext.Get("arrows"))
		}
		return strings.Join(codes, "/") + ": " + label
	}
	single := func(a input.Action) string {
		return hint(strings.ToLower(gotext.Get(input.ActionName(a))), a)
	}
	hints := []string{
		hint(gotext.Get("cursor"),
			input.ActionCursorLeft, input.ActionCursorDown,
			input.ActionCursorUp, input.ActionCursorRight),
		hint(gotext.Get("adjacent room"),
			input.ActionRoomWest, input.ActionRoomSouth,
			input.ActionRoomNorth, input.ActionRoomEast),
		single(input.ActionNextShard),
		single(input.ActionInspect),
		single(input.ActionRefresh),
		single(input.ActionQuit),
	}
	t.writeLine(b, t.colorSubtle.Sprint(strings.Join(hints, "  ")))
}
