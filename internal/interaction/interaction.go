// Package interaction turns pointer input on the overview into scroll commands
// for the primary viewport(s) and manages the hover code preview.
package interaction

import (
	"github.com/JoeRobich/fd-editorminimap/internal/log"
	"github.com/JoeRobich/fd-editorminimap/internal/surface"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonNone Button = iota
	// ButtonLeft drives the first viewport.
	ButtonLeft
	// ButtonRight drives the split view's second viewport.
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// WheelDeltaPerLine converts wheel deltas into overview lines. A notch is 120,
// so one notch scrolls three lines.
const (
	WheelNotch        = 120
	WheelDeltaPerLine = -40
)

// DefaultPreviewDismissDistance is how many columns the pointer may drift
// sideways from where a preview opened before the preview closes.
const DefaultPreviewDismissDistance = 2

// Overview is the part of the overview surface the controller drives.
type Overview interface {
	LineFromPoint(x, y int) int
	LineScroll(lines int)
}

// Navigator resolves buttons to primary viewports and records navigation.
type Navigator interface {
	// Viewport returns the viewport driven by b, or false when there is none.
	Viewport(b Button) (surface.Viewport, bool)
	// LastCenterLine is the document line the viewport was last centred on.
	LastCenterLine(b Button) int
	// Navigated is called after the viewport driven by b was centred on line.
	Navigated(b Button, line int)
}

// ActivityProbe reports whether the host currently has input focus.
type ActivityProbe interface {
	Active() bool
}

// ActivityFunc adapts a function to ActivityProbe.
type ActivityFunc func() bool

func (f ActivityFunc) Active() bool { return f() }

// Settings tune the controller.
type Settings struct {
	PreviewEnabled         bool
	PreviewWidth           int
	PreviewHeight          int
	PreviewDismissDistance int
}

// PointerState is a sampled pointer, used by hosts without reliable drag events.
type PointerState struct {
	X, Y   int
	Left   bool
	Inside bool
}

// Controller is the overview's pointer state machine. All methods take
// overview-local cell coordinates and must run on the UI goroutine.
type Controller struct {
	overview Overview
	nav      Navigator
	probe    ActivityProbe
	settings Settings
	layout   Layout

	pressed    Button
	moved      bool
	navigating bool
	preview    *PreviewPopup
	lastPoll   PointerState
}

// NewController creates a controller. probe may be nil, meaning always active.
func NewController(ov Overview, nav Navigator, probe ActivityProbe, settings Settings) *Controller {
	c := &Controller{overview: ov, nav: nav, probe: probe}
	c.SetSettings(settings)
	return c
}

// SetSettings replaces the settings. Disabling the preview closes it.
func (c *Controller) SetSettings(s Settings) {
	if s.PreviewDismissDistance <= 0 {
		s.PreviewDismissDistance = DefaultPreviewDismissDistance
	}
	if s.PreviewWidth <= 0 {
		s.PreviewWidth = DefaultPreviewWidth
	}
	if s.PreviewHeight <= 0 {
		s.PreviewHeight = DefaultPreviewHeight
	}
	c.settings = s
	if !s.PreviewEnabled {
		c.ClosePreview()
	}
}

// Settings returns the current settings.
func (c *Controller) Settings() Settings { return c.settings }

// SetLayout records where the overview sits on screen, for preview placement.
func (c *Controller) SetLayout(l Layout) { c.layout = l }

// Pressed returns the button currently held over the overview.
func (c *Controller) Pressed() Button { return c.pressed }

// Preview returns the open preview, or nil.
func (c *Controller) Preview() *PreviewPopup { return c.preview }

// MouseDown starts a click or drag and closes any preview.
func (c *Controller) MouseDown(b Button, _, _ int) {
	c.pressed = b
	c.moved = false
	c.ClosePreview()
}

// MouseMove drags the primary viewport while a button is held and keeps an
// open preview on the hovered line.
func (c *Controller) MouseMove(x, y int) {
	if c.pressed != ButtonNone {
		c.moved = true
		c.navigate(c.pressed, x, y)
	}
	if c.preview == nil {
		return
	}
	if abs(x-c.preview.AnchorX) > c.settings.PreviewDismissDistance {
		log.Debug(log.CatInput, "pointer moved away from preview", "x", x, "anchor", c.preview.AnchorX)
		c.ClosePreview()
		return
	}
	c.updatePreview(x, y)
}

// MouseUp ends a press.
func (c *Controller) MouseUp(b Button, _, _ int) {
	if c.pressed == b {
		c.pressed = ButtonNone
	}
}

// Click navigates unless the press turned into a drag. Hosts call it after
// MouseUp, the way native click events follow the release.
func (c *Controller) Click(b Button, x, y int) bool {
	if c.moved {
		return false
	}
	return c.navigate(b, x, y)
}

// Hover opens the preview for the line under (x, y) when previews are enabled,
// no button is held, none is open and the host is focused.
func (c *Controller) Hover(x, y int) bool {
	if !c.settings.PreviewEnabled || c.pressed != ButtonNone || c.preview != nil {
		return false
	}
	if c.probe != nil && !c.probe.Active() {
		log.Debug(log.CatInput, "host inactive, no preview")
		return false
	}
	vp, ok := c.nav.Viewport(ButtonLeft)
	if !ok {
		return false
	}
	line := c.overview.LineFromPoint(x, y)
	c.preview = newPreview(vp, line, c.settings, c.layout, x, y)
	log.Debug(log.CatInput, "preview opened", "line", line)
	return true
}

// Leave closes the preview when the pointer leaves the overview.
func (c *Controller) Leave() {
	c.ClosePreview()
}

// Wheel scrolls the overview by delta/-40 lines.
func (c *Controller) Wheel(delta int) {
	if lines := delta / WheelDeltaPerLine; lines != 0 {
		c.overview.LineScroll(lines)
	}
}

// ClosePreview closes the preview if one is open.
func (c *Controller) ClosePreview() {
	if c.preview != nil {
		log.Debug(log.CatInput, "preview closed", "line", c.preview.Line)
	}
	c.preview = nil
}

// Poll drag-scrolls from a sampled pointer: while the left button is held
// inside the overview, every change of position navigates. It reports whether
// the primary viewport was moved.
func (c *Controller) Poll(p PointerState) bool {
	prev := c.lastPoll
	c.lastPoll = p
	if !p.Left || !p.Inside {
		return false
	}
	if prev.Left && prev.Inside && prev.X == p.X && prev.Y == p.Y {
		return false
	}
	return c.navigate(ButtonLeft, p.X, p.Y)
}

// CenterFirstLine is the first line that centres a viewport of lines lines on
// center, clamped to [0, lineCount-lines+1].
func CenterFirstLine(center, lines, lineCount int) int {
	first := min(max(center-lines/2, 0), lineCount-lines+1)
	return max(first, 0)
}

func (c *Controller) navigate(b Button, x, y int) bool {
	if c.navigating {
		return false
	}
	vp, ok := c.nav.Viewport(b)
	if !ok {
		return false
	}
	center := c.overview.LineFromPoint(x, y)
	if center == c.nav.LastCenterLine(b) {
		return false
	}

	c.navigating = true
	defer func() { c.navigating = false }()

	first := CenterFirstLine(center, vp.LinesOnScreen(), vp.LineCount())
	if delta := vp.VisibleFromDocLine(first) - vp.FirstVisibleLine(); delta != 0 {
		vp.LineScroll(delta)
	}
	c.nav.Navigated(b, center)
	log.Debug(log.CatInput, "centred viewport", "button", b, "center", center, "first", first)
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
