// Package engine keeps an overview in step with one primary viewport (or two,
// in a split view): text, folds, zoom, highlighted range and scroll position.
package engine

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/JoeRobich/fd-editorminimap/internal/fold"
	"github.com/JoeRobich/fd-editorminimap/internal/fontnorm"
	"github.com/JoeRobich/fd-editorminimap/internal/highlight"
	"github.com/JoeRobich/fd-editorminimap/internal/interaction"
	"github.com/JoeRobich/fd-editorminimap/internal/log"
	"github.com/JoeRobich/fd-editorminimap/internal/overview"
	"github.com/JoeRobich/fd-editorminimap/internal/pubsub"
	"github.com/JoeRobich/fd-editorminimap/internal/scroll"
	"github.com/JoeRobich/fd-editorminimap/internal/surface"
	"github.com/JoeRobich/fd-editorminimap/internal/tracing"
)

// DefaultMaxLineLimit disables the minimap for larger documents.
const DefaultMaxLineLimit = 10000

// Primary is a viewport the overview follows.
type Primary interface {
	surface.Viewport
	surface.Notifier
}

// ScrollbarToggler is implemented by primaries that can hide their scrollbar
// while the overview stands in for it.
type ScrollbarToggler interface {
	SetScrollbarVisible(visible bool)
}

// PointerSource samples the pointer for hosts without reliable drag events.
type PointerSource interface {
	Pointer() interaction.PointerState
}

// Settings are the engine's view of the configuration.
type Settings struct {
	Visible               bool
	OnlyUpdateOnTimer     bool
	MaxLineLimit          int
	TargetFontSize        int
	ShowVerticalScrollbar bool
	Interaction           interaction.Settings
}

// SettingsProvider supplies the current settings. RefreshSettings re-reads it.
type SettingsProvider interface {
	EngineSettings() Settings
}

// SettingsFunc adapts a function to SettingsProvider.
type SettingsFunc func() Settings

func (f SettingsFunc) EngineSettings() Settings { return f() }

// Option configures an Engine.
type Option func(*Engine)

// WithSplit attaches a second primary viewport sharing the overview.
func WithSplit(p Primary) Option {
	return func(e *Engine) { e.split = p }
}

// WithLanguages sets the provider of default font sizes.
func WithLanguages(langs fontnorm.LanguageProvider) Option {
	return func(e *Engine) { e.norm = fontnorm.NewNormalizer(langs) }
}

// WithTracer traces every refresh.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithPointerSource polls p on every tick.
func WithPointerSource(p PointerSource) Option {
	return func(e *Engine) { e.pointer = p }
}

// WithActivityProbe gates the hover preview on host focus.
func WithActivityProbe(p interaction.ActivityProbe) Option {
	return func(e *Engine) { e.probe = p }
}

// Engine synchronizes one overview with its primary viewport(s). It is not
// safe for concurrent use; every call belongs on the UI goroutine.
type Engine struct {
	id       string
	primary  Primary
	split    Primary
	overview *overview.Overview
	provider SettingsProvider
	settings Settings

	norm       *fontnorm.Normalizer
	controller *interaction.Controller
	probe      interaction.ActivityProbe
	pointer    PointerSource
	tracer     trace.Tracer
	highlights highlight.Set

	state        State
	updating     bool
	scroll       ScrollState
	splitScroll  ScrollState
	subs         pubsub.Subscriptions
	splitSubs    pubsub.Subscriptions
	primaryText  string
	primaryLines int
	lastOverview int
}

// New attaches an engine to primary and applies the current settings.
func New(primary Primary, ov *overview.Overview, provider SettingsProvider, opts ...Option) *Engine {
	e := &Engine{
		id:          uuid.NewString(),
		overview:    ov,
		provider:    provider,
		tracer:      noop.NewTracerProvider().Tracer("minimap"),
		scroll:      newScrollState(),
		splitScroll: newScrollState(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.norm == nil {
		e.norm = fontnorm.NewNormalizer(nil)
	}
	e.controller = interaction.NewController(ov, e, e.probe, interaction.Settings{})

	split := e.split
	e.split = nil
	_ = e.Attach(primary)
	if split != nil {
		e.SetSplit(split)
	}
	return e
}

// ID identifies the engine in logs and traces.
func (e *Engine) ID() string { return e.id }

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Overview returns the overview surface.
func (e *Engine) Overview() *overview.Overview { return e.overview }

// Controller returns the pointer controller for the overview.
func (e *Engine) Controller() *interaction.Controller { return e.controller }

// Settings returns the settings applied by the last RefreshSettings.
func (e *Engine) Settings() Settings { return e.settings }

// Regions returns the highlighted regions painted on the overview.
func (e *Engine) Regions() []highlight.Region { return e.highlights.Regions() }

// ClassAt returns the highlight class at document line.
func (e *Engine) ClassAt(line int) (highlight.ColorClass, bool) { return e.highlights.ClassAt(line) }

// ScrollState returns the primary position last applied.
func (e *Engine) ScrollState() ScrollState { return e.scroll }

// Zoom returns the current zoom state.
func (e *Engine) Zoom() fontnorm.ZoomState { return e.norm.State() }

// Attach follows primary, replacing any previous primary. Scroll state is
// reset and the settings re-asserted.
func (e *Engine) Attach(primary Primary) error {
	if e.state == StateDisabled {
		return ErrDisabled
	}
	e.subs = e.subs.ReleaseAll()
	e.primary = primary
	e.scroll = newScrollState()
	e.primaryText = ""
	e.primaryLines = -1
	e.lastOverview = 0
	e.norm.Reset()
	e.subs = e.subs.Add(primary.Subscribe(func(ev surface.Event) { e.onEvent(ev) }))
	e.state = StateHidden
	log.Debug(log.CatEngine, "attached", "engine", e.id, "lines", primary.LineCount())
	return e.RefreshSettings()
}

// SetSplit attaches or, with nil, removes the second viewport. Changing the
// split re-asserts the settings.
func (e *Engine) SetSplit(p Primary) {
	if e.state == StateDisabled || e.state == StateDetached {
		return
	}
	e.splitSubs = e.splitSubs.ReleaseAll()
	e.split = p
	e.splitScroll = newScrollState()
	if p != nil {
		e.splitSubs = e.splitSubs.Add(p.Subscribe(func(ev surface.Event) { e.onEvent(ev) }))
	}
	_ = e.RefreshSettings()
}

// Detach stops following the primary and resets scroll state.
func (e *Engine) Detach() {
	if e.state == StateDisabled {
		return
	}
	e.release()
	e.scroll = newScrollState()
	e.splitScroll = newScrollState()
	e.state = StateDetached
	log.Debug(log.CatEngine, "detached", "engine", e.id)
}

func (e *Engine) release() {
	e.subs = e.subs.ReleaseAll()
	e.splitSubs = e.splitSubs.ReleaseAll()
	e.controller.ClosePreview()
}

// RefreshSettings re-reads the settings, applies visibility and forces a full
// refresh. Hosts call it after a settings change and whenever a previously
// hidden viewport becomes visible.
func (e *Engine) RefreshSettings() error {
	switch e.state {
	case StateDisabled:
		return ErrDisabled
	case StateDetached:
		return nil
	}

	prev := e.settings
	e.settings = e.provider.EngineSettings()
	if e.settings.MaxLineLimit <= 0 {
		e.settings.MaxLineLimit = DefaultMaxLineLimit
	}
	e.controller.SetSettings(e.settings.Interaction)
	e.overview.SetTabWidth(e.primary.TabWidth())

	switch {
	case e.settings.Visible && e.state != StateVisible:
		e.state = StateVisible
	case !e.settings.Visible && e.state == StateVisible:
		e.state = StateHidden
		e.controller.ClosePreview()
	}
	e.applyScrollbar()

	if prev.OnlyUpdateOnTimer != e.settings.OnlyUpdateOnTimer {
		log.Debug(log.CatEngine, "update mode changed", "timer_only", e.settings.OnlyUpdateOnTimer)
	}
	return e.Refresh(true)
}

func (e *Engine) applyScrollbar() {
	visible := e.state != StateVisible || e.settings.ShowVerticalScrollbar
	for _, p := range []Primary{e.primary, e.split} {
		if t, ok := p.(ScrollbarToggler); ok {
			t.SetScrollbarVisible(visible)
		}
	}
}

// Tick is the fixed-interval refresh. Hosts without native drag events get
// drag-scrolling from the pointer source here.
func (e *Engine) Tick() error {
	if e.state != StateVisible {
		if e.state == StateDisabled {
			return ErrDisabled
		}
		return nil
	}
	if e.pointer != nil {
		e.controller.Poll(e.pointer.Pointer())
	}
	return e.Refresh(false)
}

func (e *Engine) onEvent(ev surface.Event) {
	if e.state != StateVisible {
		return
	}
	if ev.ForcesRefresh() {
		_ = e.Refresh(true)
		return
	}
	if !e.settings.OnlyUpdateOnTimer {
		_ = e.Refresh(false)
	}
}

// Refresh brings the overview in line with the primary. force recomputes
// highlights and scroll position even when the primary has not moved.
// Refreshes triggered while one is running are dropped.
func (e *Engine) Refresh(force bool) error {
	if e.state == StateDisabled {
		return ErrDisabled
	}
	if e.state == StateDetached {
		return nil
	}
	if lines := e.primary.LineCount(); lines > e.settings.MaxLineLimit {
		log.Warn(log.CatEngine, "line limit exceeded, disabling",
			"engine", e.id, "lines", lines, "limit", e.settings.MaxLineLimit)
		e.disable()
		return ErrDisabled
	}
	if e.state != StateVisible {
		return nil
	}
	if e.updating {
		log.Debug(log.CatEngine, "refresh dropped, already updating")
		return nil
	}
	e.updating = true
	defer func() { e.updating = false }()

	_, span := e.tracer.Start(context.Background(), tracing.SpanRefresh,
		trace.WithAttributes(attribute.String(tracing.AttrEngineID, e.id)))
	defer span.End()

	e.overview.SetTabWidth(e.primary.TabWidth())

	if e.syncText() {
		force = true
	}

	ovLines := e.overview.LinesOnScreen()
	if e.lastOverview == 0 && ovLines > 0 {
		force = true
	}
	e.lastOverview = ovLines

	if fold.Mirror(e.primary, e.overview) {
		force = true
	}

	if z, changed := e.norm.Update(e.primary.LanguageID(), e.settings.TargetFontSize, force); changed {
		if e.overview.SetZoom(z.ZoomLevel) {
			force = true
		}
	}

	snap := surface.Snapshot(e.primary)
	moved := snap.FirstVisibleLine != e.scroll.LastFirstLine || snap.LinesOnScreen != e.scroll.LastLinesOnScreen
	var splitSnap surface.DocumentViewport
	if e.split != nil {
		splitSnap = surface.Snapshot(e.split)
		moved = moved ||
			splitSnap.FirstVisibleLine != e.splitScroll.LastFirstLine ||
			splitSnap.LinesOnScreen != e.splitScroll.LastLinesOnScreen
	}

	span.SetAttributes(
		attribute.Bool(tracing.AttrRefreshForced, force),
		attribute.Int(tracing.AttrRefreshFirstLine, snap.FirstVisibleLine),
		attribute.Int(tracing.AttrRefreshZoom, e.overview.Zoom()),
	)
	if !moved && !force {
		return nil
	}

	e.applyHighlights(snap, splitSnap)
	e.scroll = e.record(e.primary, snap)
	if e.split != nil {
		e.splitScroll = e.record(e.split, splitSnap)
	}
	e.applyScroll(snap)

	span.SetAttributes(attribute.Int(tracing.AttrRefreshRegions, len(e.highlights.Regions())))
	return nil
}

func (e *Engine) record(p Primary, snap surface.DocumentViewport) ScrollState {
	return ScrollState{
		LastFirstLine:     snap.FirstVisibleLine,
		LastLinesOnScreen: snap.LinesOnScreen,
		LastCenterLine:    p.DocLineFromVisible(snap.CenterLine()),
	}
}

// syncText copies the primary's text into the overview, padded with one blank
// line less than the primary shows so the last lines can scroll to the top.
// The padding follows resizes as well as text changes. It reports whether the
// overview text changed.
func (e *Engine) syncText() bool {
	text, lines := e.primary.Text(), e.primary.LinesOnScreen()
	if text == e.primaryText && lines == e.primaryLines {
		return false
	}
	e.primaryText, e.primaryLines = text, lines

	padded := sanitize(text) + strings.Repeat("\n", max(0, lines-1))
	if padded == e.overview.Text() {
		return false
	}
	e.overview.SetText(padded)
	log.Debug(log.CatEngine, "overview text synced", "lines", e.overview.LineCount())
	return true
}

// sanitize replaces invalid UTF-8 and replacement characters with '?'.
func sanitize(s string) string {
	s = strings.ToValidUTF8(s, "?")
	return strings.ReplaceAll(s, "�", "?")
}

func (e *Engine) applyHighlights(snap, splitSnap surface.DocumentViewport) {
	a := highlight.RangeFor(e.overview, snap.FirstVisibleLine, snap.LinesOnScreen)
	var regions []highlight.Region
	if e.split != nil {
		b := highlight.RangeFor(e.overview, splitSnap.FirstVisibleLine, splitSnap.LinesOnScreen)
		regions = highlight.Split(a, b)
	} else {
		regions = highlight.Single(a)
	}
	if e.highlights.Apply(regions) {
		log.Debug(log.CatEngine, "highlights applied", "regions", len(regions))
	}
}

func (e *Engine) applyScroll(snap surface.DocumentViewport) {
	res := scroll.Map(scroll.Input{
		DisplayLineCount:         e.overview.VisibleFromDocLine(e.overview.LineCount()),
		OverviewLinesOnScreen:    e.overview.LinesOnScreen(),
		OverviewFirstVisibleLine: e.overview.FirstVisibleLine(),
		PrimaryFirstVisibleLine:  snap.FirstVisibleLine,
		PrimaryLinesOnScreen:     snap.LinesOnScreen,
	})
	if !res.Scroll {
		log.Debug(log.CatScroll, "no overview scroll", "reason", res.Reason)
		return
	}
	e.overview.LineScroll(res.Delta)
	log.Debug(log.CatScroll, "overview scrolled", "target", res.TargetLine, "delta", res.Delta)
}

func (e *Engine) disable() {
	e.release()
	e.highlights.Clear()
	e.state = StateDisabled
}

// Viewport returns the primary driven by b.
func (e *Engine) Viewport(b interaction.Button) (surface.Viewport, bool) {
	switch b {
	case interaction.ButtonLeft:
		return e.primary, e.primary != nil
	case interaction.ButtonRight:
		return e.split, e.split != nil
	default:
		return nil, false
	}
}

// LastCenterLine returns the document line the viewport driven by b was last
// centred on.
func (e *Engine) LastCenterLine(b interaction.Button) int {
	if b == interaction.ButtonRight {
		return e.splitScroll.LastCenterLine
	}
	return e.scroll.LastCenterLine
}

// Navigated records a pointer navigation and refreshes.
func (e *Engine) Navigated(b interaction.Button, line int) {
	_, span := e.tracer.Start(context.Background(), tracing.SpanNavigate,
		trace.WithAttributes(
			attribute.String(tracing.AttrEngineID, e.id),
			attribute.Int(tracing.AttrNavigateLine, line),
		))
	defer span.End()

	if b == interaction.ButtonRight {
		e.splitScroll.LastCenterLine = line
	} else {
		e.scroll.LastCenterLine = line
	}
	_ = e.Refresh(false)
}
