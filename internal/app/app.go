// Package app contains the root application model: one or two editor panes
// over the open document, the minimap docked beside them and a status bar.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/JoeRobich/fd-editorminimap/internal/config"
	"github.com/JoeRobich/fd-editorminimap/internal/engine"
	"github.com/JoeRobich/fd-editorminimap/internal/interaction"
	"github.com/JoeRobich/fd-editorminimap/internal/keys"
	"github.com/JoeRobich/fd-editorminimap/internal/language"
	"github.com/JoeRobich/fd-editorminimap/internal/log"
	"github.com/JoeRobich/fd-editorminimap/internal/overview"
	"github.com/JoeRobich/fd-editorminimap/internal/pubsub"
	"github.com/JoeRobich/fd-editorminimap/internal/surface"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/editor"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/help"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/minimap"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/overlay"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/preview"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/styles"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/toaster"
	"github.com/JoeRobich/fd-editorminimap/internal/watcher"
)

// Zone ids of the panes.
const (
	zonePrimary = "editor-primary"
	zoneSplit   = "editor-split"
	zoneMinimap = "minimap"
)

// Options configure the application.
type Options struct {
	// Path is the document shown. Empty shows Text without watching.
	Path string
	Text string

	Store     *config.Store
	Languages *language.Registry
	Tracer    trace.Tracer

	Split bool
	Watch bool

	// ReadFile reads the document on reload. Defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
	// LoadConfig re-reads the config file when it changes on disk. Nil
	// disables config reloading.
	LoadConfig func(path string) (config.Config, error)
}

// Model is the root application state.
type Model struct {
	store      *config.Store
	langs      *language.Registry
	tracer     trace.Tracer
	path       string
	readFile   func(string) ([]byte, error)
	loadConfig func(string) (config.Config, error)

	keys    keys.KeyMap
	primary *editor.Model
	split   *editor.Model
	minimap *minimap.Model
	focus   int

	// Global state
	width    int
	height   int
	showHelp bool
	help     help.Model
	toaster  toaster.Model
	subs     pubsub.Subscriptions

	// File watcher for the document and the config file
	watcherHandle   *watcher.Watcher
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[watcher.Event]
}

// New creates the application model.
func New(opts Options) *Model {
	if opts.Store == nil {
		opts.Store = config.NewStore(config.Defaults(), "")
	}
	if opts.Languages == nil {
		opts.Languages = language.NewRegistry()
	}
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}

	km := keys.DefaultKeyMap()
	m := &Model{
		store:      opts.Store,
		langs:      opts.Languages,
		tracer:     opts.Tracer,
		path:       opts.Path,
		readFile:   opts.ReadFile,
		loadConfig: opts.LoadConfig,
		keys:       km,
		help:       help.New(km),
		toaster:    toaster.New(),
	}

	cfg := m.store.Get()
	langID := m.langs.Detect(opts.Path, opts.Text)
	m.primary = m.newEditor(zonePrimary, opts.Text, langID, cfg)
	m.primary.Focus()
	if opts.Split {
		m.split = m.newEditor(zoneSplit, opts.Text, langID, cfg)
	}
	m.minimap = m.newMinimap(cfg)

	m.subs = m.subs.Add(m.store.Subscribe(m.applyConfig))

	if opts.Watch {
		m.startWatcher()
	}
	return m
}

func (m *Model) newEditor(id, text, langID string, cfg config.Config) *editor.Model {
	buf := surface.NewBuffer(text)
	buf.SetTabWidth(cfg.Editor.TabWidth)
	ed := editor.New(buf, editor.Options{
		ZoneID:      id,
		Title:       m.title(),
		Keys:        m.keys,
		LineNumbers: cfg.Editor.LineNumbers,
		SyntaxStyle: cfg.Editor.SyntaxStyle,
	})
	ed.SetLanguageID(langID)
	return ed
}

func (m *Model) newMinimap(cfg config.Config) *minimap.Model {
	palette, err := cfg.Minimap.Palette()
	if err != nil {
		log.ErrorErr(log.CatConfig, "invalid minimap colours, using defaults", err)
		palette, _ = config.Defaults().Minimap.Palette()
	}
	opts := []engine.Option{engine.WithLanguages(m.langs)}
	if m.split != nil {
		opts = append(opts, engine.WithSplit(m.split))
	}
	if m.tracer != nil {
		opts = append(opts, engine.WithTracer(m.tracer))
	}
	return minimap.New(m.primary, engine.SettingsFunc(m.engineSettings), minimap.Options{
		ZoneID:         zoneMinimap,
		Palette:        palette,
		Side:           cfg.Minimap.Side(),
		UpdateInterval: cfg.Minimap.UpdateInterval,
	}, opts...)
}

func (m *Model) startWatcher() {
	var paths []string
	if m.path != "" {
		paths = append(paths, m.path)
	}
	if p := m.store.Path(); p != "" && m.loadConfig != nil {
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return
	}

	w, err := watcher.New(watcher.DefaultConfig(paths...))
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Failed to create watcher", err)
		return
	}
	if err := w.Start(); err != nil {
		log.ErrorErr(log.CatWatcher, "Failed to start watcher", err)
		_ = w.Stop()
		return
	}
	m.watcherHandle = w
	m.watcherCtx, m.watcherCancel = context.WithCancel(context.Background())
	m.watcherListener = pubsub.NewContinuousListener(m.watcherCtx, w.Broker())
}

// engineSettings is the engine's view of the live configuration.
func (m *Model) engineSettings() engine.Settings {
	mc := m.store.Get().Minimap
	return engine.Settings{
		Visible:               mc.Visible,
		OnlyUpdateOnTimer:     mc.OnlyUpdateOnTimer,
		MaxLineLimit:          mc.MaxLineLimit,
		TargetFontSize:        mc.FontSize,
		ShowVerticalScrollbar: mc.ShowVerticalScrollbar,
		Interaction: interaction.Settings{
			PreviewEnabled: mc.ShowCodePreview,
			PreviewWidth:   mc.PreviewWidth,
			PreviewHeight:  mc.PreviewHeight,
		},
	}
}

// applyConfig pushes a changed configuration into the panes and re-asserts
// the engine's settings.
func (m *Model) applyConfig(cfg config.Config) {
	for _, ed := range m.editors() {
		ed.SetTabWidth(cfg.Editor.TabWidth)
		ed.SetLineNumbers(cfg.Editor.LineNumbers)
		ed.SetSyntaxStyle(cfg.Editor.SyntaxStyle)
	}
	if palette, err := cfg.Minimap.Palette(); err == nil {
		m.minimap.SetPalette(palette)
	} else {
		log.ErrorErr(log.CatConfig, "invalid minimap colours, keeping previous", err)
	}
	m.minimap.SetSide(cfg.Minimap.Side())
	m.minimap.SetUpdateInterval(cfg.Minimap.UpdateInterval)
	_ = m.minimap.Engine().RefreshSettings()
	m.layout()
}

func (m *Model) editors() []*editor.Model {
	if m.split != nil {
		return []*editor.Model{m.primary, m.split}
	}
	return []*editor.Model{m.primary}
}

func (m *Model) focused() *editor.Model {
	if m.focus == 1 && m.split != nil {
		return m.split
	}
	return m.primary
}

func (m *Model) title() string {
	if m.path == "" {
		return "[scratch]"
	}
	return filepath.Base(m.path)
}

// Primary returns the main editor pane.
func (m *Model) Primary() *editor.Model { return m.primary }

// Split returns the split view's second pane, or nil.
func (m *Model) Split() *editor.Model { return m.split }

// Minimap returns the minimap component.
func (m *Model) Minimap() *minimap.Model { return m.minimap }

// Init implements tea.Model. It starts the minimap timer and the watcher
// listener.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.minimap.Init()}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help = m.help.SetSize(msg.Width, msg.Height)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.focusPaneAt(msg)
		}
		cmds := []tea.Cmd{m.minimap.Update(msg)}
		for _, ed := range m.editors() {
			cmds = append(cmds, ed.Update(msg))
		}
		return m, tea.Batch(cmds...)

	case minimap.DisabledMsg:
		m.layout()
		return m, m.toast(fmt.Sprintf("Minimap disabled: more than %d lines", m.store.Get().Minimap.MaxLineLimit), toaster.StyleWarn)

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case pubsub.Event[watcher.Event]:
		return m.handleWatcher(msg.Payload)
	}

	// Ticks, hover timers and focus changes belong to the minimap.
	return m, m.minimap.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.minimap.Engine().Controller().ClosePreview()
		return m, nil

	case key.Matches(msg, m.keys.ToggleMinimap):
		visible := !m.store.Get().Minimap.Visible
		if err := m.store.SetVisible(visible); err != nil {
			return m, m.toast("Could not save visibility: "+err.Error(), toaster.StyleError)
		}
		if visible {
			return m, m.toast("Minimap shown", toaster.StyleInfo)
		}
		return m, m.toast("Minimap hidden", toaster.StyleInfo)

	case key.Matches(msg, m.keys.ToggleSplit):
		m.toggleSplit()
		return m, nil

	case key.Matches(msg, m.keys.SwitchPane):
		if m.split != nil {
			m.setFocus(1 - m.focus)
		}
		return m, nil

	case key.Matches(msg, m.keys.ZoomIn):
		return m, m.zoom(1)

	case key.Matches(msg, m.keys.ZoomOut):
		return m, m.zoom(-1)

	case key.Matches(msg, m.keys.Reload):
		if m.path == "" {
			return m, nil
		}
		cmd, err := m.reloadDocument()
		if err != nil {
			return m, m.toast("Reload failed: "+err.Error(), toaster.StyleError)
		}
		return m, tea.Batch(cmd, m.toast("Reloaded "+m.title(), toaster.StyleInfo))
	}

	return m, m.focused().Update(msg)
}

func (m *Model) toast(message string, style toaster.Style) tea.Cmd {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(message, style, toaster.DefaultDuration)
	return cmd
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for j, ed := range m.editors() {
		if j == i {
			ed.Focus()
		} else {
			ed.Blur()
		}
	}
}

func (m *Model) focusPaneAt(msg tea.MouseMsg) {
	for i, ed := range m.editors() {
		if z := zone.Get(ed.ZoneID()); z != nil && z.InBounds(msg) {
			m.setFocus(i)
			return
		}
	}
}

// zoom changes the target font size by delta.
func (m *Model) zoom(delta int) tea.Cmd {
	cfg := m.store.Get()
	cfg.Minimap.FontSize += delta
	if !m.store.Set(cfg) {
		return nil
	}
	return m.toast(fmt.Sprintf("Minimap font size %d", m.store.Get().Minimap.FontSize), toaster.StyleInfo)
}

// toggleSplit opens or closes the second pane and re-asserts the engine
// settings through SetSplit.
func (m *Model) toggleSplit() {
	if m.split != nil {
		m.minimap.Engine().SetSplit(nil)
		m.split.Close()
		m.split = nil
		m.setFocus(0)
		log.Debug(log.CatUI, "split closed")
	} else {
		m.split = m.newEditor(zoneSplit, m.primary.Text(), m.primary.LanguageID(), m.store.Get())
		m.split.ScrollTo(m.primary.FirstVisibleLine())
		m.minimap.Engine().SetSplit(m.split)
		log.Debug(log.CatUI, "split opened")
	}
	m.layout()
}

// reloadDocument reads the document again. A disabled minimap is replaced
// by a new one, since an engine never recovers from the line limit; the
// returned command starts the new minimap's timer.
func (m *Model) reloadDocument() (tea.Cmd, error) {
	data, err := m.readFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", m.path, err)
	}
	text := string(data)
	langID := m.langs.Detect(m.path, text)
	for _, ed := range m.editors() {
		ed.SetText(text)
		ed.SetLanguageID(langID)
	}
	log.Info(log.CatUI, "document reloaded", "path", m.path, "lines", m.primary.LineCount(), "language", langID)

	eng := m.minimap.Engine()
	if eng.State() == engine.StateDisabled {
		eng.Detach()
		m.minimap = m.newMinimap(m.store.Get())
		m.layout()
		return m.minimap.Init(), nil
	}
	_ = eng.RefreshSettings()
	return nil, nil
}

func (m *Model) reloadConfig() error {
	cfg, err := m.loadConfig(m.store.Path())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.store.Set(cfg)
	return nil
}

func (m *Model) handleWatcher(ev watcher.Event) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch ev.Type {
	case watcher.FilesChanged:
		if m.path != "" && ev.Has(m.path) {
			cmd, err := m.reloadDocument()
			if err != nil {
				log.ErrorErr(log.CatWatcher, "document reload failed", err)
				cmds = append(cmds, m.toast("Reload failed: "+err.Error(), toaster.StyleError))
			} else {
				cmds = append(cmds, cmd, m.toast("Reloaded "+m.title(), toaster.StyleInfo))
			}
		}
		if p := m.store.Path(); p != "" && m.loadConfig != nil && ev.Has(p) {
			if err := m.reloadConfig(); err != nil {
				log.ErrorErr(log.CatConfig, "config reload failed", err)
				cmds = append(cmds, m.toast("Config error: "+err.Error(), toaster.StyleError))
			} else {
				cmds = append(cmds, m.toast("Configuration reloaded", toaster.StyleInfo))
			}
		}

	case watcher.WatcherError:
		log.Warn(log.CatWatcher, "Watcher error received", "error", ev.Error)
	}

	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	return m, tea.Batch(cmds...)
}

// layout sizes the panes for the current screen. The minimap only takes
// space while it is drawn.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	cfg := m.store.Get()
	contentH := max(1, m.height-1)

	mapW := min(cfg.Minimap.Width, m.width/2)
	reserved := 0
	if m.minimap.Visible() {
		reserved = mapW
	}
	editorsW := m.width - reserved

	mapX := editorsW
	if cfg.Minimap.Side() == overview.SideLeft {
		mapX = 0
	}
	m.minimap.SetBounds(interaction.Rect{X: mapX, Y: 0, Width: mapW, Height: contentH}, m.width, m.height)

	if m.split != nil {
		left := editorsW / 2
		m.primary.SetSize(left, contentH)
		m.split.SetSize(editorsW-left, contentH)
	} else {
		m.primary.SetSize(editorsW, contentH)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	panes := make([]string, 0, 3)
	for _, ed := range m.editors() {
		panes = append(panes, ed.View())
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	if mm := m.minimap.View(); mm != "" {
		if m.minimap.Engine().Overview().Side() == overview.SideLeft {
			body = lipgloss.JoinHorizontal(lipgloss.Top, mm, body)
		} else {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, mm)
		}
	}
	view := body + "\n" + m.statusBar()

	if p := m.minimap.Engine().Controller().Preview(); p != nil {
		view = overlay.PlaceAt(preview.Render(p), view, p.X, p.Y, m.height)
	}
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	if m.showHelp {
		view = m.help.Overlay(view)
	}
	return zone.Scan(view)
}

func (m *Model) statusBar() string {
	eng := m.minimap.Engine()
	parts := []string{
		m.title(),
		m.primary.LanguageID(),
		fmt.Sprintf("%d lines", m.primary.LineCount()),
		"minimap " + eng.State().String(),
		fmt.Sprintf("zoom %d", eng.Zoom().ZoomLevel),
	}
	if m.split != nil {
		parts = append(parts, "split")
	}
	left := strings.Join(parts, " │ ")
	right := styles.StatusBarKeyStyle.Render("? help")

	innerW := max(0, m.width-2)
	gap := innerW - ansi.StringWidth(left) - ansi.StringWidth(right)
	line := left + strings.Repeat(" ", max(1, gap)) + right
	return styles.StatusBarStyle.Width(m.width).MaxWidth(m.width).Render(ansi.Truncate(line, innerW, "…"))
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.subs = m.subs.ReleaseAll()
	m.minimap.Engine().Detach()
	for _, ed := range m.editors() {
		ed.Close()
	}

	// Cancel watcher subscription context (stops listener)
	if m.watcherCancel != nil {
		m.watcherCancel()
	}
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
