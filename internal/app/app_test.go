package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/JoeRobich/fd-editorminimap/internal/config"
	"github.com/JoeRobich/fd-editorminimap/internal/engine"
	"github.com/JoeRobich/fd-editorminimap/internal/pubsub"
	"github.com/JoeRobich/fd-editorminimap/internal/ui/minimap"
	"github.com/JoeRobich/fd-editorminimap/internal/watcher"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func numbered(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "func f() {}"
	}
	return strings.Join(parts, "\n")
}

// createTestModel creates a sized model over an in-memory main.go.
func createTestModel(t *testing.T, text string, mut func(*Options)) *Model {
	t.Helper()
	opts := Options{
		Path:  "main.go",
		Text:  text,
		Store: config.NewStore(config.Defaults(), ""),
		ReadFile: func(string) ([]byte, error) {
			return nil, errors.New("no file")
		},
	}
	if mut != nil {
		mut(&opts)
	}
	m := New(opts)
	t.Cleanup(func() { _ = m.Close() })

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_Layout(t *testing.T) {
	m := createTestModel(t, numbered(200), nil)

	w, h := m.Primary().Size()
	require.Equal(t, 80, w, "minimap takes its configured width")
	require.Equal(t, 29, h, "status bar takes the last row")
	require.Equal(t, 27, m.Primary().LinesOnScreen())

	b := m.Minimap().Bounds()
	require.Equal(t, 80, b.X)
	require.Equal(t, 20, b.Width)
	require.Equal(t, 29, b.Height)

	require.Equal(t, "go", m.Primary().LanguageID())
	require.True(t, m.Minimap().Visible())
	require.False(t, m.Primary().ScrollbarVisible(), "minimap stands in for the scrollbar")
}

func TestApp_OverviewPaddingFollowsWindowSize(t *testing.T) {
	m := createTestModel(t, numbered(200), nil)
	ov := m.Minimap().Engine().Overview()
	require.Equal(t, 200+26, ov.LineCount(), "padded for the first window size")

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	require.Equal(t, 17, m.Primary().LinesOnScreen())
	require.Equal(t, 200+16, ov.LineCount())
}

func TestApp_LayoutLeftDock(t *testing.T) {
	cfg := config.Defaults()
	cfg.Minimap.Position = "left"
	m := createTestModel(t, numbered(200), func(o *Options) { o.Store = config.NewStore(cfg, "") })

	require.Equal(t, 0, m.Minimap().Bounds().X)
	lines := strings.Split(ansi.Strip(m.View()), "\n")
	require.True(t, strings.HasSuffix(strings.TrimRight(lines[1], " "), "│"), "editor frame ends the row")
}

func TestApp_View(t *testing.T) {
	m := createTestModel(t, numbered(200), nil)

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 30)
	for i, l := range lines {
		require.Equal(t, 100, ansi.StringWidth(l), "line %d", i)
	}
	plain := ansi.Strip(strings.Join(lines, "\n"))
	require.Contains(t, plain, "main.go")
	require.Contains(t, plain, "func f() {}")
	require.Contains(t, lines[29], "minimap visible")
}

func TestApp_ToggleMinimap(t *testing.T) {
	m := createTestModel(t, numbered(200), nil)

	_, cmd := m.Update(keyMsg("m"))
	require.NotNil(t, cmd, "toggling shows a toast")
	require.False(t, m.store.Get().Minimap.Visible)
	require.False(t, m.Minimap().Visible())
	w, _ := m.Primary().Size()
	require.Equal(t, 100, w, "hidden minimap frees its columns")
	require.True(t, m.Primary().ScrollbarVisible())
	require.True(t, m.toaster.Visible())

	m.Update(keyMsg("m"))
	require.True(t, m.Minimap().Visible())
	w, _ = m.Primary().Size()
	require.Equal(t, 80, w)
}

func TestApp_ToggleMinimapPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	m := createTestModel(t, numbered(20), func(o *Options) {
		o.Store = config.NewStore(config.Defaults(), path)
	})

	m.Update(keyMsg("m"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "visible: false")
}

func TestApp_ToggleSplit(t *testing.T) {
	m := createTestModel(t, numbered(200), nil)

	m.Update(keyMsg("s"))
	require.NotNil(t, m.Split())
	w1, _ := m.Primary().Size()
	w2, _ := m.Split().Size()
	require.Equal(t, 80, w1+w2)
	require.Equal(t, m.Primary().Text(), m.Split().Text())

	m.Split().ScrollTo(100)
	regions := m.Minimap().Engine().Regions()
	require.Len(t, regions, 2, "two disjoint viewports")

	m.Update(keyMsg("tab"))
	require.True(t, m.Split().Focused())
	require.False(t, m.Primary().Focused())

	m.Update(keyMsg("s"))
	require.Nil(t, m.Split())
	require.True(t, m.Primary().Focused())
	require.Len(t, m.Minimap().Engine().Regions(), 1)
}

func TestApp_SplitFromOptions(t *testing.T) {
	m := createTestModel(t, numbered(200), func(o *Options) { o.Split = true })

	require.NotNil(t, m.Split())
	require.Contains(t, ansi.Strip(m.View()), "split")
}

func TestApp_KeysScrollFocusedPane(t *testing.T) {
	m := createTestModel(t, numbered(200), nil)

	for i := 0; i < 30; i++ {
		m.Update(keyMsg("j"))
	}
	require.Equal(t, 30, m.Primary().Cursor())
	require.Equal(t, 4, m.Primary().FirstVisibleLine())
}

func TestApp_Zoom(t *testing.T) {
	m := createTestModel(t, numbered(200), nil)
	require.Equal(t, config.DefaultFontSize, m.store.Get().Minimap.FontSize)
	require.Equal(t, -8, m.Minimap().Engine().Zoom().ZoomLevel)

	m.Update(keyMsg("+"))
	require.Equal(t, 3, m.store.Get().Minimap.FontSize)
	require.Equal(t, -7, m.Minimap().Engine().Zoom().ZoomLevel)

	m.Update(keyMsg("-"))
	_, cmd := m.Update(keyMsg("-"))
	require.Equal(t, config.MinFontSize, m.store.Get().Minimap.FontSize)
	require.Nil(t, cmd, "already at the smallest size")
}

func TestApp_Reload(t *testing.T) {
	text := numbered(10)
	m := createTestModel(t, numbered(200), func(o *Options) {
		o.ReadFile = func(string) ([]byte, error) { return []byte(text), nil }
	})

	m.Update(keyMsg("r"))
	require.Equal(t, 10, m.Primary().LineCount())
	require.True(t, m.toaster.Visible())
}

func TestApp_ReloadFailure(t *testing.T) {
	m := createTestModel(t, numbered(20), nil)

	m.Update(keyMsg("r"))
	require.Equal(t, 20, m.Primary().LineCount())
	require.Contains(t, m.toaster.Message(), "Reload failed")
}

func TestApp_ReloadReplacesDisabledMinimap(t *testing.T) {
	cfg := config.Defaults()
	cfg.Minimap.MaxLineLimit = 100
	text := numbered(50)
	m := createTestModel(t, numbered(200), func(o *Options) {
		o.Store = config.NewStore(cfg, "")
		o.ReadFile = func(string) ([]byte, error) { return []byte(text), nil }
	})
	require.Equal(t, engine.StateDisabled, m.Minimap().Engine().State())
	w, _ := m.Primary().Size()
	require.Equal(t, 100, w)

	old := m.Minimap().Engine().ID()
	_, cmd := m.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	require.NotEqual(t, old, m.Minimap().Engine().ID())
	require.True(t, m.Minimap().Visible())
	w, _ = m.Primary().Size()
	require.Equal(t, 80, w)
}

func TestApp_DisabledShowsToast(t *testing.T) {
	m := createTestModel(t, numbered(20), nil)

	m.Update(minimap.DisabledMsg{ZoneID: zoneMinimap, Err: engine.ErrDisabled})
	require.Contains(t, m.toaster.Message(), "Minimap disabled")
}

func TestApp_WatcherReloadsDocument(t *testing.T) {
	text := numbered(5)
	m := createTestModel(t, numbered(20), func(o *Options) {
		o.ReadFile = func(string) ([]byte, error) { return []byte(text), nil }
	})
	abs, err := filepath.Abs("main.go")
	require.NoError(t, err)

	m.Update(pubsub.Event[watcher.Event]{
		Type:    pubsub.ChangedEvent,
		Payload: watcher.Event{Type: watcher.FilesChanged, Paths: []string{abs}},
	})
	require.Equal(t, 5, m.Primary().LineCount())
}

func TestApp_WatcherReloadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	reloaded := config.Defaults()
	reloaded.Minimap.Width = 30

	m := createTestModel(t, numbered(20), func(o *Options) {
		o.Store = config.NewStore(config.Defaults(), path)
		o.LoadConfig = func(string) (config.Config, error) { return reloaded, nil }
	})

	m.Update(pubsub.Event[watcher.Event]{
		Type:    pubsub.ChangedEvent,
		Payload: watcher.Event{Type: watcher.FilesChanged, Paths: []string{path}},
	})
	require.Equal(t, 30, m.Minimap().Bounds().Width)
	w, _ := m.Primary().Size()
	require.Equal(t, 70, w)
}

func TestApp_WatcherRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	bad := config.Defaults()
	bad.Minimap.HighlightColor = "not a colour"

	m := createTestModel(t, numbered(20), func(o *Options) {
		o.Store = config.NewStore(config.Defaults(), path)
		o.LoadConfig = func(string) (config.Config, error) { return bad, nil }
	})

	m.Update(pubsub.Event[watcher.Event]{
		Type:    pubsub.ChangedEvent,
		Payload: watcher.Event{Type: watcher.FilesChanged, Paths: []string{path}},
	})
	require.Equal(t, config.DefaultHighlight, m.store.Get().Minimap.HighlightColor)
	require.Contains(t, m.toaster.Message(), "Config error")
}

func TestApp_Help(t *testing.T) {
	m := createTestModel(t, numbered(20), nil)

	m.Update(keyMsg("?"))
	require.True(t, m.showHelp)
	require.Contains(t, ansi.Strip(m.View()), "Scrolling")

	m.Update(keyMsg("j"))
	require.True(t, m.showHelp, "keys do not reach the editor under the help")
	require.Equal(t, 0, m.Primary().Cursor())

	m.Update(keyMsg("esc"))
	require.False(t, m.showHelp)
}

func TestApp_Program(t *testing.T) {
	m := New(Options{
		Path:  "main.go",
		Text:  numbered(100),
		Store: config.NewStore(config.Defaults(), ""),
	})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("minimap visible"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(keyMsg("m"))
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("minimap hidden"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(keyMsg("q"))
	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(*Model)
	require.True(t, ok)
	require.False(t, final.Minimap().Visible())
	require.NoError(t, final.Close())
}
