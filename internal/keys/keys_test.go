package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_KeyAssignments(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"ToggleMinimap uses ctrl+m and m", km.ToggleMinimap, []string{"ctrl+m", "m"}},
		{"ToggleSplit uses ctrl+s and s", km.ToggleSplit, []string{"ctrl+s", "s"}},
		{"SwitchPane uses tab", km.SwitchPane, []string{"tab"}},
		{"Quit uses q and ctrl+c", km.Quit, []string{"q", "ctrl+c"}},
		{"Help uses ?", km.Help, []string{"?"}},
		{"Fold uses z", km.Fold, []string{"z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestDefaultKeyMap_HelpTextDefined(t *testing.T) {
	km := DefaultKeyMap()
	for _, row := range km.FullHelp() {
		for _, b := range row {
			require.NotEmpty(t, b.Help().Key, "binding %v should have help key", b.Keys())
			require.NotEmpty(t, b.Help().Desc, "binding %v should have help desc", b.Keys())
		}
	}
}

func TestDefaultKeyMap_Matches(t *testing.T) {
	km := DefaultKeyMap()

	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}}, km.ToggleMinimap))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyPgDown}, km.PageDown))
	require.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, km.ToggleMinimap))
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()
	help := km.ShortHelp()

	require.Len(t, help, 4)
	require.Equal(t, km.ToggleMinimap.Keys(), help[0].Keys())
	require.Equal(t, km.Quit.Keys(), help[3].Keys())
}

func TestFullHelp_CoversEveryGroup(t *testing.T) {
	km := DefaultKeyMap()
	help := km.FullHelp()

	require.Len(t, help, 4, "scrolling, folding, minimap and general rows")
	require.Len(t, help[0], 6)
	require.Len(t, help[2], 6)
}
