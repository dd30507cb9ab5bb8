package cmd

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/cookr/internal/pipeline"
)

func newTestEditor(text string) (editorModel, *[]renderRequest) {
	var scheduled []renderRequest
	m := newEditorModel(editorConfig{
		text:        text,
		rulesSource: "static",
		opts:        pipeline.DefaultOptions(),
		schedule: func(req renderRequest) {
			scheduled = append(scheduled, req)
		},
	})
	return m, &scheduled
}

func update(t *testing.T, m editorModel, msg tea.Msg) (editorModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	em, ok := next.(editorModel)
	require.True(t, ok)
	return em, cmd
}

// findRendered runs cmd and any batched commands until a renderedMsg turns
// up. Only call it on commands that do not sleep.
func findRendered(cmd tea.Cmd) (renderedMsg, bool) {
	if cmd == nil {
		return renderedMsg{}, false
	}
	switch msg := cmd().(type) {
	case renderedMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if r, ok := findRendered(c); ok {
				return r, true
			}
		}
	}
	return renderedMsg{}, false
}

func TestEditorModel_InitRendersWithoutDebounce(t *testing.T) {
	m, scheduled := newTestEditor("Pomidory 200 g\nPomidor 100 g")

	msg, ok := findRendered(m.Init())
	require.True(t, ok)
	assert.Empty(t, *scheduled)

	m, _ = update(t, m, msg)
	assert.False(t, m.rendering)
	assert.Equal(t, 1, m.result.MergedCount)
	assert.Contains(t, m.result.Markdown, "**Pomidor** `300 g`")
}

func TestEditorModel_TypingSchedulesDebouncedRender(t *testing.T) {
	m, scheduled := newTestEditor("Mleko 500 g")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	require.Len(t, *scheduled, 1)
	assert.Equal(t, "Mleko 500 gx", (*scheduled)[0].text)
	assert.Equal(t, 1, (*scheduled)[0].seq)
	assert.True(t, m.rendering)
}

func TestEditorModel_NonEditingKeyDoesNotSchedule(t *testing.T) {
	m, scheduled := newTestEditor("Mleko 500 g")

	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})

	assert.Empty(t, *scheduled)
}

func TestEditorModel_DropsStaleResults(t *testing.T) {
	m, scheduled := newTestEditor("")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	require.Len(t, *scheduled, 2)

	stale := (*scheduled)[0].run(nil)
	m, _ = update(t, m, stale)
	assert.True(t, m.rendering)
	assert.Empty(t, m.result.Products)

	latest := (*scheduled)[1].run(nil)
	m, _ = update(t, m, latest)
	assert.False(t, m.rendering)
	require.Len(t, m.result.Products, 1)
	assert.Equal(t, "ab", m.result.Products[0].Name)
}

func TestEditorModel_ToggleMergeRendersImmediately(t *testing.T) {
	m, scheduled := newTestEditor("Pomidory 200 g\nPomidor 100 g")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyF2})
	assert.False(t, m.opts.MergeSimilar)
	assert.Empty(t, *scheduled)

	msg, ok := findRendered(cmd)
	require.True(t, ok)
	assert.Equal(t, m.seq, msg.seq)
	assert.Zero(t, msg.result.MergedCount)
	assert.Len(t, msg.result.Products, 2)
}

func TestEditorModel_ScoreKeysClamp(t *testing.T) {
	m, _ := newTestEditor("")
	m.opts.MergeMaxScore = 100
	m.opts.CategoriseMaxScore = 0

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF4})
	assert.Equal(t, 100, m.opts.MergeMaxScore)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF3})
	assert.Equal(t, 95, m.opts.MergeMaxScore)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF6})
	assert.Equal(t, 0, m.opts.CategoriseMaxScore)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF7})
	assert.Equal(t, 5, m.opts.CategoriseMaxScore)
}

func TestEditorModel_ToggleKeys(t *testing.T) {
	m, _ := newTestEditor("")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF5})
	assert.False(t, m.opts.Categorise)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF8})
	assert.False(t, m.opts.ShowMerged)
}

func TestEditorModel_CleanAndSort(t *testing.T) {
	m, _ := newTestEditor("*Pomidory (400g) Cebula 200 g")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF9})
	assert.Equal(t, "Pomidory\nCebula 200 g", m.input.Value())
	assert.Equal(t, "cleaned up list", m.status)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF10})
	assert.Equal(t, "Cebula 200 g\nPomidory", m.input.Value())
}

func TestEditorModel_CopyChecklist(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { copyToClipboard = orig })

	m, _ := newTestEditor("Mleko 500 g")
	msg, ok := findRendered(m.Init())
	require.True(t, ok)
	m, _ = update(t, m, msg)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, m.result.Markdown, copied)
	assert.Equal(t, "copied checklist to clipboard", m.status)
	assert.False(t, m.statusErr)
}

func TestEditorModel_SaveWithoutPath(t *testing.T) {
	m, _ := newTestEditor("Mleko 500 g")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, cmd)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "no file to save to")
}

func TestEditorModel_SaveWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	m := newEditorModel(editorConfig{text: "Mleko 500 g", path: path, opts: pipeline.DefaultOptions()})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Mleko 500 g\n", string(data))
	assert.Equal(t, "saved "+path, m.status)
}

func TestEditorModel_TabMovesFocusToPreview(t *testing.T) {
	m, scheduled := newTestEditor("Mleko 500 g")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tuiFocusPreview, m.focus)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Empty(t, *scheduled)
	assert.Equal(t, "Mleko 500 g", m.input.Value())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tuiFocusEditor, m.focus)
}

func TestEditorModel_QuitKeys(t *testing.T) {
	m, _ := newTestEditor("")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestEditorModel_View(t *testing.T) {
	m, _ := newTestEditor("Pomidory 200 g\nPomidor 100 g")
	assert.Contains(t, m.View(), "Loading editor")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 10})
	assert.Contains(t, m.View(), "Terminal too small (60x10)")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	msg, ok := findRendered(m.Init())
	require.True(t, ok)
	m, _ = update(t, m, msg)

	view := m.View()
	assert.Contains(t, view, "cookr tui")
	assert.Contains(t, view, "products: 1")
	assert.Contains(t, view, "merged: 1")
	assert.Contains(t, view, "Pomidor")
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-5))
	assert.Equal(t, 100, clampScore(105))
	assert.Equal(t, 40, clampScore(40))
}
