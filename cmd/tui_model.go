package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/pipeline"
)

const (
	minTUIWidth  = 80
	minTUIHeight = 20

	scoreStep = 5
)

var (
	tuiHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tuiMetaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiOnStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tuiOffStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type tuiFocus int

const (
	tuiFocusEditor tuiFocus = iota
	tuiFocusPreview
)

type editorConfig struct {
	text        string
	path        string
	rules       []ingredient.MatchingRule
	rulesSource string
	opts        pipeline.Options
	schedule    func(renderRequest)
}

type renderedMsg struct {
	seq    int
	result pipeline.Result
}

type savedMsg struct {
	path string
	err  error
}

type copiedMsg struct {
	err error
}

func (r renderRequest) run(rules []ingredient.MatchingRule) renderedMsg {
	return renderedMsg{seq: r.seq, result: pipeline.Run(r.text, rules, r.opts)}
}

type editorModel struct {
	input   textarea.Model
	preview viewport.Model
	spinner spinner.Model

	path        string
	rules       []ingredient.MatchingRule
	rulesSource string
	opts        pipeline.Options
	schedule    func(renderRequest)

	// seq numbers render requests; results older than the last request
	// are dropped.
	seq       int
	rendering bool
	result    pipeline.Result
	status    string
	statusErr bool

	focus    tuiFocus
	showHelp bool

	width, height int
	bodyHeight    int
	paneWidth     int
	tooSmall      bool
}

func newEditorModel(cfg editorConfig) editorModel {
	input := textarea.New()
	input.Placeholder = "Pomidory 200 g\nMleko 500 g"
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetValue(ingredient.NormalizeText(cfg.text))
	input.Focus()

	preview := viewport.New(0, 0)
	preview.KeyMap.PageDown.SetKeys("f", "pgdown")
	preview.KeyMap.PageUp.SetKeys("b", "pgup")
	preview.KeyMap.HalfPageDown.SetKeys("d")
	preview.KeyMap.HalfPageUp.SetKeys("u")

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	schedule := cfg.schedule
	if schedule == nil {
		schedule = func(renderRequest) {}
	}

	return editorModel{
		input:       input,
		preview:     preview,
		spinner:     spin,
		path:        cfg.path,
		rules:       cfg.rules,
		rulesSource: cfg.rulesSource,
		opts:        cfg.opts,
		schedule:    schedule,
		rendering:   true,
		focus:       tuiFocusEditor,
	}
}

func (m editorModel) Init() tea.Cmd {
	req := renderRequest{seq: m.seq, text: m.input.Value(), opts: m.opts}
	rules := m.rules
	return tea.Batch(textarea.Blink, m.spinner.Tick, func() tea.Msg {
		return req.run(rules)
	})
}

// renderNow issues a request that bypasses the debounce. Option changes
// are discrete and render at once.
func (m *editorModel) renderNow() tea.Cmd {
	req := m.nextRequest()
	rules := m.rules
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return req.run(rules)
	})
}

// renderLater hands the request to the debounce scheduler, which delivers
// the result as a renderedMsg once typing pauses.
func (m *editorModel) renderLater() tea.Cmd {
	m.schedule(m.nextRequest())
	return m.spinner.Tick
}

func (m *editorModel) nextRequest() renderRequest {
	m.seq++
	m.rendering = true
	return renderRequest{seq: m.seq, text: m.input.Value(), opts: m.opts}
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case renderedMsg:
		if msg.seq < m.seq {
			return m, nil
		}
		m.rendering = false
		m.result = msg.result
		m.refreshPreview()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("save failed: %v", msg.err), true)
		} else {
			m.setStatus("saved "+msg.path, false)
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("copy failed: %v", msg.err), true)
		} else {
			m.setStatus("copied checklist to clipboard", false)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.rendering {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == tuiFocusEditor {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.setStatus("", false)

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.toggleFocus()
		return m, nil
	case "f1":
		m.showHelp = !m.showHelp
		m.resize()
		return m, nil
	case "f2":
		m.opts.MergeSimilar = !m.opts.MergeSimilar
		cmd := m.renderNow()
		return m, cmd
	case "f3":
		m.opts.MergeMaxScore = clampScore(m.opts.MergeMaxScore - scoreStep)
		cmd := m.renderNow()
		return m, cmd
	case "f4":
		m.opts.MergeMaxScore = clampScore(m.opts.MergeMaxScore + scoreStep)
		cmd := m.renderNow()
		return m, cmd
	case "f5":
		m.opts.Categorise = !m.opts.Categorise
		cmd := m.renderNow()
		return m, cmd
	case "f6":
		m.opts.CategoriseMaxScore = clampScore(m.opts.CategoriseMaxScore - scoreStep)
		cmd := m.renderNow()
		return m, cmd
	case "f7":
		m.opts.CategoriseMaxScore = clampScore(m.opts.CategoriseMaxScore + scoreStep)
		cmd := m.renderNow()
		return m, cmd
	case "f8":
		m.opts.ShowMerged = !m.opts.ShowMerged
		cmd := m.renderNow()
		return m, cmd
	case "f9":
		m.input.SetValue(ingredient.CleanUp(m.input.Value()))
		m.setStatus("cleaned up list", false)
		cmd := m.renderNow()
		return m, cmd
	case "f10":
		m.input.SetValue(ingredient.SortLines(m.input.Value()))
		m.setStatus("sorted lines", false)
		cmd := m.renderNow()
		return m, cmd
	case "ctrl+y":
		return m, copyCmd(m.result.Markdown)
	case "ctrl+s":
		if m.path == "" {
			m.setStatus("no file to save to: start with `cookr tui list.txt`", true)
			return m, nil
		}
		return m, saveCmd(m.path, m.input.Value())
	}

	if m.focus == tuiFocusPreview {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	later := m.renderLater()
	return m, tea.Batch(cmd, later)
}

func (m *editorModel) toggleFocus() {
	if m.focus == tuiFocusEditor {
		m.focus = tuiFocusPreview
		m.input.Blur()
		return
	}
	m.focus = tuiFocusEditor
	m.input.Focus()
}

func (m *editorModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func copyCmd(md string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: copyToClipboard(md)}
	}
}

func saveCmd(path, text string) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{path: path, err: writeFile(path, text)}
	}
}

func clampScore(v int) int {
	return max(0, min(pipeline.MaxScore, v))
}

func (m editorModel) View() string {
	if m.width == 0 || m.height == 0 {
		return tuiMetaStyle.Render("Loading editor...")
	}
	if m.tooSmall {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(
				fmt.Sprintf(
					"Terminal too small (%dx%d).\nResize to at least %dx%d for the editor and preview panes.",
					m.width, m.height, minTUIWidth, minTUIHeight,
				),
			)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.bodyView(),
		m.footerView(),
	)
}

func (m *editorModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	m.tooSmall = m.width < minTUIWidth || m.height < minTUIHeight
	if m.tooSmall {
		return
	}

	headerH := 3
	footerH := 2
	if m.showHelp {
		footerH = 6
	}
	m.bodyHeight = max(8, m.height-headerH-footerH-1)
	m.paneWidth = (m.width - 1) / 2

	innerWidth := max(24, m.paneWidth-4)
	innerHeight := max(6, m.bodyHeight-2)

	m.input.SetWidth(innerWidth)
	m.input.SetHeight(innerHeight)
	m.preview.Width = innerWidth
	m.preview.Height = innerHeight
	m.refreshPreview()
}

func (m *editorModel) refreshPreview() {
	content := m.result.Markdown
	if content == "" {
		content = tuiHintStyle.Render("Type products, one per line, e.g. `Pomidory 200 g`.")
	}
	if m.preview.Width > 0 {
		content = lipgloss.NewStyle().Width(m.preview.Width).Render(content)
	}
	m.preview.SetContent(content)
}

func (m editorModel) headerView() string {
	top := "cookr tui"
	if m.path != "" {
		top += "  |  " + m.path
	}
	if m.rendering {
		top += "  " + m.spinner.View()
	}

	bottom := fmt.Sprintf(
		"products: %d  |  merged: %d  |  rules: %d (%s)  |  %s",
		len(m.result.Products), m.result.MergedCount, len(m.rules), m.rulesSource, m.optionsSummary(),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(tuiHeaderStyle.Render(top) + "\n" + tuiMetaStyle.Render(bottom))
}

func (m editorModel) optionsSummary() string {
	parts := []string{
		toggleLabel("merge", m.opts.MergeSimilar, m.opts.MergeMaxScore),
		toggleLabel("categorise", m.opts.Categorise, m.opts.CategoriseMaxScore),
		toggleLabel("details", m.opts.ShowMerged, -1),
	}
	return strings.Join(parts, "  ")
}

func toggleLabel(name string, on bool, score int) string {
	if !on {
		return tuiOffStyle.Render(name + ":off")
	}
	if score < 0 {
		return tuiOnStyle.Render(name + ":on")
	}
	return tuiOnStyle.Render(fmt.Sprintf("%s:%d", name, score))
}

func (m editorModel) bodyView() string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)
	editorBorder := border
	previewBorder := border

	if m.focus == tuiFocusEditor {
		editorBorder = editorBorder.BorderForeground(lipgloss.Color("86"))
	} else {
		previewBorder = previewBorder.BorderForeground(lipgloss.Color("86"))
	}

	left := editorBorder.
		Width(m.paneWidth).
		Height(m.bodyHeight).
		Render(m.input.View())
	right := previewBorder.
		Width(m.paneWidth).
		Height(m.bodyHeight).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m editorModel) footerView() string {
	if m.status != "" && !m.showHelp {
		style := tuiHintStyle
		if m.statusErr {
			style = tuiErrorStyle
		}
		return lipgloss.NewStyle().Padding(0, 1).Render(style.Render(m.status))
	}

	base := "Tab switch pane • F2 merge • F5 categorise • F9 clean • F10 sort • ctrl+y copy • ctrl+s save • F1 help • esc quit"
	if m.focus == tuiFocusPreview {
		base = "Preview: j/k or ↑/↓ scroll • u/d half-page • b/f page • tab editor • esc quit"
	}

	if !m.showHelp {
		return lipgloss.NewStyle().Padding(0, 1).Render(tuiHintStyle.Render(base))
	}

	lines := []string{
		"Key Help",
		"merge: F2 toggle • F3/F4 threshold -/+5 • F8 toggle merge details",
		"categories: F5 toggle • F6/F7 threshold -/+5",
		"list: F9 clean up • F10 sort lines • ctrl+s save • ctrl+y copy checklist",
		"global: tab switch pane • F1 toggle help • esc or ctrl+c quit",
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(tuiHintStyle.Render(strings.Join(lines, "\n")))
}
