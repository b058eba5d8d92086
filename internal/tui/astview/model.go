// ============================================================================
// ember - Lexer, Parser und AST
// ============================================================================
//
// Package:     astview
// Description: Bubbletea model for browsing a parsed ember program
// Author:      Mike Stoffels
// Created:     2025-03-09
// License:     MIT
// ============================================================================

package astview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/ember/foundation/ember"
	"github.com/msto63/ember/foundation/ember/ast"
)

// Config holds AST viewer configuration
type Config struct {
	// Name of the source, shown in the header and passed to the engine
	Name string
	// Load returns the current source text; it is called again on reload
	Load func() (string, error)
	// Engine parses the source
	Engine *ember.Engine
}

// Model is the Bubbletea model of the AST viewer
type Model struct {
	// State
	width     int
	height    int
	ready     bool
	loading   bool
	searching bool
	positions bool
	err       error

	// Components
	viewport viewport.Model
	spinner  spinner.Model
	search   textinput.Model

	// Tree state
	result    *ember.Result
	lines     []ast.TreeLine
	collapsed map[int]bool
	visible   []int // indices into lines
	cursor    int   // index into visible
	query     string

	config Config
}

// New creates a new AST viewer model
func New(cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	ti := textinput.New()
	ti.Placeholder = "Knoten suchen..."
	ti.Prompt = "/"
	ti.CharLimit = 64

	return Model{
		spinner:   sp,
		search:    ti,
		loading:   true,
		positions: true,
		collapsed: make(map[int]bool),
		config:    cfg,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.parse)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3 // Title panel
		footerHeight := 4 // Tree border + status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case parsedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.setResult(msg.result)
		}
		m.updateViewportContent()

	case reloadMsg:
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.parse)
	}

	return m, nil
}

// handleKeyPress handles keyboard input while browsing
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyUp:
		m.moveCursor(-1)
	case tea.KeyDown:
		m.moveCursor(1)
	case tea.KeyPgUp:
		m.moveCursor(-m.viewport.Height)
	case tea.KeyPgDown:
		m.moveCursor(m.viewport.Height)
	case tea.KeyEnter, tea.KeySpace:
		m.toggleCollapse()
	case tea.KeyLeft:
		m.collapseOrParent()
	case tea.KeyRight:
		m.expand()

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit
		case "k":
			m.moveCursor(-1)
		case "j":
			m.moveCursor(1)
		case "g":
			m.moveCursor(-len(m.visible))
		case "G":
			m.moveCursor(len(m.visible))
		case "h":
			m.collapseOrParent()
		case "l":
			m.expand()
		case "e":
			m.collapsed = make(map[int]bool)
			m.rebuildVisible()
		case "c":
			m.collapseAll()
		case "p":
			m.positions = !m.positions
		case "n":
			m.nextMatch()
		case "/":
			m.searching = true
			m.search.SetValue(m.query)
			m.search.Focus()
			return m, textinput.Blink
		case "r":
			return m, func() tea.Msg { return reloadMsg{} }
		}
	}

	m.updateViewportContent()
	return m, nil
}

// handleSearchKey handles keyboard input in the search field
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.query = strings.TrimSpace(m.search.Value())
		m.nextMatch()
		m.updateViewportContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Lade AST-Ansicht..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(TreePanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

// renderHeader renders the header with logo and source name
func (m Model) renderHeader() string {
	var status string
	switch {
	case m.loading:
		status = m.spinner.View() + " Parse läuft..."
	case m.err != nil:
		status = StatusErrorStyle.Render(IconError + "Fehler")
	default:
		status = StatusOKStyle.Render(IconOK + "OK")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render(Logo),
		strings.Repeat(" ", 3),
		HelpDescStyle.Render(m.config.Name),
		strings.Repeat(" ", 3),
		status,
	)
	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

// renderStatusBar renders node counts and the search state
func (m Model) renderStatusBar() string {
	if m.searching {
		return StatusBarStyle.Width(m.width - 2).Render(m.search.View())
	}

	var parts []string
	if m.err != nil {
		parts = append(parts, StatusErrorStyle.Render(m.err.Error()))
	} else if m.result != nil {
		parts = append(parts, fmt.Sprintf("Knoten: %d/%d", len(m.visible), len(m.lines)))
		if len(m.visible) > 0 {
			parts = append(parts, fmt.Sprintf("Zeile %d", m.cursor+1))
		}
		if m.result.Cached {
			parts = append(parts, "aus Cache")
		} else {
			parts = append(parts, fmt.Sprintf("%d Tokens", m.result.Tokens))
		}
		if m.query != "" {
			parts = append(parts, fmt.Sprintf("Suche: %q", m.query))
		}
	}

	return StatusBarStyle.Width(m.width - 2).Render(strings.Join(parts, "  │  "))
}

// renderHelpBar renders the help shortcuts bar
func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("↑/↓", "Navigation"),
		RenderKeyHint("Enter", "Auf/Zu"),
		RenderKeyHint("e/c", "Alle auf/zu"),
		RenderKeyHint("/", "Suche"),
		RenderKeyHint("n", "Weiter"),
		RenderKeyHint("p", "Positionen"),
		RenderKeyHint("r", "Neu laden"),
		RenderKeyHint("q", "Beenden"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateViewportContent renders the visible tree lines into the viewport
func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}

	var content strings.Builder
	for i, idx := range m.visible {
		content.WriteString(m.renderLine(idx, i == m.cursor))
		content.WriteString("\n")
	}
	m.viewport.SetContent(content.String())
	m.ensureCursorVisible()
}

// renderLine renders one tree line
func (m Model) renderLine(idx int, selected bool) string {
	line := m.lines[idx]

	icon := IconLeaf
	if m.hasChildren(idx) {
		icon = IconExpanded
		if m.collapsed[idx] {
			icon = IconCollapsed
		}
	}

	label := NodeStyle(line.Node.Kind()).Render(line.Label)
	if m.query != "" && strings.Contains(line.Label, m.query) {
		label = MatchStyle.Render(line.Label)
	}

	text := strings.Repeat("  ", line.Depth) + icon + label
	if m.collapsed[idx] {
		text += CollapsedStyle.Render(fmt.Sprintf(" … %d", m.descendants(idx)))
	}
	if pos := line.Node.Position(); m.positions && pos.Line > 0 {
		text += "  " + PositionStyle.Render("@"+pos.String())
	}

	if selected {
		return SelectedLineStyle.Render(text)
	}
	return text
}

// setResult replaces the tree, keeping the cursor line where possible
func (m *Model) setResult(result *ember.Result) {
	previous := m.currentLine()

	lines := ast.Flatten(result.Root)
	if len(lines) != len(m.lines) {
		m.collapsed = make(map[int]bool)
	}
	m.result = result
	m.lines = lines
	m.rebuildVisible()
	m.cursor = 0
	m.selectLine(previous)
}

// rebuildVisible recomputes which lines are shown under collapsed nodes
func (m *Model) rebuildVisible() {
	current := m.currentLine()

	m.visible = make([]int, 0, len(m.lines))
	for i := 0; i < len(m.lines); i++ {
		m.visible = append(m.visible, i)
		if m.collapsed[i] {
			i += m.descendants(i)
		}
	}
	m.selectLine(current)
}

// currentLine returns the line index under the cursor, or -1
func (m Model) currentLine() int {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return -1
	}
	return m.visible[m.cursor]
}

// selectLine moves the cursor to a line, or to its nearest visible
// ancestor when the line is hidden
func (m *Model) selectLine(idx int) {
	if idx < 0 {
		return
	}
	best := 0
	for i, v := range m.visible {
		if v > idx {
			break
		}
		best = i
	}
	m.cursor = best
}

// hasChildren reports whether the line has child lines
func (m Model) hasChildren(idx int) bool {
	return idx+1 < len(m.lines) && m.lines[idx+1].Depth > m.lines[idx].Depth
}

// descendants counts the lines below idx that belong to its subtree
func (m Model) descendants(idx int) int {
	n := 0
	for j := idx + 1; j < len(m.lines) && m.lines[j].Depth > m.lines[idx].Depth; j++ {
		n++
	}
	return n
}

func (m *Model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
}

func (m *Model) toggleCollapse() {
	idx := m.currentLine()
	if idx < 0 || !m.hasChildren(idx) {
		return
	}
	if m.collapsed[idx] {
		delete(m.collapsed, idx)
	} else {
		m.collapsed[idx] = true
	}
	m.rebuildVisible()
}

// collapseOrParent collapses the current node or jumps to its parent
func (m *Model) collapseOrParent() {
	idx := m.currentLine()
	if idx < 0 {
		return
	}
	if m.hasChildren(idx) && !m.collapsed[idx] {
		m.collapsed[idx] = true
		m.rebuildVisible()
		return
	}
	for j := idx - 1; j >= 0; j-- {
		if m.lines[j].Depth < m.lines[idx].Depth {
			m.selectLine(j)
			return
		}
	}
}

func (m *Model) expand() {
	idx := m.currentLine()
	if idx >= 0 && m.collapsed[idx] {
		delete(m.collapsed, idx)
		m.rebuildVisible()
	}
}

// collapseAll collapses every node below the root
func (m *Model) collapseAll() {
	m.collapsed = make(map[int]bool)
	for i, line := range m.lines {
		if line.Depth > 0 && m.hasChildren(i) {
			m.collapsed[i] = true
		}
	}
	m.rebuildVisible()
}

// nextMatch moves to the next line whose label contains the query,
// expanding collapsed ancestors
func (m *Model) nextMatch() {
	if m.query == "" || len(m.lines) == 0 {
		return
	}

	start := m.currentLine()
	for step := 1; step <= len(m.lines); step++ {
		idx := (start + step) % len(m.lines)
		if !strings.Contains(m.lines[idx].Label, m.query) {
			continue
		}
		m.revealLine(idx)
		m.selectLine(idx)
		return
	}
}

// revealLine expands every collapsed ancestor of idx
func (m *Model) revealLine(idx int) {
	depth := m.lines[idx].Depth
	for j := idx - 1; j >= 0 && depth > 0; j-- {
		if m.lines[j].Depth < depth {
			delete(m.collapsed, j)
			depth = m.lines[j].Depth
		}
	}
	m.rebuildVisible()
}

func (m *Model) ensureCursorVisible() {
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// parse loads and parses the source
func (m Model) parse() tea.Msg {
	source, err := m.config.Load()
	if err != nil {
		return parsedMsg{err: err}
	}
	result, err := m.config.Engine.Parse(context.Background(), m.config.Name, source)
	return parsedMsg{result: result, err: err}
}

// Run starts the AST viewer TUI
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
