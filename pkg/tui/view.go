package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/v6582374-netizen/Auto-note/pkg/dock"
	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// View renders the page header, the capture overlay, and the QuickDock.
// It also records the dock geometry used for mouse hit-testing.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.buildHeader()
	body := ""
	if m.overlayOn {
		body = m.buildOverlay()
	}
	dockView := m.buildDock()

	headerH := lipgloss.Height(header)
	bodyH := 0
	if body != "" {
		bodyH = lipgloss.Height(body)
	}
	dockH := 0
	if dockView != "" {
		dockH = lipgloss.Height(dockView)
	}

	filler := m.height - headerH - bodyH - dockH
	if filler < 0 {
		filler = 0
	}

	var b strings.Builder
	b.WriteString(header)
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	b.WriteString(strings.Repeat("\n", filler))
	if dockView != "" {
		b.WriteString("\n")
		b.WriteString(dockView)
		m.recordDockGeometry(dockH)
	} else {
		m.geom = dockGeometry{}
	}

	return b.String()
}

// recordDockGeometry caches where the dock landed so Update can hit-test
// pointer events. Entries start after the top border and title row.
func (m *model) recordDockGeometry(dockH int) {
	top := m.height - dockH
	geom := dockGeometry{top: top}
	if m.dock.Mode() == types.DockExpanded && !m.dock.MenuOpen() {
		geom.entryStart = top + 2
		geom.entryCount = len(m.dock.Entries())
	}
	m.geom = geom
}

func (m *model) buildHeader() string {
	title := m.doc.Title()
	if title == "" {
		title = m.doc.URL()
	}
	name := m.styles.OverlayTitle.Render(m.brandName)
	page := m.styles.Hint.Render(fmt.Sprintf(" %s - %s", title, m.doc.URL()))
	return name + page
}

func (m *model) buildOverlay() string {
	var sections []string

	statusStyle := m.styles.StatusLine
	if m.statusErr {
		statusStyle = m.styles.StatusError
	}
	sections = append(sections, statusStyle.Render(m.status))

	if m.summary != "" {
		sections = append(sections, m.styles.Summary.Width(m.overlayWidth()-4).Render(m.summary))
	}

	if len(m.categories) > 0 {
		sections = append(sections, m.styles.SectionLabel.Render("Category"))
		sections = append(sections, m.renderChips(m.categories, m.catIdx, m.zone == focusCategories, m.categorySelected))
	}
	if len(m.tags) > 0 {
		sections = append(sections, m.styles.SectionLabel.Render("Tags"))
		sections = append(sections, m.renderChips(m.tags, m.tagIdx, m.zone == focusTags, m.machine.HasTag))
	}

	noteBox := m.styles.NoteBox
	if m.zone == focusNote {
		noteBox = m.styles.NoteBoxFocused
	}
	sections = append(sections, noteBox.Width(m.overlayWidth()-4).Render(m.note.View()))

	hint := "Enter to save • Tab to move • Esc to close"
	sections = append(sections, m.styles.Hint.Render(hint)+"  "+m.styles.Link.Render("Open Library (ctrl+o)"))

	content := strings.Join(sections, "\n")
	return m.styles.OverlayBox.Width(m.overlayWidth()).Render(content)
}

func (m *model) categorySelected(category string) bool {
	return m.machine.SelectedCategory() == category
}

// renderChips draws one chip row. The focused chip is underlined only
// while its row owns keyboard focus; selected chips stay highlighted
// either way.
func (m *model) renderChips(labels []string, focusIdx int, rowFocused bool, selected func(string) bool) string {
	chips := make([]string, 0, len(labels))
	for i, label := range labels {
		style := m.styles.ChipIdle
		if selected(label) {
			style = m.styles.ChipSelected
		}
		if rowFocused && i == focusIdx {
			style = m.styles.ChipFocused
		}
		chips = append(chips, style.Render("["+label+"]"))
	}
	return strings.Join(chips, " ")
}

func (m *model) overlayWidth() int {
	return clampInt(m.width-8, 30, 76)
}

func (m *model) buildDock() string {
	if !m.dock.Visible() {
		return ""
	}

	switch m.dock.Mode() {
	case types.DockExpanded:
		if m.dock.MenuOpen() {
			return m.buildDockMenu()
		}
		return m.buildDockExpanded()
	case types.DockPeek:
		return m.buildDockPeek()
	default:
		return m.buildDockCollapsed()
	}
}

func (m *model) buildDockCollapsed() string {
	label := m.styles.DockTitle.Render("◆ " + m.brandName)
	return m.styles.DockBox.Render(label)
}

func (m *model) buildDockPeek() string {
	count := len(m.dock.Entries())
	label := m.styles.DockTitle.Render("◆ "+m.brandName) + m.styles.DockBadge.Render(fmt.Sprintf("  %d saved", count))
	return m.styles.DockBox.Render(label)
}

func (m *model) buildDockExpanded() string {
	var rows []string
	rows = append(rows, m.dockTitleRow())

	for i, entry := range m.dock.Entries() {
		rows = append(rows, m.dockEntryRow(entry, i == m.dock.FocusIndex()))
	}

	hint := "↑/↓ move • Enter open • m menu • p pin window • Esc close"
	rows = append(rows, m.styles.Hint.Render(hint))

	return m.styles.DockBox.Width(m.dockWidth()).Render(strings.Join(rows, "\n"))
}

func (m *model) dockTitleRow() string {
	title := m.styles.DockTitle.Render("◆ " + m.brandName)
	if m.dock.PinnedWindow() {
		title += m.styles.DockBadge.Render("  pinned")
	}
	return title
}

// dockEntryRow renders one list row on a single line so row positions
// map directly to terminal rows for mouse hit-testing.
func (m *model) dockEntryRow(entry types.DockEntry, focused bool) string {
	style := m.styles.DockEntry
	if focused {
		style = m.styles.DockFocused
	}

	marker := "  "
	if focused {
		marker = "> "
	}

	label := entry.Title
	if entry.Kind == types.DockEntryAction {
		label = "+ " + label
	} else if entry.Domain != "" {
		label += m.styles.DockSubtitle.Render("  " + entry.Domain)
	}
	if m.dock.EntryPinned(entry) {
		label += m.styles.DockPinned.Render(" ⦿")
	}

	return marker + style.Render(label)
}

func (m *model) buildDockMenu() string {
	entry, _ := m.dock.MenuEntry()

	var rows []string
	rows = append(rows, m.styles.DockTitle.Render(NormalizeLabel(entry.Title)))

	for i, item := range m.dock.MenuItems() {
		style := m.styles.MenuItem
		marker := "  "
		if i == m.dock.MenuIndex() {
			style = m.styles.MenuFocused
			marker = "> "
		}
		rows = append(rows, marker+style.Render(m.menuLabel(item, entry)))
	}

	rows = append(rows, m.styles.Hint.Render("Enter select • Esc back"))
	return m.styles.MenuBox.Width(m.dockWidth()).Render(strings.Join(rows, "\n"))
}

func (m *model) menuLabel(item dock.MenuItem, entry types.DockEntry) string {
	switch item {
	case dock.MenuPinToggle:
		if m.dock.EntryPinned(entry) {
			return "Unpin"
		}
		return "Pin"
	case dock.MenuCopyLink:
		return "Copy link"
	case dock.MenuDismiss:
		return "Dismiss for 30 days"
	case dock.MenuOpenManager:
		return "Open Library"
	}
	return ""
}

func (m *model) dockWidth() int {
	return clampInt(m.width/2, 28, 48)
}
