package tui

import (
	"errors"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/v6582374-netizen/Auto-note/pkg/config"
	"github.com/v6582374-netizen/Auto-note/pkg/dock"
	"github.com/v6582374-netizen/Auto-note/pkg/session"
	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// Init arms the push listener and the first dock refresh.
func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForPush(),
		m.refreshDock(),
		m.scheduleRefresh(m.refreshGen),
	)
}

// Update handles all state updates for the UI model.
//
// Uses a pointer receiver so overlay and dock mutations persist across
// messages.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.note.Width = clampInt(msg.Width-10, 20, 70)
		m.ready = true
		return m, nil

	case tea.FocusMsg:
		// The page regained focus; the dock list may be stale.
		if m.dock.Visible() {
			return m, m.refreshDock()
		}
		return m, nil

	case tea.BlurMsg:
		m.hovering = false
		if m.dock.ApplyMode(dock.EventPointerLeave) {
			mode := m.dock.Mode()
			return m, m.persistLayout(&mode, nil)
		}
		return m, nil

	case pushMsg:
		return m.handlePush(msg.env)

	case pushesClosedMsg:
		m.log.Infof("push stream closed, exiting")
		return m, tea.Quit

	case dismissTickMsg:
		if msg.gen != m.dismissGen || !m.overlayOn {
			return m, nil
		}
		if m.machine.State() == session.StateSaved {
			m.dismissOverlay()
		}
		return m, nil

	case refreshTickMsg:
		if msg.gen != m.refreshGen {
			return m, nil
		}
		// Re-arm the periodic tick alongside the fetch.
		m.refreshGen++
		return m, tea.Batch(m.refreshDock(), m.scheduleRefresh(m.refreshGen))

	case dockStateMsg:
		if msg.err != nil {
			m.log.Warnf("dock refresh failed: %v", msg.err)
			m.dock.HandleRefreshError(msg.err)
			return m, nil
		}
		m.dock.SetState(msg.state)
		return m, nil

	case submitResultMsg:
		if msg.err != nil {
			m.log.Errorf("note submission failed: %v", msg.err)
			m.machine.FailSubmit()
			m.status = "Save failed. Press Enter to retry."
			m.statusErr = true
		}
		return m, nil

	case opResultMsg:
		if msg.err != nil {
			m.log.Warnf("%s failed: %v", msg.op, msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

// handlePush routes one push envelope. Start events are request/response:
// the reply carries the capture payload (or a machine-readable refusal
// for excluded pages).
func (m *model) handlePush(env types.Envelope) (tea.Model, tea.Cmd) {
	rearm := m.waitForPush()

	event, err := types.DecodePush(env)
	if err != nil {
		m.log.Warnf("dropping push: %v", err)
		return m, rearm
	}

	if start, ok := event.(types.StartCapture); ok {
		return m.handleStartCapture(env.ID, start, rearm)
	}

	effect, accepted := m.machine.Apply(event)
	if !accepted {
		m.log.Debugf("push %s fenced out (session %q)", env.Type, m.machine.SessionID())
		return m, rearm
	}
	cmd := m.applyEffect(effect)
	return m, tea.Batch(rearm, cmd)
}

func (m *model) handleStartCapture(requestID string, start types.StartCapture, rearm tea.Cmd) (tea.Model, tea.Cmd) {
	pageURL := m.doc.URL()
	if m.captureCfg != nil && m.captureCfg.IsExcluded(pageURL) {
		m.log.Infof("capture refused for excluded page (session %s)", start.SessionID)
		if err := m.gw.RespondError(requestID, types.CodeExcluded, "page is excluded by settings"); err != nil {
			m.log.Errorf("failed to send exclusion reply: %v", err)
		}
		return m, rearm
	}

	effect, _ := m.machine.Apply(start)

	// The service's budget is authoritative; clamping applies to stored
	// settings, not to the event. Only a missing value falls back.
	maxChars := start.MaxChars
	if maxChars == 0 {
		if m.captureCfg != nil {
			maxChars = m.captureCfg.GetMaxChars()
		} else {
			maxChars = config.DefaultMaxChars
		}
	}

	payload := m.collector.Collect(m.doc, start.SessionID, maxChars)
	if err := m.gw.Respond(requestID, payload); err != nil {
		m.log.Errorf("failed to send capture payload: %v", err)
	}
	m.log.Infof("capture collected for session %s (%d chars)", start.SessionID, payload.TextChars)

	cmd := m.applyEffect(effect)
	return m, tea.Batch(rearm, cmd)
}

// applyEffect projects a session machine effect onto the overlay state.
func (m *model) applyEffect(effect session.Effect) tea.Cmd {
	var cmds []tea.Cmd

	if effect.Show {
		m.overlayOn = true
		m.summary = ""
		m.categories = nil
		m.tags = nil
		m.catIdx = 0
		m.tagIdx = 0
		m.note.SetValue("")
		m.note.Blur()
		m.zone = focusNote
		m.statusErr = false
		m.dismissGen++ // cancel any pending auto-dismiss
		m.dock.Suppress(true)
	}
	if effect.Status != "" {
		m.status = effect.Status
		m.statusErr = m.machine.State() == session.StateSaveFailed
	}
	if effect.SummarySet {
		m.summary = effect.Summary
	}
	if effect.ChipsSet {
		m.categories = normalizeCandidates(effect.Categories, maxCategories)
		m.tags = normalizeCandidates(effect.Tags, maxTags)
		m.catIdx = 0
		m.tagIdx = 0
	}
	if effect.FocusNote {
		m.zone = focusNote
		cmds = append(cmds, m.note.Focus())
	}
	if effect.DismissIn > 0 {
		m.dismissGen++
		cmds = append(cmds, scheduleDismiss(effect.DismissIn, m.dismissGen))
	}

	return tea.Batch(cmds...)
}

// dismissOverlay hides the overlay and returns the machine to idle.
func (m *model) dismissOverlay() {
	m.overlayOn = false
	m.machine.Reset()
	m.note.Blur()
	m.note.SetValue("")
	m.status = ""
	m.statusErr = false
	m.summary = ""
	m.categories = nil
	m.tags = nil
	m.dock.Suppress(false)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// While the overlay is up it owns the keyboard entirely; the dock
	// stays suppressed and sees nothing.
	if m.overlayOn {
		return m.handleOverlayKey(msg)
	}
	return m.handleDockKey(msg)
}

func (m *model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.dismissOverlay()
		return m, nil

	case tea.KeyEnter:
		if msg.Alt {
			return m, nil
		}
		return m.submit()

	case tea.KeyTab:
		m.cycleZone(1)
		return m, m.syncNoteFocus()

	case tea.KeyShiftTab:
		m.cycleZone(-1)
		return m, m.syncNoteFocus()
	}

	if msg.String() == "ctrl+o" {
		return m, m.openManager()
	}

	switch m.zone {
	case focusCategories:
		switch msg.Type {
		case tea.KeyLeft:
			m.catIdx = clampInt(m.catIdx-1, 0, len(m.categories)-1)
		case tea.KeyRight:
			m.catIdx = clampInt(m.catIdx+1, 0, len(m.categories)-1)
		case tea.KeySpace:
			if m.catIdx < len(m.categories) {
				m.machine.ToggleCategory(m.categories[m.catIdx])
			}
		}
		return m, nil

	case focusTags:
		switch msg.Type {
		case tea.KeyLeft:
			m.tagIdx = clampInt(m.tagIdx-1, 0, len(m.tags)-1)
		case tea.KeyRight:
			m.tagIdx = clampInt(m.tagIdx+1, 0, len(m.tags)-1)
		case tea.KeySpace:
			if m.tagIdx < len(m.tags) {
				m.machine.ToggleTag(m.tags[m.tagIdx])
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	return m, cmd
}

// submit begins the save request. A submit already in flight is a no-op;
// the guard clears when the pipeline answers or the transport fails.
func (m *model) submit() (tea.Model, tea.Cmd) {
	req, err := m.machine.BeginSubmit(m.note.Value())
	if err != nil {
		if errors.Is(err, session.ErrSubmitInFlight) {
			return m, nil
		}
		m.log.Warnf("submit rejected: %v", err)
		return m, nil
	}

	m.status = "Saving..."
	m.statusErr = false
	return m, m.submitNote(req)
}

// cycleZone moves overlay focus between the note input and the chip
// rows, skipping empty rows.
func (m *model) cycleZone(dir int) {
	order := []focusZone{focusNote, focusCategories, focusTags}
	pos := 0
	for i, z := range order {
		if z == m.zone {
			pos = i
			break
		}
	}
	for range order {
		pos = (pos + dir + len(order)) % len(order)
		z := order[pos]
		if z == focusCategories && len(m.categories) == 0 {
			continue
		}
		if z == focusTags && len(m.tags) == 0 {
			continue
		}
		m.zone = z
		return
	}
}

func (m *model) syncNoteFocus() tea.Cmd {
	if m.zone == focusNote {
		return m.note.Focus()
	}
	m.note.Blur()
	return nil
}

func (m *model) handleDockKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.dock.Visible() {
		return m, nil
	}

	shortcut := config.DefaultDockShortcut
	if m.dockCfg != nil {
		shortcut = m.dockCfg.GetShortcut()
	}
	if msg.String() == shortcut {
		return m, m.applyDockEvent(dock.EventShortcut)
	}

	if m.dock.MenuOpen() {
		switch msg.Type {
		case tea.KeyEsc:
			m.dock.CloseMenu()
		case tea.KeyUp, tea.KeyLeft:
			m.dock.MoveMenuFocus(-1)
		case tea.KeyDown, tea.KeyRight:
			m.dock.MoveMenuFocus(1)
		case tea.KeyEnter:
			return m.runMenuItem()
		}
		return m, nil
	}

	if m.dock.Mode() != types.DockExpanded {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		return m, m.applyDockEvent(dock.EventEscape)
	case tea.KeyUp, tea.KeyLeft:
		m.dock.MoveFocus(-1)
		return m, nil
	case tea.KeyDown, tea.KeyRight:
		m.dock.MoveFocus(1)
		return m, nil
	case tea.KeyEnter:
		return m.activateFocusedEntry("keyboard")
	}

	switch msg.String() {
	case "m":
		if entry, ok := m.dock.FocusedEntry(); ok {
			m.dock.OpenMenu(entry)
		}
	case "p":
		pinned := m.dock.TogglePinnedWindow()
		return m, m.persistLayout(nil, &pinned)
	}
	return m, nil
}

// applyDockEvent drives the mode machine optimistically and persists the
// result; a failed persist is logged and the next refresh reconciles.
func (m *model) applyDockEvent(ev dock.Event) tea.Cmd {
	if !m.dock.ApplyMode(ev) {
		return nil
	}
	mode := m.dock.Mode()
	return m.persistLayout(&mode, nil)
}

func (m *model) activateFocusedEntry(source string) (tea.Model, tea.Cmd) {
	entry, ok := m.dock.FocusedEntry()
	if !ok {
		return m, nil
	}
	req := dock.OpenRequest(entry, source)
	m.refreshGen++
	return m, tea.Batch(
		m.openEntry(req),
		m.scheduleActivationRefresh(m.refreshGen),
		m.scheduleRefresh(m.refreshGen),
	)
}

func (m *model) runMenuItem() (tea.Model, tea.Cmd) {
	entry, ok := m.dock.MenuEntry()
	item := m.dock.FocusedMenuItem()
	m.dock.CloseMenu()
	if !ok {
		return m, nil
	}

	switch item {
	case dock.MenuPinToggle:
		pin := !m.dock.EntryPinned(entry)
		m.refreshGen++
		return m, tea.Batch(
			m.setEntryPinned(entry.ID, pin),
			m.scheduleActivationRefresh(m.refreshGen),
			m.scheduleRefresh(m.refreshGen),
		)

	case dock.MenuCopyLink:
		if err := clipboard.WriteAll(entry.URL); err != nil {
			m.log.Warnf("clipboard write failed: %v", err)
		}
		return m, nil

	case dock.MenuDismiss:
		m.refreshGen++
		return m, tea.Batch(
			m.dismissEntry(entry.ID, dock.SuppressionDays),
			m.scheduleActivationRefresh(m.refreshGen),
			m.scheduleRefresh(m.refreshGen),
		)

	case dock.MenuOpenManager:
		return m, m.openManager()
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// The overlay is keyboard-driven; while it is up the dock is
	// suppressed and pointer input is ignored.
	if m.overlayOn || !m.dock.Visible() {
		return m, nil
	}

	inDock := m.geom.top > 0 && msg.Y >= m.geom.top

	switch msg.Action {
	case tea.MouseActionMotion:
		if inDock && !m.hovering {
			m.hovering = true
			return m, m.applyDockEvent(dock.EventHoverToggle)
		}
		if !inDock && m.hovering {
			m.hovering = false
			if m.dock.MenuOpen() {
				return m, nil
			}
			return m, m.applyDockEvent(dock.EventPointerLeave)
		}
		return m, nil

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if m.dock.MenuOpen() {
				// Any primary click outside the menu closes it.
				m.dock.CloseMenu()
				return m, nil
			}
			if !inDock {
				return m, nil
			}
			if m.dock.Mode() == types.DockExpanded {
				if idx, ok := m.entryAt(msg.Y); ok {
					m.dock.MoveFocus(idx - m.dock.FocusIndex())
					return m.activateFocusedEntry("mouse")
				}
			}
			return m, m.applyDockEvent(dock.EventToggle)

		case tea.MouseButtonRight:
			if inDock && m.dock.Mode() == types.DockExpanded {
				if idx, ok := m.entryAt(msg.Y); ok {
					m.dock.MoveFocus(idx - m.dock.FocusIndex())
					if entry, found := m.dock.FocusedEntry(); found {
						m.dock.OpenMenu(entry)
					}
				}
			}
			return m, nil
		}
	}

	return m, nil
}

// entryAt maps a terminal row to an entry index using the geometry the
// last render recorded.
func (m *model) entryAt(y int) (int, bool) {
	if m.geom.entryCount == 0 {
		return 0, false
	}
	idx := y - m.geom.entryStart
	if idx < 0 || idx >= m.geom.entryCount {
		return 0, false
	}
	return idx, true
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
