package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/v6582374-netizen/Auto-note/pkg/config"
	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// requestTimeout bounds every gateway request issued from the UI.
const requestTimeout = 10 * time.Second

// activationRefreshDelay is the short re-refresh after a dock entry is
// activated, so server-side ordering changes show up promptly.
const activationRefreshDelay = 120 * time.Millisecond

// waitForPush blocks on the gateway push stream and forwards one
// envelope. The Update loop re-arms it after every push.
func (m *model) waitForPush() tea.Cmd {
	return func() tea.Msg {
		env, ok := <-m.gw.Pushes()
		if !ok {
			return pushesClosedMsg{}
		}
		return pushMsg{env: env}
	}
}

// refreshDock fetches a dock snapshot for the current page.
func (m *model) refreshDock() tea.Cmd {
	url := m.doc.URL()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		state, err := m.gw.DockGetState(ctx, url)
		return dockStateMsg{state: state, err: err}
	}
}

// scheduleRefresh arms the periodic dock refresh tick.
func (m *model) scheduleRefresh(gen int) tea.Cmd {
	interval := config.DefaultDockRefreshInterval
	if m.dockCfg != nil {
		interval = m.dockCfg.GetRefreshInterval()
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

// scheduleActivationRefresh arms the short post-activation refresh.
func (m *model) scheduleActivationRefresh(gen int) tea.Cmd {
	return tea.Tick(activationRefreshDelay, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

// scheduleDismiss arms the overlay auto-dismiss timer.
func scheduleDismiss(after time.Duration, gen int) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return dismissTickMsg{gen: gen}
	})
}

// submitNote sends the save request built by the session machine.
func (m *model) submitNote(req types.SubmitNote) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return submitResultMsg{err: m.gw.SubmitNote(ctx, req)}
	}
}

// openManager asks the service to open the full manager surface.
func (m *model) openManager() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return opResultMsg{op: "open manager", err: m.gw.OpenManager(ctx)}
	}
}

// openEntry activates a dock entry on the service side.
func (m *model) openEntry(req types.DockOpen) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if req.Action == types.DockActionSaveCurrent {
			return opResultMsg{op: "save current page", err: m.gw.DockSaveCurrent(ctx)}
		}
		return opResultMsg{op: "open entry", err: m.gw.DockOpen(ctx, req)}
	}
}

// persistLayout writes an optimistic layout change back to the service.
func (m *model) persistLayout(mode *types.DockMode, pinned *bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		_, err := m.gw.DockUpdateLayout(ctx, mode, pinned)
		return opResultMsg{op: "persist layout", err: err}
	}
}

// setEntryPinned pins or unpins a bookmark.
func (m *model) setEntryPinned(bookmarkID string, pinned bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var err error
		if pinned {
			err = m.gw.DockPin(ctx, bookmarkID)
		} else {
			err = m.gw.DockUnpin(ctx, bookmarkID)
		}
		return opResultMsg{op: "pin entry", err: err}
	}
}

// dismissEntry suppresses a bookmark from the dock for the standard window.
func (m *model) dismissEntry(bookmarkID string, days int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return opResultMsg{op: "dismiss entry", err: m.gw.DockDismiss(ctx, bookmarkID, days)}
	}
}
