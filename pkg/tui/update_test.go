package tui

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v6582374-netizen/Auto-note/pkg/capture"
	"github.com/v6582374-netizen/Auto-note/pkg/config"
	"github.com/v6582374-netizen/Auto-note/pkg/dock"
	"github.com/v6582374-netizen/Auto-note/pkg/gateway"
	"github.com/v6582374-netizen/Auto-note/pkg/logging"
	"github.com/v6582374-netizen/Auto-note/pkg/session"
	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// fakeDocument is an in-memory capture.Document.
type fakeDocument struct {
	url       string
	title     string
	canonical string
	selection string
	landmark  string
	body      string
}

func (d *fakeDocument) URL() string                    { return d.url }
func (d *fakeDocument) Title() string                  { return d.title }
func (d *fakeDocument) CanonicalURL() string           { return d.canonical }
func (d *fakeDocument) Icons() []capture.IconCandidate { return nil }
func (d *fakeDocument) Selection() string              { return d.selection }
func (d *fakeDocument) LandmarkText() string           { return d.landmark }
func (d *fakeDocument) BodyText() string               { return d.body }

// fakeConn records outbound messages and never produces inbound frames.
type fakeConn struct {
	sent []any
	done chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (c *fakeConn) Send(v any) error {
	c.sent = append(c.sent, v)
	return nil
}

func (c *fakeConn) Receive() (gateway.Frame, error) {
	<-c.done
	return gateway.Frame{}, nil
}

func (c *fakeConn) Close() error {
	close(c.done)
	return nil
}

func (c *fakeConn) lastResponse(t *testing.T) types.Response {
	t.Helper()
	require.NotEmpty(t, c.sent)
	resp, ok := c.sent[len(c.sent)-1].(types.Response)
	require.True(t, ok, "last sent message is not a response: %T", c.sent[len(c.sent)-1])
	return resp
}

func newTestModel(t *testing.T) (*model, *fakeConn) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	log, err := logging.NewLogger("tui-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	conn := newFakeConn()
	gw := gateway.NewClient(gateway.New(conn, log))

	doc := &fakeDocument{
		url:   "https://example.com/article",
		title: "Example Article",
		body:  "Some article body text for capture.",
	}

	note := textinput.New()
	note.CharLimit = maxNoteRunes

	m := &model{
		gw:        gw,
		doc:       doc,
		collector: capture.Collector{Digest: capture.StrongDigest},
		log:       log,
		styles:    NewStyles(config.DefaultAccentColor),
		brandName: config.DefaultBrandName,
		machine:   session.NewMachine(),
		note:      note,
		dock:      dock.NewController(),
		width:     80,
		height:    24,
		ready:     true,
	}
	return m, conn
}

func pushEnvelope(t *testing.T, msgType, id string, payload any) types.Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return types.Envelope{
		ProtocolVersion: types.ProtocolVersion,
		Type:            msgType,
		ID:              id,
		Payload:         raw,
	}
}

func dockSnapshot(entries ...types.DockEntry) types.DockStatePayload {
	return types.DockStatePayload{
		Enabled: true,
		Layout:  types.DockLayoutState{Mode: types.DockCollapsed},
		Entries: entries,
	}
}

func bookmarkEntry(id string) types.DockEntry {
	return types.DockEntry{
		Kind:  types.DockEntryBookmark,
		ID:    id,
		Title: "Bookmark " + id,
		URL:   "https://example.com/" + id,
	}
}

func TestStartCaptureShowsOverlayAndReplies(t *testing.T) {
	m, conn := newTestModel(t)
	m.dock.SetState(dockSnapshot(bookmarkEntry("b1")))

	env := pushEnvelope(t, types.MsgStartCapture, "req-1", types.StartCapture{SessionID: "s1", MaxChars: 5000})
	_, _ = m.handlePush(env)

	assert.True(t, m.overlayOn)
	assert.Equal(t, "Captured. AI is analyzing...", m.status)
	assert.Equal(t, session.StateCapturing, m.machine.State())
	assert.False(t, m.dock.Visible(), "dock stays suppressed while the overlay is up")

	resp := conn.lastResponse(t)
	assert.True(t, resp.OK)
	assert.Equal(t, "req-1", resp.ID)

	var payload types.CapturePayload
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	assert.Equal(t, "s1", payload.SessionID)
	assert.Equal(t, "https://example.com/article", payload.URL)
	assert.NotEmpty(t, payload.Text)
}

func TestStartCaptureUsesEventBudgetAsReceived(t *testing.T) {
	m, conn := newTestModel(t)
	m.doc = &fakeDocument{
		url:   "https://example.com/long",
		title: "Long Article",
		body:  strings.Repeat("a", 800),
	}

	env := pushEnvelope(t, types.MsgStartCapture, "req-1", types.StartCapture{SessionID: "s1", MaxChars: 500})
	_, _ = m.handlePush(env)

	resp := conn.lastResponse(t)
	require.True(t, resp.OK)

	var payload types.CapturePayload
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	assert.True(t, payload.WasTruncated, "800 chars against a 500-char budget must truncate")
	assert.Len(t, payload.Text, 500)
	assert.Equal(t, 800, payload.TextChars)
}

func TestStartCaptureZeroBudgetFallsBackToSettings(t *testing.T) {
	m, conn := newTestModel(t)
	m.captureCfg = config.NewCaptureSection()
	m.doc = &fakeDocument{
		url:  "https://example.com/long",
		body: strings.Repeat("b", 60000),
	}

	env := pushEnvelope(t, types.MsgStartCapture, "req-1", types.StartCapture{SessionID: "s1"})
	_, _ = m.handlePush(env)

	resp := conn.lastResponse(t)
	require.True(t, resp.OK)

	var payload types.CapturePayload
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	assert.True(t, payload.WasTruncated)
	assert.Len(t, payload.Text, config.DefaultMaxChars)
}

func TestStartCaptureExcludedPageRefuses(t *testing.T) {
	m, conn := newTestModel(t)
	m.captureCfg = config.NewCaptureSection()
	require.NoError(t, m.captureCfg.SetData(map[string]any{
		"excluded_url_patterns": []string{"https://example.com/*"},
	}))

	env := pushEnvelope(t, types.MsgStartCapture, "req-1", types.StartCapture{SessionID: "s1"})
	_, _ = m.handlePush(env)

	assert.False(t, m.overlayOn)
	assert.Equal(t, session.StateIdle, m.machine.State())

	resp := conn.lastResponse(t)
	assert.False(t, resp.OK)
	assert.Equal(t, types.CodeExcluded, resp.Code)
}

func TestStageOneReadyPopulatesChips(t *testing.T) {
	m, _ := newTestModel(t)
	_, _ = m.handlePush(pushEnvelope(t, types.MsgStartCapture, "req-1", types.StartCapture{SessionID: "s1"}))

	_, _ = m.handlePush(pushEnvelope(t, types.MsgStageOneReady, "", types.StageOneReady{
		SessionID:          "s1",
		Summary:            "A page about ML.",
		CategoryCandidates: []string{"Research", "  ", "Research", "News"},
		TagCandidates:      []string{"ml", "papers"},
	}))

	assert.Equal(t, "AI analyzed page. Add a note and press Enter.", m.status)
	assert.Equal(t, "A page about ML.", m.summary)
	assert.Equal(t, []string{"Research", "News"}, m.categories)
	assert.Equal(t, []string{"ml", "papers"}, m.tags)
	assert.Equal(t, focusNote, m.zone)
}

func TestStalePushIsFencedOut(t *testing.T) {
	m, _ := newTestModel(t)
	_, _ = m.handlePush(pushEnvelope(t, types.MsgStartCapture, "req-1", types.StartCapture{SessionID: "s2"}))

	_, _ = m.handlePush(pushEnvelope(t, types.MsgStageOneReady, "", types.StageOneReady{
		SessionID: "s1",
		Summary:   "stale",
	}))

	assert.Equal(t, "Captured. AI is analyzing...", m.status)
	assert.Empty(t, m.summary)
}

func TestFinalizedDismissGeneration(t *testing.T) {
	m, _ := newTestModel(t)
	m.dock.SetState(dockSnapshot(bookmarkEntry("b1")))
	_, _ = m.handlePush(pushEnvelope(t, types.MsgStartCapture, "req-1", types.StartCapture{SessionID: "s1"}))

	_, _ = m.handlePush(pushEnvelope(t, types.MsgFinalized, "", types.Finalized{
		SessionID: "s1",
		Category:  "Research",
		Tags:      []string{"ml"},
	}))

	assert.Equal(t, "Saved: Research | ml", m.status)
	gen := m.dismissGen

	// A stale timer from an earlier session must not close this overlay.
	_, _ = m.Update(dismissTickMsg{gen: gen - 1})
	assert.True(t, m.overlayOn)

	_, _ = m.Update(dismissTickMsg{gen: gen})
	assert.False(t, m.overlayOn)
	assert.Equal(t, session.StateIdle, m.machine.State())
	assert.True(t, m.dock.Visible(), "dock suppression lifts on dismiss")
}

func TestOverlayChipKeyboardFlow(t *testing.T) {
	m, _ := newTestModel(t)
	_, _ = m.handlePush(pushEnvelope(t, types.MsgStartCapture, "req-1", types.StartCapture{SessionID: "s1"}))
	_, _ = m.handlePush(pushEnvelope(t, types.MsgStageOneReady, "", types.StageOneReady{
		SessionID:          "s1",
		CategoryCandidates: []string{"Research", "News"},
		TagCandidates:      []string{"ml", "papers"},
	}))

	// Tab into the category row, select the second chip.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusCategories, m.zone)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, "News", m.machine.SelectedCategory())

	// Tab into the tag row and toggle one tag on and off.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusTags, m.zone)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.machine.HasTag("ml"))
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.machine.HasTag("ml"))

	// Shift+Tab walks back to the categories.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, focusCategories, m.zone)

	// Escape closes the overlay entirely.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.overlayOn)
	assert.Equal(t, session.StateIdle, m.machine.State())
}

func TestTabSkipsEmptyChipRows(t *testing.T) {
	m, _ := newTestModel(t)
	_, _ = m.handlePush(pushEnvelope(t, types.MsgStartCapture, "req-1", types.StartCapture{SessionID: "s1"}))
	_, _ = m.handlePush(pushEnvelope(t, types.MsgStageOneReady, "", types.StageOneReady{
		SessionID:     "s1",
		TagCandidates: []string{"ml"},
	}))

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusTags, m.zone, "empty category row is skipped")
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusNote, m.zone)
}

func TestEnterSubmitsOnce(t *testing.T) {
	m, _ := newTestModel(t)
	_, _ = m.handlePush(pushEnvelope(t, types.MsgStartCapture, "req-1", types.StartCapture{SessionID: "s1"}))
	_, _ = m.handlePush(pushEnvelope(t, types.MsgStageOneReady, "", types.StageOneReady{SessionID: "s1"}))

	m.note.SetValue("my note")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.machine.Submitting())
	assert.Equal(t, "Saving...", m.status)

	// A second Enter while in flight is swallowed.
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	// A transport failure clears the guard and allows a retry.
	_, _ = m.Update(submitResultMsg{err: assert.AnError})
	assert.False(t, m.machine.Submitting())
	assert.True(t, m.statusErr)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.machine.Submitting())
}

func TestDockShortcutToggles(t *testing.T) {
	m, _ := newTestModel(t)
	m.dock.SetState(dockSnapshot(bookmarkEntry("b1")))

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.Equal(t, types.DockExpanded, m.dock.Mode())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.Equal(t, types.DockCollapsed, m.dock.Mode())
}

func TestDockNavigationAndMenu(t *testing.T) {
	m, _ := newTestModel(t)
	m.dock.SetState(dockSnapshot(bookmarkEntry("b1"), bookmarkEntry("b2")))
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.dock.FocusIndex())

	// Left/Right mirror Up/Down.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.dock.FocusIndex())
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.dock.FocusIndex())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	assert.True(t, m.dock.MenuOpen())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.dock.MenuIndex())
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.dock.MenuIndex())
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.dock.MenuIndex())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.dock.MenuOpen())
	assert.Equal(t, types.DockExpanded, m.dock.Mode())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, types.DockCollapsed, m.dock.Mode())
}

func TestPinnedWindowKey(t *testing.T) {
	m, _ := newTestModel(t)
	m.dock.SetState(dockSnapshot(bookmarkEntry("b1")))
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	require.NotNil(t, cmd)
	assert.True(t, m.dock.PinnedWindow())

	// A pinned window ignores pointer-leave auto-collapse.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.False(t, m.dock.PinnedWindow())
}

func TestMouseHoverPeekAndLeave(t *testing.T) {
	m, _ := newTestModel(t)
	m.dock.SetState(dockSnapshot(bookmarkEntry("b1")))

	// Render once so the dock geometry is recorded.
	_ = m.View()
	require.Greater(t, m.geom.top, 0)

	_, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionMotion, Y: m.geom.top})
	assert.Equal(t, types.DockPeek, m.dock.Mode())

	_, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionMotion, Y: 0})
	assert.Equal(t, types.DockCollapsed, m.dock.Mode())
}

func TestMouseClickTogglesAndActivates(t *testing.T) {
	m, _ := newTestModel(t)
	m.dock.SetState(dockSnapshot(bookmarkEntry("b1"), bookmarkEntry("b2")))

	_ = m.View()
	_, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, Y: m.geom.top})
	assert.Equal(t, types.DockExpanded, m.dock.Mode())

	// Re-render to pick up expanded geometry, then right-click the
	// second entry for its menu.
	_ = m.View()
	require.Equal(t, 2, m.geom.entryCount)
	_, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight, Y: m.geom.entryStart + 1})
	assert.True(t, m.dock.MenuOpen())
	entry, ok := m.dock.MenuEntry()
	require.True(t, ok)
	assert.Equal(t, "b2", entry.ID)

	// A primary click outside the menu closes it.
	_, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, Y: 0})
	assert.False(t, m.dock.MenuOpen())
}

func TestRefreshErrorPolicy(t *testing.T) {
	m, _ := newTestModel(t)
	m.dock.SetState(dockSnapshot(bookmarkEntry("b1")))

	// Transient failures keep the cached list visible.
	_, _ = m.Update(dockStateMsg{err: assert.AnError})
	assert.True(t, m.dock.Visible())

	// An unsupported response disables the dock for the page lifetime.
	_, _ = m.Update(dockStateMsg{err: &gateway.RequestError{Type: types.MsgDockGetState, Code: types.CodeUnsupported}})
	assert.False(t, m.dock.Visible())
}

func TestRefreshTickGenerations(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(refreshTickMsg{gen: 0})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.refreshGen)

	// The superseded generation is inert.
	_, cmd = m.Update(refreshTickMsg{gen: 0})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.refreshGen)
}

func TestViewRendersOverlayAndDock(t *testing.T) {
	m, _ := newTestModel(t)
	m.dock.SetState(dockSnapshot(bookmarkEntry("b1")))
	_, _ = m.handlePush(pushEnvelope(t, types.MsgStartCapture, "req-1", types.StartCapture{SessionID: "s1"}))

	view := m.View()
	assert.Contains(t, view, "Captured. AI is analyzing...")
	assert.Contains(t, view, config.DefaultBrandName)

	// Dismissing the overlay brings the dock back.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	view = m.View()
	assert.NotContains(t, view, "Captured. AI is analyzing...")
	assert.Greater(t, m.geom.top, 0)
}
