package dock

import (
	"errors"

	"github.com/v6582374-netizen/Auto-note/pkg/gateway"
	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// SuppressionDays is the fixed dismissal window passed to the service
// when an entry is temporarily dismissed from the dock.
const SuppressionDays = 30

// MenuItem identifies one context menu row.
type MenuItem int

const (
	MenuPinToggle MenuItem = iota
	MenuCopyLink
	MenuDismiss
	MenuOpenManager
)

// menuItems is the fixed row order of the context menu.
var menuItems = []MenuItem{MenuPinToggle, MenuCopyLink, MenuDismiss, MenuOpenManager}

// Controller holds the widget state for one page load. It is mutated
// only from the UI event loop; network effects are issued by the caller
// and fed back through SetState / HandleRefreshError.
type Controller struct {
	state      types.DockStatePayload
	haveState  bool
	disabled   bool
	suppressed bool

	focusIdx int

	menuEntry *types.DockEntry
	menuIdx   int
}

// NewController returns an empty controller; the widget stays hidden
// until the first snapshot arrives.
func NewController() *Controller {
	return &Controller{}
}

// SetState replaces the cached snapshot. The focus index resets to the
// top whenever the entry list becomes shorter than the stored index.
func (c *Controller) SetState(state types.DockStatePayload) {
	c.state = state
	c.haveState = true
	if c.focusIdx >= len(state.Entries) {
		c.focusIdx = 0
	}
}

// HandleRefreshError applies the refresh failure policy: a service that
// does not implement the dock disables the widget for the page lifetime;
// any other failure is swallowed, leaving the last-known state visible.
func (c *Controller) HandleRefreshError(err error) {
	if errors.Is(err, gateway.ErrUnsupported) {
		c.disabled = true
	}
}

// Disable force-disables the widget (used when the handshake does not
// advertise the quickdock capability).
func (c *Controller) Disable() {
	c.disabled = true
}

// Disabled reports whether the widget is off for this page lifetime.
func (c *Controller) Disabled() bool { return c.disabled }

// Suppress force-hides the widget while the capture overlay is visible.
func (c *Controller) Suppress(on bool) { c.suppressed = on }

// Visible reports whether the widget should render at all.
func (c *Controller) Visible() bool {
	return c.haveState && c.state.Enabled && !c.disabled && !c.suppressed
}

// Mode returns the current visibility mode.
func (c *Controller) Mode() types.DockMode {
	if c.state.Layout.Mode == "" {
		return types.DockCollapsed
	}
	return c.state.Layout.Mode
}

// PinnedWindow reports the persisted pinned-window flag.
func (c *Controller) PinnedWindow() bool { return c.state.Layout.Pinned }

// ApplyMode feeds one event to the mode machine and optimistically
// applies the result. It reports whether the mode changed, in which case
// the caller should persist the new layout best-effort.
func (c *Controller) ApplyMode(ev Event) bool {
	next, ok := Next(c.Mode(), c.state.Layout.Pinned, ev)
	if !ok {
		return false
	}
	c.state.Layout.Mode = next
	return true
}

// TogglePinnedWindow optimistically flips the pinned-window flag and
// returns the new value for persistence.
func (c *Controller) TogglePinnedWindow() bool {
	c.state.Layout.Pinned = !c.state.Layout.Pinned
	return c.state.Layout.Pinned
}

// Entries returns the server-ordered entry list.
func (c *Controller) Entries() []types.DockEntry { return c.state.Entries }

// Profiles returns the available dock profiles.
func (c *Controller) Profiles() []types.DockProfile { return c.state.Profiles }

// ActiveProfileID returns the persisted active profile id.
func (c *Controller) ActiveProfileID() string { return c.state.Layout.ActiveProfileID }

// EntryPinned reports whether an entry shows the pinned badge. The
// pinned-ids set and the entry's own flag can disagree; the badge shows
// when either says pinned.
func (c *Controller) EntryPinned(entry types.DockEntry) bool {
	if entry.Pinned {
		return true
	}
	for _, id := range c.state.PinnedIDs {
		if id == entry.ID {
			return true
		}
	}
	return false
}

// FocusIndex returns the keyboard focus position.
func (c *Controller) FocusIndex() int { return c.focusIdx }

// MoveFocus shifts the focus index, clamped to the entry list bounds.
func (c *Controller) MoveFocus(delta int) {
	if len(c.state.Entries) == 0 {
		c.focusIdx = 0
		return
	}
	c.focusIdx += delta
	if c.focusIdx < 0 {
		c.focusIdx = 0
	}
	if c.focusIdx >= len(c.state.Entries) {
		c.focusIdx = len(c.state.Entries) - 1
	}
}

// FocusedEntry returns the entry under keyboard focus.
func (c *Controller) FocusedEntry() (types.DockEntry, bool) {
	if c.focusIdx < 0 || c.focusIdx >= len(c.state.Entries) {
		return types.DockEntry{}, false
	}
	return c.state.Entries[c.focusIdx], true
}

// OpenRequest builds the activation request for an entry: bookmarks open
// by id, action entries by their fixed action tag.
func OpenRequest(entry types.DockEntry, source string) types.DockOpen {
	req := types.DockOpen{Source: source}
	if entry.Kind == types.DockEntryAction {
		req.Action = entry.Action
		return req
	}
	req.ID = entry.ID
	req.URL = entry.URL
	return req
}

// OpenMenu opens (or re-targets) the single context menu instance for a
// bookmark entry. Action entries have no menu.
func (c *Controller) OpenMenu(entry types.DockEntry) bool {
	if entry.Kind != types.DockEntryBookmark {
		return false
	}
	copied := entry
	c.menuEntry = &copied
	c.menuIdx = 0
	return true
}

// CloseMenu dismisses the context menu.
func (c *Controller) CloseMenu() { c.menuEntry = nil }

// MenuOpen reports whether the context menu is showing.
func (c *Controller) MenuOpen() bool { return c.menuEntry != nil }

// MenuEntry returns the entry the menu targets.
func (c *Controller) MenuEntry() (types.DockEntry, bool) {
	if c.menuEntry == nil {
		return types.DockEntry{}, false
	}
	return *c.menuEntry, true
}

// MenuItems returns the fixed menu rows.
func (c *Controller) MenuItems() []MenuItem { return menuItems }

// MenuIndex returns the focused menu row.
func (c *Controller) MenuIndex() int { return c.menuIdx }

// MoveMenuFocus shifts the menu focus, clamped to the row bounds.
func (c *Controller) MoveMenuFocus(delta int) {
	c.menuIdx += delta
	if c.menuIdx < 0 {
		c.menuIdx = 0
	}
	if c.menuIdx >= len(menuItems) {
		c.menuIdx = len(menuItems) - 1
	}
}

// FocusedMenuItem returns the menu row under focus.
func (c *Controller) FocusedMenuItem() MenuItem {
	return menuItems[c.menuIdx]
}
