package types

// DockMode is one of the QuickDock visibility modes.
type DockMode string

const (
	// DockCollapsed shows only the toggle icon.
	DockCollapsed DockMode = "collapsed"
	// DockPeek is the lightweight hover preview.
	DockPeek DockMode = "peek"
	// DockExpanded is the full interactive panel.
	DockExpanded DockMode = "expanded"
)

// DockEntryKind discriminates the DockEntry union.
type DockEntryKind string

const (
	DockEntryBookmark DockEntryKind = "bookmark"
	DockEntryAction   DockEntryKind = "action"
)

// DockAction is the fixed action tag of an action entry.
type DockAction string

const (
	DockActionOpenLibrary DockAction = "open_library"
	DockActionSaveCurrent DockAction = "save_current_page"
)

// DockLayoutState is the persisted layout of the widget. The controller
// holds a cached copy and updates it optimistically before confirmation.
type DockLayoutState struct {
	Mode            DockMode `json:"mode"`
	Pinned          bool     `json:"pinned"`
	ActiveProfileID string   `json:"activeProfileId,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
}

// DockEntry is one dock list row: either a saved bookmark or a fixed
// quick action, discriminated by Kind. Ordering is server-provided and
// preserved.
type DockEntry struct {
	Kind       DockEntryKind `json:"kind"`
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Subtitle   string        `json:"subtitle,omitempty"`
	URL        string        `json:"url,omitempty"`
	Domain     string        `json:"domain,omitempty"`
	FavIconURL string        `json:"favIconUrl,omitempty"`
	Pinned     bool          `json:"pinned,omitempty"`
	Action     DockAction    `json:"action,omitempty"`
}

// DockProfile is a selectable dock profile.
type DockProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DockStatePayload is the full snapshot the dock controller consumes.
// PinnedIDs is not guaranteed to be a subset of the entry ids; ids
// without a matching entry are simply never shown.
type DockStatePayload struct {
	Enabled   bool            `json:"enabled"`
	Layout    DockLayoutState `json:"layout"`
	PinnedIDs []string        `json:"pinnedIds"`
	Profiles  []DockProfile   `json:"profiles"`
	Entries   []DockEntry     `json:"entries"`
}

// DockGetState asks for the current snapshot for a page.
type DockGetState struct {
	CurrentURL string `json:"currentUrl"`
}

// DockUpdateLayout persists a layout change. Nil fields are unchanged.
type DockUpdateLayout struct {
	Mode   *DockMode `json:"mode,omitempty"`
	Pinned *bool     `json:"pinned,omitempty"`
}

// DockOpen activates a dock entry.
type DockOpen struct {
	ID     string     `json:"id,omitempty"`
	URL    string     `json:"url,omitempty"`
	Action DockAction `json:"action,omitempty"`
	Source string     `json:"source"`
}

// DockPin pins or unpins a bookmark, depending on the message type.
type DockPin struct {
	BookmarkID string `json:"bookmarkId"`
}

// DockDismiss temporarily suppresses a bookmark from the dock.
type DockDismiss struct {
	BookmarkID      string `json:"bookmarkId"`
	SuppressionDays int    `json:"suppressionDays"`
}
