// Package dock owns the QuickDock widget state: the visibility mode
// machine, the cached service snapshot, keyboard navigation, and the
// context menu. Rendering lives in the TUI layer; everything here is
// synchronous state that the view projects.
package dock

import "github.com/v6582374-netizen/Auto-note/pkg/types"

// Event is an input to the mode machine.
type Event int

const (
	// EventHoverToggle is the pointer entering the collapsed toggle.
	EventHoverToggle Event = iota
	// EventPointerLeave is the pointer leaving the widget.
	EventPointerLeave
	// EventToggle is an explicit toggle click.
	EventToggle
	// EventShortcut is the global keyboard shortcut.
	EventShortcut
	// EventEscape is the Escape key while the widget has input.
	EventEscape
)

// Next is the single transition function for the dock mode machine. It
// returns the next mode and whether the event produced a transition;
// invalid transitions are rejected rather than coerced.
//
// The pinned-window flag is orthogonal to the mode: it only disables the
// hover-driven peek/auto-collapse transitions. Explicit toggles and the
// shortcut always work.
func Next(mode types.DockMode, pinned bool, ev Event) (types.DockMode, bool) {
	switch ev {
	case EventHoverToggle:
		if mode == types.DockCollapsed && !pinned {
			return types.DockPeek, true
		}
	case EventPointerLeave:
		if mode == types.DockPeek && !pinned {
			return types.DockCollapsed, true
		}
	case EventToggle, EventShortcut:
		if mode == types.DockExpanded {
			return types.DockCollapsed, true
		}
		// collapsed or peek flips straight to expanded, bypassing peek.
		return types.DockExpanded, true
	case EventEscape:
		if mode == types.DockExpanded {
			return types.DockCollapsed, true
		}
	}
	return mode, false
}
