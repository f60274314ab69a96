// Package session owns the single active capture session for a page and
// the finite-state machine that drives the capture overlay. All state
// lives on the Machine instance; there are no package globals.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// State is the capture session lifecycle state.
type State int

const (
	// StateIdle means no session is active and the overlay is hidden.
	StateIdle State = iota
	// StateCapturing means a start event arrived and the collector ran.
	StateCapturing
	// StateAnalyzed means the first analysis stage has been applied.
	StateAnalyzed
	// StateSubmitting means a save request is in flight.
	StateSubmitting
	// StateSaved is terminal: the overlay auto-dismisses shortly.
	StateSaved
	// StateSaveFailed means the save or the pipeline reported an error;
	// the overlay stays open so the user can retry.
	StateSaveFailed
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateAnalyzed:
		return "analyzed"
	case StateSubmitting:
		return "submitting"
	case StateSaved:
		return "saved"
	case StateSaveFailed:
		return "save_failed"
	}
	return "unknown"
}

// DismissDelay is how long a finalized overlay stays before auto-close.
const DismissDelay = 1200 * time.Millisecond

var (
	// ErrSubmitInFlight guards against double submission.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrNoSession means submit was invoked without an active session.
	ErrNoSession = errors.New("no active capture session")
)

// Effect describes the overlay changes one transition produces. The view
// layer applies it; the machine never touches rendering directly.
type Effect struct {
	// Show resets and reveals the overlay.
	Show bool
	// Status replaces the status line when non-empty.
	Status string
	// Summary replaces the summary area when SummarySet.
	Summary    string
	SummarySet bool
	// Categories/Tags replace the chip candidates when ChipsSet.
	Categories []string
	Tags       []string
	ChipsSet   bool
	// FocusNote moves focus to the note input.
	FocusNote bool
	// Capture asks the caller to run the collector and reply to the
	// originating event with the payload.
	Capture *types.StartCapture
	// DismissIn schedules an auto-dismiss when positive.
	DismissIn time.Duration
}

// Machine is the session state machine. At most one live session exists
// per page; a new start event always replaces the previous session.
type Machine struct {
	state            State
	sessionID        string
	bookmarkID       string
	selectedCategory string
	selectedTags     []string
	submitting       bool
}

// NewMachine returns an idle machine.
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// State returns the current lifecycle state.
func (m *Machine) State() State { return m.state }

// SessionID returns the active session id, or "".
func (m *Machine) SessionID() string { return m.sessionID }

// Submitting reports whether a save request is in flight.
func (m *Machine) Submitting() bool { return m.submitting }

// Apply is the single transition function. It returns the effect to
// apply to the overlay and whether the event was accepted; events fenced
// out by a stale session id return (Effect{}, false) and change nothing.
func (m *Machine) Apply(event any) (Effect, bool) {
	switch ev := event.(type) {
	case types.StartCapture:
		// A start always replaces the active session, whatever state
		// the previous one was in.
		m.state = StateCapturing
		m.sessionID = ev.SessionID
		m.bookmarkID = ""
		m.selectedCategory = ""
		m.selectedTags = nil
		m.submitting = false
		return Effect{
			Show:    true,
			Status:  "Captured. AI is analyzing...",
			Capture: &ev,
		}, true

	case types.BookmarkLinked:
		if !m.accepts(ev.SessionID) {
			return Effect{}, false
		}
		m.bookmarkID = ev.BookmarkID
		return Effect{}, true

	case types.StageOneReady:
		if !m.accepts(ev.SessionID) {
			return Effect{}, false
		}
		m.state = StateAnalyzed
		summary := ev.Summary
		if ev.TextTruncated {
			summary += "\n\nText was truncated due to max character limit."
		}
		return Effect{
			Status:     "AI analyzed page. Add a note and press Enter.",
			Summary:    summary,
			SummarySet: true,
			Categories: ev.CategoryCandidates,
			Tags:       ev.TagCandidates,
			ChipsSet:   true,
			FocusNote:  true,
		}, true

	case types.ClassifyPending:
		if !m.accepts(ev.SessionID) {
			return Effect{}, false
		}
		// A slow or retried pipeline must not leave the UI stuck
		// mid-submit.
		m.submitting = false
		return Effect{Status: "Classifying and saving..."}, true

	case types.StageError:
		if !m.accepts(ev.SessionID) {
			return Effect{}, false
		}
		m.submitting = false
		m.state = StateSaveFailed
		return Effect{
			Status:     "Saved to Inbox with AI error",
			Summary:    ev.Error,
			SummarySet: true,
		}, true

	case types.Finalized:
		if !m.accepts(ev.SessionID) {
			return Effect{}, false
		}
		m.submitting = false
		m.state = StateSaved
		return Effect{
			Status:     finalStatus(ev.Category, ev.Tags),
			Summary:    "Done. Auto closing...",
			SummarySet: true,
			DismissIn:  DismissDelay,
		}, true
	}

	return Effect{}, false
}

func (m *Machine) accepts(sessionID string) bool {
	return m.sessionID != "" && sessionID == m.sessionID
}

func finalStatus(category string, tags []string) string {
	if category == "" {
		category = "Uncategorized"
	}
	status := "Saved: " + category
	if len(tags) > 0 {
		status += " | " + strings.Join(tags, ", ")
	}
	return status
}

// ToggleCategory applies single-select toggle semantics: selecting the
// active category clears it, selecting another replaces it.
func (m *Machine) ToggleCategory(category string) {
	if m.selectedCategory == category {
		m.selectedCategory = ""
		return
	}
	m.selectedCategory = category
}

// SelectedCategory returns the current selection, or "".
func (m *Machine) SelectedCategory() string { return m.selectedCategory }

// ToggleTag flips one tag independently, preserving selection order.
func (m *Machine) ToggleTag(tag string) {
	for i, existing := range m.selectedTags {
		if existing == tag {
			m.selectedTags = append(m.selectedTags[:i], m.selectedTags[i+1:]...)
			return
		}
	}
	m.selectedTags = append(m.selectedTags, tag)
}

// HasTag reports whether a tag is selected.
func (m *Machine) HasTag(tag string) bool {
	for _, existing := range m.selectedTags {
		if existing == tag {
			return true
		}
	}
	return false
}

// SelectedTags returns the selected tags in selection order.
func (m *Machine) SelectedTags() []string {
	return append([]string(nil), m.selectedTags...)
}

// BeginSubmit starts the save request for the active session. The submit
// guard stays set until a finalized, stage-error, or classify-pending
// event clears it, or FailSubmit reports a transport failure.
func (m *Machine) BeginSubmit(note string) (types.SubmitNote, error) {
	if m.submitting {
		return types.SubmitNote{}, ErrSubmitInFlight
	}
	if m.sessionID == "" {
		return types.SubmitNote{}, ErrNoSession
	}

	m.submitting = true
	m.state = StateSubmitting

	tags := m.SelectedTags()
	if tags == nil {
		tags = []string{}
	}
	return types.SubmitNote{
		SessionID:        m.sessionID,
		BookmarkID:       m.bookmarkID,
		Note:             note,
		SelectedCategory: m.selectedCategory,
		SelectedTags:     tags,
	}, nil
}

// FailSubmit clears the guard after a transport failure so the user can
// retry with Enter.
func (m *Machine) FailSubmit() {
	m.submitting = false
	m.state = StateSaveFailed
}

// Reset returns the machine to idle. Called when the overlay is
// dismissed; the struct is reused, not reallocated.
func (m *Machine) Reset() {
	m.state = StateIdle
	m.sessionID = ""
	m.bookmarkID = ""
	m.selectedCategory = ""
	m.selectedTags = nil
	m.submitting = false
}
