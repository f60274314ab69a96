// Package tui renders the in-page agent surfaces as a terminal UI: the
// capture overlay driven by the session state machine and the QuickDock
// widget driven by the dock controller. The model owns all mutable UI
// state; the session and dock packages stay free of rendering concerns.
//
// The TUI codebase is split across files:
// - executor.go: program lifecycle and push forwarding
// - model.go: core model structure and state
// - update.go: Bubble Tea Update function and message handling
// - commands.go: network commands and timers
// - view.go: Bubble Tea View function and rendering
// - styles.go: color schemes and styling
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/v6582374-netizen/Auto-note/pkg/capture"
	"github.com/v6582374-netizen/Auto-note/pkg/config"
	"github.com/v6582374-netizen/Auto-note/pkg/dock"
	"github.com/v6582374-netizen/Auto-note/pkg/gateway"
	"github.com/v6582374-netizen/Auto-note/pkg/logging"
	"github.com/v6582374-netizen/Auto-note/pkg/session"
	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// maxNoteRunes caps the user note length.
const maxNoteRunes = 200

// focusZone identifies which overlay region owns keyboard input.
type focusZone int

const (
	focusNote focusZone = iota
	focusCategories
	focusTags
)

// dockGeometry records where the dock landed in the last render so mouse
// events can be hit-tested against it.
type dockGeometry struct {
	top        int // first terminal row of the dock box
	entryStart int // first row of the entry list, expanded mode only
	entryCount int
}

// model is the Bubble Tea model for the agent UI.
type model struct {
	// Service integration
	gw        *gateway.Client
	doc       capture.Document
	collector capture.Collector
	log       *logging.Logger

	// Settings
	captureCfg *config.CaptureSection
	dockCfg    *config.DockSection

	styles    Styles
	brandName string

	// Overlay state
	machine    *session.Machine
	overlayOn  bool
	status     string
	statusErr  bool
	summary    string
	categories []string
	tags       []string
	note       textinput.Model
	zone       focusZone
	catIdx     int
	tagIdx     int
	dismissGen int

	// QuickDock state
	dock       *dock.Controller
	refreshGen int
	geom       dockGeometry
	hovering   bool

	// Window dimensions
	width  int
	height int
	ready  bool
}

// pushMsg carries one raw push envelope from the gateway.
type pushMsg struct{ env types.Envelope }

// pushesClosedMsg signals that the gateway push stream ended.
type pushesClosedMsg struct{}

// dismissTickMsg fires the overlay auto-dismiss; stale generations are ignored.
type dismissTickMsg struct{ gen int }

// refreshTickMsg fires a periodic dock refresh; stale generations are ignored.
type refreshTickMsg struct{ gen int }

// dockStateMsg carries a dock snapshot response or its error.
type dockStateMsg struct {
	state types.DockStatePayload
	err   error
}

// submitResultMsg reports the outcome of a note submission request.
type submitResultMsg struct{ err error }

// opResultMsg reports the outcome of a fire-and-forget dock request.
type opResultMsg struct {
	op  string
	err error
}

// newModel assembles the UI model. The gateway must already be connected
// and the handshake completed so capability gating can apply immediately.
func newModel(gw *gateway.Client, doc capture.Document, log *logging.Logger) *model {
	captureCfg := config.GetCapture()
	dockCfg := config.GetDock()
	brandCfg := config.GetBrand()

	brandName := config.DefaultBrandName
	accent := config.DefaultAccentColor
	if brandCfg != nil {
		brandName = brandCfg.GetName()
		accent = brandCfg.GetAccentColor()
	}

	note := textinput.New()
	note.Placeholder = "Add a note..."
	note.CharLimit = maxNoteRunes
	note.Prompt = ""

	m := &model{
		gw:         gw,
		doc:        doc,
		collector:  capture.Collector{Digest: capture.StrongDigest},
		log:        log,
		captureCfg: captureCfg,
		dockCfg:    dockCfg,
		styles:     NewStyles(accent),
		brandName:  brandName,
		machine:    session.NewMachine(),
		note:       note,
		dock:       dock.NewController(),
	}

	// The dock never renders against a service that does not implement it.
	if !gw.Supports(types.CapabilityQuickDock) {
		m.dock.Disable()
	}

	return m
}
