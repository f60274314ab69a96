package gateway

import (
	"context"

	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// Client is the typed request surface the UI components use.
type Client struct {
	*Gateway
}

// NewClient wraps a gateway with the typed message API.
func NewClient(g *Gateway) *Client {
	return &Client{Gateway: g}
}

// SubmitNote issues the user-initiated save request. Success is reported
// asynchronously through the finalized/stage-error pushes, not here.
func (c *Client) SubmitNote(ctx context.Context, req types.SubmitNote) error {
	return c.Request(ctx, types.MsgSubmitNote, req, nil)
}

// OpenManager opens the full manager surface.
func (c *Client) OpenManager(ctx context.Context) error {
	return c.Request(ctx, types.MsgOpenManager, struct{}{}, nil)
}

// DockGetState fetches the dock snapshot for the current page.
func (c *Client) DockGetState(ctx context.Context, currentURL string) (types.DockStatePayload, error) {
	var state types.DockStatePayload
	err := c.Request(ctx, types.MsgDockGetState, types.DockGetState{CurrentURL: currentURL}, &state)
	return state, err
}

// DockUpdateLayout persists a layout change; nil fields are unchanged.
func (c *Client) DockUpdateLayout(ctx context.Context, mode *types.DockMode, pinned *bool) (types.DockLayoutState, error) {
	var layout types.DockLayoutState
	err := c.Request(ctx, types.MsgDockUpdateLayout, types.DockUpdateLayout{Mode: mode, Pinned: pinned}, &layout)
	return layout, err
}

// DockOpen activates a dock entry.
func (c *Client) DockOpen(ctx context.Context, req types.DockOpen) error {
	return c.Request(ctx, types.MsgDockOpen, req, nil)
}

// DockSaveCurrent saves the current page from the dock quick action.
func (c *Client) DockSaveCurrent(ctx context.Context) error {
	return c.Request(ctx, types.MsgDockSaveCurrent, struct{}{}, nil)
}

// DockPin pins a bookmark.
func (c *Client) DockPin(ctx context.Context, bookmarkID string) error {
	return c.Request(ctx, types.MsgDockPin, types.DockPin{BookmarkID: bookmarkID}, nil)
}

// DockUnpin unpins a bookmark.
func (c *Client) DockUnpin(ctx context.Context, bookmarkID string) error {
	return c.Request(ctx, types.MsgDockUnpin, types.DockPin{BookmarkID: bookmarkID}, nil)
}

// DockDismiss hides a bookmark from the dock for suppressionDays days.
func (c *Client) DockDismiss(ctx context.Context, bookmarkID string, suppressionDays int) error {
	return c.Request(ctx, types.MsgDockDismiss, types.DockDismiss{
		BookmarkID:      bookmarkID,
		SuppressionDays: suppressionDays,
	}, nil)
}
