package api

import (
	"context"

	"compdash/internal/model"
)

// NotificationsResponse is the full inbox with the server's unread count.
type NotificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unread_count"`
}

// Notifications fetches the complete inbox.
func (c *Client) Notifications(ctx context.Context) (*NotificationsResponse, error) {
	var resp NotificationsResponse
	if err := c.getJSON(ctx, "/notifications", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UnreadCount fetches just the unread counter, for the 10s badge poll.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.getJSON(ctx, "/notifications/unread", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkRead marks one notification read. Callers reload the full list
// afterwards; read state is server-authoritative.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	return c.postJSON(ctx, "/notifications/"+id+"/read", nil, nil)
}

// MarkAllRead marks the whole inbox read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.postJSON(ctx, "/notifications/read-all", nil, nil)
}

// ClearAll empties the inbox server-side.
func (c *Client) ClearAll(ctx context.Context) error {
	return c.postJSON(ctx, "/notifications/clear", nil, nil)
}
