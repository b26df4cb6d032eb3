package api

import (
	"context"
	"net/url"
	"strconv"

	"compdash/internal/model"
)

// LogsResponse is the execution log tail plus the server's total count.
type LogsResponse struct {
	Logs  []model.LogEntry `json:"logs"`
	Total int              `json:"total"`
}

// Logs fetches up to limit recent log entries. limit <= 0 leaves the
// server default in place.
func (c *Client) Logs(ctx context.Context, limit int) (*LogsResponse, error) {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	var resp LogsResponse
	if err := c.getJSON(ctx, "/logs", values, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
