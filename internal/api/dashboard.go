package api

import (
	"context"

	"compdash/internal/model"
)

// Metrics fetches the dashboard KPI snapshot.
func (c *Client) Metrics(ctx context.Context) (*model.DashboardMetrics, error) {
	var m model.DashboardMetrics
	if err := c.getJSON(ctx, "/dashboard/metrics", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
