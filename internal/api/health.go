package api

import "context"

// Health probes backend connectivity. The dashboard's Connected/Offline
// badge is driven solely by this call's pass/fail.
func (c *Client) Health(ctx context.Context) error {
	return c.getJSON(ctx, "/health", nil, nil)
}
