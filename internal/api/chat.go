package api

import "context"

// Chat sends one user message and returns the assistant's reply. Only the
// latest message travels; the backend owns any conversation context.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	req := struct {
		Message string `json:"message"`
	}{Message: message}

	var resp struct {
		Reply string `json:"reply"`
	}
	if err := c.postJSON(ctx, "/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}
