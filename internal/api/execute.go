package api

import (
	"context"

	"compdash/internal/model"
)

// ExecuteResponse carries the authoritative post-run stage list. The client
// replaces its local stage state with this wholesale.
type ExecuteResponse struct {
	Success              bool                  `json:"success"`
	Stages               []model.PipelineStage `json:"stages"`
	Message              string                `json:"message"`
	FileID               string                `json:"file_id"`
	Mode                 string                `json:"mode"`
	RecordsProcessed     int                   `json:"records_processed"`
	ObligationsGenerated int                   `json:"obligations_generated"`
	CompletedAt          string                `json:"completed_at"`
}

// Execute triggers the compliance workflow for a previously uploaded file.
// The call blocks until the backend finishes the run; the execute context
// should therefore carry a longer deadline than the polling calls.
func (c *Client) Execute(ctx context.Context, fileID string, mode model.RunMode) (*ExecuteResponse, error) {
	req := struct {
		FileID string `json:"file_id"`
		Mode   string `json:"mode"`
	}{FileID: fileID, Mode: string(mode)}

	var resp ExecuteResponse
	if err := c.postJSON(ctx, "/execute", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
