package api

import (
	"context"
	"net/url"
	"strconv"

	"compdash/internal/model"
)

// ResultsQuery narrows GET /compliance/results. Zero values are omitted;
// the backend applies its own defaults.
type ResultsQuery struct {
	Framework string
	Status    string
	Severity  string
	Limit     int
	Offset    int
}

// ResultsResponse is a page of compliance records plus the totals the
// backend reports for the filtered set.
type ResultsResponse struct {
	Results []model.ComplianceRecord `json:"results"`
	Count   int                      `json:"count"`
	Total   int                      `json:"total"`
}

// Results fetches compliance records. Records are normalized at decode
// (confidence scale, status labels).
func (c *Client) Results(ctx context.Context, q ResultsQuery) (*ResultsResponse, error) {
	values := url.Values{}
	if q.Framework != "" {
		values.Set("framework", q.Framework)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Severity != "" {
		values.Set("severity", q.Severity)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}

	var resp ResultsResponse
	if err := c.getJSON(ctx, "/compliance/results", values, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
