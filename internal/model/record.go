// Package model defines the transport records mirrored from the compliance
// backend. The backend owns every schema; the client holds local copies and
// replaces them wholesale on each load. Normalization of the inconsistent
// wire variants (confidence scale, status labels, field name spellings)
// happens here, at the decode boundary, so the rest of the client only ever
// sees canonical values.
package model

import (
	"encoding/json"
	"strings"
)

// Status is the canonical compliance determination for a record.
type Status string

const (
	StatusCompliant      Status = "Compliant"
	StatusNonCompliant   Status = "Non-Compliant"
	StatusRequiresAction Status = "Requires Action"
)

// ParseStatus maps the wire variants onto the canonical enum. The backend
// emits both "Partial" and "Requires Action" for the same state depending on
// the code path; "Requires Action" is canonical.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compliant":
		return StatusCompliant
	case "non-compliant", "non compliant", "noncompliant":
		return StatusNonCompliant
	case "partial", "requires action", "requires-action":
		return StatusRequiresAction
	}
	return Status(strings.TrimSpace(s))
}

// Severity is the backend-assigned severity of an obligation.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Rank returns the fixed ordering Critical < High < Medium < Low.
// Unknown severities sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	}
	return 4
}

// ParseSeverity normalizes case on the wire value.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	}
	return Severity(strings.TrimSpace(s))
}

// ReQueryThreshold is the confidence below which a record is offered for
// LLM re-query in the explorer.
const ReQueryThreshold = 0.8

// ComplianceRecord is one compliance determination for a single obligation.
// The client never mutates a record; collections are replaced wholesale.
type ComplianceRecord struct {
	ID           string `json:"id"`
	Framework    string `json:"framework"`
	ObligationID string `json:"obligationId"`
	Description  string `json:"description"`
	Status       Status `json:"status"`
	// Confidence is canonically 0.0-1.0. Wire values above 1 are taken to be
	// on a 0-100 scale and divided down.
	Confidence float64  `json:"confidence_score"`
	Category   string   `json:"category"`
	Severity   Severity `json:"severity"`
	Action     string   `json:"action"`
	Reason     string   `json:"reason"`
}

// NeedsReQuery reports whether the re-query affordance applies.
func (r ComplianceRecord) NeedsReQuery() bool {
	return r.Confidence < ReQueryThreshold
}

// recordWire accepts every field spelling the backend has been observed to
// emit for the same data.
type recordWire struct {
	ID              json.Number `json:"id"`
	Framework       string      `json:"framework"`
	ObligationID    string      `json:"obligationId"`
	ObligationSnake string      `json:"obligation_id"`
	Obligation      string      `json:"obligation"`
	Description     string      `json:"description"`
	Status          string      `json:"status"`
	ConfidenceScore *float64    `json:"confidence_score"`
	ConfidenceCamel *float64    `json:"confidenceScore"`
	Confidence      *float64    `json:"confidence"`
	Category        string      `json:"category"`
	Severity        string      `json:"severity"`
	Action          string      `json:"action"`
	Reason          string      `json:"reason"`
}

// UnmarshalJSON decodes a record and normalizes it to canonical form.
func (r *ComplianceRecord) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	r.ID = w.ID.String()
	r.Framework = w.Framework
	r.Description = w.Description
	r.Category = w.Category
	r.Action = w.Action
	r.Reason = w.Reason

	r.ObligationID = w.ObligationID
	if r.ObligationID == "" {
		r.ObligationID = w.ObligationSnake
	}
	if r.ObligationID == "" {
		r.ObligationID = w.Obligation
	}

	r.Status = ParseStatus(w.Status)
	r.Severity = ParseSeverity(w.Severity)
	r.Confidence = NormalizeConfidence(firstConfidence(w))
	return nil
}

func firstConfidence(w recordWire) float64 {
	for _, p := range []*float64{w.ConfidenceScore, w.ConfidenceCamel, w.Confidence} {
		if p != nil {
			return *p
		}
	}
	return 0
}

// NormalizeConfidence maps a score onto the canonical 0.0-1.0 scale. The
// backend reports 0-1 in some views and 0-100 in others.
func NormalizeConfidence(v float64) float64 {
	if v > 1 {
		v = v / 100
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}
