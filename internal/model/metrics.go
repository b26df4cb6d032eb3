package model

// MetricCell is one KPI value as the dashboard endpoint reports it: a value
// plus the display hints the backend attaches.
type MetricCell struct {
	Value       float64 `json:"value"`
	Label       string  `json:"label"`
	Percentage  float64 `json:"percentage,omitempty"`
	Description string  `json:"description,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// DashboardMetrics is the KPI snapshot from GET /dashboard/metrics. Each
// poll replaces the previous snapshot; there is no merging.
type DashboardMetrics struct {
	TotalRecords       MetricCell `json:"total_records"`
	Compliant          MetricCell `json:"compliant"`
	NonCompliant       MetricCell `json:"non_compliant"`
	RequiresAction     MetricCell `json:"requires_action"`
	AvgConfidence      MetricCell `json:"avg_confidence"`
	HighSeverity       MetricCell `json:"high_severity"`
	TotalRules         MetricCell `json:"total_rules"`
	UniqueObligations  MetricCell `json:"unique_obligations"`
	ComplianceAccuracy MetricCell `json:"compliance_accuracy"`
	AvgProcessingTime  MetricCell `json:"avg_processing_time"`

	ByFramework map[string]int `json:"by_framework,omitempty"`
	ByAction    map[string]int `json:"by_action,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
}
