package model

// StageStatus is the lifecycle state of one pipeline stage.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageRunning   StageStatus = "running"
	StageCompleted StageStatus = "completed"
	StageError     StageStatus = "error"
)

// PipelineStage is one step of the backend-executed compliance workflow.
// Entirely server-driven after an execute; the initial list below is a
// static placeholder only.
type PipelineStage struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Status           StageStatus `json:"status"`
	ExecutionTime    float64     `json:"executionTime,omitempty"`
	RecordsProcessed int         `json:"recordsProcessed,omitempty"`
	Color            string      `json:"color,omitempty"`
}

// InitialStages returns the placeholder stage list shown before the first
// execution. The server's response replaces it wholesale and may carry a
// different, longer list.
func InitialStages() []PipelineStage {
	return []PipelineStage{
		{ID: "rules", Name: "Rule Engine", Description: "Apply policy rules", Status: StagePending, Color: "#3B82F6"},
		{ID: "segregation", Name: "Data Segregation", Description: "Categorize and segregate data", Status: StagePending, Color: "#14B8A6"},
		{ID: "llm", Name: "LLM Reasoner", Description: "Generate compliance details with AI", Status: StagePending, Color: "#A855F7"},
		{ID: "parsing", Name: "Compliance Parser", Description: "Parse and format final output", Status: StagePending, Color: "#10B981"},
	}
}

// AllCompleted reports whether every stage in the list finished.
func AllCompleted(stages []PipelineStage) bool {
	if len(stages) == 0 {
		return false
	}
	for _, s := range stages {
		if s.Status != StageCompleted {
			return false
		}
	}
	return true
}

// RunMode selects the backend workflow depth. Uninterpreted by the client
// beyond labeling.
type RunMode string

const (
	ModeQuick RunMode = "quick"
	ModeFull  RunMode = "full"
)
