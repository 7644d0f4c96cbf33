package ai

import "context"

// CriterionSpec describes one scoring criterion handed to the scorer.
type CriterionSpec struct {
	Title    string
	MaxMarks float64
}

// ScoreInput contains the artefacts needed to score a round submission.
type ScoreInput struct {
	HackathonTitle string
	RoundName      string
	MaxScore       float64
	Criteria       []CriterionSpec
	NotesText      string
	Fields         map[string]interface{}
}

// ScoreResult is the opaque total produced by the scorer.
type ScoreResult struct {
	Total     float64                `json:"total"`
	Rationale string                 `json:"rationale,omitempty"`
	Raw       map[string]interface{} `json:"raw,omitempty"`
}

// Scorer produces an AI score for a submission. The caller treats any failure
// as "score absent" and never blocks a scoring pipeline on it.
type Scorer interface {
	Score(ctx context.Context, input ScoreInput) (ScoreResult, error)
}
