// Package domain provides shared domain types for karate-runner.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

// StepKeyword is the leading keyword of a feature step.
type StepKeyword string

// Step keywords recognized by the analyzer.
const (
	KeywordGiven    StepKeyword = "Given"
	KeywordWhen     StepKeyword = "When"
	KeywordThen     StepKeyword = "Then"
	KeywordAnd      StepKeyword = "And"
	KeywordBut      StepKeyword = "But"
	KeywordWildcard StepKeyword = "*"
)

// Step is a single parsed step line. Steps are immutable once parsed.
type Step struct {
	Keyword StepKeyword `json:"keyword"`
	Text    string      `json:"text"`
}

// Scenario is a named, ordered group of steps owned by a FeatureDocument.
type Scenario struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
	// LineNumber is the running step count plus one at the point the
	// scenario was opened, not the physical line in the file.
	LineNumber int `json:"line_number"`
}

// FeatureDocument is the transient parsed form of a feature file.
//
// Example JSON representation:
//
//	{
//	    "feature": "User API",
//	    "background": [{"keyword": "*", "text": "url baseUrl"}],
//	    "scenarios": [{"name": "get user", "steps": [...], "line_number": 2}],
//	    "steps_count": 4,
//	    "complexity": 7
//	}
type FeatureDocument struct {
	// Feature is the title after "Feature:"; empty when the file has none.
	Feature    string     `json:"feature,omitempty"`
	Background []Step     `json:"background"`
	Scenarios  []Scenario `json:"scenarios"`
	StepsCount int        `json:"steps_count"`
	Complexity int        `json:"complexity"`
}

// Variable is a "* def name = value" definition found in a feature file.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FeatureAnalysis bundles everything the analyzer reports about one file.
type FeatureAnalysis struct {
	File        string           `json:"file"`
	Document    *FeatureDocument `json:"document"`
	Variables   []Variable       `json:"variables"`
	Suggestions []string         `json:"suggestions"`
}

// ResultAnalysis classifies the text output of a finished run.
type ResultAnalysis struct {
	Status       RunStatus `json:"status"`
	ErrorDetails []string  `json:"error_details"`
	Performance  []string  `json:"performance"`
	Assertions   []string  `json:"assertions"`
}

// OutputSummary holds the counts printed on the engine's summary line.
type OutputSummary struct {
	Scenarios int      `json:"scenarios"`
	Passed    int      `json:"passed"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}
