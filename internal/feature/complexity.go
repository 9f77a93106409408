package feature

import (
	"strings"

	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/domain"
)

// Complexity scores a parsed document:
//
//	2*scenarios + background steps
//	  + Σ scenario(steps + 5 if any step mentions "Examples:" + 2 if any step mentions "match")
//
// The formula is shared with the editor extension and must not change.
func Complexity(doc *domain.FeatureDocument) int {
	if doc == nil {
		return 0
	}

	score := constants.ScenarioWeight*len(doc.Scenarios) + len(doc.Background)
	for i := range doc.Scenarios {
		sc := &doc.Scenarios[i]
		score += len(sc.Steps)
		if anyStepContains(sc.Steps, "Examples:") {
			score += constants.ExamplesWeight
		}
		if anyStepContains(sc.Steps, "match") {
			score += constants.MatchWeight
		}
	}
	return score
}

// anyStepContains reports whether any step text contains substr.
func anyStepContains(steps []domain.Step, substr string) bool {
	for _, s := range steps {
		if strings.Contains(s.Text, substr) {
			return true
		}
	}
	return false
}
