package feature

import (
	"fmt"

	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/domain"
)

// SuggestImprovements returns advisory notes for a parsed document.
// The notes never indicate an error; an empty slice means nothing to flag.
func SuggestImprovements(doc *domain.FeatureDocument) []string {
	suggestions := []string{}
	if doc == nil {
		return suggestions
	}

	if doc.Complexity > constants.ComplexityThreshold {
		suggestions = append(suggestions, "Consider breaking down complex scenarios into smaller ones")
	}

	if len(doc.Background) > constants.MaxBackgroundSteps {
		suggestions = append(suggestions, "Background section is quite large. Consider moving some steps to shared feature files")
	}

	for _, sc := range doc.Scenarios {
		if len(sc.Steps) > constants.MaxScenarioSteps {
			suggestions = append(suggestions, fmt.Sprintf("Scenario '%s' has many steps. Consider refactoring", sc.Name))
		}
		if !anyStepContains(sc.Steps, "match") {
			suggestions = append(suggestions, fmt.Sprintf("Scenario '%s' lacks assertions. Consider adding verification steps", sc.Name))
		}
	}

	return suggestions
}
