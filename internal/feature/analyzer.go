package feature

import (
	"os"

	"github.com/mrz1836/karate-runner/internal/domain"
	krerrors "github.com/mrz1836/karate-runner/internal/errors"
)

// Analyze reads the feature file at path once and returns its structure,
// variable definitions and improvement suggestions.
// Returns a NotFoundError when the file does not exist.
func Analyze(path string) (*domain.FeatureAnalysis, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is the feature file the user asked for
	if err != nil {
		if os.IsNotExist(err) {
			return nil, krerrors.NewNotFoundError("Feature file", path)
		}
		return nil, krerrors.Wrapf(err, "failed to read feature file %s", path)
	}

	contents := string(data)
	doc := ParseString(contents)
	return &domain.FeatureAnalysis{
		File:        path,
		Document:    doc,
		Variables:   ExtractVariablesString(contents),
		Suggestions: SuggestImprovements(doc),
	}, nil
}
