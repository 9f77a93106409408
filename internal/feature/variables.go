package feature

import (
	"io"
	"strings"

	"github.com/mrz1836/karate-runner/internal/domain"
	krerrors "github.com/mrz1836/karate-runner/internal/errors"
)

const defPrefix = "* def "

// ExtractVariables returns every "* def name = value" definition in order.
// A definition without "=" yields an empty value.
func ExtractVariables(r io.Reader) ([]domain.Variable, error) {
	vars := []domain.Variable{}
	scanner := newLineScanner(r)
	for scanner.Scan() {
		if v, ok := parseDef(scanner.Text()); ok {
			vars = append(vars, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}

// ExtractVariablesString is ExtractVariables for in-memory feature text.
func ExtractVariablesString(contents string) []domain.Variable {
	vars := []domain.Variable{}
	for _, line := range strings.Split(contents, "\n") {
		if v, ok := parseDef(line); ok {
			vars = append(vars, v)
		}
	}
	return vars
}

// ExtractVariablesFile reads the variable definitions of the file at path.
func ExtractVariablesFile(path string) ([]domain.Variable, error) {
	f, err := openFeature(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	vars, err := ExtractVariables(f)
	if err != nil {
		return nil, krerrors.Wrapf(err, "failed to read feature file %s", path)
	}
	return vars, nil
}

// parseDef splits one definition line on its first "=".
func parseDef(raw string) (domain.Variable, bool) {
	line := strings.TrimSpace(raw)
	if !strings.HasPrefix(line, defPrefix) {
		return domain.Variable{}, false
	}
	def := strings.TrimSpace(line[len(defPrefix):])
	name, value, _ := strings.Cut(def, "=")
	return domain.Variable{
		Name:  strings.TrimSpace(name),
		Value: strings.TrimSpace(value),
	}, true
}
