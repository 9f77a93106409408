package feature

import (
	"strings"

	krerrors "github.com/mrz1836/karate-runner/internal/errors"
)

// ScenarioNames lists the scenario titles of the file at path in file order.
func ScenarioNames(path string) ([]string, error) {
	f, err := openFeature(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	names := []string{}
	scanner := newLineScanner(f)
	for scanner.Scan() {
		if m := scenarioPattern.FindStringSubmatch(scanner.Text()); m != nil {
			names = append(names, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, krerrors.Wrapf(err, "failed to read feature file %s", path)
	}
	return names, nil
}

// FindScenarioLine returns the 1-based physical line of the first scenario
// titled name. The boolean is false when no scenario has that title.
func FindScenarioLine(path, name string) (int, bool, error) {
	f, err := openFeature(path)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = f.Close() }()

	scanner := newLineScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		m := scenarioPattern.FindStringSubmatch(scanner.Text())
		if m != nil && strings.TrimSpace(m[1]) == name {
			return lineNo, true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, false, krerrors.Wrapf(err, "failed to read feature file %s", path)
	}
	return 0, false, nil
}
