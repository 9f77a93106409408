// Package feature analyzes Karate feature files.
//
// The parser recognizes the structural lines of a feature (Feature:,
// Background:, Scenario: and step lines) and ignores everything else, so
// doc strings, tables and tags never break analysis.
//
// IMPORTANT: This package may import internal/constants, internal/errors and
// internal/domain. It MUST NOT import internal/runner or internal/cli.
package feature

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/domain"
	krerrors "github.com/mrz1836/karate-runner/internal/errors"
)

const (
	featurePrefix    = "Feature:"
	backgroundPrefix = "Background:"
	commentPrefix    = "#"
)

//nolint:gochecknoglobals // Compiled once, read-only
var (
	scenarioPattern = regexp.MustCompile(`^\s*Scenario:(.+)`)
	stepPattern     = regexp.MustCompile(`^\s*(Given|When|Then|And|But|\*)\s+(.+)`)
)

// parserState is where the next step line will be placed.
type parserState int

const (
	// stateOutside means no background or scenario is open; steps are dropped.
	stateOutside parserState = iota
	// stateBackground sends steps to the document's background.
	stateBackground
	// stateScenario sends steps to the open scenario.
	stateScenario
)

// parser is the explicit state machine behind Parse.
type parser struct {
	doc     *domain.FeatureDocument
	state   parserState
	current *domain.Scenario
}

func newParser() *parser {
	return &parser{
		doc: &domain.FeatureDocument{
			Background: []domain.Step{},
			Scenarios:  []domain.Scenario{},
		},
	}
}

// line consumes one raw input line.
func (p *parser) line(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, commentPrefix) {
		return
	}

	switch {
	case strings.HasPrefix(line, featurePrefix):
		p.doc.Feature = strings.TrimSpace(line[len(featurePrefix):])
	case strings.HasPrefix(line, backgroundPrefix):
		p.state = stateBackground
	default:
		if m := scenarioPattern.FindStringSubmatch(line); m != nil {
			p.openScenario(strings.TrimSpace(m[1]))
			return
		}
		if m := stepPattern.FindStringSubmatch(line); m != nil {
			p.step(domain.Step{Keyword: domain.StepKeyword(m[1]), Text: m[2]})
		}
	}
}

// openScenario closes the scenario in progress and starts a new one.
func (p *parser) openScenario(name string) {
	p.closeScenario()
	p.current = &domain.Scenario{
		Name:       name,
		Steps:      []domain.Step{},
		LineNumber: p.doc.StepsCount + 1,
	}
	p.state = stateScenario
}

// closeScenario appends the open scenario, if any, to the document.
func (p *parser) closeScenario() {
	if p.current == nil {
		return
	}
	p.doc.Scenarios = append(p.doc.Scenarios, *p.current)
	p.current = nil
}

// step places a step in the active bucket. Every step line counts toward the
// running total, including steps dropped because no bucket is open.
func (p *parser) step(s domain.Step) {
	switch p.state {
	case stateBackground:
		p.doc.Background = append(p.doc.Background, s)
	case stateScenario:
		p.current.Steps = append(p.current.Steps, s)
	case stateOutside:
		// dropped
	}
	p.doc.StepsCount++
}

// finish flushes the trailing scenario and scores the document.
func (p *parser) finish() *domain.FeatureDocument {
	p.closeScenario()
	p.doc.Complexity = Complexity(p.doc)
	return p.doc
}

// newLineScanner scans feature text line by line, allowing lines as long as
// the engine output limit.
func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), constants.MaxOutputLineSize)
	return scanner
}

// Parse reads feature text and returns its structure with the complexity
// score already computed.
func Parse(r io.Reader) (*domain.FeatureDocument, error) {
	p := newParser()
	scanner := newLineScanner(r)
	for scanner.Scan() {
		p.line(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.finish(), nil
}

// ParseString is Parse for in-memory feature text.
func ParseString(contents string) *domain.FeatureDocument {
	p := newParser()
	for _, line := range strings.Split(contents, "\n") {
		p.line(line)
	}
	return p.finish()
}

// ParseFile parses the feature file at path.
// Returns a NotFoundError when the file does not exist.
func ParseFile(path string) (*domain.FeatureDocument, error) {
	f, err := openFeature(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	doc, err := Parse(f)
	if err != nil {
		return nil, krerrors.Wrapf(err, "failed to read feature file %s", path)
	}
	return doc, nil
}

// openFeature opens path, mapping a missing file to NotFoundError.
func openFeature(path string) (*os.File, error) {
	f, err := os.Open(path) //#nosec G304 -- path is the feature file the user asked for
	if err != nil {
		if os.IsNotExist(err) {
			return nil, krerrors.NewNotFoundError("Feature file", path)
		}
		return nil, krerrors.Wrapf(err, "failed to open feature file %s", path)
	}
	return f, nil
}
