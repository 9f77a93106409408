package feature

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/karate-runner/internal/domain"
	krerrors "github.com/mrz1836/karate-runner/internal/errors"
)

const usersFeature = `# users api
Feature: User API

Background:
  * url baseUrl
  * def token = 'abc'

Scenario: get user
  Given path 'users', 1
  When method get
  Then status 200
  And match response.id == 1

Scenario: list users
  Given path 'users'
  When method get
  Then status 200
`

// writeFeature writes contents to a temp feature file and returns its path.
func writeFeature(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.feature")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestParseString_Structure(t *testing.T) {
	doc := ParseString(usersFeature)

	assert.Equal(t, "User API", doc.Feature)
	require.Len(t, doc.Background, 2)
	assert.Equal(t, domain.KeywordWildcard, doc.Background[0].Keyword)
	assert.Equal(t, "url baseUrl", doc.Background[0].Text)

	require.Len(t, doc.Scenarios, 2)
	assert.Equal(t, "get user", doc.Scenarios[0].Name)
	assert.Equal(t, 3, doc.Scenarios[0].LineNumber)
	require.Len(t, doc.Scenarios[0].Steps, 4)
	assert.Equal(t, domain.Step{Keyword: domain.KeywordAnd, Text: "match response.id == 1"}, doc.Scenarios[0].Steps[3])

	assert.Equal(t, "list users", doc.Scenarios[1].Name)
	assert.Equal(t, 7, doc.Scenarios[1].LineNumber)
	assert.Len(t, doc.Scenarios[1].Steps, 3)

	assert.Equal(t, 9, doc.StepsCount)
	assert.Equal(t, 15, doc.Complexity)
}

func TestParseString_TrailingScenarioWithoutNewline(t *testing.T) {
	doc := ParseString("Feature: f\nScenario: one\n* print 1\nScenario: two\n* print 2")

	require.Len(t, doc.Scenarios, 2)
	assert.Equal(t, "two", doc.Scenarios[1].Name)
	assert.Len(t, doc.Scenarios[1].Steps, 1)
}

func TestParseString_ScenarioCountMatchesMarkers(t *testing.T) {
	inputs := []string{
		"",
		"Feature: empty",
		"Scenario: a",
		"Scenario: a\nScenario: b\nScenario: c",
		usersFeature,
		"Feature: x\n\n  Scenario: indented\n    * print 1\n",
	}

	for _, in := range inputs {
		markers := 0
		for _, line := range strings.Split(in, "\n") {
			if scenarioPattern.MatchString(strings.TrimSpace(line)) {
				markers++
			}
		}
		assert.Len(t, ParseString(in).Scenarios, markers, "input %q", in)
	}
}

func TestParseString_StepOutsideBucketIsDroppedButCounted(t *testing.T) {
	doc := ParseString("Feature: f\n* def a = 1\nScenario: s\n* print a\n")

	assert.Empty(t, doc.Background)
	require.Len(t, doc.Scenarios, 1)
	assert.Len(t, doc.Scenarios[0].Steps, 1)
	assert.Equal(t, 2, doc.Scenarios[0].LineNumber)
	assert.Equal(t, 2, doc.StepsCount)
}

func TestParseString_SkipsCommentsAndUnknownLines(t *testing.T) {
	doc := ParseString(`Feature: f
Scenario: s
  # Given commented out
  """
  {"a": 1}
  """
  | a | b |
  Scenario:
  Givenpath 'x'
  Given path 'x'
`)

	require.Len(t, doc.Scenarios, 1)
	require.Len(t, doc.Scenarios[0].Steps, 1)
	assert.Equal(t, "path 'x'", doc.Scenarios[0].Steps[0].Text)
}

func TestParseString_BackgroundEndsAtScenario(t *testing.T) {
	doc := ParseString("Background:\n* a\nScenario: s\n* b\n* c\n")

	assert.Len(t, doc.Background, 1)
	require.Len(t, doc.Scenarios, 1)
	assert.Len(t, doc.Scenarios[0].Steps, 2)
}

func TestParseString_NoFeatureTitle(t *testing.T) {
	doc := ParseString("Scenario: s\n* print 1\n")
	assert.Empty(t, doc.Feature)
	assert.NotNil(t, doc.Background)
}

func TestParse_Reader(t *testing.T) {
	doc, err := Parse(strings.NewReader(usersFeature))
	require.NoError(t, err)
	assert.Equal(t, ParseString(usersFeature), doc)
}

func TestParseFile(t *testing.T) {
	t.Run("parses existing file", func(t *testing.T) {
		doc, err := ParseFile(writeFeature(t, usersFeature))
		require.NoError(t, err)
		assert.Len(t, doc.Scenarios, 2)
	})

	t.Run("missing file is NotFound", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.feature")
		_, err := ParseFile(missing)
		require.ErrorIs(t, err, krerrors.ErrNotFound)
		assert.Equal(t, "Feature file not found: "+missing, err.Error())
	})
}
