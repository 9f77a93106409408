package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/karate-runner/internal/domain"
)

const runOutput = `match failed: response.id
response time in milliseconds: 120
* match foo == bar
scenarios:  2 | passed:  1 | failed:  1 | time: 1.2345`

func TestAnalyzeTestResults(t *testing.T) {
	t.Run("classifies lines", func(t *testing.T) {
		got := AnalyzeTestResults(runOutput)

		assert.Equal(t, domain.RunStatusFailed, got.Status)
		assert.Equal(t, []string{"match failed: response.id"}, got.ErrorDetails)
		assert.Equal(t, []string{"response time in milliseconds: 120"}, got.Performance)
		assert.Equal(t, []string{"* match foo == bar"}, got.Assertions)
	})

	t.Run("zero failures passes", func(t *testing.T) {
		got := AnalyzeTestResults("scenarios: 1 | passed: 1 | failed: 0")
		assert.Equal(t, domain.RunStatusPassed, got.Status)
	})

	t.Run("no marker stays unknown", func(t *testing.T) {
		got := AnalyzeTestResults("hello\nworld")
		assert.Equal(t, domain.RunStatusUnknown, got.Status)
		assert.Empty(t, got.ErrorDetails)
		assert.NotNil(t, got.Assertions)
	})

	t.Run("last marker wins", func(t *testing.T) {
		got := AnalyzeTestResults("failed: 2\nfailed: 0")
		assert.Equal(t, domain.RunStatusPassed, got.Status)
	})

	t.Run("response time is case insensitive", func(t *testing.T) {
		got := AnalyzeTestResults("Response Time: 5ms")
		assert.Len(t, got.Performance, 1)
	})
}

func TestSummarizeOutput(t *testing.T) {
	got := SummarizeOutput(runOutput)
	assert.Equal(t, 2, got.Scenarios)
	assert.Equal(t, 1, got.Passed)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, []string{"match failed: response.id"}, got.Errors)

	empty := SummarizeOutput("nothing here")
	assert.Zero(t, empty.Scenarios)
	assert.Empty(t, empty.Errors)
}
