package feature

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mrz1836/karate-runner/internal/domain"
)

//nolint:gochecknoglobals // Compiled once, read-only
var (
	failedCountPattern = regexp.MustCompile(`failed:\s*(\d+)`)
	summaryPattern     = regexp.MustCompile(`scenarios:\s*(\d+).*?passed:\s*(\d+).*?failed:\s*(\d+)`)
)

// AnalyzeTestResults classifies the text output of a run.
//
// The status comes from the last "failed: N" marker: failed when N > 0,
// passed otherwise, and unknown when no marker appears. Lines mentioning
// "match failed" are error details, lines mentioning "response time" (any
// case) are performance notes, and lines mentioning "match" without "failed"
// are assertions.
func AnalyzeTestResults(output string) *domain.ResultAnalysis {
	analysis := &domain.ResultAnalysis{
		Status:       domain.RunStatusUnknown,
		ErrorDetails: []string{},
		Performance:  []string{},
		Assertions:   []string{},
	}

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)

		if m := failedCountPattern.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				if n > 0 {
					analysis.Status = domain.RunStatusFailed
				} else {
					analysis.Status = domain.RunStatusPassed
				}
			}
		}

		if strings.Contains(line, "match failed") {
			analysis.ErrorDetails = append(analysis.ErrorDetails, line)
		}

		if strings.Contains(strings.ToLower(line), "response time") {
			analysis.Performance = append(analysis.Performance, line)
		}

		if strings.Contains(line, "match") && !strings.Contains(line, "failed") {
			analysis.Assertions = append(analysis.Assertions, line)
		}
	}

	return analysis
}

// SummarizeOutput extracts the counts from the engine's summary line
//
//	scenarios:  3 | passed:  2 | failed:  1 | time: 1.2345
//
// and collects "match failed" lines. Counts stay zero when no summary is printed.
func SummarizeOutput(output string) *domain.OutputSummary {
	summary := &domain.OutputSummary{Errors: []string{}}

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if m := summaryPattern.FindStringSubmatch(line); m != nil {
			summary.Scenarios, _ = strconv.Atoi(m[1])
			summary.Passed, _ = strconv.Atoi(m[2])
			summary.Failed, _ = strconv.Atoi(m[3])
			continue
		}
		if strings.Contains(line, "match failed") {
			summary.Errors = append(summary.Errors, line)
		}
	}

	return summary
}
