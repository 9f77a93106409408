package protocol

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/karate-runner/internal/domain"
)

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var events []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line %q", line)
		events = append(events, m)
	}
	return events
}

func TestEmitter_Emit(t *testing.T) {
	tests := []struct {
		name  string
		event domain.RunEvent
		want  string
	}{
		{"start", domain.StartEvent("api/users.feature"), `{"type":"start","file":"api/users.feature"}`},
		{"output", domain.OutputEvent("ok"), `{"type":"output","line":"ok"}`},
		{"log", domain.LogEvent("hello"), `{"type":"log","message":"hello"}`},
		{"error", domain.ErrorEvent("boom"), `{"type":"error","message":"boom"}`},
		{"end", domain.EndEvent(domain.RunStatusFailed), `{"type":"test_end","status":"failed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewEmitter(&buf).Emit(tt.event)
			assert.Equal(t, tt.want+"\n", buf.String())
		})
	}
}

func TestEmitter_ConcurrentLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)
	logger := zerolog.New(e)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.Emit(domain.OutputEvent(strings.Repeat("x", 200)))
		}()
		go func() {
			defer wg.Done()
			logger.Info().Str("type", "log").Msg("side channel")
		}()
	}
	wg.Wait()

	events := decodeLines(t, buf.String())
	assert.Len(t, events, 100)
}

func TestMultiSink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	sink := MultiSink{a, nil, b}

	sink.Emit(domain.LogEvent("one"))
	sink.Emit(domain.LogEvent("two"))

	assert.Equal(t, a.all(), b.all())
	assert.Len(t, a.all(), 2)
}
