package runner

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/acarl005/stripansi"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/karate-runner/internal/constants"
	"github.com/mrz1836/karate-runner/internal/domain"
)

// collector is the shared, ordered output buffer of one run.
type collector struct {
	mu    sync.Mutex
	lines []string
	sink  EventSink
}

// add records line and emits its event under one lock, so the buffer order
// and the event order agree.
func (c *collector) add(line string, event domain.RunEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
	c.sink.Emit(event)
}

// drain reads stdout and stderr concurrently until both reach EOF.
// Stdout lines become output events; stderr lines become error events and
// are buffered with the "ERROR: " prefix. The first scanner error is
// returned after both streams are exhausted.
func drain(stdout, stderr io.Reader, sink EventSink) ([]string, error) {
	c := &collector{lines: []string{}, sink: sink}

	var g errgroup.Group
	g.Go(func() error {
		return scanLines(stdout, func(line string) {
			c.add(line, domain.OutputEvent(line))
		})
	})
	g.Go(func() error {
		return scanLines(stderr, func(line string) {
			c.add(constants.StderrPrefix+line, domain.ErrorEvent(line))
		})
	})
	err := g.Wait()

	return c.lines, err
}

// scanLines calls fn for every non-blank line of r after stripping ANSI
// escapes and trailing whitespace. On a scan error the rest of r is
// discarded so the writer never blocks on a full pipe.
func scanLines(r io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), constants.MaxOutputLineSize)

	for scanner.Scan() {
		line := cleanLine(scanner.Text())
		if line == "" {
			continue
		}
		fn(line)
	}

	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

// cleanLine strips terminal color codes and trailing whitespace.
func cleanLine(raw string) string {
	return strings.TrimRight(stripansi.Strip(raw), " \t\r")
}
