package gotest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/chainguard-dev/clog"
)

// ParseStream parses go test -json NDJSON from a reader, line by line, and
// feeds every event into the runner. Returns the number of malformed lines
// skipped and any error.
func ParseStream(r io.Reader, run *Runner) (int, error) {
	scanner := bufio.NewScanner(r)
	// Allow large lines for verbose test output
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var malformed int
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event TestEvent
		if err := json.Unmarshal(line, &event); err != nil {
			malformed++
			continue
		}
		if err := run.Process(event); err != nil {
			return malformed, err
		}
	}
	if err := scanner.Err(); err != nil {
		return malformed, fmt.Errorf("scanning test output: %w", err)
	}
	return malformed, nil
}

// scanResult carries a scanned line or terminal error from the scanner goroutine.
type scanResult struct {
	line []byte
	err  error
}

// Stream parses go test -json events line by line and feeds them into the
// runner as they arrive. Stops on EOF or when ctx is cancelled. Returns the
// number of malformed lines skipped and any error.
//
// Cancellation: the scanner runs in a background goroutine. On context
// cancel, Stream closes r (if it implements io.Closer) to unblock the
// scanner. If r does not implement io.Closer (e.g. *bufio.Reader), the
// caller must close the underlying reader externally to prevent a goroutine
// leak.
func Stream(ctx context.Context, r io.Reader, run *Runner) (int, error) {
	log := clog.FromContext(ctx)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := make(chan scanResult)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			// Copy bytes — scanner reuses the buffer.
			cp := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- scanResult{line: cp}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- scanResult{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	var malformed int
	for {
		select {
		case <-ctx.Done():
			// Attempt to unblock the scanner goroutine.
			if c, ok := r.(io.Closer); ok {
				_ = c.Close()
			}
			return malformed, ctx.Err()
		case res, ok := <-lines:
			if !ok {
				return malformed, nil
			}
			if res.err != nil {
				return malformed, res.err
			}
			if len(res.line) == 0 {
				continue
			}
			var event TestEvent
			if err := json.Unmarshal(res.line, &event); err != nil {
				malformed++
				log.Debugf("skipping malformed line: %v", err)
				continue
			}
			if err := run.Process(event); err != nil {
				return malformed, err
			}
		}
	}
}
