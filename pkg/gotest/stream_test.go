package gotest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStream_FeedsRunner(t *testing.T) {
	input := strings.Join([]string{
		`{"Action":"start","Package":"example.com/pkg"}`,
		`{"Action":"run","Package":"example.com/pkg","Test":"TestFoo"}`,
		`{"Action":"pass","Package":"example.com/pkg","Test":"TestFoo","Elapsed":0.01}`,
		`{"Action":"pass","Package":"example.com/pkg","Elapsed":0.5}`,
	}, "\n") + "\n"

	run, err := NewRunner(Rules{})
	if err != nil {
		t.Fatal(err)
	}
	malformed, err := Stream(context.Background(), strings.NewReader(input), run)
	if err != nil {
		t.Fatalf("Stream() error: %v", err)
	}
	if malformed != 0 {
		t.Errorf("got %d malformed, want 0", malformed)
	}
	doc, err := run.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Passed != 1 {
		t.Errorf("expected 1 passed, got %d", doc.Passed)
	}
}

func TestStream_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := NewRunner(Rules{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Stream(ctx, blockingReader{}, run)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// blockingReader never returns from Read, simulating a stalled stdin.
type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	time.Sleep(time.Hour)
	return 0, nil
}
