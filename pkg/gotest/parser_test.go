package gotest

import (
	"strings"
	"testing"
)

func TestParseStream_BasicPassFail(t *testing.T) {
	input := strings.Join([]string{
		`{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"example.com/pkg","Test":"TestA"}`,
		`{"Time":"2024-01-01T00:00:00Z","Action":"pass","Package":"example.com/pkg","Test":"TestA","Elapsed":0.1}`,
		`{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"example.com/pkg","Test":"TestB"}`,
		`{"Time":"2024-01-01T00:00:00Z","Action":"fail","Package":"example.com/pkg","Test":"TestB","Elapsed":0.2}`,
		`{"Time":"2024-01-01T00:00:00Z","Action":"pass","Package":"example.com/pkg","Elapsed":0.5}`,
	}, "\n") + "\n"

	run, err := NewRunner(Rules{})
	if err != nil {
		t.Fatal(err)
	}
	malformed, err := ParseStream(strings.NewReader(input), run)
	if err != nil {
		t.Fatal(err)
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
	if doc.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", doc.Failed)
	}
}

func TestParseStream_MalformedLinesSkipped(t *testing.T) {
	input := "not json\n{bad json\n" +
		`{"Time":"2024-01-01T00:00:00Z","Action":"run","Package":"x","Test":"T"}` + "\n" +
		`{"Time":"2024-01-01T00:00:00Z","Action":"pass","Package":"x","Test":"T","Elapsed":0.1}` + "\n" +
		`{"Time":"2024-01-01T00:00:00Z","Action":"pass","Package":"x","Elapsed":0.1}` + "\n"

	run, err := NewRunner(Rules{})
	if err != nil {
		t.Fatal(err)
	}
	malformed, err := ParseStream(strings.NewReader(input), run)
	if err != nil {
		t.Fatal(err)
	}
	if malformed != 2 {
		t.Errorf("got %d malformed, want 2", malformed)
	}
	doc, err := run.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Passed != 1 {
		t.Errorf("expected 1 passed, got %d", doc.Passed)
	}
}

func TestParseStream_EmptyInput(t *testing.T) {
	run, err := NewRunner(Rules{})
	if err != nil {
		t.Fatal(err)
	}
	malformed, err := ParseStream(strings.NewReader(""), run)
	if err != nil {
		t.Fatal(err)
	}
	if malformed != 0 {
		t.Errorf("got %d malformed, want 0", malformed)
	}
	doc, err := run.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Sum != 0 {
		t.Errorf("expected empty tally, got sum=%d", doc.Sum)
	}
}
