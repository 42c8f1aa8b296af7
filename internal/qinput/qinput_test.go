package qinput

import (
	"os"
	"path/filepath"
	"testing"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.txt")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestClassification(t *testing.T) {
	path := writeInput(t, "; a comment\n\nexample.com A\n# maxqueries 3\nexample.net NS\n")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	expect := []Line{
		{Query, "example.com A"},
		{Directive, "# maxqueries 3"},
		{Query, "example.net NS"},
		{EOF, ""},
		{EOF, ""}, // EOF is sticky
	}
	for ix, want := range expect {
		got := s.NextLine()
		if got != want {
			t.Errorf("Line %d: expected %v, got %v", ix, want, got)
		}
	}
}

func TestCommentsAndBlanksDoNotCount(t *testing.T) {
	path := writeInput(t, "; note\n\nexample.com NS\n")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	lines := 0
	for s.NextLine().Kind != EOF {
		lines++
	}
	if lines != 1 {
		t.Error("Expected exactly 1 significant line, got", lines)
	}
}

func TestMissingFinalNewline(t *testing.T) {
	path := writeInput(t, "example.com A")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if got := s.NextLine(); got.Kind != Query || got.Text != "example.com A" {
		t.Error("Unterminated final line should still be returned, got", got)
	}
	if got := s.NextLine(); got.Kind != EOF {
		t.Error("Expected EOF after final line, got", got)
	}
}

func TestRewind(t *testing.T) {
	path := writeInput(t, "example.com A\nexample.net MX\n")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for s.NextLine().Kind != EOF {
	}
	if err := s.Rewind(); err != nil {
		t.Fatal("Rewind failed:", err)
	}

	if got := s.NextLine(); got.Text != "example.com A" {
		t.Error("Rewind should restart from the first line, got", got)
	}
}

func TestStdinNotRewindable(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != "stdin" {
		t.Error("Empty path should mean stdin, got", s.Name())
	}
	if err := s.Rewind(); err != ErrNotRewindable {
		t.Error("Rewind of stdin should fail with ErrNotRewindable, got", err)
	}
	if err := s.Close(); err != nil {
		t.Error("Closing a stdin stream should be a no-op, got", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "no-such-file")); err == nil {
		t.Error("Open of a missing file should fail")
	}
}
