package questions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeBank(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

const mixedBank = `{
	"questions": [
		{"id": "q1", "statement": "First?", "tags": ["Gestação"], "version": "V3",
		 "options": [{"id": "a", "text": "Yes"}, {"id": "b", "text": "No"}], "correct": "a"},
		{"id": "q2", "statement": "Old format", "tags": ["Parto"], "version": "V2",
		 "options": [{"id": "a", "text": "Yes"}], "correct": "a"},
		{"id": "q3", "statement": "Third?", "tags": ["Parto"], "version": "V3",
		 "options": [{"id": "a", "text": "Yes"}, {"id": "b", "text": "No"}], "correct": "b",
		 "explanation": "Because."}
	]
}`

func TestFileSource_FiltersBySchemaVersion(t *testing.T) {
	src := NewFileSource(writeBank(t, mixedBank), "V3")

	qs, err := src.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("Loaded %d questions, want 2", len(qs))
	}
	if qs[0].ID != "q1" || qs[1].ID != "q3" {
		t.Errorf("Loaded IDs %s, %s; want q1, q3 in file order", qs[0].ID, qs[1].ID)
	}
	if qs[1].Explanation != "Because." {
		t.Errorf("Explanation = %q, want it preserved", qs[1].Explanation)
	}
}

func TestFileSource_NoMatchingVersion(t *testing.T) {
	src := NewFileSource(writeBank(t, mixedBank), "V9")

	if _, err := src.Load(); err == nil {
		t.Error("Expected an error when no question carries the configured version")
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.json"), "V3")

	if _, err := src.Load(); err == nil {
		t.Error("Expected an error for a missing question bank")
	}
}

func TestFileSource_MalformedJSON(t *testing.T) {
	src := NewFileSource(writeBank(t, `{"questions": [`), "V3")

	_, err := src.Load()
	if err == nil {
		t.Fatal("Expected a parse error")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("Error %q should mention parsing", err)
	}
}
