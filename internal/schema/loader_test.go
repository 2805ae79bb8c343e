package schema

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseEdges(t *testing.T) {
	input := "adunit -> adunitgroup\nadunit -> account\n\n# comment\nsite -> account\r\n"

	edges, err := ParseEdges(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseEdges() error = %v", err)
	}

	want := []Edge{
		{From: "adunit", To: "adunitgroup"},
		{From: "adunit", To: "account"},
		{From: "site", To: "account"},
	}
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("ParseEdges() = %v, want %v", edges, want)
	}
}

func TestParseEdges_NoTrailingNewline(t *testing.T) {
	edges, err := ParseEdges(strings.NewReader("user_ -> account"))
	if err != nil {
		t.Fatalf("ParseEdges() error = %v", err)
	}
	if len(edges) != 1 || edges[0].From != "user_" || edges[0].To != "account" {
		t.Errorf("unexpected edges: %v", edges)
	}
}

func TestParseEdges_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"missing separator", "adunit account\n", "line 1"},
		{"empty target", "adunit -> account\nsite -> \n", "line 2"},
		{"empty source", " -> account\n", "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEdges(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connections.txt")
	if err := os.WriteFile(path, []byte("site -> account\naccount -> site\n"), 0o644); err != nil {
		t.Fatalf("failed to write edge file: %v", err)
	}

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
