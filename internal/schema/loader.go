package schema

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// edgeSeparator separates the two types of one declaration.
const edgeSeparator = " -> "

// ParseEdges reads "<fromType> -> <toType>" declarations, one per line.
// Blank lines and lines starting with '#' are skipped.
func ParseEdges(r io.Reader) ([]Edge, error) {
	var edges []Edge

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		from, to, found := strings.Cut(line, edgeSeparator)
		if !found {
			return nil, fmt.Errorf("line %d: expected \"<from>%s<to>\", got %q", lineNum, edgeSeparator, line)
		}
		from = strings.TrimSpace(from)
		to = strings.TrimSpace(to)
		if from == "" || to == "" {
			return nil, fmt.Errorf("line %d: empty type name in %q", lineNum, line)
		}

		edges = append(edges, Edge{From: from, To: to})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schema edges: %w", err)
	}

	return edges, nil
}

// Load builds a Graph from a schema edge file.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema edge file: %w", err)
	}
	defer func() { _ = f.Close() }()

	edges, err := ParseEdges(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return NewGraph(edges), nil
}
