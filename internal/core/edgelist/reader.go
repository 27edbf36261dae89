package edgelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/flowgraph/randgraph/internal/core/graph"
)

// Read parses an edge list and checks it describes a simple graph whose edge
// count matches the header. Blank lines are ignored.
func Read(r io.Reader) (*graph.Graph, error) {
	sc := bufio.NewScanner(r)

	var (
		g      *graph.Graph
		want   int
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		a, b, err := parsePair(line)
		if g == nil {
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrInvalidHeader, err)
			}
			if g, err = graph.New(a); err != nil {
				return nil, fmt.Errorf("line %d: %w: %w", lineNo, ErrInvalidHeader, err)
			}
			if b < 1 || b > graph.MaxEdges(a) {
				return nil, fmt.Errorf("line %d: %w: %d edges over %d vertices", lineNo, ErrInvalidHeader, b, a)
			}
			want = b
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrInvalidLine, err)
		}
		if g.Size() == want {
			return nil, fmt.Errorf("line %d: more than %d edges: %w", lineNo, want, ErrEdgeCountMismatch)
		}
		if err := g.AddEdge(a, b); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edge list: %w", err)
	}

	if g == nil {
		return nil, ErrEmptyInput
	}
	if g.Size() != want {
		return nil, fmt.Errorf("header says %d edges, found %d: %w", want, g.Size(), ErrEdgeCountMismatch)
	}
	return g, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

func parsePair(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 2 fields, got %d", len(fields))
	}
	a, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
