// Package edgelist reads and writes the plain-text edge-list format:
//
//	<num_vertices> <num_edges>
//	<v1> <v2>
//	...
//
// one header line followed by exactly num_edges lines.
package edgelist

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/flowgraph/randgraph/internal/core/graph"
)

// Write emits g in edge-list format. Edges appear in the order g.Edges
// returns them.
func Write(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d %d\n", g.Vertices(), g.Size()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range g.Edges() {
		if _, err := fmt.Fprintf(bw, "%d %d\n", e.U, e.V); err != nil {
			return fmt.Errorf("failed to write edge %s: %w", e, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush edge list: %w", err)
	}
	return nil
}

// WriteFile creates or truncates path and writes g to it.
func WriteFile(path string, g *graph.Graph) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return Write(f, g)
}
