// Package main provides the randgraph CLI: it writes a random undirected
// simple graph as an edge list.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/flowgraph/randgraph/internal/adapters/repository/postgres"
	"github.com/flowgraph/randgraph/internal/adapters/repository/sqlite"
	"github.com/flowgraph/randgraph/internal/app/dto"
	"github.com/flowgraph/randgraph/internal/app/usecases"
	"github.com/flowgraph/randgraph/internal/config"
	"github.com/flowgraph/randgraph/internal/core/archive"
	"github.com/flowgraph/randgraph/pkg/serialization"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const usage = `usage:
  randgraph                      generate a graph using RANDGRAPH_* settings
  randgraph verify <file>        check an edge-list file
  randgraph list                 list archived runs
  randgraph restore <id> [file]  rewrite an archived run
  randgraph version`

var errUsage = errors.New(usage)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("randgraph: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "randgraph %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return nil
	case "verify":
		// Reads a file only; no config or store involved.
		if len(args) != 2 {
			return errUsage
		}
		g, err := usecases.NewGenerator(nil).Verify(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: ok, %d vertices and %d edges.\n", args[1], g.Vertices(), g.Size())
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	gen := usecases.NewGenerator(store)

	switch cmd {
	case "":
		res, err := gen.Generate(ctx, &dto.GenerateRequest{
			Vertices: cfg.Vertices,
			Edges:    cfg.Edges,
			Output:   cfg.Output,
			Seed:     cfg.Seed,
			Archive:  store != nil,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Graph file '%s' generated with %d vertices and %d edges.\n", res.Output, res.Vertices, res.Edges)
		if res.RecordID != "" {
			fmt.Fprintf(stdout, "Archived as %s (seed %d).\n", res.RecordID, res.Seed)
		}
		return nil

	case "list":
		if store == nil {
			return errors.New("list: RANDGRAPH_STORE is none")
		}
		records, err := store.List(ctx, archive.Filter{})
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Fprintf(stdout, "%s\t%d\t%d\t%d\t%s\t%s\n",
				r.ID, r.Vertices, len(r.Edges), r.Seed, r.Output, r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
		}
		return nil

	case "restore":
		if len(args) < 2 || len(args) > 3 {
			return errUsage
		}
		output := ""
		if len(args) == 3 {
			output = args[2]
		}
		g, err := gen.Restore(ctx, args[1], output)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Restored %s with %d vertices and %d edges.\n", args[1], g.Vertices(), g.Size())
		return nil

	default:
		return errUsage
	}
}

// openStore returns a nil store for kind "none". The in-memory store is not
// offered here: it would not outlive the process that archived into it.
func openStore(ctx context.Context, cfg config.StoreConfig) (archive.Store, func() error, error) {
	noop := func() error { return nil }

	serializer, err := serialization.ParseFormat(cfg.Format)
	if err != nil {
		return nil, noop, err
	}

	switch cfg.Kind {
	case "sqlite":
		s, err := sqlite.Open(ctx, cfg.SQLitePath, serializer)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case "postgres":
		s, err := postgres.Connect(ctx, cfg.DatabaseURL, serializer)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, nil
	}
}
