package metrics

import (
	"expvar"
)

// Sampler counters.
var (
	drawsTotal      = new(expvar.Int)
	selfLoopsTotal  = new(expvar.Int)
	duplicatesTotal = new(expvar.Int)
	edgesTotal      = new(expvar.Int)
)

// Output counters, keyed by sink ("file" or a store kind).
var (
	runsTotal    = expvar.NewMap("randgraph_runs_total")
	failedTotal  = expvar.NewMap("randgraph_failures_total")
	writtenTotal = expvar.NewMap("randgraph_written_total")
)

func init() {
	expvar.Publish("randgraph_sampler_draws_total", drawsTotal)
	expvar.Publish("randgraph_sampler_self_loops_total", selfLoopsTotal)
	expvar.Publish("randgraph_sampler_duplicates_total", duplicatesTotal)
	expvar.Publish("randgraph_sampler_edges_total", edgesTotal)
}

// Sampler helpers
func AddDraws(n int) { drawsTotal.Add(int64(n)) }
func AddSelfLoops(n int) { selfLoopsTotal.Add(int64(n)) }
func AddDuplicates(n int) { duplicatesTotal.Add(int64(n)) }
func AddEdges(n int) { edgesTotal.Add(int64(n)) }

// Run helpers
func IncRuns(stage string) { runsTotal.Add(stage, 1) }
func IncFailures(stage string) { failedTotal.Add(stage, 1) }
func IncWritten(sink string) { writtenTotal.Add(sink, 1) }

// Snapshot returns the current value of every published randgraph counter,
// with map entries flattened as "name{key}".
func Snapshot() map[string]int64 {
	out := map[string]int64{
		"randgraph_sampler_draws_total":      drawsTotal.Value(),
		"randgraph_sampler_self_loops_total": selfLoopsTotal.Value(),
		"randgraph_sampler_duplicates_total": duplicatesTotal.Value(),
		"randgraph_sampler_edges_total":      edgesTotal.Value(),
	}
	flatten := func(name string, m *expvar.Map) {
		m.Do(func(kv expvar.KeyValue) {
			if v, ok := kv.Value.(*expvar.Int); ok {
				out[name+"{"+kv.Key+"}"] = v.Value()
			}
		})
	}
	flatten("randgraph_runs_total", runsTotal)
	flatten("randgraph_failures_total", failedTotal)
	flatten("randgraph_written_total", writtenTotal)
	return out
}
