// Package metrics exposes expvar-published counters for the generator:
// sampler draws and rejections, files written and records archived. They can
// be read through expvar.Get or any /debug/vars handler.
package metrics
