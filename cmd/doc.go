// Package cmd implements the command-line interface of serbench, a benchmark
// for object serialization codecs.
//
// The package is organized into several subpackages:
//
//   - run: The benchmark itself. Runs every selected codec once per sweep and
//     prints "<codec name>:: <ms> ms" per codec, followed by a summary.
//   - perf: Micro benchmarks of a single round trip per codec based on
//     testing.Benchmark (ns/op, allocations, encoded size)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set as environment variables with the SERBENCH_
// prefix (e.g. SERBENCH_ITERATIONS=500) or in a .env file.
//
// See serbench -help for a list of all commands.
package cmd
