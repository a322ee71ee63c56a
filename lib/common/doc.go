// Package common provides the configuration structure and logging shared by
// the benchmark library and the command line interface.
//
// Key Components:
//
//   - BenchConfig: All parameters of one benchmark invocation (workload size,
//     codec selection, behaviour between sweeps, output targets). Provides
//     validation and a human readable rendering for startup output.
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's
//     logger registry, so every package obtains its logger with
//     logger.GetLogger and shares one consistent line format. Log lines are
//     written to stderr to keep stdout free for results.
package common
