// Package bench times codec round trips and verifies their fidelity.
//
// Key Components:
//
//   - Runner: Single use state machine (idle, running, completed or failed).
//     Run creates n payloads, encodes and decodes each with the codec under
//     test and compares the result field by field. Only the total elapsed
//     time of the loop is kept. The first failure aborts the run with a
//     *RunError naming the codec, the iteration and the cause.
//
//   - Harness: Runs every selected codec once per sweep with a fresh codec,
//     factory and runner, prints "<codec name>:: <ms> ms" per run and a blank
//     line per sweep, and optionally collects garbage and pauses between
//     sweeps so one codec's garbage does not bill the next sweep.
//
//   - Metrics: Records finished sweeps in a VictoriaMetrics set (Prometheus
//     text exposition) and a go-metrics registry (readable dump).
//
//   - Report: Groups sweep results per codec and renders them as a table,
//     CSV or JSON with mean, spread, size and speed relative to the fastest
//     codec.
//
// Errors:
//
//	Verification failures are *VerificationError values (NullResult or
//	Mismatch with the differing field names). Codec failures keep their
//	codec.EncodingError or codec.DecodingError type. Both are wrapped in
//	*RunError, so errors.As reaches either layer.
//
// Thread Safety:
//
//	Runner and Harness are meant for sequential use by one goroutine.
//	Metrics is safe for concurrent use.
package bench
