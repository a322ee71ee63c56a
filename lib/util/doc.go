// Package util provides the statistics used to summarize benchmark results.
//
// Stats and SweepStats condense the per sweep durations of one codec into
// mean, spread and a stability score. SizeHistogram records the encoded size
// of every round trip in exponential buckets, which keeps memory constant
// over millions of samples while still giving useful percentile estimates.
package util
