package codec

import (
	"fmt"
	"strings"
)

// DefaultBufferSizeHint is the initial buffer capacity of codecs that
// pre-allocate their output
const DefaultBufferSizeHint = 64 * 1024

// Options holds the tuning parameters shared by all codecs
type Options struct {
	// BufferSizeHint is the initial capacity of encode buffers. It never
	// changes the encoded bytes.
	BufferSizeHint int
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{BufferSizeHint: DefaultBufferSizeHint}
}

// Entry describes one codec variant of the benchmark
type Entry struct {
	// Key is the short identifier used in configuration
	Key string
	// Name is the label printed in results
	Name string
	// New builds a fresh codec instance
	New func(opts Options) ICodec
}

// Entries returns every codec variant in benchmark order.
// Each call returns a new slice.
func Entries() []Entry {
	return []Entry{
		{
			Key:  "raw",
			Name: "Raw Binary",
			New:  func(Options) ICodec { return NewRawCodec() },
		},
		{
			Key:  "self-describing",
			Name: "Self Describing",
			New: func(opts Options) ICodec {
				return NewSelfDescribingCodec(DefaultTypeRegistry(), opts)
			},
		},
		{
			Key:  "registry",
			Name: "Identified Registry",
			New: func(opts Options) ICodec {
				return NewRegistryCodec(DefaultFactoryRegistry(), opts)
			},
		},
		{
			Key:  "gob",
			Name: "GOB",
			New:  func(Options) ICodec { return NewGOBCodec() },
		},
		{
			Key:  "gob-buffered",
			Name: "GOB Buffered",
			New:  NewBufferedGOBCodec,
		},
		{
			Key:  "cbor",
			Name: "CBOR",
			New:  func(Options) ICodec { return NewCBORCodec() },
		},
		{
			Key:  "json",
			Name: "JSON",
			New:  func(Options) ICodec { return NewJSONCodec() },
		},
		{
			Key:  "msgpack",
			Name: "MessagePack",
			New:  NewMsgpCodec,
		},
		{
			Key:  "protowire",
			Name: "Protobuf Wire",
			New:  NewProtowireCodec,
		},
		{
			Key:  "flatbuffers",
			Name: "FlatBuffers",
			New:  NewFlatBuffersCodec,
		},
	}
}

// Keys returns the keys of all codec variants in benchmark order
func Keys() []string {
	entries := Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Lookup returns the codec variant with the given key
func Lookup(key string) (Entry, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, e := range Entries() {
		if e.Key == key {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("unknown codec %q (available: %s)", key, strings.Join(Keys(), ", "))
}

// Select resolves a list of keys in the given order. An empty list selects
// every codec.
func Select(keys []string) ([]Entry, error) {
	if len(keys) == 0 {
		return Entries(), nil
	}
	selected := make([]Entry, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		e, err := Lookup(key)
		if err != nil {
			return nil, err
		}
		if seen[e.Key] {
			return nil, fmt.Errorf("codec %q selected twice", e.Key)
		}
		seen[e.Key] = true
		selected = append(selected, e)
	}
	return selected, nil
}
