// Package codec provides the serialization strategies compared by the
// benchmark. It defines a common interface and multiple implementations for
// turning a payload.SampleObject into bytes and back.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Reporting failures with a small, typed error taxonomy
//   - Keeping every implementation bit exact, floats included
//
// Key Components:
//
//   - ICodec: Core interface that all codec implementations must satisfy.
//
//   - rawCodecImpl: The reference format. Writes the fields in a fixed order
//     with big-endian scalars and 32 bit length prefixes, no type metadata.
//     The output buffer is sized exactly before writing.
//
//   - selfDescribingCodecImpl: Writes the registered type name in front of the
//     fields. The decoder resolves the name through a TypeRegistry and fails
//     with UnknownType if nothing is registered under it.
//
//   - registryCodecImpl: Writes a factory id and a class id in front of the
//     fields. The decoder resolves the pair through a FactoryRegistry and
//     fails with UnregisteredType if the pair is unknown.
//
//   - gobCodecImpl, bufferedGOBCodecImpl: Reflective baseline using Go's gob
//     format. The buffered variant reuses its buffers between calls and
//     produces identical bytes.
//
//   - cborCodecImpl, jsonCodecImpl: Reflective codecs on fxamacker/cbor and
//     bytedance/sonic.
//
//   - msgpCodecImpl, protowireCodecImpl, flatBuffersCodecImpl: Hand written field
//     codecs on the tinylib/msgp runtime, the protobuf wire primitives and
//     the FlatBuffers builder.
//
// Errors:
//
//	Encode fails with *EncodingError (TypeMismatch) for anything but a non
//	nil *payload.SampleObject (or, for the registry based codecs, a
//	registered type). Decode fails with *DecodingError:
//
//	  Truncated         input shorter than the shortest valid encoding,
//	                    or the input ends inside a value
//	  UnknownType       type name not registered
//	  UnregisteredType  (factory id, class id) not registered
//	  Malformed         anything else, including trailing bytes
//
// Thread Safety:
//
//	rawCodecImpl, selfDescribingCodecImpl, registryCodecImpl, gobCodecImpl,
//	cborCodecImpl, jsonCodecImpl, msgpCodecImpl and protowireCodecImpl are
//	safe for concurrent use. bufferedGOBCodecImpl and flatBuffersCodecImpl
//	reuse internal buffers and must be used by one goroutine at a time.
//
// Usage:
//
//	entry, _ := codec.Lookup("raw")
//	c := entry.New(codec.DefaultOptions())
//	data, err := c.Encode(obj)
//	// ...
//	decoded, err := c.Decode(data)
package codec
