// Package payload defines the benchmark's data object and how it is generated.
//
// SampleObject is a fixed shape record: three scalars of different widths, a
// 4096 byte array, 3000 int64 values, 3000 float64 values and a short text.
// Every codec round trips this one type, which keeps the comparison between
// codecs about encoding cost and not about object shape.
//
// Key Components:
//
//   - SampleObject: the payload. It implements wire.IdentifiedDataSerializable,
//     so the hand written codecs can reuse its fixed field order.
//
//   - IFactory: produces one SampleObject per iteration from a run scoped
//     Source. The values are random but the derived fields (arrays, text)
//     follow fixed formulas of the drawn offset and multiplier, so a
//     deterministic Source yields deterministic objects.
//
//   - Equal / Diff: the round trip oracle. Floats compare by bit pattern and
//     Diff names every field that does not match.
//
// Usage:
//
//	factory := payload.NewFactory(42)
//	obj := factory.Create(0)
//	if diff := payload.Diff(obj, decoded); len(diff) > 0 {
//	    // fields in diff did not survive
//	}
package payload
