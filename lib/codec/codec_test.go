package codec

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ValentinKolb/serbench/lib/payload"
	"github.com/ValentinKolb/serbench/lib/wire"
	"github.com/tinylib/msgp/msgp"
	"google.golang.org/protobuf/encoding/protowire"
)

// testCodecs is a map of codec key to factory function
func testCodecs() map[string]func() ICodec {
	codecs := make(map[string]func() ICodec)
	for _, e := range Entries() {
		codecs[e.Key] = func() ICodec { return e.New(DefaultOptions()) }
	}
	return codecs
}

// testObjects returns generated payloads as produced during a benchmark run
func testObjects() []*payload.SampleObject {
	f := payload.NewFactory(20240618)
	objects := make([]*payload.SampleObject, 0, 5)
	for i := int32(0); i < 5; i++ {
		objects = append(objects, f.Create(i))
	}
	return objects
}

// edgeObjects returns payloads with extreme values. JSON has no notation for
// infinities, so these are only used with the binary formats.
func edgeObjects() []*payload.SampleObject {
	negZero := math.Copysign(0, -1)
	return []*payload.SampleObject{
		{},
		{
			ID:       math.MinInt32,
			ShortVal: math.MinInt16,
			FloatVal: float32(negZero),
			ByteArr:  []byte{0, 255},
			LongArr:  []int64{math.MinInt64, math.MaxInt64},
			DblArr:   []float64{negZero, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(1)},
			Text:     "ünïcödé ✓",
		},
		{
			ID:       math.MaxInt32,
			ShortVal: math.MaxInt16,
			FloatVal: math.MaxFloat32,
			ByteArr:  make([]byte, payload.ByteArrayLen),
			LongArr:  make([]int64, payload.LongArrayLen),
			DblArr:   make([]float64, payload.DoubleArrayLen),
			Text:     "x",
		},
		{
			ID:       -1,
			FloatVal: math.Float32frombits(0x7fc00123),
			DblArr: []float64{
				math.Float64frombits(0x7ff8000000000123),
				math.Float64frombits(0xfff8000000000001),
				math.Inf(-1),
			},
		},
	}
}

// TestCodecRoundTrip tests that objects can be encoded and decoded bit exact
func TestCodecRoundTrip(t *testing.T) {
	for name, factory := range testCodecs() {
		t.Run(name, func(t *testing.T) {
			c := factory()

			objects := testObjects()
			if name != "json" {
				objects = append(objects, edgeObjects()...)
			}

			for i, obj := range objects {
				data, err := c.Encode(obj)
				if err != nil {
					t.Errorf("Failed to encode object %d: %v", i, err)
					continue
				}

				decoded, err := c.Decode(data)
				if err != nil {
					t.Errorf("Failed to decode object %d: %v", i, err)
					continue
				}

				result, ok := decoded.(*payload.SampleObject)
				if !ok {
					t.Errorf("Object %d decoded to %T", i, decoded)
					continue
				}
				if diff := payload.Diff(obj, result); len(diff) > 0 {
					t.Errorf("Object %d doesn't match after round trip, fields %v differ", i, diff)
				}
			}
		})
	}
}

// TestCodecFloatBits tests that the bit pattern of FloatVal survives a round
// trip on its own, including values a codec could mistake for a default
func TestCodecFloatBits(t *testing.T) {
	values := map[string]float32{
		"negative zero":   float32(math.Copysign(0, -1)),
		"positive zero":   0,
		"nan payload":     math.Float32frombits(0x7fc00123),
		"negative nan":    math.Float32frombits(0xffc00001),
		"negative inf":    float32(math.Inf(-1)),
		"smallest normal": math.Float32frombits(0x00800000),
		"denormal":        math.SmallestNonzeroFloat32,
	}

	for name, factory := range testCodecs() {
		if name == "json" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			c := factory()
			for label, v := range values {
				obj := &payload.SampleObject{FloatVal: v}

				data, err := c.Encode(obj)
				if err != nil {
					t.Fatalf("Failed to encode %s: %v", label, err)
				}
				decoded, err := c.Decode(data)
				if err != nil {
					t.Fatalf("Failed to decode %s: %v", label, err)
				}

				got := math.Float32bits(decoded.(*payload.SampleObject).FloatVal)
				if want := math.Float32bits(v); got != want {
					t.Errorf("%s: expected bits %#08x, got %#08x", label, want, got)
				}
			}
		})
	}
}

// TestEncodeDoesNotAlias tests that a second Encode leaves earlier results intact
func TestEncodeDoesNotAlias(t *testing.T) {
	objects := testObjects()

	for name, factory := range testCodecs() {
		t.Run(name, func(t *testing.T) {
			c := factory()

			first, err := c.Encode(objects[0])
			if err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}
			snapshot := bytes.Clone(first)

			if _, err := c.Encode(objects[1]); err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}
			if !bytes.Equal(first, snapshot) {
				t.Errorf("First encoding was modified by the second Encode call")
			}
		})
	}
}

// TestEncodeTypeMismatch tests that unsupported values are rejected
func TestEncodeTypeMismatch(t *testing.T) {
	inputs := map[string]any{
		"nil":         nil,
		"string":      "sample",
		"int":         42,
		"value":       payload.SampleObject{},
		"nil pointer": (*payload.SampleObject)(nil),
	}

	for name, factory := range testCodecs() {
		t.Run(name, func(t *testing.T) {
			c := factory()
			for inputName, input := range inputs {
				_, err := c.Encode(input)
				if !IsEncodingError(err, TypeMismatch) {
					t.Errorf("Expected type mismatch for %s, got %v", inputName, err)
				}
			}
		})
	}
}

// TestDecodeTruncated tests that input shorter than the shortest valid
// encoding is rejected as truncated
func TestDecodeTruncated(t *testing.T) {
	for name, factory := range testCodecs() {
		t.Run(name, func(t *testing.T) {
			c := factory()

			shortest := shortestEncoding(c.Encode)
			if shortest == 0 {
				t.Fatalf("Shortest encoding must not be empty")
			}

			empty, err := c.Encode(&payload.SampleObject{})
			if err != nil {
				t.Fatalf("Failed to encode empty object: %v", err)
			}

			cases := map[string][]byte{
				"nil":           nil,
				"empty":         {},
				"one byte":      empty[:1],
				"one byte less": empty[:shortest-1],
			}
			for caseName, data := range cases {
				decoded, err := c.Decode(data)
				if !IsDecodingError(err, Truncated) {
					t.Errorf("%s: expected truncated, got %v", caseName, err)
				}
				if decoded != nil {
					t.Errorf("%s: expected no result, got %v", caseName, decoded)
				}
			}
		})
	}
}

// TestRawCodecInvalidData tests specific edge cases of the raw format
func TestRawCodecInvalidData(t *testing.T) {
	c := NewRawCodec()
	obj := testObjects()[0]
	valid, err := c.Encode(obj)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	negativeLength := bytes.Clone(valid)
	// byte array length follows id, short and float
	copy(negativeLength[10:14], []byte{0xff, 0xff, 0xff, 0xfe})

	testCases := []struct {
		name string
		data []byte
		kind DecodingErrorKind
	}{
		{"Header only", valid[:10], Truncated},
		{"Cut inside byte array", valid[:100], Truncated},
		{"Cut inside text", valid[:len(valid)-1], Truncated},
		{"Negative length", negativeLength, Malformed},
		{"Trailing bytes", append(bytes.Clone(valid), 0), Malformed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Decode(tc.data)
			if !IsDecodingError(err, tc.kind) {
				t.Errorf("Expected %s, got %v", tc.kind, err)
			}
		})
	}
}

// TestRawCodecLayout tests the exact size and field order of the raw format
func TestRawCodecLayout(t *testing.T) {
	obj := testObjects()[0]
	data, err := NewRawCodec().Encode(obj)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	if len(data) != obj.DataSize() {
		t.Errorf("Expected %d bytes, got %d", obj.DataSize(), len(data))
	}
	if shortest := shortestEncoding(NewRawCodec().Encode); shortest != 26 {
		t.Errorf("Expected shortest encoding of 26 bytes, got %d", shortest)
	}

	r := wire.NewReader(data)
	if id, _ := r.ReadInt32(); id != obj.ID {
		t.Errorf("Expected id %d first, got %d", obj.ID, id)
	}
	if short, _ := r.ReadInt16(); short != obj.ShortVal {
		t.Errorf("Expected short %d second, got %d", obj.ShortVal, short)
	}
}

// TestSelfDescribingUnknownType tests that an unregistered name is reported
func TestSelfDescribingUnknownType(t *testing.T) {
	c := NewSelfDescribingCodec(DefaultTypeRegistry(), DefaultOptions())

	w := wire.NewWriter(0)
	w.WriteString("com.example.UnknownTypeName")
	testObjects()[0].WriteData(w)

	_, err := c.Decode(w.Bytes())
	if !IsDecodingError(err, UnknownType) {
		t.Errorf("Expected unknown type, got %v", err)
	}

	// a codec without registrations can decode nothing
	empty := NewSelfDescribingCodec(NewTypeRegistry(), DefaultOptions())
	data, err := c.Encode(testObjects()[0])
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	if _, err := empty.Decode(data); !IsDecodingError(err, UnknownType) {
		t.Errorf("Expected unknown type, got %v", err)
	}
	if _, err := empty.Encode(testObjects()[0]); !IsEncodingError(err, TypeMismatch) {
		t.Errorf("Expected type mismatch for unregistered type, got %v", err)
	}
}

// otherIdentified is an identified type that is never registered
type otherIdentified struct {
	payload.SampleObject
}

func (o *otherIdentified) FactoryID() int32 { return 2 }
func (o *otherIdentified) ClassID() int32   { return 5 }

// TestRegistryUnregisteredType tests that unknown id pairs are reported
func TestRegistryUnregisteredType(t *testing.T) {
	c := NewRegistryCodec(DefaultFactoryRegistry(), DefaultOptions())

	w := wire.NewWriter(0)
	w.WriteInt32(payload.SampleFactoryID)
	w.WriteInt32(9)
	testObjects()[0].WriteData(w)

	_, err := c.Decode(w.Bytes())
	if !IsDecodingError(err, UnregisteredType) {
		t.Errorf("Expected unregistered type, got %v", err)
	}

	_, err = c.Encode(&otherIdentified{})
	if !IsEncodingError(err, TypeMismatch) {
		t.Errorf("Expected type mismatch for unregistered ids, got %v", err)
	}
}

// TestTypeRegistry tests registration rules of both registries
func TestTypeRegistry(t *testing.T) {
	names := DefaultTypeRegistry()
	if _, ok := names.Lookup(payload.SampleTypeName); !ok {
		t.Errorf("Expected %s to be registered", payload.SampleTypeName)
	}
	if name, ok := names.NameOf(payload.NewSampleObject()); !ok || name != payload.SampleTypeName {
		t.Errorf("Expected name %s, got %q", payload.SampleTypeName, name)
	}
	if err := names.Register("other", func() wire.DataSerializable { return payload.NewSampleObject() }); err == nil {
		t.Errorf("Expected error when registering a type twice")
	}
	if names.Size() != 1 {
		t.Errorf("Expected failed registration to leave one entry, got %d", names.Size())
	}
	if err := names.Register("", nil); err == nil {
		t.Errorf("Expected error for empty name")
	}

	ids := DefaultFactoryRegistry()
	err := ids.Register(payload.SampleFactoryID, payload.SampleClassID, func() wire.IdentifiedDataSerializable {
		return payload.NewSampleObject()
	})
	if err == nil {
		t.Errorf("Expected error when registering an id pair twice")
	}
	if _, ok := ids.Lookup(payload.SampleFactoryID, payload.SampleClassID); !ok {
		t.Errorf("Expected default id pair to be registered")
	}
}

// TestBufferedGOBMatchesGOB tests that buffer reuse does not change the output
func TestBufferedGOBMatchesGOB(t *testing.T) {
	plain := NewGOBCodec()
	buffered := NewBufferedGOBCodec(DefaultOptions())

	for i, obj := range append(testObjects(), edgeObjects()...) {
		a, err := plain.Encode(obj)
		if err != nil {
			t.Fatalf("Failed to encode object %d: %v", i, err)
		}
		b, err := buffered.Encode(obj)
		if err != nil {
			t.Fatalf("Failed to encode object %d: %v", i, err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("Object %d: buffered output differs from plain gob", i)
		}
	}
}

// TestProtowireSkipsUnknownFields tests forward compatibility of the protobuf codec
func TestProtowireSkipsUnknownFields(t *testing.T) {
	c := NewProtowireCodec(DefaultOptions())
	obj := testObjects()[0]

	data, err := c.Encode(obj)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	data = protowire.AppendTag(data, 15, protowire.VarintType)
	data = protowire.AppendVarint(data, 300)
	data = protowire.AppendTag(data, 16, protowire.BytesType)
	data = protowire.AppendString(data, "extension")

	decoded, err := c.Decode(data)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if !payload.Equal(obj, decoded.(*payload.SampleObject)) {
		t.Errorf("Unknown fields changed the decoded object")
	}

	wrongType := protowire.AppendTag(nil, pbFieldID, protowire.BytesType)
	wrongType = protowire.AppendString(wrongType, "not a varint field with some padding")
	if _, err := c.Decode(wrongType); !IsDecodingError(err, Malformed) {
		t.Errorf("Expected malformed for wrong wire type, got %v", err)
	}
}

// TestProtowireRequiresAllFields tests that a message missing a field is rejected
func TestProtowireRequiresAllFields(t *testing.T) {
	c := NewProtowireCodec(DefaultOptions())
	obj := testObjects()[0]

	data, err := c.Encode(obj)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	tail := protowire.AppendTag(nil, pbFieldText, protowire.BytesType)
	tail = protowire.AppendString(tail, obj.Text)
	head := protowire.AppendTag(nil, pbFieldID, protowire.VarintType)
	head = protowire.AppendVarint(head, protowire.EncodeZigZag(int64(obj.ID)))

	testCases := map[string]struct {
		data    []byte
		missing string
	}{
		"without text": {data: data[:len(data)-len(tail)], missing: payload.FieldText},
		"without id":   {data: data[len(head):], missing: payload.FieldID},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decode(tc.data)
			if !IsDecodingError(err, Malformed) {
				t.Fatalf("Expected malformed, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.missing) {
				t.Errorf("Expected %s to be named in %q", tc.missing, err.Error())
			}
		})
	}
}

// TestMsgpInvalidData tests header validation of the MessagePack codec
func TestMsgpInvalidData(t *testing.T) {
	c := NewMsgpCodec(DefaultOptions())

	wrongCount := msgp.AppendArrayHeader(nil, 3)
	wrongCount = append(wrongCount, make([]byte, 32)...)
	if _, err := c.Decode(wrongCount); !IsDecodingError(err, Malformed) {
		t.Errorf("Expected malformed for wrong field count, got %v", err)
	}

	valid, err := c.Encode(testObjects()[0])
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	if _, err := c.Decode(valid[:len(valid)/2]); !IsDecodingError(err, Truncated) {
		t.Errorf("Expected truncated for half a message, got %v", err)
	}
}

// TestFlatBuffersInvalidData tests that corrupt offsets never escape as panics
func TestFlatBuffersInvalidData(t *testing.T) {
	c := NewFlatBuffersCodec(DefaultOptions())

	outOfRange := bytes.Repeat([]byte{0xff}, 200)

	badVtable := bytes.Repeat([]byte{0x7f}, 200)
	copy(badVtable, []byte{8, 0, 0, 0})

	for name, data := range map[string][]byte{"root out of range": outOfRange, "bad vtable": badVtable} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decode(data)
			if !IsDecodingError(err, Malformed) {
				t.Errorf("Expected malformed, got %v", err)
			}
		})
	}
}

// TestCatalogue tests codec lookup and selection
func TestCatalogue(t *testing.T) {
	if len(Keys()) != len(Entries()) {
		t.Errorf("Keys and entries differ in length")
	}

	e, err := Lookup(" RAW ")
	if err != nil || e.Key != "raw" {
		t.Errorf("Expected raw entry, got %v, %v", e.Key, err)
	}
	if _, err := Lookup("yaml"); err == nil {
		t.Errorf("Expected error for unknown codec")
	}

	selected, err := Select([]string{"json", "raw"})
	if err != nil {
		t.Fatalf("Failed to select: %v", err)
	}
	if selected[0].Key != "json" || selected[1].Key != "raw" {
		t.Errorf("Selection order not kept: %s, %s", selected[0].Key, selected[1].Key)
	}
	if _, err := Select([]string{"raw", "raw"}); err == nil {
		t.Errorf("Expected error for duplicate selection")
	}

	all, err := Select(nil)
	if err != nil || len(all) != len(Entries()) {
		t.Errorf("Expected empty selection to return all codecs")
	}
}
