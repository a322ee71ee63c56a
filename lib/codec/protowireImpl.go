package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/ValentinKolb/serbench/lib/payload"
	"google.golang.org/protobuf/encoding/protowire"
)

// Protobuf field numbers of the SampleObject message:
//
//	message SampleObject {
//	  sint32 id = 1;
//	  sint32 short_val = 2;
//	  float float_val = 3;
//	  bytes byte_arr = 4;
//	  repeated sfixed64 long_arr = 5 [packed = true];
//	  repeated double dbl_arr = 6 [packed = true];
//	  string text = 7;
//	}
const (
	pbFieldID       protowire.Number = 1
	pbFieldShortVal protowire.Number = 2
	pbFieldFloatVal protowire.Number = 3
	pbFieldByteArr  protowire.Number = 4
	pbFieldLongArr  protowire.Number = 5
	pbFieldDblArr   protowire.Number = 6
	pbFieldText     protowire.Number = 7
)

// NewProtowireCodec creates a codec that writes the protobuf wire format by
// hand. All fields are always written, so zero values take space too, and
// decoding rejects a message that lacks one.
func NewProtowireCodec(opts Options) ICodec {
	c := &protowireCodecImpl{bufferSize: opts.BufferSizeHint}
	c.minSize = shortestEncoding(c.Encode)
	return c
}

// protowireCodecImpl implements ICodec using the protobuf wire format
type protowireCodecImpl struct {
	bufferSize int
	minSize    int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (p *protowireCodecImpl) Encode(obj any) ([]byte, error) {
	o, err := asSample(obj)
	if err != nil {
		return nil, err
	}

	b := make([]byte, 0, p.bufferSize)
	b = protowire.AppendTag(b, pbFieldID, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(o.ID)))
	b = protowire.AppendTag(b, pbFieldShortVal, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(o.ShortVal)))
	b = protowire.AppendTag(b, pbFieldFloatVal, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, math.Float32bits(o.FloatVal))
	b = protowire.AppendTag(b, pbFieldByteArr, protowire.BytesType)
	b = protowire.AppendBytes(b, o.ByteArr)

	b = protowire.AppendTag(b, pbFieldLongArr, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(8*len(o.LongArr)))
	for _, v := range o.LongArr {
		b = protowire.AppendFixed64(b, uint64(v))
	}

	b = protowire.AppendTag(b, pbFieldDblArr, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(8*len(o.DblArr)))
	for _, v := range o.DblArr {
		b = protowire.AppendFixed64(b, math.Float64bits(v))
	}

	b = protowire.AppendTag(b, pbFieldText, protowire.BytesType)
	b = protowire.AppendString(b, o.Text)
	return b, nil
}

func (p *protowireCodecImpl) Decode(data []byte) (any, error) {
	if err := checkMinSize(data, p.minSize); err != nil {
		return nil, err
	}

	obj := payload.NewSampleObject()
	var seen uint8
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fromLibraryError("protowire: tag", protowire.ParseError(n))
		}
		b = b[n:]

		if want, known := pbFieldTypes[num]; known {
			if want != typ {
				return nil, malformed(fmt.Sprintf("protowire: field %d has wire type %d, expected %d", num, typ, want), nil)
			}
			seen |= 1 << num
		}

		switch num {
		case pbFieldID:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fromLibraryError("protowire: ID", protowire.ParseError(n))
			}
			obj.ID = int32(protowire.DecodeZigZag(v))
			b = b[n:]
		case pbFieldShortVal:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fromLibraryError("protowire: ShortVal", protowire.ParseError(n))
			}
			obj.ShortVal = int16(protowire.DecodeZigZag(v))
			b = b[n:]
		case pbFieldFloatVal:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return nil, fromLibraryError("protowire: FloatVal", protowire.ParseError(n))
			}
			obj.FloatVal = math.Float32frombits(v)
			b = b[n:]
		case pbFieldByteArr:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fromLibraryError("protowire: ByteArr", protowire.ParseError(n))
			}
			obj.ByteArr = append([]byte{}, v...)
			b = b[n:]
		case pbFieldLongArr:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fromLibraryError("protowire: LongArr", protowire.ParseError(n))
			}
			words, err := packedFixed64(v, "LongArr")
			if err != nil {
				return nil, err
			}
			obj.LongArr = make([]int64, len(words))
			for i, w := range words {
				obj.LongArr[i] = int64(w)
			}
			b = b[n:]
		case pbFieldDblArr:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fromLibraryError("protowire: DblArr", protowire.ParseError(n))
			}
			words, err := packedFixed64(v, "DblArr")
			if err != nil {
				return nil, err
			}
			obj.DblArr = make([]float64, len(words))
			for i, w := range words {
				obj.DblArr[i] = math.Float64frombits(w)
			}
			b = b[n:]
		case pbFieldText:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fromLibraryError("protowire: Text", protowire.ParseError(n))
			}
			obj.Text = v
			b = b[n:]
		default:
			// unknown fields are skipped like any protobuf parser does
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fromLibraryError(fmt.Sprintf("protowire: field %d", num), protowire.ParseError(n))
			}
			b = b[n:]
		}
	}

	// the encoder writes every field, an absent one means a cut message
	if missing := pbMissingFields(seen); len(missing) > 0 {
		return nil, malformed(fmt.Sprintf("protowire: missing fields %s", strings.Join(missing, ", ")), nil)
	}
	return obj, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// pbFieldTypes holds the expected wire type of every known field
var pbFieldTypes = map[protowire.Number]protowire.Type{
	pbFieldID:       protowire.VarintType,
	pbFieldShortVal: protowire.VarintType,
	pbFieldFloatVal: protowire.Fixed32Type,
	pbFieldByteArr:  protowire.BytesType,
	pbFieldLongArr:  protowire.BytesType,
	pbFieldDblArr:   protowire.BytesType,
	pbFieldText:     protowire.BytesType,
}

// pbFieldNames maps the field numbers to the SampleObject field names
var pbFieldNames = map[protowire.Number]string{
	pbFieldID:       payload.FieldID,
	pbFieldShortVal: payload.FieldShortVal,
	pbFieldFloatVal: payload.FieldFloatVal,
	pbFieldByteArr:  payload.FieldByteArr,
	pbFieldLongArr:  payload.FieldLongArr,
	pbFieldDblArr:   payload.FieldDblArr,
	pbFieldText:     payload.FieldText,
}

// pbMissingFields returns the names of the fields not set in seen, in field order
func pbMissingFields(seen uint8) []string {
	var missing []string
	for num := pbFieldID; num <= pbFieldText; num++ {
		if seen&(1<<num) == 0 {
			missing = append(missing, pbFieldNames[num])
		}
	}
	return missing
}

// packedFixed64 splits a packed repeated fixed64 payload into its words
func packedFixed64(v []byte, field string) ([]uint64, error) {
	if len(v)%8 != 0 {
		return nil, malformed(fmt.Sprintf("protowire: %s packed length %d is not a multiple of 8", field, len(v)), nil)
	}
	words := make([]uint64, len(v)/8)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(v[8*i:])
	}
	return words, nil
}
