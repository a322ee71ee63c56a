package codec

import (
	"bytes"
	"fmt"

	"github.com/ValentinKolb/serbench/lib/payload"
	flatbuffers "github.com/google/flatbuffers/go"
)

// Table slots of the SampleObject table:
//
//	table SampleObject {
//	  id: int;
//	  short_val: short;
//	  float_val: float;
//	  byte_arr: [ubyte];
//	  long_arr: [long];
//	  dbl_arr: [double];
//	  text: string;
//	}
const (
	fbSlotID = iota
	fbSlotShortVal
	fbSlotFloatVal
	fbSlotByteArr
	fbSlotLongArr
	fbSlotDblArr
	fbSlotText
	fbSlotCount
)

// NewFlatBuffersCodec creates a codec that builds a FlatBuffers table by
// hand. The builder is reused, so the codec must not be shared between
// goroutines.
func NewFlatBuffersCodec(opts Options) ICodec {
	c := &flatBuffersCodecImpl{builder: flatbuffers.NewBuilder(opts.BufferSizeHint)}
	c.minSize = shortestEncoding(c.Encode)
	return c
}

// flatBuffersCodecImpl implements ICodec using google/flatbuffers
type flatBuffersCodecImpl struct {
	builder *flatbuffers.Builder
	minSize int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (f *flatBuffersCodecImpl) Encode(obj any) ([]byte, error) {
	o, err := asSample(obj)
	if err != nil {
		return nil, err
	}

	b := f.builder
	b.Reset()

	// children first, flatbuffers are built back to front
	text := b.CreateString(o.Text)
	byteArr := b.CreateByteVector(o.ByteArr)

	b.StartVector(8, len(o.LongArr), 8)
	for i := len(o.LongArr) - 1; i >= 0; i-- {
		b.PrependInt64(o.LongArr[i])
	}
	longArr := b.EndVector(len(o.LongArr))

	b.StartVector(8, len(o.DblArr), 8)
	for i := len(o.DblArr) - 1; i >= 0; i-- {
		b.PrependFloat64(o.DblArr[i])
	}
	dblArr := b.EndVector(len(o.DblArr))

	b.StartObject(fbSlotCount)
	b.PrependInt32Slot(fbSlotID, o.ID, 0)
	b.PrependInt16Slot(fbSlotShortVal, o.ShortVal, 0)
	// the float slot compares against its default with ==, which would
	// drop a negative zero, so it is always written
	b.PrependFloat32(o.FloatVal)
	b.Slot(fbSlotFloatVal)
	b.PrependUOffsetTSlot(fbSlotByteArr, byteArr, 0)
	b.PrependUOffsetTSlot(fbSlotLongArr, longArr, 0)
	b.PrependUOffsetTSlot(fbSlotDblArr, dblArr, 0)
	b.PrependUOffsetTSlot(fbSlotText, text, 0)
	b.Finish(b.EndObject())

	// the builder owns its buffer
	return bytes.Clone(b.FinishedBytes()), nil
}

func (f *flatBuffersCodecImpl) Decode(data []byte) (result any, err error) {
	if err := checkMinSize(data, f.minSize); err != nil {
		return nil, err
	}

	// offsets inside the buffer are not validated by the table accessors,
	// out of range reads surface as panics
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = malformed(fmt.Sprintf("flatbuffers: %v", r), nil)
		}
	}()

	root := flatbuffers.GetUOffsetT(data)
	if int(root) >= len(data) {
		return nil, malformed(fmt.Sprintf("flatbuffers: root offset %d out of range", root), nil)
	}
	t := &flatbuffers.Table{Bytes: data, Pos: root}
	obj := payload.NewSampleObject()

	if off := fbField(t, fbSlotID); off != 0 {
		obj.ID = t.GetInt32(t.Pos + off)
	}
	if off := fbField(t, fbSlotShortVal); off != 0 {
		obj.ShortVal = t.GetInt16(t.Pos + off)
	}
	if off := fbField(t, fbSlotFloatVal); off != 0 {
		obj.FloatVal = t.GetFloat32(t.Pos + off)
	}
	if off := fbField(t, fbSlotByteArr); off != 0 {
		obj.ByteArr = bytes.Clone(t.ByteVector(t.Pos + off))
	}
	if off := fbField(t, fbSlotLongArr); off != 0 {
		start, n, err := fbVector(t, off, len(data))
		if err != nil {
			return nil, err
		}
		obj.LongArr = make([]int64, n)
		for i := range obj.LongArr {
			obj.LongArr[i] = t.GetInt64(start + flatbuffers.UOffsetT(8*i))
		}
	}
	if off := fbField(t, fbSlotDblArr); off != 0 {
		start, n, err := fbVector(t, off, len(data))
		if err != nil {
			return nil, err
		}
		obj.DblArr = make([]float64, n)
		for i := range obj.DblArr {
			obj.DblArr[i] = t.GetFloat64(start + flatbuffers.UOffsetT(8*i))
		}
	}
	if off := fbField(t, fbSlotText); off != 0 {
		// ByteVector aliases data, string() copies
		obj.Text = string(t.ByteVector(t.Pos + off))
	}
	return obj, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// fbField returns the offset of a slot relative to the table start, 0 if absent
func fbField(t *flatbuffers.Table, slot int) flatbuffers.UOffsetT {
	return flatbuffers.UOffsetT(t.Offset(flatbuffers.VOffsetT(4 + 2*slot)))
}

// fbVector returns the start and length of an 8 byte element vector and
// rejects lengths that cannot fit in the buffer
func fbVector(t *flatbuffers.Table, off flatbuffers.UOffsetT, size int) (flatbuffers.UOffsetT, int, error) {
	n := t.VectorLen(off)
	start := t.Vector(off)
	if n < 0 || int(start)+8*n > size {
		return 0, 0, malformed(fmt.Sprintf("flatbuffers: vector of %d elements exceeds buffer", n), nil)
	}
	return start, n, nil
}
