package codec

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/serbench/lib/payload"
	"github.com/tinylib/msgp/msgp"
)

// msgpFieldCount is the length of the outer MessagePack array
const msgpFieldCount = 7

// NewMsgpCodec creates a codec that writes the SampleObject as a
// MessagePack array of its seven fields, using the tinylib/msgp runtime
// append and read helpers directly
func NewMsgpCodec(opts Options) ICodec {
	c := &msgpCodecImpl{bufferSize: opts.BufferSizeHint}
	c.minSize = shortestEncoding(c.Encode)
	return c
}

// msgpCodecImpl implements ICodec using MessagePack
type msgpCodecImpl struct {
	bufferSize int
	minSize    int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (m *msgpCodecImpl) Encode(obj any) ([]byte, error) {
	o, err := asSample(obj)
	if err != nil {
		return nil, err
	}

	b := make([]byte, 0, m.bufferSize)
	b = msgp.AppendArrayHeader(b, msgpFieldCount)
	b = msgp.AppendInt32(b, o.ID)
	b = msgp.AppendInt16(b, o.ShortVal)
	b = msgp.AppendFloat32(b, o.FloatVal)
	b = msgp.AppendBytes(b, o.ByteArr)

	b = msgp.AppendArrayHeader(b, uint32(len(o.LongArr)))
	for _, v := range o.LongArr {
		b = msgp.AppendInt64(b, v)
	}

	b = msgp.AppendArrayHeader(b, uint32(len(o.DblArr)))
	for _, v := range o.DblArr {
		b = msgp.AppendFloat64(b, v)
	}

	b = msgp.AppendString(b, o.Text)
	return b, nil
}

func (m *msgpCodecImpl) Decode(data []byte) (any, error) {
	if err := checkMinSize(data, m.minSize); err != nil {
		return nil, err
	}

	fields, b, err := msgp.ReadArrayHeaderBytes(data)
	if err != nil {
		return nil, m.decodeError("header", err)
	}
	if fields != msgpFieldCount {
		return nil, malformed(fmt.Sprintf("msgp: expected %d fields, got %d", msgpFieldCount, fields), nil)
	}

	obj := payload.NewSampleObject()
	if obj.ID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return nil, m.decodeError("ID", err)
	}
	if obj.ShortVal, b, err = msgp.ReadInt16Bytes(b); err != nil {
		return nil, m.decodeError("ShortVal", err)
	}
	if obj.FloatVal, b, err = msgp.ReadFloat32Bytes(b); err != nil {
		return nil, m.decodeError("FloatVal", err)
	}
	if obj.ByteArr, b, err = msgp.ReadBytesBytes(b, nil); err != nil {
		return nil, m.decodeError("ByteArr", err)
	}

	var n uint32
	if n, b, err = m.readArrayHeader(b); err != nil {
		return nil, m.decodeError("LongArr", err)
	}
	obj.LongArr = make([]int64, n)
	for i := range obj.LongArr {
		if obj.LongArr[i], b, err = msgp.ReadInt64Bytes(b); err != nil {
			return nil, m.decodeError("LongArr", err)
		}
	}

	if n, b, err = m.readArrayHeader(b); err != nil {
		return nil, m.decodeError("DblArr", err)
	}
	obj.DblArr = make([]float64, n)
	for i := range obj.DblArr {
		if obj.DblArr[i], b, err = msgp.ReadFloat64Bytes(b); err != nil {
			return nil, m.decodeError("DblArr", err)
		}
	}

	if obj.Text, b, err = msgp.ReadStringBytes(b); err != nil {
		return nil, m.decodeError("Text", err)
	}
	if len(b) != 0 {
		return nil, malformed(fmt.Sprintf("msgp: %d trailing bytes", len(b)), nil)
	}
	return obj, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// readArrayHeader reads an array header and rejects counts that cannot fit
// in the remaining input, since every element takes at least one byte
func (m *msgpCodecImpl) readArrayHeader(b []byte) (uint32, []byte, error) {
	n, rest, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return 0, b, err
	}
	if int(n) > len(rest) {
		return 0, b, msgp.ErrShortBytes
	}
	return n, rest, nil
}

func (m *msgpCodecImpl) decodeError(field string, err error) *DecodingError {
	if errors.Is(err, msgp.ErrShortBytes) {
		return truncated("msgp: "+field, err)
	}
	return malformed("msgp: "+field, err)
}
