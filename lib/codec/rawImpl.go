package codec

import (
	"fmt"

	"github.com/ValentinKolb/serbench/lib/payload"
	"github.com/ValentinKolb/serbench/lib/wire"
)

// NewRawCodec creates a codec that writes the SampleObject fields in their
// fixed order without any type information
func NewRawCodec() ICodec {
	c := &rawCodecImpl{}
	c.minSize = shortestEncoding(c.Encode)
	return c
}

// rawCodecImpl implements ICodec using the wire layout of
// payload.SampleObject.WriteData. Output buffers are sized exactly.
type rawCodecImpl struct {
	minSize int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c *rawCodecImpl) Encode(obj any) ([]byte, error) {
	o, err := asSample(obj)
	if err != nil {
		return nil, err
	}
	w := wire.NewWriter(o.DataSize())
	o.WriteData(w)
	return w.Bytes(), nil
}

func (c *rawCodecImpl) Decode(data []byte) (any, error) {
	if err := checkMinSize(data, c.minSize); err != nil {
		return nil, err
	}
	r := wire.NewReader(data)
	obj := payload.NewSampleObject()
	if err := obj.ReadData(r); err != nil {
		return nil, fromWireError(err)
	}
	if r.Remaining() != 0 {
		return nil, malformed(fmt.Sprintf("%d trailing bytes", r.Remaining()), nil)
	}
	return obj, nil
}
