package codec

import (
	"fmt"

	"github.com/ValentinKolb/serbench/lib/payload"
	"github.com/fxamacker/cbor/v2"
)

// NewCBORCodec creates a reflective codec using CBOR (RFC 8949) with the
// map ordering of Core Deterministic Encoding. Floats keep the width of
// their Go type, and NaN and infinity are written unchanged so NaN payloads
// survive.
func NewCBORCodec() ICodec {
	opts := cbor.CoreDetEncOptions()
	opts.ShortestFloat = cbor.ShortestFloatNone
	opts.NaNConvert = cbor.NaNConvertNone
	opts.InfConvert = cbor.InfConvertNone

	enc, err := opts.EncMode()
	if err != nil {
		// fixed options, only fails on a broken library build
		panic(fmt.Sprintf("cbor: invalid encoding options: %v", err))
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: invalid decoding options: %v", err))
	}
	c := &cborCodecImpl{enc: enc, dec: dec}
	c.minSize = shortestEncoding(c.Encode)
	return c
}

// cborCodecImpl implements ICodec using fxamacker/cbor
type cborCodecImpl struct {
	enc     cbor.EncMode
	dec     cbor.DecMode
	minSize int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c *cborCodecImpl) Encode(obj any) ([]byte, error) {
	o, err := asSample(obj)
	if err != nil {
		return nil, err
	}
	data, err := c.enc.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("cbor encode: %w", err)
	}
	return data, nil
}

func (c *cborCodecImpl) Decode(data []byte) (any, error) {
	if err := checkMinSize(data, c.minSize); err != nil {
		return nil, err
	}
	obj := payload.NewSampleObject()
	if err := c.dec.Unmarshal(data, obj); err != nil {
		return nil, fromLibraryError("cbor", err)
	}
	return obj, nil
}
