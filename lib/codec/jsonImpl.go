package codec

import (
	"fmt"

	"github.com/ValentinKolb/serbench/lib/payload"
	"github.com/bytedance/sonic"
)

// NewJSONCodec creates a reflective codec using JSON. It uses sonic's
// encoding/json compatible configuration, which formats floats with the
// shortest representation that parses back to the same bits.
func NewJSONCodec() ICodec {
	c := &jsonCodecImpl{api: sonic.ConfigStd}
	c.minSize = shortestEncoding(c.Encode)
	return c
}

// jsonCodecImpl implements ICodec using bytedance/sonic
type jsonCodecImpl struct {
	api     sonic.API
	minSize int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (j *jsonCodecImpl) Encode(obj any) ([]byte, error) {
	o, err := asSample(obj)
	if err != nil {
		return nil, err
	}
	data, err := j.api.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return data, nil
}

func (j *jsonCodecImpl) Decode(data []byte) (any, error) {
	if err := checkMinSize(data, j.minSize); err != nil {
		return nil, err
	}
	obj := payload.NewSampleObject()
	if err := j.api.Unmarshal(data, obj); err != nil {
		return nil, fromLibraryError("json", err)
	}
	return obj, nil
}
