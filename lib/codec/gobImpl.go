package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"

	"github.com/ValentinKolb/serbench/lib/payload"
)

// NewGOBCodec creates a codec using Go's gob format. Every call uses a fresh
// encoder, so each message carries its own type definition.
//
// gob leaves out zero scalars, which would drop the sign of a negative zero
// FloatVal. The object is therefore sent as a gobSample with the float as bits.
func NewGOBCodec() ICodec {
	c := &gobCodecImpl{}
	c.minSize = shortestEncoding(c.Encode)
	return c
}

// gobCodecImpl implements ICodec using gob encoding
type gobCodecImpl struct {
	minSize int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (g *gobCodecImpl) Encode(obj any) ([]byte, error) {
	o, err := asSample(obj)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(toGOBSample(o)); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *gobCodecImpl) Decode(data []byte) (any, error) {
	if err := checkMinSize(data, g.minSize); err != nil {
		return nil, err
	}
	return decodeGOB(bytes.NewReader(data))
}

// NewBufferedGOBCodec creates a gob codec that reuses its encode buffer and
// decode reader between calls. The output format is the same as NewGOBCodec.
// The returned codec must not be shared between goroutines.
func NewBufferedGOBCodec(opts Options) ICodec {
	c := &bufferedGOBCodecImpl{}
	c.buf.Grow(opts.BufferSizeHint)
	c.minSize = shortestEncoding(c.Encode)
	return c
}

// bufferedGOBCodecImpl implements ICodec using gob encoding with reused buffers
type bufferedGOBCodecImpl struct {
	buf     bytes.Buffer
	reader  bytes.Reader
	minSize int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (g *bufferedGOBCodecImpl) Encode(obj any) ([]byte, error) {
	o, err := asSample(obj)
	if err != nil {
		return nil, err
	}
	g.buf.Reset()
	if err := gob.NewEncoder(&g.buf).Encode(toGOBSample(o)); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	// the caller owns the result, the buffer is reused
	return bytes.Clone(g.buf.Bytes()), nil
}

func (g *bufferedGOBCodecImpl) Decode(data []byte) (any, error) {
	if err := checkMinSize(data, g.minSize); err != nil {
		return nil, err
	}
	g.reader.Reset(data)
	return decodeGOB(&g.reader)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// gobSample is the gob wire form of payload.SampleObject
type gobSample struct {
	ID        int32
	ShortVal  int16
	FloatBits uint32
	ByteArr   []byte
	LongArr   []int64
	DblArr    []float64
	Text      string
}

func toGOBSample(o *payload.SampleObject) *gobSample {
	return &gobSample{
		ID:        o.ID,
		ShortVal:  o.ShortVal,
		FloatBits: math.Float32bits(o.FloatVal),
		ByteArr:   o.ByteArr,
		LongArr:   o.LongArr,
		DblArr:    o.DblArr,
		Text:      o.Text,
	}
}

// decodeGOB reads exactly one SampleObject from r
func decodeGOB(r *bytes.Reader) (any, error) {
	var s gobSample
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, fromLibraryError("gob", err)
	}
	if r.Len() != 0 {
		return nil, malformed(fmt.Sprintf("gob: %d trailing bytes", r.Len()), nil)
	}

	obj := payload.NewSampleObject()
	obj.ID = s.ID
	obj.ShortVal = s.ShortVal
	obj.FloatVal = math.Float32frombits(s.FloatBits)
	obj.ByteArr = s.ByteArr
	obj.LongArr = s.LongArr
	obj.DblArr = s.DblArr
	obj.Text = s.Text
	return obj, nil
}
