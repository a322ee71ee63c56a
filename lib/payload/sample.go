package payload

import (
	"github.com/ValentinKolb/serbench/lib/wire"
)

// Fixed array lengths of every generated SampleObject
const (
	ByteArrayLen   = 4096
	LongArrayLen   = 3000
	DoubleArrayLen = 3000
)

// Numeric identifiers used by registry based codecs
const (
	SampleFactoryID int32 = 1
	SampleClassID   int32 = 1
)

// SampleTypeName is the name self describing codecs record for SampleObject
const SampleTypeName = "serbench.SampleObject"

// SampleObject is the fixed shape payload pushed through every codec.
// The exported fields are what reflective codecs see; the field order of
// WriteData is what hand written codecs use.
type SampleObject struct {
	ID       int32
	ShortVal int16
	FloatVal float32
	ByteArr  []byte
	LongArr  []int64
	DblArr   []float64
	Text     string
}

// NewSampleObject returns an empty object. It is the zero argument
// constructor registered with the type registries.
func NewSampleObject() *SampleObject {
	return &SampleObject{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see wire.IdentifiedDataSerializable)
// --------------------------------------------------------------------------

func (o *SampleObject) WriteData(w *wire.Writer) {
	w.WriteInt32(o.ID)
	w.WriteInt16(o.ShortVal)
	w.WriteFloat32(o.FloatVal)
	w.WriteByteArray(o.ByteArr)
	w.WriteFloat64Array(o.DblArr)
	w.WriteInt64Array(o.LongArr)
	w.WriteString(o.Text)
}

func (o *SampleObject) ReadData(r *wire.Reader) (err error) {
	if o.ID, err = r.ReadInt32(); err != nil {
		return err
	}
	if o.ShortVal, err = r.ReadInt16(); err != nil {
		return err
	}
	if o.FloatVal, err = r.ReadFloat32(); err != nil {
		return err
	}
	if o.ByteArr, err = r.ReadByteArray(); err != nil {
		return err
	}
	if o.DblArr, err = r.ReadFloat64Array(); err != nil {
		return err
	}
	if o.LongArr, err = r.ReadInt64Array(); err != nil {
		return err
	}
	o.Text, err = r.ReadString()
	return err
}

func (o *SampleObject) FactoryID() int32 {
	return SampleFactoryID
}

func (o *SampleObject) ClassID() int32 {
	return SampleClassID
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// DataSize returns the exact number of bytes WriteData produces
func (o *SampleObject) DataSize() int {
	size := 4 + 2 + 4 // id, short, float
	size += 4 + len(o.ByteArr)
	size += 4 + 8*len(o.DblArr)
	size += 4 + 8*len(o.LongArr)
	size += 4 + len(o.Text)
	return size
}
