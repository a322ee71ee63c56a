package payload

import (
	"math/rand"
	"strconv"
	"time"
)

// IFactory produces the SampleObject for one benchmark iteration
type IFactory interface {
	// Create builds a fully populated object for the given sequence id.
	// It never fails.
	Create(sequenceID int32) *SampleObject
}

// Source is the randomness a Factory draws from. *rand.Rand satisfies it.
type Source interface {
	Uint64() uint64
	// Float64 returns a value in [0, 1)
	Float64() float64
	Read(p []byte) (int, error)
}

// NewFactory creates a factory backed by math/rand. A seed of 0 picks a
// time based seed, any other value makes the payload sequence reproducible.
func NewFactory(seed int64) IFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewFactoryFromSource(rand.New(rand.NewSource(seed)))
}

// NewFactoryFromSource creates a factory that draws from src. The source is
// shared by all Create calls and never reseeded.
func NewFactoryFromSource(src Source) IFactory {
	return &factoryImpl{src: src}
}

// factoryImpl implements IFactory
type factoryImpl struct {
	src Source
}

// --------------------------------------------------------------------------
// Interface Methods (docu see payload.IFactory)
// --------------------------------------------------------------------------

func (f *factoryImpl) Create(sequenceID int32) *SampleObject {
	offset := int64(f.src.Uint64())
	multiplier := f.src.Float64()

	obj := &SampleObject{
		ID:       sequenceID,
		ShortVal: int16(offset),
		FloatVal: float32(multiplier * float64(offset)),
		ByteArr:  make([]byte, ByteArrayLen),
		LongArr:  make([]int64, LongArrayLen),
		DblArr:   make([]float64, DoubleArrayLen),
	}

	// math/rand never returns an error here
	_, _ = f.src.Read(obj.ByteArr)

	for i := range obj.LongArr {
		obj.LongArr[i] = int64(i) + offset
	}
	for i := range obj.DblArr {
		obj.DblArr[i] = multiplier * float64(int64(i)+offset)
	}
	obj.Text = ComposeText(offset, obj.FloatVal, sequenceID)

	return obj
}

// ComposeText renders the text field. It depends only on its arguments.
func ComposeText(offset int64, floatVal float32, id int32) string {
	return strconv.FormatInt(offset, 10) +
		" sample " + strconv.FormatFloat(float64(floatVal), 'g', -1, 32) +
		" string " + strconv.FormatInt(int64(id), 10) +
		" object"
}
