package payload

import (
	"math"
	"testing"

	"github.com/ValentinKolb/serbench/lib/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource always yields the same offset and multiplier and fills byte
// arrays with a counting pattern
type fixedSource struct {
	offset     uint64
	multiplier float64
}

func (s fixedSource) Uint64() uint64   { return s.offset }
func (s fixedSource) Float64() float64 { return s.multiplier }
func (s fixedSource) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(i)
	}
	return len(p), nil
}

func TestFactoryFixedSource(t *testing.T) {
	f := NewFactoryFromSource(fixedSource{offset: 123456789, multiplier: 0.5})
	obj := f.Create(42)
	offset := int64(123456789)

	assert.Equal(t, int32(42), obj.ID)
	assert.Equal(t, int16(offset), obj.ShortVal)
	assert.Equal(t, math.Float32bits(float32(0.5*123456789)), math.Float32bits(obj.FloatVal))
	assert.Equal(t, int64(7+123456789), obj.LongArr[7])
	assert.Equal(t, 0.5*float64(7+123456789), obj.DblArr[7])
	assert.Equal(t, byte(200), obj.ByteArr[200])
	assert.Equal(t, ComposeText(123456789, obj.FloatVal, 42), obj.Text)
}

func TestFactoryFixedLengths(t *testing.T) {
	f := NewFactory(1)
	for _, id := range []int32{0, 1, -1, math.MaxInt32, math.MinInt32} {
		obj := f.Create(id)
		assert.Len(t, obj.ByteArr, ByteArrayLen)
		assert.Len(t, obj.LongArr, LongArrayLen)
		assert.Len(t, obj.DblArr, DoubleArrayLen)
		assert.NotEmpty(t, obj.Text)
		assert.Equal(t, id, obj.ID)
	}
}

func TestFactorySeedReproducible(t *testing.T) {
	a := NewFactory(7)
	b := NewFactory(7)
	for i := int32(0); i < 5; i++ {
		assert.True(t, Equal(a.Create(i), b.Create(i)), "iteration %d", i)
	}
}

func TestComposeTextDeterministic(t *testing.T) {
	first := ComposeText(-5, 1.5, 3)
	assert.Equal(t, first, ComposeText(-5, 1.5, 3))
	assert.Equal(t, "-5 sample 1.5 string 3 object", first)
	assert.NotEqual(t, first, ComposeText(-5, 1.5, 4))
}

func TestDiff(t *testing.T) {
	f := NewFactory(3)
	a := f.Create(1)

	clone := func(o *SampleObject) *SampleObject {
		c := *o
		c.ByteArr = append([]byte(nil), o.ByteArr...)
		c.LongArr = append([]int64(nil), o.LongArr...)
		c.DblArr = append([]float64(nil), o.DblArr...)
		return &c
	}

	t.Run("Identical", func(t *testing.T) {
		assert.Empty(t, Diff(a, clone(a)))
		assert.True(t, Equal(a, clone(a)))
	})

	t.Run("Changed fields are named", func(t *testing.T) {
		b := clone(a)
		b.ShortVal++
		b.DblArr[10] = math.Nextafter(b.DblArr[10], math.Inf(1))
		b.Text += "!"
		assert.Equal(t, []string{FieldShortVal, FieldDblArr, FieldText}, Diff(a, b))
	})

	t.Run("Float bit patterns", func(t *testing.T) {
		x := &SampleObject{FloatVal: 0}
		y := &SampleObject{FloatVal: float32(math.Copysign(0, -1))}
		assert.Equal(t, []string{FieldFloatVal}, Diff(x, y))
	})

	t.Run("Nil and empty slices", func(t *testing.T) {
		x := &SampleObject{}
		y := &SampleObject{ByteArr: []byte{}, LongArr: []int64{}, DblArr: []float64{}}
		assert.Empty(t, Diff(x, y))
	})

	t.Run("Nil object", func(t *testing.T) {
		assert.Len(t, Diff(a, nil), 7)
		assert.Empty(t, Diff(nil, nil))
	})
}

func TestDataSerializableRoundTrip(t *testing.T) {
	obj := NewFactory(11).Create(9)

	w := wire.NewWriter(0)
	obj.WriteData(w)
	require.Equal(t, obj.DataSize(), w.Len())

	decoded := NewSampleObject()
	require.NoError(t, decoded.ReadData(wire.NewReader(w.Bytes())))
	assert.Empty(t, Diff(obj, decoded))
}

func TestReadDataTruncated(t *testing.T) {
	obj := NewFactory(11).Create(9)
	w := wire.NewWriter(0)
	obj.WriteData(w)

	data := w.Bytes()
	for _, n := range []int{0, 3, 9, 100, len(data) - 1} {
		err := NewSampleObject().ReadData(wire.NewReader(data[:n]))
		assert.ErrorIs(t, err, wire.ErrShortBuffer, "prefix of %d bytes", n)
	}
}
