package codec

import (
	"fmt"

	"github.com/ValentinKolb/serbench/lib/wire"
)

// NewSelfDescribingCodec creates a codec that prefixes the fields with the
// registered type name. Decoding resolves the name through registry.
func NewSelfDescribingCodec(registry *TypeRegistry, opts Options) ICodec {
	c := &selfDescribingCodecImpl{registry: registry, bufferSize: opts.BufferSizeHint}
	c.minSize = shortestEncoding(c.Encode)
	return c
}

// selfDescribingCodecImpl implements ICodec for any registered
// wire.DataSerializable type
type selfDescribingCodecImpl struct {
	registry   *TypeRegistry
	bufferSize int
	minSize    int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c *selfDescribingCodecImpl) Encode(obj any) ([]byte, error) {
	ds, ok := obj.(wire.DataSerializable)
	if !ok || IsNil(obj) {
		return nil, typeMismatch(obj)
	}
	name, ok := c.registry.NameOf(obj)
	if !ok {
		return nil, typeMismatch(obj)
	}

	w := wire.NewWriter(c.bufferSize)
	w.WriteString(name)
	ds.WriteData(w)
	return w.Bytes(), nil
}

func (c *selfDescribingCodecImpl) Decode(data []byte) (any, error) {
	if err := checkMinSize(data, c.minSize); err != nil {
		return nil, err
	}
	r := wire.NewReader(data)

	name, err := r.ReadString()
	if err != nil {
		return nil, fromWireError(err)
	}
	ctor, ok := c.registry.Lookup(name)
	if !ok {
		return nil, &DecodingError{Kind: UnknownType, Detail: fmt.Sprintf("no constructor for %q", name)}
	}

	obj := ctor()
	if err := obj.ReadData(r); err != nil {
		return nil, fromWireError(err)
	}
	if r.Remaining() != 0 {
		return nil, malformed(fmt.Sprintf("%d trailing bytes", r.Remaining()), nil)
	}
	return obj, nil
}
