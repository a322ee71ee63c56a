package codec

import (
	"fmt"

	"github.com/ValentinKolb/serbench/lib/wire"
)

// NewRegistryCodec creates a codec that prefixes the fields with the
// object's factory and class id. Decoding resolves the pair through registry.
func NewRegistryCodec(registry *FactoryRegistry, opts Options) ICodec {
	c := &registryCodecImpl{registry: registry, bufferSize: opts.BufferSizeHint}
	c.minSize = shortestEncoding(c.Encode)
	return c
}

// registryCodecImpl implements ICodec for registered
// wire.IdentifiedDataSerializable types
type registryCodecImpl struct {
	registry   *FactoryRegistry
	bufferSize int
	minSize    int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c *registryCodecImpl) Encode(obj any) ([]byte, error) {
	ids, ok := obj.(wire.IdentifiedDataSerializable)
	if !ok || IsNil(obj) {
		return nil, typeMismatch(obj)
	}
	if _, ok := c.registry.Lookup(ids.FactoryID(), ids.ClassID()); !ok {
		return nil, typeMismatch(obj)
	}

	w := wire.NewWriter(c.bufferSize)
	w.WriteInt32(ids.FactoryID())
	w.WriteInt32(ids.ClassID())
	ids.WriteData(w)
	return w.Bytes(), nil
}

func (c *registryCodecImpl) Decode(data []byte) (any, error) {
	if err := checkMinSize(data, c.minSize); err != nil {
		return nil, err
	}
	r := wire.NewReader(data)

	factoryID, err := r.ReadInt32()
	if err != nil {
		return nil, fromWireError(err)
	}
	classID, err := r.ReadInt32()
	if err != nil {
		return nil, fromWireError(err)
	}
	ctor, ok := c.registry.Lookup(factoryID, classID)
	if !ok {
		key := TypeKey{FactoryID: factoryID, ClassID: classID}
		return nil, &DecodingError{Kind: UnregisteredType, Detail: key.String()}
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
