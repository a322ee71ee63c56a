package wire

// DataSerializable is implemented by types that write and read their own
// fields in a fixed order. The type itself is not recorded; codecs built on
// it add whatever type information they need in front of the fields.
type DataSerializable interface {
	// WriteData appends all fields to w
	WriteData(w *Writer)
	// ReadData reads all fields from r into the receiver
	ReadData(r *Reader) error
}

// IdentifiedDataSerializable adds numeric type identifiers to
// DataSerializable, so a registry can construct the type without
// resolving names.
type IdentifiedDataSerializable interface {
	DataSerializable
	// FactoryID identifies the factory that can construct this type
	FactoryID() int32
	// ClassID identifies the type within its factory
	ClassID() int32
}
