package codec

// ICodec is the interface for all SampleObject codecs
type ICodec interface {
	// Encode serializes obj into a newly allocated byte array owned by the
	// caller. It returns an *EncodingError of kind TypeMismatch if obj is
	// not a type the codec handles.
	Encode(obj any) ([]byte, error)
	// Decode reconstructs an object from data. The result is value equal
	// to the encoded object. It returns a *DecodingError if data cannot be
	// decoded.
	Decode(data []byte) (any, error)
}
