// Package codec serializes memoized values to the bytes the backing store
// holds. Msgpack is the engine default; pick per producer via
// WrapConfig.Codec.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
