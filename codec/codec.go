// This package contains the main [Codec] interface and several implementations inside subpackages.
package codec

import "iter"

// Codec encodes and decodes buffer items for snapshot storage.
//
// Implementations are not considered thread-safe; the buffer never invokes a
// codec while holding its lock.
type Codec[Item any] interface {
	// Encode serializes a sequence of items into a byte slice.
	Encode(items iter.Seq[Item]) ([]byte, error)
	// Decode deserializes a byte slice into items, pushing each to the provided function.
	Decode(data []byte, push func(Item)) error
}
