package wire

import "errors"

// ErrOutOfBounds is returned by any fixed-width read whose offset and
// width run past the end of the underlying buffer.
var ErrOutOfBounds = errors.New("wire: offset out of bounds")

// ErrCompressionPointer is returned by NameLength when it encounters a
// length octet >= 0xC0. Compression pointers are not valid in the
// contexts this package parses (RRSIG input, submitted RRSETs, NSEC(3)
// rdata) and are always treated as a format error.
var ErrCompressionPointer = errors.New("wire: compression pointer not supported")

// ErrTruncatedName is returned by NameLength when the buffer ends
// before a terminating zero-length label is found.
var ErrTruncatedName = errors.New("wire: truncated name")

// ErrTooManyWindows is returned by CheckTypeBitmapBounded when it walks
// more (window, length, bits) triples than its caller-supplied bound
// without reaching end or the target window.
var ErrTooManyWindows = errors.New("wire: too many type-bitmap windows")
