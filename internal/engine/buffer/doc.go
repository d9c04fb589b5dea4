// Package buffer provides the document text store for the editing core.
//
// A Buffer wraps an immutable rope with a revision counter and the
// line/column view the rest of the core works in. Positions count lines and
// characters; offsets count bytes. Conversion between the two is logarithmic
// in document size.
//
// The buffer does not clamp: mutating with an out-of-range offset returns
// ErrOffsetOutOfRange or ErrRangeInvalid. Clamping cursor positions is the
// edit engine's job, before offsets are computed.
package buffer
