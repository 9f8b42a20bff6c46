// Package encoding serializes a logical value.Value into a
// self-describing TRON buffer. It drives the tree
// package's HAMT/radix-16 plan builders and the codec package's node
// codecs, writing descendants before their parents so a parent node
// can reference children by the offsets they were assigned.
//
// Grounded on the writer half of go-tony/stream's Encoder
// (stream/encoder.go), adapted from an event-stream writer to a
// bottom-up, offset-returning node writer.
package encoding
