// Package codec implements the value tag byte and container node
// header: reading and writing one tagged value (scalar node, or a
// container node's self-delimiting header) against a byte buffer,
// without recursing into child nodes. It is shared by the encoder,
// the lazy view, the copy-on-write updater and the maintenance passes
// so the wire layout is defined in exactly one place.
//
// This corresponds to the tag-byte-driven scalar codecs in
// chaisql-chai's types/encoding package, adapted to TRON's
// self-delimiting, offset-addressed node layout (chai's encoding is a
// flat byte-ordered key encoding with no node graph).
package codec
