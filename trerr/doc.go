// Package trerr defines the error taxonomy shared by every TRON
// component: a small, fixed set of mnemonic kinds (magic, short, len,
// tag, type, off, range, num, path, depth, proxy, extra), each exposed
// as a sentinel error so callers can classify failures with errors.Is
// instead of string matching.
package trerr
