// Package protocol owns the begin-extension wire contract.
//
// Ownership boundary:
// - error taxonomy shared by the codec packages
// - address: tagged address value codec
// - scratch: caller-owned encode buffers
// - beginex: begin-extension builder and reader
package protocol
