// Package scratch provides the caller-owned buffers that begin-extension
// records are written into before being copied out.
//
// A Buffer belongs to one encode at a time. Workers that encode in parallel
// each hold their own Buffer, or draw one from a Pool for the duration of a
// single encode.
package scratch

import (
	"sync"

	"github.com/danmuck/tcpspec/internal/protocol/address"
)

const (
	// DefaultSize comfortably exceeds MaxRecordSize.
	DefaultSize = 1024

	// MaxRecordSize is the largest record in the canonical shape: a 4-byte
	// typeId and two maximal host addresses, each followed by a 2-byte port.
	MaxRecordSize = 4 + 2*(address.MaxSize+2)
)

// Buffer is a reusable encode region.
type Buffer struct {
	b []byte
}

// New allocates a Buffer of size bytes, or DefaultSize when size <= 0.
func New(size int) *Buffer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Buffer{b: make([]byte, size)}
}

// Bytes exposes the whole region for writing.
func (s *Buffer) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.b
}

func (s *Buffer) Len() int {
	if s == nil {
		return 0
	}
	return len(s.b)
}

// Clear zeroes the region.
func (s *Buffer) Clear() {
	clear(s.b)
}

// Pool hands out Buffers of one size to concurrent callers.
type Pool struct {
	size int
	pool sync.Pool
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	p := &Pool{size: size}
	p.pool.New = func() any {
		return New(size)
	}
	return p
}

// Get returns a Buffer owned by the caller until it is handed back with Put.
func (p *Pool) Get() *Buffer {
	return p.pool.Get().(*Buffer)
}

// Put returns s to the pool. Buffers of a different size are dropped.
func (p *Pool) Put(s *Buffer) {
	if s == nil || len(s.b) != p.size {
		return
	}
	s.Clear()
	p.pool.Put(s)
}
