package scratch

import (
	"sync"
	"testing"
)

func TestMaxRecordSizeFitsDefault(t *testing.T) {
	if MaxRecordSize != 522 {
		t.Fatalf("unexpected max record size: %d", MaxRecordSize)
	}
	if DefaultSize < MaxRecordSize {
		t.Fatalf("default size %d smaller than max record %d", DefaultSize, MaxRecordSize)
	}
}

func TestNewDefaultsSize(t *testing.T) {
	if New(0).Len() != DefaultSize {
		t.Fatalf("expected default size")
	}
	if New(16).Len() != 16 {
		t.Fatalf("expected explicit size")
	}
	var s *Buffer
	if s.Len() != 0 || s.Bytes() != nil {
		t.Fatalf("nil buffer should be empty")
	}
}

func TestPoolClearsAndDropsForeignSizes(t *testing.T) {
	p := NewPool(64)
	s := p.Get()
	if s.Len() != 64 {
		t.Fatalf("unexpected pooled size: %d", s.Len())
	}
	s.Bytes()[0] = 0xFF
	p.Put(s)
	if s.Bytes()[0] != 0 {
		t.Fatalf("expected Put to clear the buffer")
	}

	foreign := New(8)
	foreign.Bytes()[0] = 0xFF
	p.Put(foreign)
	if foreign.Bytes()[0] != 0xFF {
		t.Fatalf("foreign buffer should be dropped untouched")
	}
}

func TestPoolConcurrentGetPut(t *testing.T) {
	p := NewPool(DefaultSize)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s := p.Get()
				b := s.Bytes()
				for k := range b[:32] {
					b[k] = id
				}
				for k := range b[:32] {
					if b[k] != id {
						t.Errorf("buffer shared between goroutines")
						return
					}
				}
				p.Put(s)
			}
		}(byte(i + 1))
	}
	wg.Wait()
}
