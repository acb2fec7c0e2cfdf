// Package strings provides pooled string building utilities for featherpmm.
package strings

import (
	"fmt"
	"unsafe"
)

// BytesToString converts a byte slice to a string without allocation.
// The returned string shares memory with the slice; do not modify the
// slice afterwards.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// StringToBytes converts a string to a byte slice without allocation.
// The returned slice shares memory with the string; do not modify it.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Builder accumulates text with minimal allocations. It is the write
// target for the canonical metadata serializer.
type Builder struct {
	buf []byte
}

// NewBuilder creates a builder with the given initial capacity.
func NewBuilder(capacity int) *Builder {
	return &Builder{buf: make([]byte, 0, capacity)}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteBytes appends bytes to the builder.
func (b *Builder) WriteBytes(data []byte) {
	b.buf = append(b.buf, data...)
}

// AppendByte appends a single byte.
func (b *Builder) AppendByte(c byte) {
	b.buf = append(b.buf, c)
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string. The result shares memory with the
// builder; call Clone if the builder will be reused.
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Bytes returns the underlying byte slice.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the number of bytes written.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Pool manages a fixed-size pool of builders.
type Pool struct {
	builders chan *Builder
	capacity int
}

// NewPool creates a builder pool holding up to poolSize builders of
// builderCapacity bytes each.
func NewPool(poolSize, builderCapacity int) *Pool {
	p := &Pool{
		builders: make(chan *Builder, poolSize),
		capacity: builderCapacity,
	}
	for i := 0; i < poolSize; i++ {
		p.builders <- NewBuilder(builderCapacity)
	}
	return p
}

// Get retrieves a builder from the pool, allocating if the pool is empty.
func (p *Pool) Get() *Builder {
	select {
	case builder := <-p.builders:
		return builder
	default:
		return NewBuilder(p.capacity)
	}
}

// Put returns a builder to the pool. Full pools drop the builder.
func (p *Pool) Put(builder *Builder) {
	builder.Reset()
	select {
	case p.builders <- builder:
	default:
	}
}

var defaultPool = NewPool(16, 1024)

// GetBuilder retrieves a builder from the package-level pool.
func GetBuilder() *Builder {
	return defaultPool.Get()
}

// PutBuilder returns a builder to the package-level pool.
func PutBuilder(b *Builder) {
	defaultPool.Put(b)
}

// Clone creates a copy of a string that owns its memory.
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, StringToBytes(s))
	return BytesToString(b)
}

// Sprintf formats using a pooled builder to reduce allocations.
func Sprintf(format string, args ...interface{}) string {
	b := GetBuilder()
	defer PutBuilder(b)
	fmt.Fprintf(b, format, args...)
	return Clone(b.String())
}
