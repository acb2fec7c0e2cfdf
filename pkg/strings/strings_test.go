package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder(t *testing.T) {
	b := NewBuilder(8)
	b.WriteString("hello")
	b.AppendByte(' ')
	b.WriteBytes([]byte("world"))
	assert.Equal(t, "hello world", b.String())
	assert.Equal(t, 11, b.Len())

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "", b.String())
}

func TestZeroCopyConversions(t *testing.T) {
	s := "abc"
	assert.Equal(t, []byte("abc"), StringToBytes(s))
	assert.Equal(t, "abc", BytesToString([]byte("abc")))
	assert.Equal(t, "", BytesToString(nil))
	assert.Nil(t, StringToBytes(""))
}

func TestClone(t *testing.T) {
	b := []byte("mutable")
	s := BytesToString(b)
	c := Clone(s)
	b[0] = 'M'
	assert.Equal(t, "Mutable", s, "shares memory")
	assert.Equal(t, "mutable", c, "clone owns its memory")
}

func TestPoolReuse(t *testing.T) {
	p := NewPool(1, 16)
	b1 := p.Get()
	b1.WriteString("x")
	p.Put(b1)

	b2 := p.Get()
	assert.Equal(t, 0, b2.Len(), "pooled builders come back reset")
}

func TestSprintf(t *testing.T) {
	assert.Equal(t, "x=1 y=two", Sprintf("x=%d y=%s", 1, "two"))
}
