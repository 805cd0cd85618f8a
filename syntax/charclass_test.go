package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharclassBasics(t *testing.T) {
	var c Charclass
	require.True(t, c.IsEmpty())
	require.Equal(t, -1, c.First())

	for _, b := range []byte("abc") {
		c.Set(b)
	}
	c.Set(0xff)
	assert.True(t, c.Has('a'))
	assert.True(t, c.Has(0xff))
	assert.False(t, c.Has('d'))
	assert.Equal(t, 4, c.Count())
	assert.Equal(t, int('a'), c.First())
	assert.Equal(t, "[0x61-0x63 0xff]", c.String())

	c.Clear('b')
	assert.False(t, c.Has('b'))

	c.Not()
	assert.True(t, c.Has('b'))
	assert.False(t, c.Has('a'))
	assert.Equal(t, 256-3, c.Count())

	c.Fill()
	assert.True(t, c.IsFull())
	c.Zero()
	assert.True(t, c.IsEmpty())
}

func TestCharclassSetOps(t *testing.T) {
	var digits, hex Charclass
	for b := '0'; b <= '9'; b++ {
		digits.Set(byte(b))
		hex.Set(byte(b))
	}
	for b := 'a'; b <= 'f'; b++ {
		hex.Set(byte(b))
	}

	require.True(t, digits.Intersects(&hex))

	and := hex
	and.And(&digits)
	assert.Equal(t, digits, and)

	diff := hex
	diff.AndNot(&digits)
	assert.Equal(t, 6, diff.Count())
	assert.False(t, diff.Intersects(&digits))

	or := diff
	or.Or(&digits)
	assert.Equal(t, hex, or)
}

func TestCharclassTableInterning(t *testing.T) {
	tab := NewCharclassTable()

	var a, b Charclass
	a.Set('x')
	b.Set('x')
	i := tab.Index(&a)
	j := tab.Index(&b)
	require.Equal(t, i, j, "equal classes must share an index")

	b.Set('y')
	k := tab.Index(&b)
	assert.NotEqual(t, i, k)
	assert.Equal(t, 2, tab.Len())
	assert.True(t, tab.Get(k).Has('y'))

	clone := tab.Clone()
	var z Charclass
	z.Set('z')
	clone.Index(&z)
	assert.Equal(t, 2, tab.Len())
	assert.Equal(t, 3, clone.Len())
}
