package wordle

import (
	"testing"

	"github.com/powellquiring/hardwordle/outcome"
	"github.com/stretchr/testify/assert"
)

func TestMapMemoEviction(t *testing.T) {
	c := NewMapMemo(2)
	k1, k2, k3 := Key{Words: "1"}, Key{Words: "2"}, Key{Words: "3"}
	c.Store(k1, Entry{Cost: 1, Exact: true})
	c.Store(k2, Entry{Cost: 2, Exact: true})
	// replacing a key does not evict
	c.Store(k1, Entry{Cost: 10})
	assert.Equal(t, 2, c.Len())
	e, ok := c.Lookup(k1)
	assert.True(t, ok)
	assert.Equal(t, Cost(10), e.Cost)

	c.Store(k3, Entry{Cost: 3, Exact: true})
	assert.Equal(t, 2, c.Len())
	_, ok = c.Lookup(k1)
	assert.False(t, ok)
	_, ok = c.Lookup(k3)
	assert.True(t, ok)
}

func TestMapMemoUnbounded(t *testing.T) {
	c := NewMapMemo(0)
	for i := range 100 {
		c.Store(Key{Depth: i}, Entry{})
	}
	assert.Equal(t, 100, c.Len())
}

func TestKeyIgnoresOrder(t *testing.T) {
	m := build(t, first20)
	k := newKeyBuilder(m)
	a := k.key([]outcome.WordIndex{3, 1, 2}, []outcome.GuessIndex{7, 5}, 1)
	b := k.key([]outcome.WordIndex{1, 2, 3}, []outcome.GuessIndex{5, 7}, 1)
	assert.Equal(t, a, b)
	// same words, other legal guesses
	c := k.key([]outcome.WordIndex{1, 2, 3}, []outcome.GuessIndex{5}, 1)
	assert.NotEqual(t, a, c)
	d := k.key([]outcome.WordIndex{1, 2, 3}, []outcome.GuessIndex{5, 7}, 2)
	assert.NotEqual(t, a, d)
}

func TestBoundedMemoStillOptimal(t *testing.T) {
	m := build(t, first20)
	_, expected := NewEngine(m, nil, 0).Cost(m.AllWords(), m.AllGuesses(), Unsolved, 0)
	_, cost := NewEngine(m, NewMapMemo(3), 0).Cost(m.AllWords(), m.AllGuesses(), Unsolved, 0)
	assert.Equal(t, expected, cost)
}
