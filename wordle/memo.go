package wordle

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bitset"
	"github.com/powellquiring/hardwordle/outcome"
)

// Key identifies a sub-problem. Words and Guesses are the canonical bitsets of
// the candidate and legal guess sets. The same sets at a different depth have
// a different budget and so a different answer.
type Key struct {
	Words   string
	Guesses string
	Depth   int
}

// Entry is a remembered search result. An exact entry is the optimal cost.
// Otherwise Cost is a lower bound: a pruned search proved nothing cheaper exists.
type Entry struct {
	Guess outcome.GuessIndex
	Cost  Cost
	Exact bool
}

// Memo is the memoization policy used by the engine
type Memo interface {
	Lookup(key Key) (Entry, bool)
	Store(key Key, entry Entry)
	Len() int
}

// NoMemo remembers nothing
type NoMemo struct{}

func (NoMemo) Lookup(Key) (Entry, bool) { return Entry{}, false }
func (NoMemo) Store(Key, Entry)         {}
func (NoMemo) Len() int                 { return 0 }

// MapMemo is a map of results. With a capacity the oldest key is evicted first.
type MapMemo struct {
	capacity int
	entries  map[Key]Entry
	order    []Key // insertion order, only kept with a capacity
	next     int   // oldest position in order once it is full
}

// NewMapMemo with capacity 0 never evicts
func NewMapMemo(capacity int) *MapMemo {
	return &MapMemo{
		capacity: capacity,
		entries:  make(map[Key]Entry),
	}
}

func (c *MapMemo) Lookup(key Key) (Entry, bool) {
	ret, ok := c.entries[key]
	return ret, ok
}

func (c *MapMemo) Store(key Key, entry Entry) {
	if _, ok := c.entries[key]; ok || c.capacity <= 0 {
		c.entries[key] = entry
		return
	}
	if len(c.order) < c.capacity {
		c.order = append(c.order, key)
	} else {
		delete(c.entries, c.order[c.next])
		c.order[c.next] = key
		c.next = (c.next + 1) % c.capacity
	}
	c.entries[key] = entry
}

func (c *MapMemo) Len() int {
	return len(c.entries)
}

// keyBuilder reuses the bitsets between calls
type keyBuilder struct {
	words   *bitset.BitSet
	guesses *bitset.BitSet
}

func newKeyBuilder(m *outcome.Matrix) *keyBuilder {
	return &keyBuilder{
		words:   bitset.New(uint(m.NumWords())),
		guesses: bitset.New(uint(m.NumGuesses())),
	}
}

func (k *keyBuilder) key(words []outcome.WordIndex, guesses []outcome.GuessIndex, depth int) Key {
	k.words.ClearAll()
	for _, w := range words {
		k.words.Set(uint(w))
	}
	k.guesses.ClearAll()
	for _, g := range guesses {
		k.guesses.Set(uint(g))
	}
	return Key{Words: bitsetString(k.words), Guesses: bitsetString(k.guesses), Depth: depth}
}

func bitsetString(b *bitset.BitSet) string {
	words := b.Bytes()
	buf := make([]byte, 0, len(words)*8)
	for _, word := range words {
		buf = binary.LittleEndian.AppendUint64(buf, word)
	}
	return string(buf)
}
