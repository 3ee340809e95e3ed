package wordle

import (
	"container/heap"

	mapset "github.com/deckarep/golang-set"
	"github.com/powellquiring/hardwordle/outcome"
	"golang.org/x/exp/constraints"
)

// MinHeap is a generic min-heap that can store any type T.
type MinHeap[T any] struct {
	data []T
	less func(a, b T) bool
}

func (h *MinHeap[T]) Len() int           { return len(h.data) }
func (h *MinHeap[T]) Less(i, j int) bool { return h.less(h.data[i], h.data[j]) }
func (h *MinHeap[T]) Swap(i, j int)      { h.data[i], h.data[j] = h.data[j], h.data[i] }

// Push adds an element to the heap.
func (h *MinHeap[T]) Push(x any) {
	h.data = append(h.data, x.(T))
}

// Pop removes the highest-priority element.
func (h *MinHeap[T]) Pop() any {
	n := len(h.data)
	item := h.data[n-1]
	h.data = h.data[0 : n-1]
	return item
}

// An Item is a guess and its heuristic score.
type Item[K constraints.Ordered] struct {
	Value outcome.GuessIndex
	Score K
}

// NewMaxScoreHeap pops the highest score first, lowest guess index on ties.
func NewMaxScoreHeap[K constraints.Ordered]() *MinHeap[Item[K]] {
	ret := &MinHeap[Item[K]]{
		data: []Item[K]{},
		less: func(a, b Item[K]) bool {
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			return a.Value < b.Value
		},
	}
	heap.Init(ret)
	return ret
}

// OrderBy returns the guesses by score descending, index ascending
func OrderBy[K constraints.Ordered](guesses []outcome.GuessIndex, score func(outcome.GuessIndex) K) []Item[K] {
	h := NewMaxScoreHeap[K]()
	for _, g := range guesses {
		heap.Push(h, Item[K]{Value: g, Score: score(g)})
	}
	ret := make([]Item[K], 0, len(guesses))
	for h.Len() > 0 {
		ret = append(ret, heap.Pop(h).(Item[K]))
	}
	return ret
}

// LetterFrequency counts every letter occurrence across the answer dictionary
type LetterFrequency [26]int

func NewLetterFrequency(words []string) LetterFrequency {
	var ret LetterFrequency
	for _, word := range words {
		for i := 0; i < len(word); i++ {
			ret[word[i]-'a']++
		}
	}
	return ret
}

// Score sums the counts of the distinct letters of guess
func (f LetterFrequency) Score(guess string) int {
	letters := mapset.NewThreadUnsafeSet()
	for i := 0; i < len(guess); i++ {
		letters.Add(guess[i])
	}
	score := 0
	for _, letter := range letters.ToSlice() {
		score += f[letter.(byte)-'a']
	}
	return score
}

// GuessOrder is every guess by letter frequency score, best first
func GuessOrder(m *outcome.Matrix) []Item[int] {
	freq := NewLetterFrequency(m.Words)
	return OrderBy(m.AllGuesses(), func(g outcome.GuessIndex) int {
		return freq.Score(m.GuessString(g))
	})
}

// Guesses drops the scores
func Guesses[K constraints.Ordered](items []Item[K]) []outcome.GuessIndex {
	ret := make([]outcome.GuessIndex, len(items))
	for i, item := range items {
		ret[i] = item.Value
	}
	return ret
}
