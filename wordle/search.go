package wordle

import (
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/powellquiring/hardwordle/outcome"
)

// Stats counts engine work
type Stats struct {
	Calls       int
	CacheHits   int
	CacheMisses int
}

// Engine is the recursive branch and bound search for the cheapest guess
type Engine struct {
	m        *outcome.Matrix
	memo     Memo
	keys     *keyBuilder // nil when nothing is remembered
	maxDepth int
	inWords  *bitset.BitSet // scratch, only valid until the next recursive call
	stats    Stats
}

// NewEngine searches within maxGuesses guesses per game, 0 is DefaultMaxGuesses.
// A nil memo remembers nothing.
func NewEngine(m *outcome.Matrix, memo Memo, maxGuesses int) *Engine {
	if maxGuesses <= 0 {
		maxGuesses = DefaultMaxGuesses
	}
	if memo == nil {
		memo = NoMemo{}
	}
	e := &Engine{
		m:        m,
		memo:     memo,
		maxDepth: maxGuesses - 1,
		inWords:  bitset.New(uint(m.NumWords())),
	}
	if _, ok := memo.(NoMemo); !ok {
		e.keys = newKeyBuilder(m)
	}
	return e
}

func (e *Engine) Stats() Stats    { return e.stats }
func (e *Engine) MaxGuesses() int { return e.maxDepth + 1 }

// Cost returns the best guess for words and the total number of guesses it
// needs to find every word, depth guesses having been played already.
// Any cost >= alpha is useless to the caller: the search stops as soon as it is
// proven and then returns a cost >= alpha, usually with NoGuess. A cost below
// alpha is the optimum. No words cost nothing and have no guess.
func (e *Engine) Cost(words []outcome.WordIndex, guesses []outcome.GuessIndex, alpha Cost, depth int) (outcome.GuessIndex, Cost) {
	e.stats.Calls++
	n := len(words)
	if n == 0 {
		return outcome.NoGuess, 0
	}
	if depth > e.maxDepth {
		return outcome.NoGuess, Unsolved
	}
	if depth == e.maxDepth && n > 1 {
		return outcome.NoGuess, Unsolved
	}
	if n <= 2 {
		return e.m.WordGuess[words[0]], twoGuessCost(n)
	}
	if e.keys == nil {
		return e.search(words, guesses, alpha, depth)
	}

	key := e.keys.key(words, guesses, depth)
	if entry, ok := e.memo.Lookup(key); ok {
		if entry.Exact {
			e.stats.CacheHits++
			return entry.Guess, entry.Cost
		}
		if entry.Cost >= alpha {
			e.stats.CacheHits++
			return outcome.NoGuess, entry.Cost
		}
	}
	e.stats.CacheMisses++
	guess, cost := e.search(words, guesses, alpha, depth)
	e.memo.Store(key, Entry{Guess: guess, Cost: cost, Exact: cost < alpha})
	return guess, cost
}

// orderGuesses puts the guesses that are candidate words first, then the rest,
// each in ascending index order.
func (e *Engine) orderGuesses(words []outcome.WordIndex, guesses []outcome.GuessIndex) (ordered []outcome.GuessIndex, wordGuesses int) {
	e.inWords.ClearAll()
	for _, w := range words {
		e.inWords.Set(uint(w))
	}
	ordered = make([]outcome.GuessIndex, 0, len(guesses))
	var rest []outcome.GuessIndex
	for _, g := range guesses {
		if w, ok := e.m.GuessWord(g); ok && e.inWords.Test(uint(w)) {
			ordered = append(ordered, g)
		} else {
			rest = append(rest, g)
		}
	}
	slices.Sort(ordered)
	slices.Sort(rest)
	wordGuesses = len(ordered)
	return append(ordered, rest...), wordGuesses
}

func (e *Engine) search(words []outcome.WordIndex, guesses []outcome.GuessIndex, alpha Cost, depth int) (outcome.GuessIndex, Cost) {
	n := len(words)
	bestCost := alpha
	bestGuess := outcome.NoGuess

	ordered, wordGuesses := e.orderGuesses(words, guesses)
	counts := make([]int, e.m.NumResults())
	codes := make([]outcome.ResultCode, n)
	present := make([]outcome.ResultCode, 0, n)

	for i, g := range ordered {
		for _, code := range present {
			counts[code] = 0
		}
		present = present[:0]
		maxCount := 0
		for j, w := range words {
			code := e.m.Result(g, w)
			codes[j] = code
			if counts[code] == 0 {
				present = append(present, code)
			}
			counts[code]++
			maxCount = max(maxCount, counts[code])
		}
		isWord := i < wordGuesses

		// each result seen count times needs at least 2*count-1 more guesses,
		// except the exact match which needs none
		lowerBound := Cost(n + 2*n - len(present))
		if isWord {
			lowerBound--
		}
		if lowerBound >= bestCost {
			continue
		}

		if !isWord {
			// a guess outside the words separates at best every word: 2n
			if bestCost <= Cost(2*n) {
				return bestGuess, bestCost
			}
			if maxCount == n {
				continue
			}
		}

		// easiest results first to reach the bound sooner
		slices.SortFunc(present, func(a, b outcome.ResultCode) int {
			if counts[a] != counts[b] {
				return counts[a] - counts[b]
			}
			return int(a) - int(b)
		})

		cost := Cost(n)
		for _, code := range present {
			if cost >= bestCost {
				break
			}
			if code == outcome.Exact {
				continue
			}
			subWords := make([]outcome.WordIndex, 0, counts[code])
			for j, w := range words {
				if codes[j] == code {
					subWords = append(subWords, w)
				}
			}
			subGuesses := e.m.NarrowGuesses(g, code, guesses)
			_, inc := e.Cost(subWords, subGuesses, bestCost-cost, depth+1)
			cost = addCost(cost, inc)
		}

		if cost < bestCost {
			bestGuess = g
			bestCost = cost
		}
		if bestCost == twoGuessCost(n) {
			// a word that separates all the others, nothing is cheaper
			return bestGuess, bestCost
		}
	}
	return bestGuess, bestCost
}
