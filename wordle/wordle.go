package wordle

import (
	"errors"
	"math"

	"github.com/powellquiring/hardwordle/outcome"
)

// Cost is the total number of guesses needed to find every candidate word
type Cost int

// Unsolved is returned when the candidates can not be separated within the
// guess budget. It is larger than any achievable cost, sums involving it stay
// at Unsolved (see addCost).
const Unsolved Cost = math.MaxInt32

// DefaultMaxGuesses is the standard game length
const DefaultMaxGuesses = 6

var (
	ErrUnsolved = errors.New("no strategy within the guess budget")
	ErrReplay   = errors.New("replay did not find the word")
)

// Position is the state of one hard mode game: the words still possible, the
// guesses still legal and the number of guesses already played.
type Position struct {
	Words   []outcome.WordIndex
	Guesses []outcome.GuessIndex
	Depth   int
}

// Start is the position before the first guess
func Start(m *outcome.Matrix) Position {
	return Position{Words: m.AllWords(), Guesses: m.AllGuesses()}
}

// Apply returns the position after guess g was answered with code.
// The receiver is not modified.
func (p Position) Apply(m *outcome.Matrix, g outcome.GuessIndex, code outcome.ResultCode) Position {
	return Position{
		Words:   m.NarrowWords(g, code, p.Words),
		Guesses: m.NarrowGuesses(g, code, p.Guesses),
		Depth:   p.Depth + 1,
	}
}

// addCost adds the cost of one more result, saturating at Unsolved so a
// strategy with an unsolved result is never cheaper than any bound.
func addCost(a, b Cost) Cost {
	if a >= Unsolved || b >= Unsolved {
		return Unsolved
	}
	return min(a+b, Unsolved)
}

// twoGuessCost is the cost for n <= 2 words: guess one, if wrong the other is forced
func twoGuessCost(n int) Cost {
	return Cost(2*n - 1)
}
