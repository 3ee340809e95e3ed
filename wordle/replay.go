package wordle

import (
	"context"
	"fmt"

	"github.com/powellquiring/hardwordle/outcome"
	"golang.org/x/exp/constraints"
)

// Expand adds a node for every history reachable from pos when the tree's
// guesses are followed, computing the missing ones with the engine.
func (s *Solver) Expand(tree *Tree, pos Position) error {
	root, ok := tree.Root()
	if !ok || root.Guess == outcome.NoGuess {
		return fmt.Errorf("expand: %w", ErrUnsolved)
	}
	return s.expand(tree, nil, pos, root.Guess)
}

func (s *Solver) expand(tree *Tree, hist History, pos Position, g outcome.GuessIndex) error {
	for _, part := range s.Matrix.Partition(g, pos.Words) {
		if part.Code == outcome.Exact {
			continue
		}
		h := hist.Append(g, part.Code)
		child := pos.Apply(s.Matrix, g, part.Code)
		move, ok := tree.Lookup(h)
		if !ok {
			next, cost := s.Engine.Cost(child.Words, child.Guesses, Unsolved, child.Depth)
			move = Move{Guess: next, Cost: cost}
			tree.Set(h, move)
		}
		if move.Guess == outcome.NoGuess || move.Cost >= Unsolved {
			return fmt.Errorf("expand %s: %w", h.String(s.Matrix), ErrUnsolved)
		}
		if err := s.expand(tree, h, child, move.Guess); err != nil {
			return err
		}
	}
	return nil
}

// Next is the guess to play at hist: from the tree when it has the history,
// otherwise searched with a bound no strategy reaches.
func (s *Solver) Next(tree *Tree, hist History, pos Position) outcome.GuessIndex {
	if tree != nil {
		if move, ok := tree.Lookup(hist); ok && move.Guess != outcome.NoGuess {
			return move.Guess
		}
	}
	g, _ := s.Engine.Cost(pos.Words, pos.Guesses, Unsolved, pos.Depth)
	return g
}

// Replay plays the tree from pos until word is guessed and returns the guesses
func (s *Solver) Replay(tree *Tree, pos Position, word outcome.WordIndex) ([]outcome.GuessIndex, error) {
	var hist History
	guesses := []outcome.GuessIndex{}
	for pos.Depth < s.Engine.MaxGuesses() {
		g := s.Next(tree, hist, pos)
		if g == outcome.NoGuess {
			break
		}
		guesses = append(guesses, g)
		r := s.Matrix.Result(g, word)
		if r == outcome.Exact {
			return guesses, nil
		}
		hist = hist.Append(g, r)
		pos = pos.Apply(s.Matrix, g, r)
	}
	return guesses, fmt.Errorf("%s after %d guesses: %w", s.Matrix.WordString(word), len(guesses), ErrReplay)
}

// Report summarizes a replay of many words
type Report struct {
	Words     int
	Guesses   int
	Worst     int
	Histogram map[int]int // number of guesses to number of words
	Failed    []outcome.WordIndex
}

func (r Report) Average() float64 {
	if r.Words == 0 {
		return 0
	}
	return float64(r.Guesses) / float64(r.Words)
}

// Evaluate replays every word. Words that are not found are counted in Failed.
// The context is checked between words.
func (s *Solver) Evaluate(ctx context.Context, tree *Tree, pos Position, words []outcome.WordIndex) (Report, error) {
	report := Report{Histogram: make(map[int]int)}
	bar := s.progressBar(len(words), "evaluate")
	defer bar.Finish()
	counts := make([]int, 0, len(words))
	for _, word := range words {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		guesses, err := s.Replay(tree, pos, word)
		bar.Add(1)
		if err != nil {
			s.logger.Warn("replay failed", "word", s.Matrix.WordString(word), "err", err)
			report.Failed = append(report.Failed, word)
			continue
		}
		s.logger.Debug("replay", "word", s.Matrix.WordString(word), "guesses", len(guesses))
		counts = append(counts, len(guesses))
		report.Histogram[len(guesses)]++
		report.Worst = max(report.Worst, len(guesses))
	}
	report.Words = len(counts)
	report.Guesses = sum(counts)
	return report, nil
}

func sum[T constraints.Integer](xs []T) T {
	var ret T
	for _, x := range xs {
		ret += x
	}
	return ret
}
