package wordle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/powellquiring/hardwordle/outcome"
	"github.com/schollz/progressbar/v3"
)

// Options configure a Solver, the zero value is usable
type Options struct {
	MaxGuesses    int           // guesses per game, 0 is DefaultMaxGuesses
	Memo          Memo          // nil remembers nothing
	Logger        *slog.Logger  // nil is slog.Default()
	Progress      bool          // progress bar over the first guesses
	SlowThreshold time.Duration // log sub-problems slower than this, 0 never
}

// Solver finds the best first guess and assembles the decision tree
type Solver struct {
	Matrix *outcome.Matrix
	Engine *Engine
	Order  []outcome.GuessIndex // default first guess priority, best heuristic first

	logger        *slog.Logger
	progress      bool
	slowThreshold time.Duration
}

func NewSolver(m *outcome.Matrix, opts Options) *Solver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Solver{
		Matrix:        m,
		Engine:        NewEngine(m, opts.Memo, opts.MaxGuesses),
		Order:         Guesses(GuessOrder(m)),
		logger:        logger,
		progress:      opts.Progress,
		slowThreshold: opts.SlowThreshold,
	}
}

func (s *Solver) progressBar(max int, description string) *progressbar.ProgressBar {
	if s.progress {
		return progressbar.Default(int64(max), description)
	}
	return progressbar.DefaultSilent(int64(max), description)
}

// Solve is SolveFrom the start of a game
func (s *Solver) Solve(ctx context.Context, words []outcome.WordIndex, guesses []outcome.GuessIndex, priority []outcome.GuessIndex) (*Tree, error) {
	return s.SolveFrom(ctx, Position{Words: words, Guesses: guesses}, priority)
}

// SolveFrom tries each first guess of priority (s.Order when nil) that is legal
// in pos and returns the tree of the cheapest one: the root holds the guess and
// its total cost, and every result of that guess holds the next guess and the
// cost from there on. The context is checked between first guesses; when it is
// done the best guess found so far is used.
func (s *Solver) SolveFrom(ctx context.Context, pos Position, priority []outcome.GuessIndex) (*Tree, error) {
	if priority == nil {
		priority = s.Order
	}
	legal := bitset.New(uint(s.Matrix.NumGuesses()))
	for _, g := range pos.Guesses {
		legal.Set(uint(g))
	}
	candidates := make([]outcome.GuessIndex, 0, len(priority))
	for _, g := range priority {
		if legal.Test(uint(g)) {
			candidates = append(candidates, g)
		}
	}

	n := len(pos.Words)
	minCost := min(Cost(4*n), Unsolved)
	bestGuess := outcome.NoGuess
	tree := NewTree()
	start := time.Now()
	bar := s.progressBar(len(candidates), "first guesses")
	defer bar.Finish()

	for _, g := range candidates {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("time limit exceeded", "elapsed", time.Since(start), "err", err)
			break
		}
		cost := s.firstGuessCost(tree, pos, g, minCost)
		s.logger.Debug("first guess", "guess", s.Matrix.GuessString(g), "cost", cost, "best", minCost)
		if cost < minCost {
			minCost = cost
			bestGuess = g
			bar.Describe(fmt.Sprintf("best %s (%d)", s.Matrix.GuessString(g), cost))
		}
		bar.Add(1)
	}

	if bestGuess == outcome.NoGuess {
		tree = NewTree()
		tree.Set(nil, Move{Guess: outcome.NoGuess, Cost: Unsolved})
		return tree, fmt.Errorf("%d words: %w", n, ErrUnsolved)
	}
	tree = tree.Filter(bestGuess)
	tree.Set(nil, Move{Guess: bestGuess, Cost: minCost})
	s.logger.Info("solved", "guess", s.Matrix.GuessString(bestGuess), "cost", minCost, "words", n, "elapsed", time.Since(start))
	return tree, nil
}

// firstGuessCost is the search loop for one guess at the root. Every result
// is recorded in tree, even if the guess is not used in the end.
func (s *Solver) firstGuessCost(tree *Tree, pos Position, g outcome.GuessIndex, minCost Cost) Cost {
	cost := Cost(len(pos.Words))
	for _, part := range s.Matrix.Partition(g, pos.Words) {
		if cost >= minCost {
			break
		}
		if part.Code == outcome.Exact {
			continue
		}
		alpha := minCost - cost
		subGuesses := s.Matrix.NarrowGuesses(g, part.Code, pos.Guesses)
		start := time.Now()
		next, inc := s.Engine.Cost(part.Words, subGuesses, alpha, pos.Depth+1)
		elapsed := time.Since(start)
		tree.Set(History{{Guess: g, Result: part.Code}}, Move{Guess: next, Cost: inc})

		switch {
		case inc >= Unsolved:
			s.logger.Warn("failed to solve",
				"guess", s.Matrix.GuessString(g),
				"result", s.Matrix.Pattern(part.Code),
				"words", len(part.Words),
				"guesses", s.Engine.MaxGuesses()-pos.Depth-1)
		case inc >= alpha:
			s.logger.Debug("pruned",
				"guess", s.Matrix.GuessString(g),
				"result", s.Matrix.Pattern(part.Code),
				"words", len(part.Words),
				"alpha", alpha)
		}
		if s.slowThreshold > 0 && elapsed > s.slowThreshold {
			s.logger.Info("slow result",
				"guess", s.Matrix.GuessString(g),
				"result", s.Matrix.Pattern(part.Code),
				"words", len(part.Words),
				"guesses", len(subGuesses),
				"alpha", alpha,
				"cost", inc,
				"elapsed", elapsed)
		}
		cost = addCost(cost, inc)
	}
	return cost
}
