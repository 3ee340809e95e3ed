package wordle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/powellquiring/hardwordle/outcome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietSolver(m *outcome.Matrix, memo Memo) *Solver {
	return NewSolver(m, Options{
		Memo:   memo,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestSolveTwoSingleLetterWords(t *testing.T) {
	m := build(t, []string{"a", "b"})
	s := quietSolver(m, nil)
	tree, err := s.Solve(context.Background(), m.AllWords(), m.AllGuesses(), nil)
	require.NoError(t, err)
	root, ok := tree.Root()
	require.True(t, ok)
	assert.Equal(t, Cost(3), root.Cost)
	assert.Equal(t, "a", m.GuessString(root.Guess))

	code, err := m.ParseResult("r")
	require.NoError(t, err)
	next, ok := tree.Lookup(History{{Guess: root.Guess, Result: code}})
	require.True(t, ok)
	assert.Equal(t, "b", m.GuessString(next.Guess))
	assert.Equal(t, Cost(1), next.Cost)
	assert.Equal(t, 2, tree.Len())
}

func TestSolveMatchesEngine(t *testing.T) {
	m := build(t, first20, "fling", "stomp")
	s := quietSolver(m, NewMapMemo(0))
	tree, err := s.Solve(context.Background(), m.AllWords(), m.AllGuesses(), nil)
	require.NoError(t, err)
	root, _ := tree.Root()

	_, expected := NewEngine(m, nil, 0).Cost(m.AllWords(), m.AllGuesses(), Unsolved, 0)
	assert.Equal(t, expected, root.Cost)

	// only the chosen first guess is left
	for node := range tree.Walk {
		if len(node.History) > 0 {
			assert.Equal(t, root.Guess, node.History[0].Guess)
			assert.Less(t, node.Move.Cost, Unsolved)
		}
	}
}

func TestSolvePriority(t *testing.T) {
	m := build(t, first20)
	s := quietSolver(m, nil)
	pos := Start(m)
	cigar, _ := m.Guess("cigar")
	tree, err := s.SolveFrom(context.Background(), pos, []outcome.GuessIndex{cigar})
	require.NoError(t, err)
	root, _ := tree.Root()
	assert.Equal(t, cigar, root.Guess)

	// a guess that is not legal any more is skipped
	code := m.Result(cigar, 1)
	after := pos.Apply(m, cigar, code)
	tree, err = s.SolveFrom(context.Background(), after, []outcome.GuessIndex{cigar})
	assert.ErrorIs(t, err, ErrUnsolved)
	root, _ = tree.Root()
	assert.Equal(t, outcome.NoGuess, root.Guess)
	assert.Equal(t, Unsolved, root.Cost)
}

func TestSolveCancelled(t *testing.T) {
	m := build(t, first20)
	s := quietSolver(m, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tree, err := s.Solve(ctx, m.AllWords(), m.AllGuesses(), nil)
	assert.ErrorIs(t, err, ErrUnsolved)
	assert.Equal(t, 1, tree.Len())
}

func TestSolveUnsolvable(t *testing.T) {
	// seven words differing in one letter can not all be found in six hard mode guesses
	m := build(t, []string{"fight", "light", "might", "night", "right", "sight", "tight"})
	s := quietSolver(m, nil)
	_, err := s.Solve(context.Background(), m.AllWords(), m.AllGuesses(), nil)
	assert.ErrorIs(t, err, ErrUnsolved)
}

func TestSolveManyWordsUnsolvable(t *testing.T) {
	// an unsolved result makes the guess unusable however many words there are
	letters := "abcdefgh"
	words := make([]string, 0, 3400)
	for i := 0; len(words) < 3400; i++ {
		words = append(words, string([]byte{letters[i/512], letters[i/64%8], letters[i/8%8], letters[i%8]}))
	}
	m := build(t, words, "zzzz")
	s := NewSolver(m, Options{
		MaxGuesses: 2,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	zzzz, _ := m.Guess("zzzz")
	tree, err := s.Solve(context.Background(), m.AllWords(), m.AllGuesses(), []outcome.GuessIndex{zzzz})
	assert.ErrorIs(t, err, ErrUnsolved)
	root, _ := tree.Root()
	assert.Equal(t, outcome.NoGuess, root.Guess)
	assert.Equal(t, Unsolved, root.Cost)
}

func TestExpandReplayConsistent(t *testing.T) {
	m := build(t, append([]string{"fight", "light", "might", "night"}, first20...), "fling")
	s := quietSolver(m, NewMapMemo(0))
	pos := Start(m)
	tree, err := s.SolveFrom(context.Background(), pos, nil)
	require.NoError(t, err)
	require.NoError(t, s.Expand(tree, pos))

	type reached struct {
		words     int
		remaining int
	}
	byKey := map[string]*reached{}
	for _, w := range m.AllWords() {
		guesses, err := s.Replay(tree, pos, w)
		require.NoError(t, err)
		var hist History
		for i, g := range guesses {
			move, ok := tree.Lookup(hist)
			require.True(t, ok, "missing %s", hist.String(m))
			assert.Equal(t, move.Guess, g)
			r := byKey[hist.Key()]
			if r == nil {
				r = &reached{}
				byKey[hist.Key()] = r
			}
			r.words++
			r.remaining += len(guesses) - i
			hist = hist.Append(g, m.Result(g, w))
		}
	}
	assert.Equal(t, tree.Len(), len(byKey))
	for node := range tree.Walk {
		r := byKey[node.History.Key()]
		require.NotNil(t, r, node.History.String(m))
		assert.Equal(t, node.Move.Cost, Cost(r.remaining), node.History.String(m))
	}

	report, err := s.Evaluate(context.Background(), tree, pos, m.AllWords())
	require.NoError(t, err)
	root, _ := tree.Root()
	assert.Equal(t, m.NumWords(), report.Words)
	assert.Equal(t, int(root.Cost), report.Guesses)
	assert.Empty(t, report.Failed)
	assert.LessOrEqual(t, report.Worst, DefaultMaxGuesses)
	assert.InDelta(t, float64(root.Cost)/float64(m.NumWords()), report.Average(), 1e-9)
}

func TestReplayWithoutTree(t *testing.T) {
	m := build(t, first20)
	s := quietSolver(m, NewMapMemo(0))
	report, err := s.Evaluate(context.Background(), nil, Start(m), m.AllWords())
	require.NoError(t, err)
	_, cost := s.Engine.Cost(m.AllWords(), m.AllGuesses(), Unsolved, 0)
	assert.Equal(t, int(cost), report.Guesses)
}

func TestTreeSaveLoad(t *testing.T) {
	m := build(t, []string{"a", "b", "c"})
	s := quietSolver(m, nil)
	tree, err := s.Solve(context.Background(), m.AllWords(), m.AllGuesses(), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tree.Save(&buf))
	loaded, err := LoadTree(&buf)
	require.NoError(t, err)
	assert.Equal(t, tree.Len(), loaded.Len())
	for node := range tree.Walk {
		move, ok := loaded.Lookup(node.History)
		assert.True(t, ok)
		assert.Equal(t, node.Move, move)
	}

	buf.Reset()
	require.NoError(t, tree.WriteJSON(&buf, m))
	var nodes []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &nodes))
	require.Len(t, nodes, tree.Len())
	assert.Equal(t, "a", nodes[0]["guess"])
	assert.Equal(t, float64(6), nodes[0]["cost"])
}

func TestHistory(t *testing.T) {
	var h History
	assert.Equal(t, "", h.Key())
	h1 := h.Append(3, 7)
	h2 := h1.Append(4, 0)
	h3 := h1.Append(5, 1)
	assert.Equal(t, "3:7", h1.Key())
	assert.Equal(t, "3:7/4:0", h2.Key())
	assert.Equal(t, "3:7/5:1", h3.Key())
	assert.Len(t, h1, 1)
}
