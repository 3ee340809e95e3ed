package outcome

import (
	"fmt"
	"slices"

	"github.com/schollz/progressbar/v3"
)

// Matrix is the precomputed outcome of every guess against every guess taken as
// a secret. The answers are a subset of the guesses so the guess x word table is
// the sub-table selected by WordGuess. Fields are exported for gob.
type Matrix struct {
	Length    int          // letters per word
	Words     []string     // answer dictionary, indexed by WordIndex
	Guesses   []string     // guess dictionary, indexed by GuessIndex
	Patterns  []string     // result dictionary, indexed by ResultCode
	WordGuess []GuessIndex // WordGuess[w] is the guess spelling the same word
	Table     []ResultCode // Table[g*len(Guesses)+h]

	guessWord  []WordIndex // -1 for guesses that are not answers
	wordIndex  map[string]WordIndex
	guessIndex map[string]GuessIndex
}

// Build computes the matrix. The answers come first in the guess dictionary,
// followed by the guesses that are not answers, in the order given.
func Build(words, guesses []string) (*Matrix, error) {
	return BuildProgress(words, guesses, progressbar.DefaultSilent(int64(len(words)+len(guesses))))
}

// BuildProgress is Build reporting one step per guess row to bar
func BuildProgress(words, guesses []string, bar *progressbar.ProgressBar) (*Matrix, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no answers", ErrMatrix)
	}
	length := len(words[0])
	m := &Matrix{Length: length}
	seen := make(map[string]bool, len(words)+len(guesses))
	for _, word := range words {
		if err := ValidateWord(word, length); err != nil {
			return nil, fmt.Errorf("answer %q: %w", word, err)
		}
		if seen[word] {
			return nil, fmt.Errorf("%w: duplicate answer %q", ErrMatrix, word)
		}
		seen[word] = true
		m.WordGuess = append(m.WordGuess, GuessIndex(len(m.Guesses)))
		m.Words = append(m.Words, word)
		m.Guesses = append(m.Guesses, word)
	}
	for _, guess := range guesses {
		if err := ValidateWord(guess, length); err != nil {
			return nil, fmt.Errorf("guess %q: %w", guess, err)
		}
		if seen[guess] {
			continue
		}
		seen[guess] = true
		m.Guesses = append(m.Guesses, guess)
	}
	numResults := NumResults(length)
	m.Patterns = make([]string, numResults)
	for code := range numResults {
		m.Patterns[code] = ResultCode(code).Format(length)
	}
	n := len(m.Guesses)
	m.Table = make([]ResultCode, n*n)
	bar.ChangeMax(n)
	for g, guess := range m.Guesses {
		row := m.Table[g*n : (g+1)*n]
		for h, secret := range m.Guesses {
			row[h] = Score(guess, secret)
		}
		bar.Add(1)
	}
	bar.Finish()
	if err := m.index(); err != nil {
		return nil, err
	}
	return m, nil
}

// index rebuilds the lookup maps, needed after decoding
func (m *Matrix) index() error {
	n := len(m.Guesses)
	if len(m.Table) != n*n || len(m.WordGuess) != len(m.Words) || len(m.Patterns) != NumResults(m.Length) {
		return fmt.Errorf("%w: %d guesses %d words %d table entries", ErrMatrix, n, len(m.Words), len(m.Table))
	}
	m.guessIndex = make(map[string]GuessIndex, n)
	m.guessWord = make([]WordIndex, n)
	for g, guess := range m.Guesses {
		m.guessIndex[guess] = GuessIndex(g)
		m.guessWord[g] = -1
	}
	m.wordIndex = make(map[string]WordIndex, len(m.Words))
	for w, word := range m.Words {
		g := m.WordGuess[w]
		if g < 0 || int(g) >= n || m.Guesses[g] != word {
			return fmt.Errorf("%w: answer %q has no guess", ErrMatrix, word)
		}
		m.wordIndex[word] = WordIndex(w)
		m.guessWord[g] = WordIndex(w)
	}
	return nil
}

func (m *Matrix) NumWords() int   { return len(m.Words) }
func (m *Matrix) NumGuesses() int { return len(m.Guesses) }
func (m *Matrix) NumResults() int { return len(m.Patterns) }

// Result is the code for guess g against secret word w
func (m *Matrix) Result(g GuessIndex, w WordIndex) ResultCode {
	return m.Table[int(g)*len(m.Guesses)+int(m.WordGuess[w])]
}

// GuessResult is the code for guess g when guess h is taken as the secret
func (m *Matrix) GuessResult(g, h GuessIndex) ResultCode {
	return m.Table[int(g)*len(m.Guesses)+int(h)]
}

// GuessWord returns the answer spelled by guess g, if any
func (m *Matrix) GuessWord(g GuessIndex) (WordIndex, bool) {
	w := m.guessWord[g]
	return w, w >= 0
}

func (m *Matrix) Word(s string) (WordIndex, bool) {
	w, ok := m.wordIndex[s]
	return w, ok
}

func (m *Matrix) Guess(s string) (GuessIndex, bool) {
	g, ok := m.guessIndex[s]
	return g, ok
}

func (m *Matrix) WordString(w WordIndex) string   { return m.Words[w] }
func (m *Matrix) GuessString(g GuessIndex) string { return m.Guesses[g] }
func (m *Matrix) Pattern(r ResultCode) string     { return m.Patterns[r] }

// ParseResult parses a g,y,r color string for this matrix's word length
func (m *Matrix) ParseResult(colors string) (ResultCode, error) {
	return ParseResult(colors, m.Length)
}

// AllWords is every answer in index order
func (m *Matrix) AllWords() []WordIndex {
	ret := make([]WordIndex, len(m.Words))
	for i := range ret {
		ret[i] = WordIndex(i)
	}
	return ret
}

// AllGuesses is every guess in index order
func (m *Matrix) AllGuesses() []GuessIndex {
	ret := make([]GuessIndex, len(m.Guesses))
	for i := range ret {
		ret[i] = GuessIndex(i)
	}
	return ret
}

// WordsFromStrings looks up each answer
func (m *Matrix) WordsFromStrings(strings []string) ([]WordIndex, error) {
	ret := make([]WordIndex, 0, len(strings))
	for _, s := range strings {
		w, ok := m.Word(s)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownWord, s)
		}
		ret = append(ret, w)
	}
	return ret, nil
}

// GuessesFromStrings looks up each guess
func (m *Matrix) GuessesFromStrings(strings []string) ([]GuessIndex, error) {
	ret := make([]GuessIndex, 0, len(strings))
	for _, s := range strings {
		g, ok := m.Guess(s)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownWord, s)
		}
		ret = append(ret, g)
	}
	return ret, nil
}

// Part is the words sharing one result against a guess
type Part struct {
	Code  ResultCode
	Words []WordIndex
}

// Partition groups words by their result against g. Parts are ordered by size,
// smallest first, then by code. Word order inside a part follows words.
func (m *Matrix) Partition(g GuessIndex, words []WordIndex) []Part {
	byCode := make(map[ResultCode]int)
	var parts []Part
	for _, w := range words {
		code := m.Result(g, w)
		i, ok := byCode[code]
		if !ok {
			i = len(parts)
			byCode[code] = i
			parts = append(parts, Part{Code: code})
		}
		parts[i].Words = append(parts[i].Words, w)
	}
	slices.SortFunc(parts, func(a, b Part) int {
		if len(a.Words) != len(b.Words) {
			return len(a.Words) - len(b.Words)
		}
		return int(a.Code) - int(b.Code)
	})
	return parts
}

// NarrowWords keeps the words giving code against g
func (m *Matrix) NarrowWords(g GuessIndex, code ResultCode, words []WordIndex) []WordIndex {
	ret := make([]WordIndex, 0, len(words))
	for _, w := range words {
		if m.Result(g, w) == code {
			ret = append(ret, w)
		}
	}
	return ret
}

// NarrowGuesses keeps the guesses still legal in hard mode after g gave code:
// those that would have produced code had they been the secret.
func (m *Matrix) NarrowGuesses(g GuessIndex, code ResultCode, guesses []GuessIndex) []GuessIndex {
	ret := make([]GuessIndex, 0, len(guesses))
	for _, h := range guesses {
		if m.GuessResult(g, h) == code {
			ret = append(ret, h)
		}
	}
	return ret
}
