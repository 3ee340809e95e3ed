package outcome

import (
	"errors"
	"strings"
)

var (
	ErrWordLength  = errors.New("word length")
	ErrWordChar    = errors.New("word char")
	ErrUnknownWord = errors.New("word not in dictionary")
	ErrBadResult   = errors.New("result not in g,y,r format")
	ErrMatrix      = errors.New("malformed matrix")
)

// WordIndex is an index into the answer dictionary
type WordIndex int32

// GuessIndex is an index into the guess dictionary
type GuessIndex int32

// NoGuess is the absent guess
const NoGuess GuessIndex = -1

// ResultCode encodes the colors of one guess against one secret as a base 3
// number, first letter most significant, green=0 yellow=1 gray=2.
type ResultCode uint16

// Exact is the all green result, the guess was the secret.
const Exact ResultCode = 0

type Color uint8

const (
	Green Color = iota
	Yellow
	Gray
)

// MaxLength is the longest word whose result codes fit a ResultCode
const MaxLength = 10

// NumResults is the number of result codes for words of length n
func NumResults(n int) int {
	ret := 1
	for range n {
		ret *= 3
	}
	return ret
}

// ValidateWord checks the word is lowercase a-z of length n, n at most MaxLength
func ValidateWord(word string, n int) error {
	if n > MaxLength || len(word) != n {
		return ErrWordLength
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return ErrWordChar
		}
	}
	return nil
}

// Score returns the result of guessing guess when the secret is secret.
// Both must be validated words of the same length.
func Score(guess, secret string) ResultCode {
	n := len(guess)
	colors := make([]Color, n)
	solutionNotGreenCount := [26]int{}
	for i := 0; i < n; i++ {
		if guess[i] == secret[i] {
			colors[i] = Green
		} else {
			colors[i] = Gray
			solutionNotGreenCount[secret[i]-'a']++
		}
	}
	// turn the gray to yellow if in the secret but not green
	for i := 0; i < n; i++ {
		if colors[i] == Gray && solutionNotGreenCount[guess[i]-'a'] > 0 {
			colors[i] = Yellow
			solutionNotGreenCount[guess[i]-'a']--
		}
	}
	ret := ResultCode(0)
	for _, color := range colors {
		ret = ret*3 + ResultCode(color)
	}
	return ret
}

// ParseResult parses colors like ggryy, n is the word length
func ParseResult(colors string, n int) (ResultCode, error) {
	if len(colors) != n {
		return 0, ErrBadResult
	}
	ret := ResultCode(0)
	for _, color := range strings.ToLower(colors) {
		ret *= 3
		switch color {
		case 'g':
			ret += ResultCode(Green)
		case 'y':
			ret += ResultCode(Yellow)
		case 'r', '_', '-':
			ret += ResultCode(Gray)
		default:
			return 0, ErrBadResult
		}
	}
	return ret, nil
}

// Format is the inverse of ParseResult
func (r ResultCode) Format(n int) string {
	b := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		switch Color(r % 3) {
		case Green:
			b[i] = 'g'
		case Yellow:
			b[i] = 'y'
		default:
			b[i] = 'r'
		}
		r /= 3
	}
	return string(b)
}
