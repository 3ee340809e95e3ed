package wordle

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/powellquiring/hardwordle/outcome"
)

// Step is one guess and the result it got
type Step struct {
	Guess  outcome.GuessIndex
	Result outcome.ResultCode
}

// History is a line of play, guess, result, guess, result, ...
type History []Step

// Key is the canonical map key of the history, "" for the empty history
func (h History) Key() string {
	var b strings.Builder
	for i, step := range h {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(strconv.Itoa(int(step.Guess)))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(step.Result)))
	}
	return b.String()
}

// Append returns a new history, h is not modified
func (h History) Append(g outcome.GuessIndex, r outcome.ResultCode) History {
	ret := make(History, len(h), len(h)+1)
	copy(ret, h)
	return append(ret, Step{Guess: g, Result: r})
}

func (h History) String(m *outcome.Matrix) string {
	parts := make([]string, 0, len(h))
	for _, step := range h {
		parts = append(parts, m.GuessString(step.Guess)+" "+m.Pattern(step.Result))
	}
	return strings.Join(parts, ", ")
}

func compareHistory(a, b History) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	for i := range a {
		if a[i].Guess != b[i].Guess {
			return int(a[i].Guess) - int(b[i].Guess)
		}
		if a[i].Result != b[i].Result {
			return int(a[i].Result) - int(b[i].Result)
		}
	}
	return 0
}

// Move is the next guess and the cost of finding every remaining word from
// this point on, that guess included
type Move struct {
	Guess outcome.GuessIndex
	Cost  Cost
}

type Node struct {
	History History
	Move    Move
}

// Tree is the decision tree, fields are exported for gob
type Tree struct {
	Nodes map[string]Node
}

func NewTree() *Tree {
	return &Tree{Nodes: make(map[string]Node)}
}

func (t *Tree) Set(h History, move Move) {
	t.Nodes[h.Key()] = Node{History: slices.Clone(h), Move: move}
}

func (t *Tree) Lookup(h History) (Move, bool) {
	node, ok := t.Nodes[h.Key()]
	return node.Move, ok
}

// Root is the first guess and the total cost
func (t *Tree) Root() (Move, bool) {
	return t.Lookup(nil)
}

func (t *Tree) Len() int {
	return len(t.Nodes)
}

// Walk visits the nodes shortest history first, then by guess and result
func (t *Tree) Walk(yield func(node Node) bool) {
	nodes := make([]Node, 0, len(t.Nodes))
	for _, node := range t.Nodes {
		nodes = append(nodes, node)
	}
	slices.SortFunc(nodes, func(a, b Node) int {
		return compareHistory(a.History, b.History)
	})
	for _, node := range nodes {
		if !yield(node) {
			return
		}
	}
}

// Filter keeps the non-empty histories starting with guess g
func (t *Tree) Filter(g outcome.GuessIndex) *Tree {
	ret := NewTree()
	for key, node := range t.Nodes {
		if len(node.History) > 0 && node.History[0].Guess == g {
			ret.Nodes[key] = node
		}
	}
	return ret
}

func (t *Tree) Save(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("encoding tree: %w", err)
	}
	return nil
}

func LoadTree(r io.Reader) (*Tree, error) {
	t := NewTree()
	if err := gob.NewDecoder(r).Decode(t); err != nil {
		return nil, fmt.Errorf("decoding tree: %w", err)
	}
	return t, nil
}

func (t *Tree) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if err := t.Save(w); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func LoadTreeFile(path string) (*Tree, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadTree(bufio.NewReader(file))
}

type jsonStep struct {
	Guess  string `json:"guess"`
	Result string `json:"result"`
}

type jsonNode struct {
	History []jsonStep `json:"history"`
	Guess   string     `json:"guess,omitempty"`
	Cost    Cost       `json:"cost"`
}

// WriteJSON writes the nodes in Walk order with words and color strings
func (t *Tree) WriteJSON(w io.Writer, m *outcome.Matrix) error {
	nodes := []jsonNode{}
	for node := range t.Walk {
		jn := jsonNode{History: []jsonStep{}, Cost: node.Move.Cost}
		if node.Move.Guess != outcome.NoGuess {
			jn.Guess = m.GuessString(node.Move.Guess)
		}
		for _, step := range node.History {
			jn.History = append(jn.History, jsonStep{Guess: m.GuessString(step.Guess), Result: m.Pattern(step.Result)})
		}
		nodes = append(nodes, jn)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(nodes)
}
