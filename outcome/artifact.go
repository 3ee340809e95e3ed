package outcome

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"strings"
)

// Save writes the matrix bundle with gob
func (m *Matrix) Save(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("encoding matrix: %w", err)
	}
	return nil
}

// Load reads a bundle written by Save
func Load(r io.Reader) (*Matrix, error) {
	var m Matrix
	if err := gob.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding matrix: %w", err)
	}
	if err := m.index(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Matrix) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if err := m.Save(w); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func LoadFile(path string) (*Matrix, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Load(bufio.NewReader(file))
}

// ReadWords reads one word per line. Words are lowercased, blank lines are
// skipped and every word must have the length of the first one.
func ReadWords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	words := []string{}
	length := 0
	for line := 1; scanner.Scan(); line++ {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		if length == 0 {
			length = len(word)
		}
		if err := ValidateWord(word, length); err != nil {
			return nil, fmt.Errorf("line %d %q: %w", line, word, err)
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	words, err := ReadWords(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}
