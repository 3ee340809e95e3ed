// Package config reads the solver settings file.
//
//	max_guesses: 6
//	priority: [salet, trace]
//	timeout: 5h
//	cache_capacity: 0
//	slow_threshold: 3s
//	progress: true
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	MaxGuesses    int           `yaml:"max_guesses"`
	Priority      []string      `yaml:"priority,omitempty"`
	Timeout       time.Duration `yaml:"timeout"`
	CacheCapacity int           `yaml:"cache_capacity"` // 0 is unbounded, -1 disables the cache
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	Progress      bool          `yaml:"progress"`
}

func Default() Config {
	return Config{
		MaxGuesses:    6,
		Timeout:       5 * time.Hour,
		SlowThreshold: 3 * time.Second,
	}
}

// Read overlays the yaml document on the defaults
func Read(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return c, c.Validate()
}

// Load reads the file at path, an empty path is the defaults
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()
	c, err := Read(file)
	if err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.MaxGuesses < 1 {
		return fmt.Errorf("%w: max_guesses %d", ErrInvalid, c.MaxGuesses)
	}
	if c.Timeout < 0 || c.SlowThreshold < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalid)
	}
	if c.CacheCapacity < -1 {
		return fmt.Errorf("%w: cache_capacity %d", ErrInvalid, c.CacheCapacity)
	}
	return nil
}

func (c Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
