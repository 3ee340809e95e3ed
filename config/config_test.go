package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	c, err := Read(strings.NewReader(`
max_guesses: 5
priority: [salet, trace]
timeout: 90m
slow_threshold: 250ms
`))
	require.NoError(t, err)
	assert.Equal(t, 5, c.MaxGuesses)
	assert.Equal(t, []string{"salet", "trace"}, c.Priority)
	assert.Equal(t, 90*time.Minute, c.Timeout)
	assert.Equal(t, 250*time.Millisecond, c.SlowThreshold)
	assert.Equal(t, 0, c.CacheCapacity)
	assert.False(t, c.Progress)
}

func TestReadEmpty(t *testing.T) {
	c, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestReadInvalid(t *testing.T) {
	_, err := Read(strings.NewReader("max_guesses: 0\n"))
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Read(strings.NewReader("guesses: 6\n"))
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Read(strings.NewReader("cache_capacity: -2\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestWriteRead(t *testing.T) {
	c := Default()
	c.Priority = []string{"raise"}
	c.CacheCapacity = -1
	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))
	back, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestLoadNoPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
