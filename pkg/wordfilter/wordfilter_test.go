package wordfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanFindsMatchesCaseInsensitively(t *testing.T) {
	filter := New([]string{"Badger", "snake "})

	matches := filter.Scan("a BADGER met a badger")

	assert.Len(t, matches, 2)
	assert.Equal(t, "badger", matches[0].Word)
	assert.Equal(t, 2, matches[0].Position)
	assert.Equal(t, 15, matches[1].Position)
}

func TestScanCleanText(t *testing.T) {
	filter := New([]string{"badger"})

	assert.Empty(t, filter.Scan("nothing to see here"))
}

func TestNewDropsEmptyWords(t *testing.T) {
	filter := New([]string{"  ", "", "ok"})

	matches := filter.Scan("ok then")
	assert.Len(t, matches, 1)
}

func TestScanMatchesAsSubstring(t *testing.T) {
	filter := New([]string{"bad"})

	matches := filter.Scan("badger")
	assert.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Position)
}
