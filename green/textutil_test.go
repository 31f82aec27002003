package green

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "one two three", TruncateWords("one two three four", 3))
	assert.Equal(t, "one two", TruncateWords("one   two", 5))
	assert.Equal(t, "untouched  spacing", TruncateWords("untouched  spacing", 0))
}

func TestTruncateAllWords(t *testing.T) {
	out := TruncateAllWords([]string{"a b c", "d"}, 2)
	assert.Equal(t, []string{"a b", "d"}, out)
}
