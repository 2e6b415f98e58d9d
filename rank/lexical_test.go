package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"same", "same", 0},
		{"screenshto", "screenshot", 2},
		{"kitten", "sitting", 3},
		{"browse", "browser", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "levenshtein(%q, %q)", tt.a, tt.b)
	}
}

func TestTrigramSimilarity(t *testing.T) {
	t.Run("identical strings", func(t *testing.T) {
		assert.Equal(t, 1.0, trigramSimilarity("screenshot", "screenshot"))
	})

	t.Run("transposed suffix", func(t *testing.T) {
		// 6 shared trigrams out of a union of 10
		assert.InDelta(t, 0.6, trigramSimilarity("screenshto", "screenshot"), 1e-9)
	})

	t.Run("disjoint strings", func(t *testing.T) {
		assert.Equal(t, 0.0, trigramSimilarity("abc", "xyz"))
	})

	t.Run("too short", func(t *testing.T) {
		assert.Equal(t, 0.0, trigramSimilarity("ab", "abc"))
	})
}

func TestQueryBigrams(t *testing.T) {
	assert.Nil(t, queryBigrams(nil))
	assert.Nil(t, queryBigrams([]string{"single"}))
	assert.Equal(t, []string{"verify the", "the fix"}, queryBigrams([]string{"verify", "the", "fix"}))
}

func TestBestFuzzy(t *testing.T) {
	s := &lexicalStrategy{tun: DefaultTunables()}

	t.Run("finds closest candidate", func(t *testing.T) {
		target, dist, ok := s.bestFuzzy("screenshto", []string{"capture", "screenshot"})
		assert.True(t, ok)
		assert.Equal(t, "screenshot", target)
		assert.Equal(t, 2, dist)
	})

	t.Run("exact matches do not count", func(t *testing.T) {
		_, _, ok := s.bestFuzzy("verify", []string{"verify"})
		assert.False(t, ok)
	})

	t.Run("distance limit", func(t *testing.T) {
		_, _, ok := s.bestFuzzy("verify", []string{"navigate"})
		assert.False(t, ok)
	})

	t.Run("length ratio limit", func(t *testing.T) {
		// distance 2 on a four-letter token reaches the 0.4 ratio cutoff
		_, _, ok := s.bestFuzzy("gaps", []string{"gbbs"})
		assert.False(t, ok)
	})
}
