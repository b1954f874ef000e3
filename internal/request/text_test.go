package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnumeration(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"web", []string{"web"}},
		{" web, db,,web ", []string{"web", "db"}},
		{",,,", nil},
		{"a,b , c", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEnumeration(tt.input))
		})
	}
}

func TestRemoveSuffixes(t *testing.T) {
	suffixes := []string{".example.com", ".local"}

	assert.Equal(t,
		[]string{"web", "db", "cache.internal", ".local"},
		RemoveSuffixes([]string{"web.example.com", "db.local", "web", "cache.internal", ".local"}, suffixes))
	assert.Nil(t, RemoveSuffixes(nil, suffixes))
	assert.Equal(t, []string{"web.local"}, RemoveSuffixes([]string{"web.local"}, nil))
}
