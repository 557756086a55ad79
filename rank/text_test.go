package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "lowercases and splits",
			input:    "Red Cotton T-Shirt",
			expected: []string{"red", "cotton", "t", "shirt"},
		},
		{
			name:     "removes stop words",
			input:    "a jacket for the winter",
			expected: []string{"jacket", "winter"},
		},
		{
			name:     "punctuation acts as separator",
			input:    "light,cotton;shirt",
			expected: []string{"light", "cotton", "shirt"},
		},
		{
			name:     "digits survive",
			input:    "model 2002 shoes",
			expected: []string{"model", "2002", "shoes"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
		{
			name:     "stop words only",
			input:    "the a an of",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokens(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "red cotton t shirt", Normalize("Red Cotton T-Shirt"))
	assert.Equal(t, "", Normalize("the a an"))

	t.Run("idempotent", func(t *testing.T) {
		once := Normalize("A Light, Cotton Shirt!")
		assert.Equal(t, once, Normalize(once))
	})
}
