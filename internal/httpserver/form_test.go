package httpserver //nolint:testpackage // Need access to unexported parseBracketForm function

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBracketForm(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		expected map[string]any
	}{
		{
			name:     "plain keys",
			encoded:  "model=gpt-x&request_count=10",
			expected: map[string]any{"model": "gpt-x", "request_count": "10"},
		},
		{
			name:    "nested catalog fields",
			encoded: "meta[usd_to_jpy]=150&models[0][id]=gpt-x&models[0][pricing][1][id]=tokens&models[0][pricing][1][optional]=1",
			expected: map[string]any{
				"meta": map[string]any{"usd_to_jpy": "150"},
				"models": map[string]any{
					"0": map[string]any{
						"id": "gpt-x",
						"pricing": map[string]any{
							"1": map[string]any{"id": "tokens", "optional": "1"},
						},
					},
				},
			},
		},
		{
			name:     "last value wins",
			encoded:  "usage[tokens]=1&usage[tokens]=2",
			expected: map[string]any{"usage": map[string]any{"tokens": "2"}},
		},
		{
			name:     "empty brackets append",
			encoded:  "tags[]=a&tags[]=b",
			expected: map[string]any{"tags": map[string]any{"0": "a", "1": "b"}},
		},
		{
			name:     "unbalanced brackets stay literal",
			encoded:  "usage[tokens=5",
			expected: map[string]any{"usage[tokens": "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.encoded)
			require.NoError(t, err)
			require.Equal(t, tt.expected, parseBracketForm(values))
		})
	}
}
