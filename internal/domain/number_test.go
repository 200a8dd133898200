package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/costsheet/internal/domain"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		ok       bool
	}{
		{name: "plain integer", raw: "42", expected: 42, ok: true},
		{name: "thousands separators", raw: "1,200,000", expected: 1200000, ok: true},
		{name: "surrounding whitespace", raw: "  -3.5 ", expected: -3.5, ok: true},
		{name: "leading plus", raw: "+5", expected: 5, ok: true},
		{name: "exponent", raw: "1e3", expected: 1000, ok: true},
		{name: "currency symbol", raw: "$1,200", expected: 1200, ok: true},
		{name: "trailing unit", raw: "1000 tokens", expected: 1000, ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "whitespace only", raw: "   ", ok: false},
		{name: "letters only", raw: "abc", ok: false},
		{name: "not a number", raw: "NaN", ok: false},
		{name: "infinity", raw: "Inf", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := domain.ParseNumber(tt.raw)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.InDelta(t, tt.expected, v, 1e-9)
			}
		})
	}
}

func TestParseRequestCount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{name: "missing defaults to one", raw: "", expected: 1},
		{name: "unparsable defaults to one", raw: "many", expected: 1},
		{name: "negative clamps to zero", raw: "-5", expected: 0},
		{name: "zero stays zero", raw: "0", expected: 0},
		{name: "grouped value", raw: "1,000", expected: 1000},
		{name: "fractional value", raw: "2.5", expected: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.expected, domain.ParseRequestCount(tt.raw), 1e-12)
		})
	}
}
