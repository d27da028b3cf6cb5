package utils_test

import (
	"testing"

	"github.com/gamedistrict/storefront/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple name", input: "Space Saga", expected: "space-saga"},
		{name: "punctuation collapses", input: "FIFA 24: Ultimate Edition!", expected: "fifa-24-ultimate-edition"},
		{name: "surrounding whitespace", input: "  Pro Controller  ", expected: "pro-controller"},
		{name: "repeated separators", input: "one --- two", expected: "one-two"},
		{name: "already a slug", input: "already-a-slug", expected: "already-a-slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, utils.Slugify(tt.input))
		})
	}
}
