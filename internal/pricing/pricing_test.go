package pricing_test

import (
	"testing"
	"time"

	"github.com/gamedistrict/storefront/internal/pricing"
	"github.com/stretchr/testify/assert"
)

func TestFinalPrice(t *testing.T) {

	tests := []struct {
		name            string
		basePrice       int64
		discountPercent int
		want            int64
	}{
		{"no discount returns base", 2500, 0, 2500},
		{"negative discount returns base", 2500, -10, 2500},
		{"full discount is free", 2500, 100, 0},
		{"over full discount is free", 2500, 150, 0},
		{"exact division", 200, 50, 100},
		{"rounds half up", 199, 15, 169},  // 169.15 -> 169
		{"rounds half up at .5", 50, 25, 38}, // 37.5 -> 38
		{"one percent off small price", 99, 1, 98}, // 98.01 -> 98
		{"zero base stays zero", 0, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.FinalPrice(tt.basePrice, tt.discountPercent))
		})
	}
}

func TestFinalPriceNeverNegative(t *testing.T) {
	for d := 0; d <= 100; d += 5 {
		got := pricing.FinalPrice(1, d)
		assert.GreaterOrEqual(t, got, int64(0), "discount %d", d)
		assert.LessOrEqual(t, got, int64(1), "discount %d", d)
	}
}

func TestIsOnOffer(t *testing.T) {

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	t.Run("no discount is never on offer", func(t *testing.T) {
		assert.False(t, pricing.IsOnOffer(0, &before, &after, now))
	})

	t.Run("discount without window is always on offer", func(t *testing.T) {
		assert.True(t, pricing.IsOnOffer(20, nil, nil, now))
	})

	t.Run("inside window", func(t *testing.T) {
		assert.True(t, pricing.IsOnOffer(20, &before, &after, now))
	})

	t.Run("window boundaries are inclusive", func(t *testing.T) {
		assert.True(t, pricing.IsOnOffer(20, &now, &after, now))
		assert.True(t, pricing.IsOnOffer(20, &before, &now, now))
	})

	t.Run("before window", func(t *testing.T) {
		start := now.Add(time.Hour)
		assert.False(t, pricing.IsOnOffer(20, &start, &after, now))
	})

	t.Run("after window", func(t *testing.T) {
		end := now.Add(-time.Hour)
		assert.False(t, pricing.IsOnOffer(20, &before, &end, now))
	})
}

func TestQuote(t *testing.T) {

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	quote := pricing.Quote(1000, 30, &start, &end, now)

	assert.Equal(t, int64(700), quote.FinalPrice)
	assert.True(t, quote.IsOnOffer)

	expired := pricing.Quote(1000, 30, &start, &start, now)
	assert.Equal(t, int64(700), expired.FinalPrice, "final price ignores the window")
	assert.False(t, expired.IsOnOffer)
}
