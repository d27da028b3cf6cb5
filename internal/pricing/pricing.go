// Package pricing derives sale prices from base price, discount percentage
// and an optional offer window. Prices are whole currency units; the same
// functions run at item creation, item update and checkout so that stored
// prices and order snapshots always agree.
package pricing

import "time"

type PriceQuote struct {
	FinalPrice int64 `json:"finalPrice"`
	IsOnOffer  bool  `json:"isOnOffer"`
}

// FinalPrice applies discountPercent to basePrice, rounding half-up to the
// nearest whole unit. A discount of zero (or less) returns basePrice
// untouched.
func FinalPrice(basePrice int64, discountPercent int) int64 {
	if discountPercent <= 0 {
		return basePrice
	}

	if discountPercent >= 100 {
		return 0
	}

	// round(base * (100-d) / 100) in integer arithmetic
	return (basePrice*int64(100-discountPercent) + 50) / 100
}

// IsOnOffer reports whether the discount is currently active. A discount
// with no window is always active; a window bounds it to
// offerStart <= now <= offerEnd.
func IsOnOffer(discountPercent int, offerStart, offerEnd *time.Time, now time.Time) bool {
	if discountPercent <= 0 {
		return false
	}

	if offerStart != nil && offerEnd != nil {
		return !now.Before(*offerStart) && !now.After(*offerEnd)
	}

	return true
}

// Quote prices a single purchasable unit. For plain items this is called
// once with the item's base price; for multi-variant items once per enabled
// variant with that variant's base price. Disabled variants are never
// quoted.
func Quote(basePrice int64, discountPercent int, offerStart, offerEnd *time.Time, now time.Time) PriceQuote {
	return PriceQuote{
		FinalPrice: FinalPrice(basePrice, discountPercent),
		IsOnOffer:  IsOnOffer(discountPercent, offerStart, offerEnd, now),
	}
}
