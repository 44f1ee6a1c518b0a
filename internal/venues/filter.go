// Package venues implements the listing pipeline: facility and price filters
// followed by a stable sort.
package venues

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/robertarktes/holidaze-gateway/internal/domain"
)

// DefaultMaxPrice is the top of the price slider. A bound at or above it does
// not exclude anything; any lower bound, zero included, applies as given.
const DefaultMaxPrice = 1000.0

type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortRating    SortKey = "rating"
)

func ParseSortKey(raw string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(raw))); k {
	case SortPriceLow, SortPriceHigh, SortRating:
		return k
	default:
		return SortDefault
	}
}

type Filters struct {
	Wifi      bool    `json:"wifi"`
	Parking   bool    `json:"parking"`
	Breakfast bool    `json:"breakfast"`
	Pets      bool    `json:"pets"`
	MaxPrice  float64 `json:"maxPrice"`
	SortBy    SortKey `json:"sortBy"`
}

func DefaultFilters() Filters {
	return Filters{MaxPrice: DefaultMaxPrice, SortBy: SortDefault}
}

// ParseFilters reads filters from a query string. Malformed values fall back
// to the defaults.
func ParseFilters(q url.Values) Filters {
	f := DefaultFilters()
	f.Wifi = parseFlag(q.Get("wifi"))
	f.Parking = parseFlag(q.Get("parking"))
	f.Breakfast = parseFlag(q.Get("breakfast"))
	f.Pets = parseFlag(q.Get("pets"))
	if raw := q.Get("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			f.MaxPrice = v
		}
	}
	f.SortBy = ParseSortKey(q.Get("sort"))
	return f
}

func parseFlag(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

func (f Filters) bounded() bool {
	return f.MaxPrice < DefaultMaxPrice
}

// Match reports whether v passes every active predicate.
func (f Filters) Match(v domain.VenueSummary) bool {
	if f.bounded() && v.Price > f.MaxPrice {
		return false
	}
	if f.Wifi && !v.Meta.Wifi {
		return false
	}
	if f.Parking && !v.Meta.Parking {
		return false
	}
	if f.Breakfast && !v.Meta.Breakfast {
		return false
	}
	if f.Pets && !v.Meta.Pets {
		return false
	}
	return true
}

// Filter returns the venues matching f in their original order. The input is
// not modified.
func Filter(list []domain.VenueSummary, f Filters) []domain.VenueSummary {
	out := make([]domain.VenueSummary, 0, len(list))
	for _, v := range list {
		if f.Match(v) {
			out = append(out, v)
		}
	}
	return out
}

// Sort returns a stably sorted copy of list. Equal keys keep their input order.
func Sort(list []domain.VenueSummary, key SortKey) []domain.VenueSummary {
	out := slices.Clone(list)
	if out == nil {
		out = []domain.VenueSummary{}
	}

	var cmp func(a, b domain.VenueSummary) int
	switch key {
	case SortPriceLow:
		cmp = func(a, b domain.VenueSummary) int { return compareFloat(a.Price, b.Price) }
	case SortPriceHigh:
		cmp = func(a, b domain.VenueSummary) int { return compareFloat(b.Price, a.Price) }
	case SortRating:
		cmp = func(a, b domain.VenueSummary) int { return compareFloat(b.Rating, a.Rating) }
	default:
		return out
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func Apply(list []domain.VenueSummary, f Filters) []domain.VenueSummary {
	return Sort(Filter(list, f), f.SortBy)
}

// compareFloat treats NaN as zero.
func compareFloat(a, b float64) int {
	a, b = orZero(a), orZero(b)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
