package booking

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// Nights returns the number of billable nights between from and to, rounding
// partial days up. Missing dates and non-positive spans count as zero nights.
func Nights(from, to *time.Time) int {
	if from == nil || to == nil {
		return 0
	}
	span := to.Sub(*from)
	if span <= 0 {
		return 0
	}
	return int(math.Ceil(float64(span) / float64(day)))
}

func TotalPrice(pricePerNight float64, from, to *time.Time) float64 {
	return pricePerNight * float64(Nights(from, to))
}
