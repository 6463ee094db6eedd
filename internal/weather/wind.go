package weather

import "math"

var cardinals = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CardinalFromDegrees maps a wind direction in degrees to the nearest of the
// eight cardinal points (45° buckets, nearest-bucket rounding).
func CardinalFromDegrees(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	idx := int(math.Round(deg/45)) % 8
	return cardinals[idx]
}

// MSToKMH converts a wind speed from m/s to km/h, rounded to one decimal.
func MSToKMH(ms float64) float64 {
	return round1(ms * 3.6)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
