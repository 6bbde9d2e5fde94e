package signals

import "math"

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev is the n-1 standard deviation; 0 for fewer than two values.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return math.Sqrt(sumSquaredDev(xs) / float64(len(xs)-1))
}

// popStdDev is the n standard deviation; 0 for an empty slice.
func popStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return math.Sqrt(sumSquaredDev(xs) / float64(len(xs)))
}

func sumSquaredDev(xs []float64) float64 {
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return ss
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
