package calibration

// EpsilonLadder returns start, start/2, start/4, … down to and including
// the last value not below minimum. A non-positive start or a minimum above
// start yields start alone.
func EpsilonLadder(start, minimum float64) []float64 {
	if start <= 0 || minimum <= 0 || minimum > start {
		return []float64{start}
	}
	var ladder []float64
	for eps := start; eps >= minimum; eps /= 2 {
		ladder = append(ladder, eps)
	}
	return ladder
}
