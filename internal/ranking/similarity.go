package ranking

import "math"

// CosineSimilarity returns dot(u,v) / (|u|*|v|), or 0 when either vector has zero magnitude.
func CosineSimilarity(u, v Vector) float64 {
	var dot, uu, vv float64
	for i := range u {
		dot += u[i] * v[i]
		uu += u[i] * u[i]
		vv += v[i] * v[i]
	}
	denom := math.Sqrt(uu) * math.Sqrt(vv)
	if denom == 0 {
		return 0
	}
	return dot / denom
}
