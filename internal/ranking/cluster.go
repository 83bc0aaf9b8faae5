package ranking

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonathan/car-advisor/internal/types"
)

// clusterIterations is the fixed number of assign/update rounds.
const clusterIterations = 10

type point struct {
	x, y float64
}

// Cluster groups cars into at most k clusters by (price, fuel efficiency) using k-means.
//
// With k or fewer cars every car is its own group. Initial centroids are sampled from
// the cars with rng; a nil rng falls back to a time-seeded source. Empty groups are
// dropped and the rest are returned in centroid order.
func Cluster(cars []types.Car, k int, rng *rand.Rand) [][]types.Car {
	if k <= 0 {
		return nil
	}
	if len(cars) <= k {
		groups := make([][]types.Car, 0, len(cars))
		for _, car := range cars {
			groups = append(groups, []types.Car{car})
		}
		return groups
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	points := make([]point, len(cars))
	for i := range cars {
		points[i] = point{x: cars[i].Price / 100000, y: cars[i].FuelEfficiency / 50}
	}

	centroids := make([]point, k)
	for i := range centroids {
		centroids[i] = points[rng.IntN(len(points))]
	}

	assignment := make([]int, len(points))
	for iter := 0; iter < clusterIterations; iter++ {
		assign(points, centroids, assignment)
		updateCentroids(points, centroids, assignment)
	}
	assign(points, centroids, assignment)

	groups := make([][]types.Car, k)
	for i, c := range assignment {
		groups[c] = append(groups[c], cars[i])
	}

	out := make([][]types.Car, 0, k)
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// updateCentroids moves each centroid to the mean of its assigned points.
// A centroid with no points keeps its own previous position.
func updateCentroids(points, centroids []point, assignment []int) {
	sums := make([]point, len(centroids))
	counts := make([]int, len(centroids))
	for i, c := range assignment {
		sums[c].x += points[i].x
		sums[c].y += points[i].y
		counts[c]++
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		centroids[c] = point{x: sums[c].x / float64(counts[c]), y: sums[c].y / float64(counts[c])}
	}
}

// assign sets assignment[i] to the nearest centroid; ties go to the lowest index.
func assign(points, centroids []point, assignment []int) {
	for i, p := range points {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			d := math.Hypot(p.x-centroid.x, p.y-centroid.y)
			if d < bestDist {
				best, bestDist = c, d
			}
		}
		assignment[i] = best
	}
}
