package geo

// DefaultSimplifyTolerance meters a dropped point may lie away from the simplified line.
const DefaultSimplifyTolerance = 7.0

// PointLinePerpendicularDistance distance in meters from p to the great-circle segment (a,b).
func PointLinePerpendicularDistance(a, b, p Coordinate) float64 {
	dist, _ := DistanceToPolyline(p, []Coordinate{a, b})
	return dist
}

// SimplifyPolyline Douglas-Peucker over an explicit span stack. Both endpoints are always kept,
// every dropped point is within toleranceM of the returned line.
func SimplifyPolyline(coords []Coordinate, toleranceM float64) []Coordinate {
	n := len(coords)
	if n < 3 {
		return coords
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true

	spans := [][2]int{{0, n - 1}}
	for len(spans) > 0 {
		span := spans[len(spans)-1]
		spans = spans[:len(spans)-1]
		first, last := span[0], span[1]

		farthest, farthestDist := -1, toleranceM
		for i := first + 1; i < last; i++ {
			if d := PointLinePerpendicularDistance(coords[first], coords[last], coords[i]); d > farthestDist {
				farthest, farthestDist = i, d
			}
		}
		if farthest < 0 {
			continue
		}
		keep[farthest] = true
		spans = append(spans, [2]int{first, farthest}, [2]int{farthest, last})
	}

	simplified := make([]Coordinate, 0, n)
	for i, k := range keep {
		if k {
			simplified = append(simplified, coords[i])
		}
	}
	return simplified
}
