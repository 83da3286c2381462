package geo

import "math"

const (
	earthRadiusKM = 6371.0
	earthRadiusM  = 6371007

	// radius used by the equirectangular approximation of street lengths.
	EARTH_RADIUS_IN_METERS = 6372797.560856
	DEG_TO_RAD             = math.Pi / 180.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func radiansToDegree(angle float64) float64 {
	return angle * (180.0 / math.Pi)
}

// very slow
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = degreeToRadians(latOne)
	longOne = degreeToRadians(longOne)
	latTwo = degreeToRadians(latTwo)
	longTwo = degreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// EquirectangularDistance distance in meters with pythagoras on an equirectangular projection
// centered at the average latitude of the two points.
func EquirectangularDistance(latOne, lonOne, latTwo, lonTwo float64) float64 {
	avgLat := (latOne + latTwo) / 2 * DEG_TO_RAD

	x1 := lonOne * math.Cos(avgLat) * DEG_TO_RAD
	y1 := latOne * DEG_TO_RAD

	x2 := lonTwo * math.Cos(avgLat) * DEG_TO_RAD
	y2 := latTwo * DEG_TO_RAD

	return EARTH_RADIUS_IN_METERS * math.Sqrt((y2-y1)*(y2-y1)+(x2-x1)*(x2-x1))
}

// ProjectToPlane x,y (radians) of lat,lon on the equirectangular plane scaled at refLat.
func ProjectToPlane(lat, lon, refLat float64) (float64, float64) {
	return lon * math.Cos(refLat*DEG_TO_RAD) * DEG_TO_RAD, lat * DEG_TO_RAD
}

// BearingTo initial bearing in degrees [-180, 180] from point 1 to point 2.
func BearingTo(lat1, lon1, lat2, lon2 float64) float64 {
	lat1 = degreeToRadians(lat1)
	lat2 = degreeToRadians(lat2)
	deltaLon := degreeToRadians(lon2 - lon1)

	y := math.Sin(deltaLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(deltaLon)
	return radiansToDegree(math.Atan2(y, x))
}

// GetDestinationPoint point at distKm from lat,lon along bearing (degrees).
func GetDestinationPoint(lat, lon, bearing, distKm float64) (float64, float64) {
	latRad := degreeToRadians(lat)
	lonRad := degreeToRadians(lon)
	bearingRad := degreeToRadians(bearing)
	angular := distKm / earthRadiusKM

	destLat := math.Asin(math.Sin(latRad)*math.Cos(angular) +
		math.Cos(latRad)*math.Sin(angular)*math.Cos(bearingRad))
	destLon := lonRad + math.Atan2(math.Sin(bearingRad)*math.Sin(angular)*math.Cos(latRad),
		math.Cos(angular)-math.Sin(latRad)*math.Sin(destLat))

	return radiansToDegree(destLat), radiansToDegree(destLon)
}
