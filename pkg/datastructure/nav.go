package datastructure

import "github.com/lintang-b-s/streetmap/pkg/geo"

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// 16 byte (128bit)

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func NewCoordinates(lat, lon []float64) []Coordinate {
	coords := make([]Coordinate, len(lat))
	for i := range lat {
		coords[i] = NewCoordinate(lat[i], lon[i])
	}
	return coords
}

func (c Coordinate) ToGeo() geo.Coordinate {
	return geo.NewCoordinate(c.Lat, c.Lon)
}

func NewGeoCoordinates(coords []Coordinate) []geo.Coordinate {
	geoCoords := make([]geo.Coordinate, len(coords))
	for i, c := range coords {
		geoCoords[i] = c.ToGeo()
	}
	return geoCoords
}

func FromGeoCoordinates(coords []geo.Coordinate) []Coordinate {
	res := make([]Coordinate, len(coords))
	for i, c := range coords {
		res[i] = NewCoordinate(c.Lat, c.Lon)
	}
	return res
}
