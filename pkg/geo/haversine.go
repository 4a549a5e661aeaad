package geo

import "math"

// Earth mean radius in kilometers.
const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two
// latitude/longitude pairs using the haversine formula.
//
// This is the single distance implementation shared by the visit state
// machine (travel distance) and the report builder (station proximity).
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
