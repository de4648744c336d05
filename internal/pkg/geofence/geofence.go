package geofence

import (
	"errors"
	"math"
	"net/netip"
)

var (
	ErrInvalidCoordinates = errors.New("invalid latitude or longitude")
	ErrInvalidIPAddress   = errors.New("invalid IP address format")
)

// Office is the reference perimeter a check is performed against.
type Office struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	PublicIP     string
}

// Result reports both sub-checks independently so callers can tell
// "too far away" apart from "wrong network".
type Result struct {
	LocationValid  bool
	WifiValid      bool
	DistanceMeters float64
	Valid          bool
}

// Validate checks an observed position and public IP against the office
// perimeter. It is a pure function of its inputs. Malformed coordinates or a
// non-IPv4/IPv6 literal fail with an error rather than a negative verdict.
func Validate(lat, lon float64, ip string, office Office) (Result, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Result{}, ErrInvalidCoordinates
	}
	if _, err := netip.ParseAddr(ip); err != nil {
		return Result{}, ErrInvalidIPAddress
	}

	distance := HaversineDistance(lat, lon, office.Latitude, office.Longitude)

	// Radius boundary is inclusive. IP match is exact, no CIDR handling.
	locationValid := distance <= float64(office.RadiusMeters)
	wifiValid := ip == office.PublicIP

	return Result{
		LocationValid:  locationValid,
		WifiValid:      wifiValid,
		DistanceMeters: distance,
		Valid:          locationValid && wifiValid,
	}, nil
}

// HaversineDistance returns the great-circle distance between two
// coordinates in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000 // mean Earth radius in meters

	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
