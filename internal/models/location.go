package models

import "strings"

// Coordinate is a WGS84 point reported by the user's device.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies inside the latitude/longitude ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Address component names as returned by the reverse geocoding provider.
const (
	FieldStateDistrict = "state_district"
	FieldCounty        = "county"
	FieldCity          = "city"
	FieldTown          = "town"
	FieldState         = "state"
)

// DistrictFields is the priority order used to pick the district label out of a RawAddress.
// District level fields come first; city and town may name a sub-locality.
var DistrictFields = []string{FieldStateDistrict, FieldCounty, FieldCity, FieldTown}

// RawAddress maps provider address component names to free text. It is untrusted input.
type RawAddress map[string]string

// First returns the first non-empty value among fields, in order.
func (a RawAddress) First(fields []string) string {
	for _, f := range fields {
		if v := strings.TrimSpace(a[f]); v != "" {
			return v
		}
	}
	return ""
}

// State returns the trimmed state component, if any.
func (a RawAddress) State() string {
	return strings.TrimSpace(a[FieldState])
}

// GeocodeResult is a successful reverse geocoding answer.
type GeocodeResult struct {
	Address          RawAddress `json:"address"`
	FormattedAddress string     `json:"formatted_address"`
}

// CanonicalDistrict is a district/state pair taken verbatim from the DistrictCatalog.
type CanonicalDistrict struct {
	District string `json:"district"`
	State    string `json:"state"`
}

// LocationResolution is the outcome of resolving a coordinate to a district.
// Available is true only when Matched is set and the catalog has data for it.
type LocationResolution struct {
	Coordinate       Coordinate         `json:"coordinates"`
	RawDistrictGuess string             `json:"detectedDistrict"`
	RawState         string             `json:"detectedState,omitempty"`
	Matched          *CanonicalDistrict `json:"matched"`
	Available        bool               `json:"available"`
	FormattedAddress string             `json:"formatted_address"`
}
