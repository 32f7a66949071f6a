package geocode

import "strings"

// Sentinel address values. Geocoding failure degrades, it never blocks a
// submission, so callers always receive one of these or a real address.
const (
	// AddressPending is returned for transport errors, timeouts, non-200
	// responses, and rate-limit refusals.
	AddressPending = "Address lookup pending"
	// NoDetails is returned when the service answered but carried no
	// address object for the coordinates.
	NoDetails = "Location details not available"
	// AddressUnavailable is returned when the address object had no
	// recognised fields and no free-text display name.
	AddressUnavailable = "Address not available"
)

// IsSentinel reports whether addr is a placeholder rather than a resolved
// address.
func IsSentinel(addr string) bool {
	return addr == AddressPending || addr == NoDetails || addr == AddressUnavailable
}

// address mirrors the address sub-object of a Nominatim reverse response.
type address struct {
	HouseNumber   string `json:"house_number"`
	Road          string `json:"road"`
	Pedestrian    string `json:"pedestrian"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	State         string `json:"state"`
	Country       string `json:"country"`
	Postcode      string `json:"postcode"`
}

// formatAddress composes a display string by field precedence: primary line,
// locality, settlement, region, country, postal code. When no recognised
// field is present it falls back to the free-text display name, then to the
// unavailable sentinel.
func formatAddress(a address, displayName string) string {
	var parts []string

	switch {
	case a.HouseNumber != "" && a.Road != "":
		parts = append(parts, a.HouseNumber+" "+a.Road)
	case a.Road != "":
		parts = append(parts, a.Road)
	case a.Pedestrian != "":
		parts = append(parts, a.Pedestrian)
	}

	switch {
	case a.Suburb != "":
		parts = append(parts, a.Suburb)
	case a.Neighbourhood != "":
		parts = append(parts, a.Neighbourhood)
	}

	switch {
	case a.City != "":
		parts = append(parts, a.City)
	case a.Town != "":
		parts = append(parts, a.Town)
	case a.Village != "":
		parts = append(parts, a.Village)
	}

	if a.State != "" {
		parts = append(parts, a.State)
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	if a.Postcode != "" {
		parts = append(parts, a.Postcode)
	}

	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	if displayName != "" {
		return displayName
	}
	return AddressUnavailable
}
