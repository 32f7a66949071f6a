package geocode

import "testing"

func TestFormatAddress_FullAddress(t *testing.T) {
	a := address{
		HouseNumber: "221B",
		Road:        "Baker Street",
		Suburb:      "Marylebone",
		City:        "London",
		State:       "England",
		Country:     "United Kingdom",
		Postcode:    "NW1 6XE",
	}

	got := formatAddress(a, "ignored display name")
	want := "221B Baker Street, Marylebone, London, England, United Kingdom, NW1 6XE"
	if got != want {
		t.Fatalf("formatAddress = %q, want %q", got, want)
	}
}

func TestFormatAddress_Precedence(t *testing.T) {
	cases := []struct {
		name string
		a    address
		want string
	}{
		{
			"road without house number",
			address{Road: "Baker Street", City: "London"},
			"Baker Street, London",
		},
		{
			"pedestrian way when no road",
			address{Pedestrian: "Market Square", Town: "Salisbury"},
			"Market Square, Salisbury",
		},
		{
			"neighbourhood only when no suburb",
			address{Road: "High St", Suburb: "Soho", Neighbourhood: "ignored", City: "London"},
			"High St, Soho, London",
		},
		{
			"village as settlement fallback",
			address{Road: "Main St", Village: "Grasmere"},
			"Main St, Grasmere",
		},
		{
			"town loses to city",
			address{City: "Leeds", Town: "ignored"},
			"Leeds",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatAddress(tc.a, ""); got != tc.want {
				t.Fatalf("formatAddress = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatAddress_DisplayNameFallback(t *testing.T) {
	got := formatAddress(address{}, "Somewhere, Earth")
	if got != "Somewhere, Earth" {
		t.Fatalf("formatAddress = %q, want display name fallback", got)
	}
}

func TestFormatAddress_UnavailableSentinel(t *testing.T) {
	if got := formatAddress(address{}, ""); got != AddressUnavailable {
		t.Fatalf("formatAddress = %q, want %q", got, AddressUnavailable)
	}
}

func TestIsSentinel(t *testing.T) {
	for _, s := range []string{AddressPending, NoDetails, AddressUnavailable} {
		if !IsSentinel(s) {
			t.Fatalf("IsSentinel(%q) = false", s)
		}
	}
	if IsSentinel("221B Baker Street, London") {
		t.Fatalf("real address flagged as sentinel")
	}
}
