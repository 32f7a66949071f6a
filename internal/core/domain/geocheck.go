package domain

import "time"

// EvidencePolicy holds the tunable thresholds for geo-consistency and
// freshness checks. Both values are policy, not law: deployments adjust them
// through configuration.
type EvidencePolicy struct {
	// MaxDistanceMeters is the largest tolerated gap between the embedded
	// photo position and the device-reported position.
	MaxDistanceMeters float64
	// MaxPhotoAge is the freshness window measured against the most recent
	// capture timestamp.
	MaxPhotoAge time.Duration
}

// DefaultEvidencePolicy returns the documented defaults: 1000 m and 48 h.
func DefaultEvidencePolicy() EvidencePolicy {
	return EvidencePolicy{
		MaxDistanceMeters: 1000,
		MaxPhotoAge:       48 * time.Hour,
	}
}

// DistanceOutcome classifies the embedded-vs-device position comparison.
type DistanceOutcome string

const (
	DistanceConsistent    DistanceOutcome = "consistent"
	DistanceTooFar        DistanceOutcome = "too_far"
	DistanceIndeterminate DistanceOutcome = "indeterminate"
)

// DistanceCheck is the result of comparing two coordinate pairs.
type DistanceCheck struct {
	Outcome DistanceOutcome
	// Meters is the computed great-circle distance; only meaningful when
	// Outcome is not DistanceIndeterminate.
	Meters   float64
	Embedded Point
	Device   Point
}

// CheckDistance compares the embedded photo position against the
// device-reported one. A nil pair (missing or unparseable) yields
// DistanceIndeterminate.
func (p EvidencePolicy) CheckDistance(embedded, device *Point) DistanceCheck {
	if embedded == nil || device == nil {
		return DistanceCheck{Outcome: DistanceIndeterminate}
	}

	meters := embedded.DistanceMeters(*device)
	check := DistanceCheck{
		Outcome:  DistanceConsistent,
		Meters:   meters,
		Embedded: *embedded,
		Device:   *device,
	}
	if meters > p.MaxDistanceMeters {
		check.Outcome = DistanceTooFar
	}
	return check
}

// FreshnessOutcome classifies the capture-time check.
type FreshnessOutcome string

const (
	FreshnessFresh FreshnessOutcome = "fresh"
	FreshnessStale FreshnessOutcome = "stale"
	// FreshnessUnknown means no parseable capture timestamp was available.
	// Distinct from stale: absence of evidence is not evidence of age.
	FreshnessUnknown FreshnessOutcome = "unknown"
)

// FreshnessCheck is the result of comparing capture timestamps against now.
type FreshnessCheck struct {
	Outcome FreshnessOutcome
	// Age is measured from the most recent capture timestamp; only
	// meaningful when Outcome is not FreshnessUnknown.
	Age time.Duration
}

// CheckFreshness evaluates the most recent of the given capture instants
// against now.
func (p EvidencePolicy) CheckFreshness(captures []time.Time, now time.Time) FreshnessCheck {
	if len(captures) == 0 {
		return FreshnessCheck{Outcome: FreshnessUnknown}
	}

	mostRecent := captures[0]
	for _, t := range captures[1:] {
		if t.After(mostRecent) {
			mostRecent = t
		}
	}

	age := now.Sub(mostRecent)
	if age > p.MaxPhotoAge {
		return FreshnessCheck{Outcome: FreshnessStale, Age: age}
	}
	return FreshnessCheck{Outcome: FreshnessFresh, Age: age}
}
