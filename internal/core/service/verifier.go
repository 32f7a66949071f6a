package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/ports"
)

const msgNoMetadata = "The image lacks required metadata. Please capture a new photo with your device camera."

// Verifier implements the photo-evidence verification state machine.
//
// Only affirmative contradicting evidence rejects a submission: no metadata
// at all, a stale capture timestamp, or embedded GPS that disagrees with the
// device position beyond tolerance. Every form of "don't know" (extractor
// failure, missing timestamps, missing or unparseable GPS) accepts with the
// needs-review flag set so staff can double-check the report.
type Verifier struct {
	extractor ports.MetadataExtractor
	policy    domain.EvidencePolicy
	now       func() time.Time
	log       zerolog.Logger
}

func NewVerifier(extractor ports.MetadataExtractor, policy domain.EvidencePolicy, log zerolog.Logger) *Verifier {
	return &Verifier{
		extractor: extractor,
		policy:    policy,
		now:       time.Now,
		log:       log,
	}
}

// Verify inspects the stored photo at photoPath against the device-reported
// position and returns a terminal verdict.
func (v *Verifier) Verify(ctx context.Context, photoPath string, device domain.Point) domain.Verdict {
	meta, err := v.extractor.Extract(ctx, photoPath)
	if err != nil {
		v.log.Warn().Err(err).Str("photo", photoPath).Msg("metadata extraction failed, accepting for manual review")
		return domain.AcceptVerdict(true)
	}

	if meta.Empty() {
		return domain.RejectVerdict(domain.RejectNoMetadata, msgNoMetadata)
	}

	needsReview := false

	freshness := v.policy.CheckFreshness(meta.CaptureTimes(), v.now())
	switch freshness.Outcome {
	case domain.FreshnessStale:
		return domain.RejectVerdict(domain.RejectStalePhoto, fmt.Sprintf(
			"Photo is older than %d hours. Please take a new photo.",
			int(v.policy.MaxPhotoAge.Hours()),
		))
	case domain.FreshnessUnknown:
		needsReview = true
	}

	if !meta.HasGPS() {
		return domain.AcceptVerdict(true)
	}

	embedded, ok := meta.Position()
	if !ok {
		// GPS tags are present but do not parse into numbers.
		return domain.AcceptVerdict(true)
	}

	check := v.policy.CheckDistance(&embedded, &device)
	if check.Outcome == domain.DistanceTooFar {
		return domain.RejectVerdict(domain.RejectLocationMismatch, fmt.Sprintf(
			"Photo location (%s) is too far from reported location (%s). Distance: %dm",
			check.Embedded, check.Device, int(check.Meters),
		))
	}

	return domain.AcceptVerdict(needsReview)
}
