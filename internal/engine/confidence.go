package engine

import (
	"time"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// blendConfidence combines detection quality with candidate strength,
// richness, and recency into the confidence reported to the caller.
//
//	base: half the field's detection confidence plus a floor of 30
//	best candidate score >= 80 -> +15, >= 60 -> +10
//	>= 3 candidates scoring >= 60 -> +10, exactly 2 -> +5
//	winning record younger than the recency window -> +5
func (e *Engine) blendConfidence(f *model.DetectedField, cands []model.Candidate) int {
	conf := 30 + f.Confidence/2

	if len(cands) > 0 {
		switch best := cands[0].Score; {
		case best >= 80:
			conf += 15
		case best >= 60:
			conf += 10
		}

		good := 0
		for _, c := range cands {
			if c.Score >= 60 {
				good++
			}
		}
		switch {
		case good >= 3:
			conf += 10
		case good == 2:
			conf += 5
		}

		if !cands[0].CreatedAt.IsZero() && time.Since(cands[0].CreatedAt) <= e.cfg.RecencyWindow {
			conf += 5
		}
	}

	return clamp(conf)
}
