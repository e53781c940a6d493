package classifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
)

// DefaultThreshold is the confidence cut-off used when none is given.
const DefaultThreshold = 0.5

var ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")

// Client classifies free text into skills.
type Client interface {
	// Classify returns the skills with confidence >= threshold, sorted by
	// confidence descending.
	Classify(ctx context.Context, text string, threshold float64) ([]models.SkillPrediction, error)
}

func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// FilterAndSort drops predictions below threshold and orders the rest by
// confidence descending. Ties keep their input order.
func FilterAndSort(preds []models.SkillPrediction, threshold float64) []models.SkillPrediction {
	out := make([]models.SkillPrediction, 0, len(preds))
	for _, p := range preds {
		if p.Confidence >= threshold {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FallbackClient asks Secondary when Primary fails.
type FallbackClient struct {
	Primary   Client
	Secondary Client
}

func (f FallbackClient) Classify(ctx context.Context, text string, threshold float64) ([]models.SkillPrediction, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	preds, err := f.Primary.Classify(ctx, text, threshold)
	if err == nil {
		return preds, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	log.Printf("⚠️ Classifier unavailable, using fallback: %v", err)
	return f.Secondary.Classify(ctx, text, threshold)
}

// NewServingClient puts cache (when non-nil) in front of primary only and
// falls back to secondary when primary fails, so fallback answers are never
// cached in place of the model's.
func NewServingClient(primary Client, cache Cache, secondary Client) Client {
	if cache != nil {
		primary = NewCachedClient(primary, cache)
	}
	return FallbackClient{Primary: primary, Secondary: secondary}
}
