// Package breaking flags statistical outliers in a refresh batch as
// breaking news. It is an optional stage; the pipeline behaves identically
// with it disabled, minus the breaking flag.
package breaking

import (
	"log"
	"math"
	"time"

	goiforest "github.com/narumiruna/go-iforest/pkg/iforest"

	"newsdesk/internal/domain"
)

// minBatch is the smallest batch worth fitting a forest on. Below it the
// detector does nothing rather than flag noise.
const minBatch = 8

type Config struct {
	Threshold  float64
	NumTrees   int
	SampleSize int
}

type Detector struct {
	threshold  float64
	numTrees   int
	sampleSize int
	now        func() time.Time
}

func New(cfg Config) *Detector {
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = 0.62
	}
	if cfg.NumTrees <= 0 {
		cfg.NumTrees = 100
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = 128
	}
	return &Detector{
		threshold:  cfg.Threshold,
		numTrees:   cfg.NumTrees,
		sampleSize: cfg.SampleSize,
		now:        time.Now,
	}
}

// WithClock overrides the clock used for item-age features. Tests use it.
func (d *Detector) WithClock(now func() time.Time) *Detector {
	d.now = now
	return d
}

// Mark fits an isolation forest on the batch and sets the breaking flag on
// items whose anomaly score clears the threshold. The batch is its own
// training set; there is no persisted model.
func (d *Detector) Mark(items []domain.Item) {
	if len(items) < minBatch {
		return
	}
	now := d.now()
	samples := make([][]float64, len(items))
	for i := range items {
		samples[i] = features(&items[i], now)
	}

	forest := goiforest.NewWithOptions(goiforest.Options{
		DetectionType: goiforest.DetectionTypeThreshold,
		Threshold:     d.threshold,
		NumTrees:      d.numTrees,
		SampleSize:    d.sampleSize,
	})
	forest.Fit(samples)
	scores := forest.Score(samples)
	if len(scores) != len(items) {
		log.Printf("breaking: score count mismatch: %d vs %d items", len(scores), len(items))
		return
	}

	for i, score := range scores {
		if math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}
		if score >= d.threshold {
			items[i].Breaking = true
		}
	}
}

// features projects an item onto the axes where breaking news separates
// from the steady drip: recency, sentiment extremity, and engagement.
func features(item *domain.Item, now time.Time) []float64 {
	ageMinutes := now.Sub(item.PublishedAt).Minutes()
	if ageMinutes < 0 {
		ageMinutes = 0
	}
	return []float64{
		ageMinutes,
		math.Abs(float64(item.Algo.Score)),
		item.Algo.Confidence,
		math.Log1p(float64(item.Engagement())),
		float64(item.Algo.Relevance),
	}
}
