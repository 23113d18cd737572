package analytics

import (
	"fmt"
	"time"

	"github.com/tubelens/tubelens/internal/models"
)

// ViralViewsPerHour is the fixed views-per-hour rate above which a
// snapshot interval counts as a viral moment.
const ViralViewsPerHour = 10000.0

// Synthetic history scaling: fractions of the live counters at fixed
// offsets before now. Used only when no tracked history exists for an
// entity; see SyntheticSeries.
var syntheticStages = []struct {
	fraction float64
	offset   time.Duration
}{
	{0.3, -14 * 24 * time.Hour},
	{0.6, -7 * 24 * time.Hour},
	{1.0, 0},
}

// Series is an ordered sequence of snapshots for one entity, earliest
// first. Operations requiring comparison report ok=false on series
// shorter than two points instead of failing.
type Series []models.Snapshot

// GrowthRate summarizes growth between the first and last snapshot of a
// series, normalized per day.
type GrowthRate struct {
	Days             int     `json:"days"`
	ViewGrowthPct    float64 `json:"view_growth_pct"`
	LikeGrowthPct    float64 `json:"like_growth_pct"`
	ViewGrowthPerDay float64 `json:"view_growth_pct_per_day"`
	LikeGrowthPerDay float64 `json:"like_growth_pct_per_day"`
	ViewsPerDay      float64 `json:"views_per_day"`
	LikesPerDay      float64 `json:"likes_per_day"`
}

// ViralMoment is a snapshot interval whose views-per-hour rate exceeded
// the viral threshold.
type ViralMoment struct {
	Timestamp    time.Time `json:"timestamp"`
	ViewsPerHour float64   `json:"views_per_hour"`
	TotalViews   uint64    `json:"total_views"`
}

// ForecastPoint is one day of a linear view-count projection.
type ForecastPoint struct {
	Day            int     `json:"day"`
	PredictedViews float64 `json:"predicted_views"`
}

// StageComparison reports the signed counter deltas between the first and
// last snapshot of a series, with a human label for the elapsed span.
type StageComparison struct {
	First         models.Snapshot `json:"first"`
	Last          models.Snapshot `json:"last"`
	ViewsDelta    int64           `json:"views_delta"`
	LikesDelta    int64           `json:"likes_delta"`
	CommentsDelta int64           `json:"comments_delta"`
	Span          string          `json:"span"`
}

// SyntheticSeries fabricates a three-point history from a single live
// snapshot by scaling its counters by fixed fractions at fixed offsets.
// This is a fallback for entities without tracked history; the resulting
// series is never persisted.
func SyntheticSeries(live models.Snapshot, now time.Time) Series {
	series := make(Series, 0, len(syntheticStages))
	for _, stage := range syntheticStages {
		series = append(series, models.Snapshot{
			ID:        fmt.Sprintf("%s-synthetic-%d", live.EntityID, len(series)),
			EntityID:  live.EntityID,
			Views:     uint64(float64(live.Views) * stage.fraction),
			Likes:     uint64(float64(live.Likes) * stage.fraction),
			Comments:  uint64(float64(live.Comments) * stage.fraction),
			Timestamp: now.Add(stage.offset),
			Source:    "synthetic",
		})
	}
	return series
}

// GrowthRate computes per-day growth between the first and last snapshot.
// Zero-day spans are clamped to one day. ok is false on series shorter
// than two points.
func (s Series) GrowthRate() (GrowthRate, bool) {
	if len(s) < 2 {
		return GrowthRate{}, false
	}

	first, last := s[0], s[len(s)-1]

	days := int(last.Timestamp.Sub(first.Timestamp).Hours() / 24)
	if days < 1 {
		days = 1
	}

	viewBase := float64(maxU64(first.Views, 1))
	likeBase := float64(maxU64(first.Likes, 1))
	viewGrowth := (float64(last.Views) - viewBase) / viewBase * 100
	likeGrowth := (float64(last.Likes) - likeBase) / likeBase * 100

	return GrowthRate{
		Days:             days,
		ViewGrowthPct:    viewGrowth,
		LikeGrowthPct:    likeGrowth,
		ViewGrowthPerDay: viewGrowth / float64(days),
		LikeGrowthPerDay: likeGrowth / float64(days),
		ViewsPerDay:      (float64(last.Views) - float64(first.Views)) / float64(days),
		LikesPerDay:      (float64(last.Likes) - float64(first.Likes)) / float64(days),
	}, true
}

// ViralMoments scans consecutive snapshot pairs and flags those whose
// views-per-hour rate exceeds threshold, in chronological order. Pairs
// with non-positive elapsed time are skipped, not counted as zero-rate.
func (s Series) ViralMoments(threshold float64) []ViralMoment {
	var moments []ViralMoment
	for i := 1; i < len(s); i++ {
		prev, curr := s[i-1], s[i]

		hours := curr.Timestamp.Sub(prev.Timestamp).Hours()
		if hours <= 0 {
			continue
		}

		viewsPerHour := (float64(curr.Views) - float64(prev.Views)) / hours
		if viewsPerHour > threshold {
			moments = append(moments, ViralMoment{
				Timestamp:    curr.Timestamp,
				ViewsPerHour: viewsPerHour,
				TotalViews:   curr.Views,
			})
		}
	}
	return moments
}

// Forecast projects view counts daysAhead days forward by naive linear
// extrapolation of the series' daily view delta. Predictions are
// unbounded and may go negative on a decline trend. ok is false on
// series shorter than two points.
func (s Series) Forecast(daysAhead int) ([]ForecastPoint, bool) {
	growth, ok := s.GrowthRate()
	if !ok {
		return nil, false
	}

	last := s[len(s)-1]
	points := make([]ForecastPoint, 0, daysAhead)
	for d := 1; d <= daysAhead; d++ {
		points = append(points, ForecastPoint{
			Day:            d,
			PredictedViews: float64(last.Views) + growth.ViewsPerDay*float64(d),
		})
	}
	return points, true
}

// StageComparison compares the first and last snapshot of the series.
// ok is false on series shorter than two points.
func (s Series) StageComparison() (StageComparison, bool) {
	if len(s) < 2 {
		return StageComparison{}, false
	}

	first, last := s[0], s[len(s)-1]
	return StageComparison{
		First:         first,
		Last:          last,
		ViewsDelta:    int64(last.Views) - int64(first.Views),
		LikesDelta:    int64(last.Likes) - int64(first.Likes),
		CommentsDelta: int64(last.Comments) - int64(first.Comments),
		Span:          spanLabel(last.Timestamp.Sub(first.Timestamp)),
	}, true
}

// spanLabel renders an elapsed span as a short human label.
func spanLabel(d time.Duration) string {
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins <= 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	if d < 48*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	days := int(d.Hours() / 24)
	return fmt.Sprintf("%d days", days)
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
