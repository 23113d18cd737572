// Package analytics implements the scoring engine: engagement metrics,
// performance grading, trend analysis over snapshot series, multi-entity
// comparison, and report assembly.
//
// Every computation here is a pure function over already-fetched inputs.
// Thresholds and weights are fixed policy constants; changing them breaks
// compatibility with previously issued scores and grades.
package analytics

import (
	"math"

	"github.com/tubelens/tubelens/internal/models"
)

// Engagement score weights. The comment rate is an order of magnitude
// smaller than the like rate in practice, so it is rescaled by 10 before
// weighting.
const (
	likeRateWeight    = 0.7
	commentRateWeight = 0.3
	commentRateScale  = 10
)

// Grade is the letter grade assigned to a performance score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// LikeRating is the qualitative rating of a video's like rate.
type LikeRating string

const (
	LikeExcellent    LikeRating = "Excellent"
	LikeGood         LikeRating = "Good"
	LikeAverage      LikeRating = "Average"
	LikeBelowAverage LikeRating = "Below Average"
)

// CommentRating is the qualitative rating of a video's comment rate.
type CommentRating string

const (
	CommentHigh     CommentRating = "High Engagement"
	CommentModerate CommentRating = "Moderate Engagement"
	CommentLow      CommentRating = "Low Engagement"
)

// EngagementMetrics are the rates derived from a single snapshot.
// They are computed on demand and never stored.
type EngagementMetrics struct {
	LikeRate        float64 `json:"like_rate"`        // percent
	CommentRate     float64 `json:"comment_rate"`     // percent
	EngagementScore float64 `json:"engagement_score"` // weighted composite
}

// PerformanceRating maps an engagement score onto a 0-100 scale with a
// letter grade and qualitative ratings.
type PerformanceRating struct {
	Score         float64       `json:"score"` // 0..100, clamped
	Grade         Grade         `json:"grade"`
	LikeRating    LikeRating    `json:"like_rating"`
	CommentRating CommentRating `json:"comment_rating"`
}

// Score derives engagement metrics from one snapshot. Total over any
// non-negative input: a snapshot with zero views yields all-zero rates
// rather than an error.
func Score(snap models.Snapshot) EngagementMetrics {
	if snap.Views == 0 {
		return EngagementMetrics{}
	}

	views := float64(snap.Views)
	likeRate := float64(snap.Likes) / views * 100
	commentRate := float64(snap.Comments) / views * 100

	return EngagementMetrics{
		LikeRate:        likeRate,
		CommentRate:     commentRate,
		EngagementScore: likeRate*likeRateWeight + commentRate*commentRateWeight*commentRateScale,
	}
}

// GradeMetrics maps engagement metrics to a performance rating. Boundary
// scores map to the higher grade (>= semantics throughout). The score is
// rounded to two decimals before bucketing so float noise in the rate
// products cannot flip a boundary grade.
func GradeMetrics(m EngagementMetrics) PerformanceRating {
	score := Round2(math.Min(m.EngagementScore*10, 100))

	var grade Grade
	switch {
	case score >= 80:
		grade = GradeA
	case score >= 60:
		grade = GradeB
	case score >= 40:
		grade = GradeC
	case score >= 20:
		grade = GradeD
	default:
		grade = GradeF
	}

	var likeRating LikeRating
	switch {
	case m.LikeRate >= 5:
		likeRating = LikeExcellent
	case m.LikeRate >= 3:
		likeRating = LikeGood
	case m.LikeRate >= 1:
		likeRating = LikeAverage
	default:
		likeRating = LikeBelowAverage
	}

	var commentRating CommentRating
	switch {
	case m.CommentRate >= 0.5:
		commentRating = CommentHigh
	case m.CommentRate >= 0.1:
		commentRating = CommentModerate
	default:
		commentRating = CommentLow
	}

	return PerformanceRating{
		Score:         score,
		Grade:         grade,
		LikeRating:    likeRating,
		CommentRating: commentRating,
	}
}

// Round2 rounds to two decimal places for presentation payloads.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
