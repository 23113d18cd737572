package analytics

import (
	"sort"

	"github.com/tubelens/tubelens/internal/models"
)

// Assessment is the overall verdict of a qualitative analysis.
type Assessment string

const (
	AssessmentStrong  Assessment = "Strong"
	AssessmentNeeds   Assessment = "Needs Improvement"
	AssessmentAverage Assessment = "Average"
)

// viralReachViews is the view count above which a video counts as having
// viral reach.
const viralReachViews = 1_000_000

// QualityAnalysis holds the qualitative signal/concern lists for a video
// and the overall verdict derived from their counts.
type QualityAnalysis struct {
	QualitySignals      []string   `json:"quality_signals"`
	AreasForImprovement []string   `json:"areas_for_improvement"`
	OverallAssessment   Assessment `json:"overall_assessment"`
}

// AnalyzeQuality applies the fixed rule table to a video's metrics and
// derives the overall assessment from the signal and concern counts.
func AnalyzeQuality(v models.Video, m EngagementMetrics) QualityAnalysis {
	signals := []string{}
	concerns := []string{}

	if m.LikeRate >= 5 {
		signals = append(signals, "Excellent like rate shows strong audience approval")
	} else if m.LikeRate < 1 {
		concerns = append(concerns, "Low like rate suggests weak audience approval")
	}

	if m.CommentRate >= 0.5 {
		signals = append(signals, "High comment rate shows an engaged community")
	} else if m.CommentRate < 0.1 {
		concerns = append(concerns, "Low comment rate suggests limited viewer interaction")
	}

	if v.Views > viralReachViews {
		signals = append(signals, "Viral reach with over 1M views")
	} else if v.Views < 10_000 {
		concerns = append(concerns, "Limited reach so far")
	}

	if m.EngagementScore >= 5 {
		signals = append(signals, "Overall engagement score is above the strong-performance bar")
	} else if m.EngagementScore < 1 {
		concerns = append(concerns, "Overall engagement score is well below typical videos")
	}

	var assessment Assessment
	switch {
	case len(signals) > len(concerns):
		assessment = AssessmentStrong
	case len(concerns) > len(signals):
		assessment = AssessmentNeeds
	default:
		assessment = AssessmentAverage
	}

	return QualityAnalysis{
		QualitySignals:      signals,
		AreasForImprovement: concerns,
		OverallAssessment:   assessment,
	}
}

// VideoReport is the full per-video report: metrics, performance rating,
// and qualitative analysis.
type VideoReport struct {
	Video       models.Video
	Metrics     EngagementMetrics
	Performance PerformanceRating
	Analysis    QualityAnalysis
}

// BuildVideoReport runs the whole engagement/grade/quality pipeline for
// one video.
func BuildVideoReport(v models.Video) VideoReport {
	metrics := Score(v.StatsSnapshot(v.PublishedAt, "live"))
	return VideoReport{
		Video:       v,
		Metrics:     metrics,
		Performance: GradeMetrics(metrics),
		Analysis:    AnalyzeQuality(v, metrics),
	}
}

// PeriodSummary aggregates a channel's videos over a reporting window.
type PeriodSummary struct {
	VideosPublished int     `json:"videos_published"`
	TotalViews      uint64  `json:"total_views"`
	TotalLikes      uint64  `json:"total_likes"`
	TotalComments   uint64  `json:"total_comments"`
	AvgViews        float64 `json:"avg_views"`
	AvgLikeRate     float64 `json:"avg_like_rate"`
}

// ChannelReport aggregates a channel's recent videos into totals,
// averages, top performers, and a period-average performance rating.
type ChannelReport struct {
	Channel       models.Channel
	PeriodDays    int
	Summary       PeriodSummary
	TopByViews    []VideoMetrics
	TopByLikeRate []VideoMetrics
	Videos        []VideoMetrics
	Performance   PerformanceRating
}

// topPerformerCount is how many videos each top-performers list carries.
const topPerformerCount = 3

// BuildChannelReport assembles the channel report over the videos
// published in the window. Videos may be empty; averages are zero then.
func BuildChannelReport(channel models.Channel, videos []models.Video, periodDays int) ChannelReport {
	report := ChannelReport{
		Channel:    channel,
		PeriodDays: periodDays,
	}

	var likeRateSum float64
	for _, v := range videos {
		vm := NewVideoMetrics(v)
		report.Videos = append(report.Videos, vm)
		report.Summary.TotalViews += v.Views
		report.Summary.TotalLikes += v.Likes
		report.Summary.TotalComments += v.Comments
		likeRateSum += vm.Engagement.LikeRate
	}
	report.Summary.VideosPublished = len(videos)

	if len(videos) > 0 {
		n := float64(len(videos))
		report.Summary.AvgViews = float64(report.Summary.TotalViews) / n
		report.Summary.AvgLikeRate = likeRateSum / n
	}

	report.TopByViews = topBy(report.Videos, func(a, b VideoMetrics) bool {
		return a.Video.Views > b.Video.Views
	})
	report.TopByLikeRate = topBy(report.Videos, func(a, b VideoMetrics) bool {
		return a.Engagement.LikeRate > b.Engagement.LikeRate
	})

	// Grade the whole-period average as if it were one video.
	periodMetrics := Score(models.Snapshot{
		EntityID:  channel.ID,
		Views:     report.Summary.TotalViews,
		Likes:     report.Summary.TotalLikes,
		Comments:  report.Summary.TotalComments,
		Timestamp: channel.PublishedAt,
		Source:    "aggregate",
	})
	report.Performance = GradeMetrics(periodMetrics)

	return report
}

// topBy returns the first topPerformerCount videos under a stable
// descending sort, preserving input order on exact ties.
func topBy(videos []VideoMetrics, less func(a, b VideoMetrics) bool) []VideoMetrics {
	sorted := make([]VideoMetrics, len(videos))
	copy(sorted, videos)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	if len(sorted) > topPerformerCount {
		sorted = sorted[:topPerformerCount]
	}
	return sorted
}
