package analytics

import (
	"sort"

	"github.com/tubelens/tubelens/internal/models"
)

// Fixed advantage/weakness statements. Exactly one of each pair is
// emitted per metric when a target is compared against the set mean.
const (
	advSubscribers  = "Above average subscriber count"
	weakSubscribers = "Below average subscriber count"
	advAvgViews     = "Above average views per video"
	weakAvgViews    = "Below average views per video"
	advViewToSub    = "Above average view-to-subscriber ratio"
	weakViewToSub   = "Below average view-to-subscriber ratio"
)

// ChannelMetrics is the per-channel derived metric set used by all
// channel comparisons.
type ChannelMetrics struct {
	ChannelID        string  `json:"channel_id"`
	Title            string  `json:"title"`
	Country          string  `json:"country"`
	Subscribers      uint64  `json:"subscribers"`
	TotalViews       uint64  `json:"total_views"`
	VideoCount       uint64  `json:"video_count"`
	AvgViewsPerVideo float64 `json:"avg_views_per_video"`
	EngagementScore  float64 `json:"engagement_score"`
	ViewToSubRatio   float64 `json:"view_to_sub_ratio"`
	IsTarget         bool    `json:"is_target,omitempty"`
}

// NewChannelMetrics derives comparison metrics from a channel. The
// channel engagement score rates how hard the subscriber base works per
// upload: average views per video as a percentage of subscribers.
func NewChannelMetrics(ch models.Channel) ChannelMetrics {
	m := ChannelMetrics{
		ChannelID:   ch.ID,
		Title:       ch.Title,
		Country:     ch.Country,
		Subscribers: ch.Subscribers,
		TotalViews:  ch.TotalViews,
		VideoCount:  ch.VideoCount,
	}
	if ch.VideoCount > 0 {
		m.AvgViewsPerVideo = float64(ch.TotalViews) / float64(ch.VideoCount)
	}
	if ch.Subscribers > 0 {
		m.ViewToSubRatio = float64(ch.TotalViews) / float64(ch.Subscribers)
		m.EngagementScore = m.AvgViewsPerVideo / float64(ch.Subscribers) * 100
	}
	return m
}

// RankBy is a sortable comparison key for channel rankings.
type RankBy func(ChannelMetrics) float64

// BySubscribers ranks by subscriber count.
func BySubscribers(m ChannelMetrics) float64 { return float64(m.Subscribers) }

// ByEngagement ranks by channel engagement score.
func ByEngagement(m ChannelMetrics) float64 { return m.EngagementScore }

// ByTotalViews ranks by lifetime view count.
func ByTotalViews(m ChannelMetrics) float64 { return float64(m.TotalViews) }

// Rank returns the entities ordered descending by key. The sort is
// stable: exact ties keep first-seen order, with no further tie-break.
func Rank(entities []ChannelMetrics, key RankBy) []ChannelMetrics {
	ranked := make([]ChannelMetrics, len(entities))
	copy(ranked, entities)
	sort.SliceStable(ranked, func(i, j int) bool {
		return key(ranked[i]) > key(ranked[j])
	})
	return ranked
}

// rankOf returns the 1-based position of channelID in the set ordered
// descending by key.
func rankOf(entities []ChannelMetrics, channelID string, key RankBy) int {
	ranked := Rank(entities, key)
	for i, m := range ranked {
		if m.ChannelID == channelID {
			return i + 1
		}
	}
	return len(ranked)
}

// BenchmarkResult places a target channel inside the full comparison set
// (target plus competitors).
type BenchmarkResult struct {
	Target            ChannelMetrics   `json:"target"`
	Competitors       []ChannelMetrics `json:"competitors"`
	RankBySubscribers int              `json:"rank_by_subscribers"`
	RankByEngagement  int              `json:"rank_by_engagement"`
}

// Benchmark computes the target's 1-based ranks across the full set.
func Benchmark(target ChannelMetrics, competitors []ChannelMetrics) BenchmarkResult {
	target.IsTarget = true
	full := append([]ChannelMetrics{target}, competitors...)

	return BenchmarkResult{
		Target:            target,
		Competitors:       competitors,
		RankBySubscribers: rankOf(full, target.ChannelID, BySubscribers),
		RankByEngagement:  rankOf(full, target.ChannelID, ByEngagement),
	}
}

// Advantages compares the target against the arithmetic mean of the full
// comparison set (target included) on subscribers, average views per
// video, and view-to-subscriber ratio. Strictly above the mean emits the
// advantage statement for that metric, otherwise the weakness statement;
// never both.
func Advantages(target ChannelMetrics, comparison []ChannelMetrics) (advantages, weaknesses []string) {
	full := append([]ChannelMetrics{target}, comparison...)
	n := float64(len(full))

	var sumSubs, sumAvgViews, sumRatio float64
	for _, m := range full {
		sumSubs += float64(m.Subscribers)
		sumAvgViews += m.AvgViewsPerVideo
		sumRatio += m.ViewToSubRatio
	}

	advantages = []string{}
	weaknesses = []string{}

	if float64(target.Subscribers) > sumSubs/n {
		advantages = append(advantages, advSubscribers)
	} else {
		weaknesses = append(weaknesses, weakSubscribers)
	}
	if target.AvgViewsPerVideo > sumAvgViews/n {
		advantages = append(advantages, advAvgViews)
	} else {
		weaknesses = append(weaknesses, weakAvgViews)
	}
	if target.ViewToSubRatio > sumRatio/n {
		advantages = append(advantages, advViewToSub)
	} else {
		weaknesses = append(weaknesses, weakViewToSub)
	}
	return advantages, weaknesses
}

// MarketShare is one entity's slice of the comparison set's totals.
type MarketShare struct {
	ChannelID          string  `json:"channel_id"`
	Title              string  `json:"title"`
	Subscribers        uint64  `json:"subscribers"`
	TotalViews         uint64  `json:"total_views"`
	SubscriberSharePct float64 `json:"subscriber_share_percent"`
	ViewSharePct       float64 `json:"view_share_percent"`
}

// MarketShares attributes each entity's share of total subscribers and
// total views across the set. Callers drop unresolved entities before
// calling, so totals only cover entities present in the slice.
func MarketShares(entities []ChannelMetrics) (shares []MarketShare, totalSubscribers, totalViews uint64) {
	for _, m := range entities {
		totalSubscribers += m.Subscribers
		totalViews += m.TotalViews
	}

	subsBase := float64(maxU64(totalSubscribers, 1))
	viewsBase := float64(maxU64(totalViews, 1))

	shares = make([]MarketShare, 0, len(entities))
	for _, m := range entities {
		shares = append(shares, MarketShare{
			ChannelID:          m.ChannelID,
			Title:              m.Title,
			Subscribers:        m.Subscribers,
			TotalViews:         m.TotalViews,
			SubscriberSharePct: float64(m.Subscribers) / subsBase * 100,
			ViewSharePct:       float64(m.TotalViews) / viewsBase * 100,
		})
	}
	return shares, totalSubscribers, totalViews
}

// VideoMetrics pairs a video with its derived engagement metrics for
// video-set comparisons.
type VideoMetrics struct {
	Video      models.Video
	Engagement EngagementMetrics
}

// NewVideoMetrics scores a video's current counters.
func NewVideoMetrics(v models.Video) VideoMetrics {
	return VideoMetrics{
		Video:      v,
		Engagement: Score(v.StatsSnapshot(v.PublishedAt, "live")),
	}
}

// VideoComparison summarizes a video set ranked by engagement score,
// with highlight picks. Ties keep first-seen order.
type VideoComparison struct {
	Ranked         []VideoMetrics
	BestEngagement VideoMetrics
	MostViews      VideoMetrics
	BestLikeRate   VideoMetrics
}

// CompareVideos ranks the set descending by engagement score and picks
// the highlight videos. The caller guarantees at least one entry.
func CompareVideos(videos []VideoMetrics) VideoComparison {
	ranked := make([]VideoMetrics, len(videos))
	copy(ranked, videos)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Engagement.EngagementScore > ranked[j].Engagement.EngagementScore
	})

	comparison := VideoComparison{
		Ranked:         ranked,
		BestEngagement: ranked[0],
		MostViews:      videos[0],
		BestLikeRate:   videos[0],
	}
	for _, vm := range videos[1:] {
		if vm.Video.Views > comparison.MostViews.Video.Views {
			comparison.MostViews = vm
		}
		if vm.Engagement.LikeRate > comparison.BestLikeRate.Engagement.LikeRate {
			comparison.BestLikeRate = vm
		}
	}
	return comparison
}
