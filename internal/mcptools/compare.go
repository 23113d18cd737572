package mcptools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tubelens/tubelens/internal/analytics"
	"github.com/tubelens/tubelens/internal/models"
	"github.com/tubelens/tubelens/internal/youtube"
)

// Channel comparison bounds. Benchmark and advantage tools count the
// target channel against the same total.
const (
	minCompareChannels = 2
	maxCompareChannels = 5
)

func (t *Toolset) registerComparisonTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("compare_channels",
		mcp.WithDescription("Compare 2-5 channels side by side on subscribers, views, and output"),
		mcp.WithArray("channel_ids", mcp.Required(),
			mcp.Description("YouTube channel IDs or URLs to compare (2-5)"),
			mcp.Items(map[string]interface{}{"type": "string"})),
	), t.handleCompareChannels)

	s.AddTool(mcp.NewTool("analyze_content_strategy",
		mcp.WithDescription("Analyze a channel's posting cadence and per-video performance"),
		mcp.WithString("channel_id", mcp.Required(), mcp.Description("YouTube channel ID or URL")),
	), t.handleAnalyzeContentStrategy)

	s.AddTool(mcp.NewTool("benchmark_performance",
		mcp.WithDescription("Rank a target channel against competitors by subscribers and engagement"),
		mcp.WithString("target_channel_id", mcp.Required(), mcp.Description("Channel to benchmark")),
		mcp.WithArray("competitor_channel_ids", mcp.Required(),
			mcp.Description("Competitor channel IDs (1-4)"),
			mcp.Items(map[string]interface{}{"type": "string"})),
	), t.handleBenchmarkPerformance)

	s.AddTool(mcp.NewTool("identify_competitive_advantages",
		mcp.WithDescription("Identify where a channel sits above or below the average of a comparison set"),
		mcp.WithString("channel_id", mcp.Required(), mcp.Description("Channel to assess")),
		mcp.WithArray("comparison_channel_ids", mcp.Required(),
			mcp.Description("Channels to compare against (1-4)"),
			mcp.Items(map[string]interface{}{"type": "string"})),
	), t.handleIdentifyCompetitiveAdvantages)

	s.AddTool(mcp.NewTool("track_market_share",
		mcp.WithDescription("Attribute subscriber and view share across a set of 2-5 channels"),
		mcp.WithArray("channel_ids", mcp.Required(),
			mcp.Description("YouTube channel IDs or URLs (2-5)"),
			mcp.Items(map[string]interface{}{"type": "string"})),
	), t.handleTrackMarketShare)
}

// resolveChannelSet fetches a bounded channel set, requiring that at
// least minCompareChannels resolve.
func (t *Toolset) resolveChannelSet(ctx context.Context, ids []string) ([]analytics.ChannelMetrics, *mcp.CallToolResult) {
	if len(ids) < minCompareChannels || len(ids) > maxCompareChannels {
		return nil, errorResultf("channel_ids must contain between %d and %d entries, got %d",
			minCompareChannels, maxCompareChannels, len(ids))
	}

	channels, err := t.fetchChannels(ctx, ids)
	if err != nil {
		return nil, errorResult(err)
	}
	if len(channels) < minCompareChannels {
		return nil, errorResultf("only %d of %d channels could be resolved; need at least %d",
			len(channels), len(ids), minCompareChannels)
	}

	metrics := make([]analytics.ChannelMetrics, 0, len(channels))
	for _, ch := range channels {
		metrics = append(metrics, analytics.NewChannelMetrics(ch))
	}
	return metrics, nil
}

func (t *Toolset) handleCompareChannels(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := req.RequireStringSlice("channel_ids")
	if err != nil {
		return errorResult(err), nil
	}

	metrics, res := t.resolveChannelSet(ctx, ids)
	if res != nil {
		return res, nil
	}

	ranked := analytics.Rank(metrics, analytics.BySubscribers)
	list := make([]map[string]interface{}, 0, len(ranked))
	for _, m := range ranked {
		list = append(list, map[string]interface{}{
			"channel_id":          m.ChannelID,
			"title":               m.Title,
			"subscribers":         m.Subscribers,
			"total_views":         m.TotalViews,
			"video_count":         m.VideoCount,
			"avg_views_per_video": analytics.Round2(m.AvgViewsPerVideo),
			"engagement_score":    analytics.Round2(m.EngagementScore),
			"country":             m.Country,
		})
	}

	return jsonResult(map[string]interface{}{
		"channels_compared": len(list),
		"channels":          list,
	})
}

func (t *Toolset) handleAnalyzeContentStrategy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arg, err := req.RequireString("channel_id")
	if err != nil {
		return errorResult(err), nil
	}
	channelID := ExtractChannelID(arg)

	channel, err := t.catalog.GetChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return notFoundResult("Channel", channelID), nil
		}
		return errorResult(err), nil
	}

	metrics := analytics.NewChannelMetrics(*channel)
	perMonth := videosPerMonth(*channel, t.now())

	return jsonResult(map[string]interface{}{
		"channel_id":                 channel.ID,
		"title":                      channel.Title,
		"total_videos":               channel.VideoCount,
		"posting_frequency":          postingFrequency(perMonth),
		"estimated_videos_per_month": analytics.Round2(perMonth),
		"subscribers":                channel.Subscribers,
		"avg_views_per_video":        analytics.Round2(metrics.AvgViewsPerVideo),
		"engagement_score":           analytics.Round2(metrics.EngagementScore),
	})
}

func (t *Toolset) handleBenchmarkPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targetArg, err := req.RequireString("target_channel_id")
	if err != nil {
		return errorResult(err), nil
	}
	competitorIDs, err := req.RequireStringSlice("competitor_channel_ids")
	if err != nil {
		return errorResult(err), nil
	}
	if len(competitorIDs) < 1 || len(competitorIDs) > maxCompareChannels-1 {
		return errorResultf("competitor_channel_ids must contain between 1 and %d entries, got %d",
			maxCompareChannels-1, len(competitorIDs)), nil
	}

	targetChannel, err := t.catalog.GetChannel(ctx, ExtractChannelID(targetArg))
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return notFoundResult("Channel", targetArg), nil
		}
		return errorResult(err), nil
	}

	competitors, err := t.fetchChannels(ctx, competitorIDs)
	if err != nil {
		return errorResult(err), nil
	}
	if len(competitors) == 0 {
		return errorResultf("none of the competitor channels could be resolved"), nil
	}

	competitorMetrics := make([]analytics.ChannelMetrics, 0, len(competitors))
	for _, ch := range competitors {
		competitorMetrics = append(competitorMetrics, analytics.NewChannelMetrics(ch))
	}

	result := analytics.Benchmark(analytics.NewChannelMetrics(*targetChannel), competitorMetrics)

	target := channelMetricsPayload(result.Target)
	target["rank_by_subscribers"] = result.RankBySubscribers
	target["rank_by_engagement"] = result.RankByEngagement

	comps := make([]map[string]interface{}, 0, len(result.Competitors))
	for _, m := range result.Competitors {
		comps = append(comps, channelMetricsPayload(m))
	}

	return jsonResult(map[string]interface{}{
		"target":      target,
		"competitors": comps,
	})
}

func (t *Toolset) handleIdentifyCompetitiveAdvantages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arg, err := req.RequireString("channel_id")
	if err != nil {
		return errorResult(err), nil
	}
	comparisonIDs, err := req.RequireStringSlice("comparison_channel_ids")
	if err != nil {
		return errorResult(err), nil
	}
	if len(comparisonIDs) < 1 || len(comparisonIDs) > maxCompareChannels-1 {
		return errorResultf("comparison_channel_ids must contain between 1 and %d entries, got %d",
			maxCompareChannels-1, len(comparisonIDs)), nil
	}

	channel, err := t.catalog.GetChannel(ctx, ExtractChannelID(arg))
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return notFoundResult("Channel", arg), nil
		}
		return errorResult(err), nil
	}

	comparison, err := t.fetchChannels(ctx, comparisonIDs)
	if err != nil {
		return errorResult(err), nil
	}
	if len(comparison) == 0 {
		return errorResultf("none of the comparison channels could be resolved"), nil
	}

	comparisonMetrics := make([]analytics.ChannelMetrics, 0, len(comparison))
	for _, ch := range comparison {
		comparisonMetrics = append(comparisonMetrics, analytics.NewChannelMetrics(ch))
	}

	target := analytics.NewChannelMetrics(*channel)
	advantages, weaknesses := analytics.Advantages(target, comparisonMetrics)

	return jsonResult(map[string]interface{}{
		"channel":    channel.Title,
		"channel_id": channel.ID,
		"advantages": advantages,
		"weaknesses": weaknesses,
		"metrics": map[string]interface{}{
			"subscribers":         target.Subscribers,
			"avg_views_per_video": analytics.Round2(target.AvgViewsPerVideo),
			"view_to_sub_ratio":   analytics.Round2(target.ViewToSubRatio),
			"engagement_score":    analytics.Round2(target.EngagementScore),
		},
	})
}

func (t *Toolset) handleTrackMarketShare(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := req.RequireStringSlice("channel_ids")
	if err != nil {
		return errorResult(err), nil
	}

	metrics, res := t.resolveChannelSet(ctx, ids)
	if res != nil {
		return res, nil
	}

	shares, totalSubs, totalViews := analytics.MarketShares(metrics)
	list := make([]map[string]interface{}, 0, len(shares))
	for _, s := range shares {
		list = append(list, map[string]interface{}{
			"channel_id":               s.ChannelID,
			"title":                    s.Title,
			"subscribers":              s.Subscribers,
			"total_views":              s.TotalViews,
			"subscriber_share_percent": analytics.Round2(s.SubscriberSharePct),
			"view_share_percent":       analytics.Round2(s.ViewSharePct),
		})
	}

	return jsonResult(map[string]interface{}{
		"channels_analyzed": len(list),
		"total_subscribers": totalSubs,
		"total_views":       totalViews,
		"channels":          list,
	})
}

// channelMetricsPayload renders a channel's comparison metrics.
func channelMetricsPayload(m analytics.ChannelMetrics) map[string]interface{} {
	return map[string]interface{}{
		"channel_id":          m.ChannelID,
		"title":               m.Title,
		"subscribers":         m.Subscribers,
		"total_views":         m.TotalViews,
		"video_count":         m.VideoCount,
		"avg_views_per_video": analytics.Round2(m.AvgViewsPerVideo),
		"engagement_score":    analytics.Round2(m.EngagementScore),
		"view_to_sub_ratio":   analytics.Round2(m.ViewToSubRatio),
	}
}

// videosPerMonth estimates upload cadence from the channel's lifetime
// video count and age. Channels younger than a month count as one month.
func videosPerMonth(ch models.Channel, now time.Time) float64 {
	months := now.Sub(ch.PublishedAt).Hours() / 24 / 30
	if months < 1 {
		months = 1
	}
	return float64(ch.VideoCount) / months
}

// postingFrequency buckets an estimated monthly upload rate into a label.
func postingFrequency(perMonth float64) string {
	switch {
	case perMonth >= 20:
		return "Very active (near daily)"
	case perMonth >= 8:
		return "Active (multiple per week)"
	case perMonth >= 4:
		return "Weekly"
	case perMonth >= 1:
		return "Monthly"
	default:
		return fmt.Sprintf("Infrequent (%.1f per month)", perMonth)
	}
}
