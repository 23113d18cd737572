package mcptools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tubelens/tubelens/internal/analytics"
	"github.com/tubelens/tubelens/internal/models"
	"github.com/tubelens/tubelens/internal/youtube"
)

const maxForecastDays = 30

func (t *Toolset) registerTrendTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("track_growth_trends",
		mcp.WithDescription("Track a video's view and like growth over its snapshot history"),
		mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID or full URL")),
	), t.handleTrackGrowthTrends)

	s.AddTool(mcp.NewTool("detect_viral_moments",
		mcp.WithDescription("Detect intervals where a video gained views fast enough to count as viral"),
		mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID or full URL")),
		mcp.WithNumber("threshold", mcp.DefaultNumber(analytics.ViralViewsPerHour),
			mcp.Description("Views-per-hour rate above which an interval counts as viral")),
	), t.handleDetectViralMoments)

	s.AddTool(mcp.NewTool("forecast_performance",
		mcp.WithDescription("Project a video's view count forward by linear extrapolation of its growth"),
		mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID or full URL")),
		mcp.WithNumber("days_ahead", mcp.DefaultNumber(7), mcp.Description("Days to project forward (1-30)")),
	), t.handleForecastPerformance)
}

// seriesFor resolves a video's snapshot series. Tracked history is used
// when at least two stored snapshots exist; otherwise a synthetic series
// is fabricated from the live counters. The source marker tells clients
// which one they got.
func (t *Toolset) seriesFor(ctx context.Context, req mcp.CallToolRequest) (analytics.Series, string, *models.Video, *mcp.CallToolResult) {
	arg, err := req.RequireString("video_id")
	if err != nil {
		return nil, "", nil, errorResult(err)
	}
	videoID := ExtractVideoID(arg)

	video, err := t.catalog.GetVideo(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return nil, "", nil, notFoundResult("Video", videoID)
		}
		return nil, "", nil, errorResult(err)
	}

	if t.store != nil {
		snaps, err := t.store.GetSnapshots(video.ID)
		if err == nil && len(snaps) >= 2 {
			return analytics.Series(snaps), "tracked", video, nil
		}
	}

	now := t.now()
	return analytics.SyntheticSeries(video.StatsSnapshot(now, "live"), now), "synthetic", video, nil
}

func (t *Toolset) handleTrackGrowthTrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	series, source, video, res := t.seriesFor(ctx, req)
	if res != nil {
		return res, nil
	}

	growth, ok := series.GrowthRate()
	if !ok {
		return errorResultf("not enough history for video %s", video.ID), nil
	}

	payload := map[string]interface{}{
		"video_id":                video.ID,
		"title":                   video.Title,
		"history_source":          source,
		"data_points":             len(series),
		"days":                    growth.Days,
		"view_growth_pct":         analytics.Round2(growth.ViewGrowthPct),
		"like_growth_pct":         analytics.Round2(growth.LikeGrowthPct),
		"view_growth_pct_per_day": analytics.Round2(growth.ViewGrowthPerDay),
		"like_growth_pct_per_day": analytics.Round2(growth.LikeGrowthPerDay),
		"views_per_day":           analytics.Round2(growth.ViewsPerDay),
		"likes_per_day":           analytics.Round2(growth.LikesPerDay),
	}

	if stages, ok := series.StageComparison(); ok {
		payload["stage_comparison"] = stages
	}

	return jsonResult(payload)
}

func (t *Toolset) handleDetectViralMoments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threshold := req.GetFloat("threshold", analytics.ViralViewsPerHour)
	if threshold <= 0 {
		threshold = analytics.ViralViewsPerHour
	}

	series, source, video, res := t.seriesFor(ctx, req)
	if res != nil {
		return res, nil
	}

	moments := series.ViralMoments(threshold)
	if moments == nil {
		moments = []analytics.ViralMoment{}
	}

	return jsonResult(map[string]interface{}{
		"video_id":                 video.ID,
		"title":                    video.Title,
		"history_source":           source,
		"threshold_views_per_hour": threshold,
		"moments_detected":         len(moments),
		"viral_moments":            moments,
	})
}

func (t *Toolset) handleForecastPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	daysAhead := int(req.GetFloat("days_ahead", 7))
	if daysAhead < 1 {
		daysAhead = 7
	}
	if daysAhead > maxForecastDays {
		daysAhead = maxForecastDays
	}

	series, source, video, res := t.seriesFor(ctx, req)
	if res != nil {
		return res, nil
	}

	forecast, ok := series.Forecast(daysAhead)
	if !ok {
		return errorResultf("not enough history for video %s", video.ID), nil
	}

	return jsonResult(map[string]interface{}{
		"video_id":       video.ID,
		"title":          video.Title,
		"history_source": source,
		"days_ahead":     daysAhead,
		"current_views":  video.Views,
		"forecast":       forecast,
	})
}
