package mcptools

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tubelens/tubelens/internal/analytics"
	"github.com/tubelens/tubelens/internal/youtube"
)

const (
	defaultReportPeriodDays = 7
	maxReportPeriodDays     = 90
	maxReportVideos         = 50
)

func (t *Toolset) registerReportTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("generate_channel_report",
		mcp.WithDescription("Generate a performance report for a channel over a recent period"),
		mcp.WithString("channel_id", mcp.Required(), mcp.Description("YouTube channel ID or URL")),
		mcp.WithNumber("period_days", mcp.DefaultNumber(defaultReportPeriodDays),
			mcp.Description("Reporting window in days (1-90)")),
		mcp.WithBoolean("include_videos", mcp.DefaultBool(true),
			mcp.Description("Include the per-video breakdown in the report")),
	), t.handleGenerateChannelReport)

	s.AddTool(mcp.NewTool("generate_video_report",
		mcp.WithDescription("Generate a full performance report for a single video"),
		mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID or full URL")),
	), t.handleGenerateVideoReport)
}

func (t *Toolset) handleGenerateChannelReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arg, err := req.RequireString("channel_id")
	if err != nil {
		return errorResult(err), nil
	}
	channelID := ExtractChannelID(arg)

	periodDays := int(req.GetFloat("period_days", defaultReportPeriodDays))
	if periodDays < 1 {
		periodDays = defaultReportPeriodDays
	}
	if periodDays > maxReportPeriodDays {
		periodDays = maxReportPeriodDays
	}
	includeVideos := req.GetBool("include_videos", true)

	channel, err := t.catalog.GetChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return notFoundResult("Channel", channelID), nil
		}
		return errorResult(err), nil
	}

	now := t.now()
	videos, err := t.fetchChannelVideos(ctx, channel.ID, now.AddDate(0, 0, -periodDays), maxReportVideos)
	if err != nil {
		return errorResult(err), nil
	}

	report := analytics.BuildChannelReport(*channel, videos, periodDays)

	payload := map[string]interface{}{
		"generated_at": now.UTC().Format(time.RFC3339),
		"period_days":  report.PeriodDays,
		"channel": map[string]interface{}{
			"channel_id":            channel.ID,
			"title":                 channel.Title,
			"subscribers":           channel.Subscribers,
			"subscribers_formatted": FormatNumber(channel.Subscribers),
			"total_views":           channel.TotalViews,
			"total_views_formatted": FormatNumber(channel.TotalViews),
			"total_videos":          channel.VideoCount,
		},
		"period_summary": map[string]interface{}{
			"videos_published":      report.Summary.VideosPublished,
			"total_views":           report.Summary.TotalViews,
			"total_views_formatted": FormatNumber(report.Summary.TotalViews),
			"total_likes":           report.Summary.TotalLikes,
			"total_likes_formatted": FormatNumber(report.Summary.TotalLikes),
			"avg_views":             analytics.Round2(report.Summary.AvgViews),
			"avg_views_formatted":   FormatNumber(uint64(report.Summary.AvgViews)),
			"avg_like_rate":         analytics.Round2(report.Summary.AvgLikeRate),
		},
		"top_performers": map[string]interface{}{
			"by_views":      topViewsPayload(report.TopByViews),
			"by_engagement": topEngagementPayload(report.TopByLikeRate),
		},
		"performance": map[string]interface{}{
			"score": analytics.Round2(report.Performance.Score),
			"grade": report.Performance.Grade,
		},
	}

	if includeVideos {
		list := make([]map[string]interface{}, 0, len(report.Videos))
		for _, vm := range report.Videos {
			list = append(list, map[string]interface{}{
				"video_id":         vm.Video.ID,
				"title":            vm.Video.Title,
				"published_at":     vm.Video.PublishedAt,
				"views":            vm.Video.Views,
				"views_formatted":  FormatNumber(vm.Video.Views),
				"likes":            vm.Video.Likes,
				"likes_formatted":  FormatNumber(vm.Video.Likes),
				"like_rate":        analytics.Round2(vm.Engagement.LikeRate),
				"engagement_score": analytics.Round2(vm.Engagement.EngagementScore),
				"url":              videoURL(vm.Video.ID),
			})
		}
		payload["videos"] = list
	}

	return jsonResult(payload)
}

func (t *Toolset) handleGenerateVideoReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, res := t.resolveVideo(ctx, req)
	if res != nil {
		return res, nil
	}

	report := analytics.BuildVideoReport(*video)

	return jsonResult(map[string]interface{}{
		"generated_at": t.now().UTC().Format(time.RFC3339),
		"video": map[string]interface{}{
			"video_id":     video.ID,
			"title":        video.Title,
			"channel":      video.ChannelName,
			"published_at": video.PublishedAt,
			"duration":     FormatDuration(video.Duration),
			"url":          videoURL(video.ID),
		},
		"metrics": map[string]interface{}{
			"views":              video.Views,
			"views_formatted":    FormatNumber(video.Views),
			"likes":              video.Likes,
			"likes_formatted":    FormatNumber(video.Likes),
			"comments":           video.Comments,
			"comments_formatted": FormatNumber(video.Comments),
			"like_rate":          analytics.Round2(report.Metrics.LikeRate),
			"comment_rate":       analytics.Round2(report.Metrics.CommentRate),
			"engagement_score":   analytics.Round2(report.Metrics.EngagementScore),
		},
		"performance": map[string]interface{}{
			"score":          analytics.Round2(report.Performance.Score),
			"grade":          report.Performance.Grade,
			"like_rating":    report.Performance.LikeRating,
			"comment_rating": report.Performance.CommentRating,
		},
		"analysis": map[string]interface{}{
			"overall_assessment":    report.Analysis.OverallAssessment,
			"quality_signals":       report.Analysis.QualitySignals,
			"areas_for_improvement": report.Analysis.AreasForImprovement,
		},
	})
}

func topViewsPayload(top []analytics.VideoMetrics) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(top))
	for _, vm := range top {
		out = append(out, map[string]interface{}{
			"video_id":        vm.Video.ID,
			"title":           vm.Video.Title,
			"views":           vm.Video.Views,
			"views_formatted": FormatNumber(vm.Video.Views),
		})
	}
	return out
}

func topEngagementPayload(top []analytics.VideoMetrics) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(top))
	for _, vm := range top {
		out = append(out, map[string]interface{}{
			"video_id":         vm.Video.ID,
			"title":            vm.Video.Title,
			"like_rate":        analytics.Round2(vm.Engagement.LikeRate),
			"engagement_score": analytics.Round2(vm.Engagement.EngagementScore),
		})
	}
	return out
}
