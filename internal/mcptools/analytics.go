package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tubelens/tubelens/internal/analytics"
	"github.com/tubelens/tubelens/internal/models"
	"github.com/tubelens/tubelens/internal/youtube"
)

// Video-set comparison bounds.
const (
	minCompareVideos = 2
	maxCompareVideos = 10
)

func (t *Toolset) registerAnalyticsTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_video_analytics",
		mcp.WithDescription("Get engagement analytics for a video: like rate, comment rate, and the composite engagement score"),
		mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID or full URL")),
	), t.handleGetVideoAnalytics)

	s.AddTool(mcp.NewTool("analyze_video_engagement",
		mcp.WithDescription("Analyze a video's engagement with qualitative ratings and an interpretation"),
		mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID or full URL")),
	), t.handleAnalyzeVideoEngagement)

	s.AddTool(mcp.NewTool("get_video_performance_score",
		mcp.WithDescription("Score a video's performance on a 0-100 scale with a letter grade"),
		mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID or full URL")),
	), t.handleGetVideoPerformanceScore)

	s.AddTool(mcp.NewTool("compare_videos",
		mcp.WithDescription("Compare 2-10 videos by engagement, with rankings and highlights"),
		mcp.WithArray("video_ids", mcp.Required(),
			mcp.Description("YouTube video IDs or URLs to compare (2-10)"),
			mcp.Items(map[string]interface{}{"type": "string"})),
	), t.handleCompareVideos)

	s.AddTool(mcp.NewTool("analyze_video_potential",
		mcp.WithDescription("Assess a video's quality signals, areas for improvement, and overall potential"),
		mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID or full URL")),
	), t.handleAnalyzeVideoPotential)
}

// resolveVideo fetches one video, mapping miss and fault cases to their
// in-band results. The returned result is non-nil when the caller should
// respond with it immediately.
func (t *Toolset) resolveVideo(ctx context.Context, req mcp.CallToolRequest) (*models.Video, *mcp.CallToolResult) {
	arg, err := req.RequireString("video_id")
	if err != nil {
		return nil, errorResult(err)
	}
	videoID := ExtractVideoID(arg)

	video, err := t.catalog.GetVideo(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return nil, notFoundResult("Video", videoID)
		}
		return nil, errorResult(err)
	}
	return video, nil
}

func (t *Toolset) handleGetVideoAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, res := t.resolveVideo(ctx, req)
	if res != nil {
		return res, nil
	}

	metrics := analytics.Score(video.StatsSnapshot(t.now(), "live"))

	return jsonResult(map[string]interface{}{
		"video_id":           video.ID,
		"title":              video.Title,
		"channel":            video.ChannelName,
		"published_at":       video.PublishedAt,
		"views":              video.Views,
		"views_formatted":    FormatNumber(video.Views),
		"likes":              video.Likes,
		"likes_formatted":    FormatNumber(video.Likes),
		"comments":           video.Comments,
		"comments_formatted": FormatNumber(video.Comments),
		"like_rate":          analytics.Round2(metrics.LikeRate),
		"comment_rate":       analytics.Round2(metrics.CommentRate),
		"engagement_score":   analytics.Round2(metrics.EngagementScore),
	})
}

func (t *Toolset) handleAnalyzeVideoEngagement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, res := t.resolveVideo(ctx, req)
	if res != nil {
		return res, nil
	}

	metrics := analytics.Score(video.StatsSnapshot(t.now(), "live"))
	rating := analytics.GradeMetrics(metrics)

	interpretation := fmt.Sprintf("%s like rate with %s from comments; overall grade %s",
		rating.LikeRating, strings.ToLower(string(rating.CommentRating)), rating.Grade)

	return jsonResult(map[string]interface{}{
		"video_id": video.ID,
		"title":    video.Title,
		"views":    video.Views,
		"engagement_analysis": map[string]interface{}{
			"like_rate":        analytics.Round2(metrics.LikeRate),
			"like_rating":      rating.LikeRating,
			"comment_rate":     analytics.Round2(metrics.CommentRate),
			"comment_rating":   rating.CommentRating,
			"engagement_score": analytics.Round2(metrics.EngagementScore),
		},
		"interpretation": interpretation,
	})
}

func (t *Toolset) handleGetVideoPerformanceScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, res := t.resolveVideo(ctx, req)
	if res != nil {
		return res, nil
	}

	metrics := analytics.Score(video.StatsSnapshot(t.now(), "live"))
	rating := analytics.GradeMetrics(metrics)

	summary := fmt.Sprintf("Scores %.1f/100 (grade %s) with %s like engagement",
		rating.Score, rating.Grade, strings.ToLower(string(rating.LikeRating)))

	return jsonResult(map[string]interface{}{
		"video_id":          video.ID,
		"title":             video.Title,
		"performance_score": analytics.Round2(rating.Score),
		"grade":             rating.Grade,
		"summary":           summary,
		"metrics": map[string]interface{}{
			"like_rate":        analytics.Round2(metrics.LikeRate),
			"comment_rate":     analytics.Round2(metrics.CommentRate),
			"engagement_score": analytics.Round2(metrics.EngagementScore),
		},
	})
}

func (t *Toolset) handleCompareVideos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := req.RequireStringSlice("video_ids")
	if err != nil {
		return errorResult(err), nil
	}
	if len(ids) < minCompareVideos || len(ids) > maxCompareVideos {
		return errorResultf("video_ids must contain between %d and %d entries, got %d",
			minCompareVideos, maxCompareVideos, len(ids)), nil
	}

	videos, err := t.fetchVideos(ctx, ids)
	if err != nil {
		return errorResult(err), nil
	}
	if len(videos) < minCompareVideos {
		return errorResultf("only %d of %d videos could be resolved; need at least %d",
			len(videos), len(ids), minCompareVideos), nil
	}

	metrics := make([]analytics.VideoMetrics, 0, len(videos))
	for _, v := range videos {
		metrics = append(metrics, analytics.NewVideoMetrics(v))
	}
	comparison := analytics.CompareVideos(metrics)

	ranking := make([]map[string]interface{}, 0, len(comparison.Ranked))
	for i, vm := range comparison.Ranked {
		ranking = append(ranking, map[string]interface{}{
			"rank":             i + 1,
			"video_id":         vm.Video.ID,
			"title":            vm.Video.Title,
			"views":            vm.Video.Views,
			"views_formatted":  FormatNumber(vm.Video.Views),
			"like_rate":        analytics.Round2(vm.Engagement.LikeRate),
			"engagement_score": analytics.Round2(vm.Engagement.EngagementScore),
		})
	}

	return jsonResult(map[string]interface{}{
		"videos_compared":       len(comparison.Ranked),
		"ranking_by_engagement": ranking,
		"highlights": map[string]interface{}{
			"best_engagement": map[string]interface{}{
				"video_id": comparison.BestEngagement.Video.ID,
				"title":    comparison.BestEngagement.Video.Title,
				"score":    analytics.Round2(comparison.BestEngagement.Engagement.EngagementScore),
			},
			"most_views": map[string]interface{}{
				"video_id": comparison.MostViews.Video.ID,
				"title":    comparison.MostViews.Video.Title,
				"views":    FormatNumber(comparison.MostViews.Video.Views),
			},
			"best_like_rate": map[string]interface{}{
				"video_id":  comparison.BestLikeRate.Video.ID,
				"title":     comparison.BestLikeRate.Video.Title,
				"like_rate": analytics.Round2(comparison.BestLikeRate.Engagement.LikeRate),
			},
		},
	})
}

func (t *Toolset) handleAnalyzeVideoPotential(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, res := t.resolveVideo(ctx, req)
	if res != nil {
		return res, nil
	}

	metrics := analytics.Score(video.StatsSnapshot(t.now(), "live"))
	analysis := analytics.AnalyzeQuality(*video, metrics)

	return jsonResult(map[string]interface{}{
		"video_id": video.ID,
		"title":    video.Title,
		"channel":  video.ChannelName,
		"current_metrics": map[string]interface{}{
			"views":            video.Views,
			"views_formatted":  FormatNumber(video.Views),
			"like_rate":        analytics.Round2(metrics.LikeRate),
			"comment_rate":     analytics.Round2(metrics.CommentRate),
			"engagement_score": analytics.Round2(metrics.EngagementScore),
		},
		"quality_signals":       analysis.QualitySignals,
		"areas_for_improvement": analysis.AreasForImprovement,
		"overall_assessment":    analysis.OverallAssessment,
	})
}
