package mcptools

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tubelens/tubelens/internal/logger"
	"github.com/tubelens/tubelens/internal/models"
	"github.com/tubelens/tubelens/internal/youtube"
)

func (t *Toolset) registerCatalogTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_video_info",
		mcp.WithDescription("Get detailed metadata about a YouTube video including title, description, views, likes, duration, and channel info"),
		mcp.WithString("video_id", mcp.Required(),
			mcp.Description("YouTube video ID or full URL (e.g., 'dQw4w9WgXcQ' or 'https://youtube.com/watch?v=dQw4w9WgXcQ')")),
	), t.handleGetVideoInfo)

	s.AddTool(mcp.NewTool("get_video_comments",
		mcp.WithDescription("Get top comments from a YouTube video"),
		mcp.WithString("video_id", mcp.Required(), mcp.Description("YouTube video ID or full URL")),
		mcp.WithNumber("max_results", mcp.DefaultNumber(20), mcp.Description("Maximum number of comments to retrieve (1-100)")),
		mcp.WithString("order", mcp.DefaultString("relevance"), mcp.Enum("time", "relevance"),
			mcp.Description("Order comments by: time, relevance")),
	), t.handleGetVideoComments)

	s.AddTool(mcp.NewTool("search_videos",
		mcp.WithDescription("Search for YouTube videos by keyword"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithNumber("max_results", mcp.DefaultNumber(10), mcp.Description("Maximum number of results (1-50)")),
		mcp.WithString("order", mcp.DefaultString("relevance"),
			mcp.Enum("date", "rating", "relevance", "title", "viewCount"),
			mcp.Description("Sort order: date, rating, relevance, title, viewCount")),
	), t.handleSearchVideos)

	s.AddTool(mcp.NewTool("get_channel_info",
		mcp.WithDescription("Get information about a YouTube channel"),
		mcp.WithString("channel_id", mcp.Required(), mcp.Description("YouTube channel ID or channel URL")),
	), t.handleGetChannelInfo)

	s.AddTool(mcp.NewTool("get_channel_videos",
		mcp.WithDescription("Get recent videos from a YouTube channel"),
		mcp.WithString("channel_id", mcp.Required(), mcp.Description("YouTube channel ID")),
		mcp.WithNumber("max_results", mcp.DefaultNumber(10), mcp.Description("Maximum number of videos (1-50)")),
	), t.handleGetChannelVideos)

	s.AddTool(mcp.NewTool("get_trending_videos",
		mcp.WithDescription("Get trending videos in a specific region"),
		mcp.WithString("region_code", mcp.DefaultString("US"),
			mcp.Description("ISO 3166-1 alpha-2 country code (e.g., 'US', 'GB', 'IN')")),
		mcp.WithString("category_id", mcp.DefaultString("0"),
			mcp.Description("Video category ID (e.g., '10' for Music, '20' for Gaming)")),
		mcp.WithNumber("max_results", mcp.DefaultNumber(10), mcp.Description("Maximum number of results (1-50)")),
	), t.handleGetTrendingVideos)

	s.AddTool(mcp.NewTool("get_playlist_info",
		mcp.WithDescription("Get information about a YouTube playlist and its videos"),
		mcp.WithString("playlist_id", mcp.Required(), mcp.Description("YouTube playlist ID")),
		mcp.WithNumber("max_results", mcp.DefaultNumber(20), mcp.Description("Maximum number of videos to retrieve (1-50)")),
	), t.handleGetPlaylistInfo)
}

func (t *Toolset) handleGetVideoInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arg, err := req.RequireString("video_id")
	if err != nil {
		return errorResult(err), nil
	}
	videoID := ExtractVideoID(arg)

	video, err := t.catalog.GetVideo(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return notFoundResult("Video", videoID), nil
		}
		return errorResult(err), nil
	}

	return jsonResult(map[string]interface{}{
		"video_id":    video.ID,
		"title":       video.Title,
		"description": video.Description,
		"channel": map[string]interface{}{
			"name": video.ChannelName,
			"id":   video.ChannelID,
		},
		"published_at": video.PublishedAt,
		"duration":     FormatDuration(video.Duration),
		"duration_raw": video.Duration,
		"statistics": map[string]interface{}{
			"views":              video.Views,
			"views_formatted":    FormatNumber(video.Views),
			"likes":              video.Likes,
			"likes_formatted":    FormatNumber(video.Likes),
			"comments":           video.Comments,
			"comments_formatted": FormatNumber(video.Comments),
		},
		"tags":        video.Tags,
		"category_id": video.CategoryID,
		"thumbnail":   video.Thumbnail,
		"url":         videoURL(video.ID),
	})
}

func (t *Toolset) handleGetVideoComments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arg, err := req.RequireString("video_id")
	if err != nil {
		return errorResult(err), nil
	}
	videoID := ExtractVideoID(arg)
	max := clampMax(req.GetFloat("max_results", 20), 20, 100)
	order := req.GetString("order", "relevance")

	comments, err := t.catalog.GetVideoComments(ctx, videoID, max, order)
	if err != nil {
		return errorResult(err), nil
	}

	list := make([]map[string]interface{}, 0, len(comments))
	for _, c := range comments {
		list = append(list, map[string]interface{}{
			"author":       c.Author,
			"text":         c.Text,
			"likes":        c.Likes,
			"published_at": c.PublishedAt,
			"reply_count":  c.ReplyCount,
		})
	}

	return jsonResult(map[string]interface{}{
		"video_id":       videoID,
		"total_comments": len(list),
		"comments":       list,
	})
}

func (t *Toolset) handleSearchVideos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return errorResult(err), nil
	}
	max := clampMax(req.GetFloat("max_results", 10), 10, 50)
	order := req.GetString("order", "relevance")

	results, err := t.catalog.Search(ctx, query, max, order)
	if err != nil {
		return errorResult(err), nil
	}

	videos := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		videos = append(videos, map[string]interface{}{
			"video_id":     r.VideoID,
			"title":        r.Title,
			"description":  r.Description,
			"channel":      r.ChannelName,
			"channel_id":   r.ChannelID,
			"published_at": r.PublishedAt,
			"thumbnail":    r.Thumbnail,
			"url":          videoURL(r.VideoID),
		})
	}

	return jsonResult(map[string]interface{}{
		"query":         query,
		"total_results": len(videos),
		"videos":        videos,
	})
}

func (t *Toolset) handleGetChannelInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	return jsonResult(map[string]interface{}{
		"channel_id":   channel.ID,
		"title":        channel.Title,
		"description":  channel.Description,
		"custom_url":   channel.CustomURL,
		"published_at": channel.PublishedAt,
		"statistics": map[string]interface{}{
			"subscribers":           channel.Subscribers,
			"subscribers_formatted": FormatNumber(channel.Subscribers),
			"total_views":           channel.TotalViews,
			"total_views_formatted": FormatNumber(channel.TotalViews),
			"video_count":           channel.VideoCount,
		},
		"thumbnail": channel.Thumbnail,
		"country":   channel.Country,
		"url":       channelURL(channel.ID),
	})
}

func (t *Toolset) handleGetChannelVideos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arg, err := req.RequireString("channel_id")
	if err != nil {
		return errorResult(err), nil
	}
	channelID := ExtractChannelID(arg)
	max := clampMax(req.GetFloat("max_results", 10), 10, 50)

	videos, err := t.fetchChannelVideos(ctx, channelID, time.Time{}, max)
	if err != nil {
		return errorResult(err), nil
	}

	list := make([]map[string]interface{}, 0, len(videos))
	for _, v := range videos {
		list = append(list, map[string]interface{}{
			"video_id":        v.ID,
			"title":           v.Title,
			"description":     v.Description,
			"published_at":    v.PublishedAt,
			"views":           v.Views,
			"views_formatted": FormatNumber(v.Views),
			"thumbnail":       v.Thumbnail,
			"url":             videoURL(v.ID),
		})
	}

	return jsonResult(map[string]interface{}{
		"channel_id":   channelID,
		"total_videos": len(list),
		"videos":       list,
	})
}

func (t *Toolset) handleGetTrendingVideos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	region := req.GetString("region_code", "US")
	category := req.GetString("category_id", "0")
	max := clampMax(req.GetFloat("max_results", 10), 10, 50)

	videos, err := t.catalog.GetTrendingVideos(ctx, region, category, max)
	if err != nil {
		return errorResult(err), nil
	}

	list := make([]map[string]interface{}, 0, len(videos))
	for _, v := range videos {
		list = append(list, map[string]interface{}{
			"video_id":        v.ID,
			"title":           v.Title,
			"description":     v.Description,
			"channel":         v.ChannelName,
			"channel_id":      v.ChannelID,
			"published_at":    v.PublishedAt,
			"views":           v.Views,
			"views_formatted": FormatNumber(v.Views),
			"likes":           v.Likes,
			"thumbnail":       v.Thumbnail,
			"url":             videoURL(v.ID),
		})
	}

	return jsonResult(map[string]interface{}{
		"region":       region,
		"category":     category,
		"total_videos": len(list),
		"videos":       list,
	})
}

func (t *Toolset) handleGetPlaylistInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playlistID, err := req.RequireString("playlist_id")
	if err != nil {
		return errorResult(err), nil
	}
	max := clampMax(req.GetFloat("max_results", 20), 20, 50)

	playlist, err := t.catalog.GetPlaylist(ctx, playlistID, max)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return notFoundResult("Playlist", playlistID), nil
		}
		return errorResult(err), nil
	}

	items := make([]map[string]interface{}, 0, len(playlist.Items))
	for _, item := range playlist.Items {
		items = append(items, map[string]interface{}{
			"video_id":     item.VideoID,
			"title":        item.Title,
			"channel":      item.ChannelName,
			"published_at": item.PublishedAt,
			"position":     item.Position,
			"url":          videoURL(item.VideoID),
		})
	}

	return jsonResult(map[string]interface{}{
		"playlist_id":      playlist.ID,
		"title":            playlist.Title,
		"description":      playlist.Description,
		"channel":          playlist.ChannelName,
		"channel_id":       playlist.ChannelID,
		"total_videos":     playlist.TotalVideos,
		"videos_retrieved": len(items),
		"videos":           items,
	})
}

// fetchChannelVideos lists the channel's recent video IDs and resolves
// each to full statistics. Videos that vanish between the listing and
// the lookup are skipped.
func (t *Toolset) fetchChannelVideos(ctx context.Context, channelID string, publishedAfter time.Time, max int) ([]models.Video, error) {
	ids, err := t.catalog.ListChannelVideos(ctx, channelID, publishedAfter, max)
	if err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(ids))
	for _, id := range ids {
		v, err := t.catalog.GetVideo(ctx, id)
		if err != nil {
			if errors.Is(err, youtube.ErrNotFound) {
				logger.Warn("Skipping vanished video %s for channel %s", id, channelID)
				continue
			}
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, nil
}

// fetchVideos resolves a batch of video IDs, skipping unresolved ones.
func (t *Toolset) fetchVideos(ctx context.Context, ids []string) ([]models.Video, error) {
	videos := make([]models.Video, 0, len(ids))
	for _, raw := range ids {
		v, err := t.catalog.GetVideo(ctx, ExtractVideoID(raw))
		if err != nil {
			if errors.Is(err, youtube.ErrNotFound) {
				logger.Warn("Skipping unresolved video %s", raw)
				continue
			}
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, nil
}

// fetchChannels resolves a batch of channel IDs, skipping unresolved ones.
func (t *Toolset) fetchChannels(ctx context.Context, ids []string) ([]models.Channel, error) {
	channels := make([]models.Channel, 0, len(ids))
	for _, raw := range ids {
		ch, err := t.catalog.GetChannel(ctx, ExtractChannelID(raw))
		if err != nil {
			if errors.Is(err, youtube.ErrNotFound) {
				logger.Warn("Skipping unresolved channel %s", raw)
				continue
			}
			return nil, err
		}
		channels = append(channels, *ch)
	}
	return channels, nil
}
