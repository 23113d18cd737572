// Package youtube provides access to the YouTube Data API v3. It is the
// catalog collaborator for the analytics engine: it resolves videos,
// channels, playlists, comments, search and trending listings.
//
// Fetches are never retried. A failed fetch is reported to the caller,
// who decides whether to skip the entity (batch operations) or surface
// the error (single-entity operations).
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tubelens/tubelens/internal/models"
)

// ErrNotFound indicates that an entity ID did not resolve upstream.
// Batch callers skip the entity; single-entity callers surface it as a
// user-visible message.
var ErrNotFound = errors.New("not found")

// Client provides access to the YouTube Data API v3
type Client struct {
	apiBaseURL string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new YouTube API client
func NewClient(apiBaseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiBaseURL: apiBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetVideo retrieves a single video with snippet, content details, and
// statistics. Returns ErrNotFound when the ID does not resolve.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", videoID)

	var resp videoListResponse
	if err := c.get(ctx, "/videos", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch video %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNotFound)
	}

	item := resp.Items[0]
	video := &models.Video{
		ID:          videoID,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		ChannelName: item.Snippet.ChannelTitle,
		ChannelID:   item.Snippet.ChannelID,
		PublishedAt: item.Snippet.PublishedAt,
		Duration:    item.ContentDetails.Duration,
		Views:       parseCount(item.Statistics.ViewCount),
		Likes:       parseCount(item.Statistics.LikeCount),
		Comments:    parseCount(item.Statistics.CommentCount),
		Tags:        item.Snippet.Tags,
		CategoryID:  item.Snippet.CategoryID,
		Thumbnail:   item.Snippet.Thumbnails.High.URL,
	}
	return video, nil
}

// GetChannel retrieves a single channel with snippet and statistics.
// A "@handle" argument resolves via forHandle instead of the channel ID.
// Returns ErrNotFound when the ID does not resolve.
func (c *Client) GetChannel(ctx context.Context, channelID string) (*models.Channel, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	if strings.HasPrefix(channelID, "@") {
		params.Set("forHandle", channelID)
	} else {
		params.Set("id", channelID)
	}

	var resp channelListResponse
	if err := c.get(ctx, "/channels", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}

	item := resp.Items[0]
	resolvedID := channelID
	if item.ID != "" {
		resolvedID = item.ID
	}
	channel := &models.Channel{
		ID:          resolvedID,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		CustomURL:   item.Snippet.CustomURL,
		Country:     orUnknown(item.Snippet.Country),
		PublishedAt: item.Snippet.PublishedAt,
		Subscribers: parseCount(item.Statistics.SubscriberCount),
		TotalViews:  parseCount(item.Statistics.ViewCount),
		VideoCount:  parseCount(item.Statistics.VideoCount),
		Thumbnail:   item.Snippet.Thumbnails.High.URL,
	}
	return channel, nil
}

// ListChannelVideos returns the channel's most recent video IDs, newest
// first. publishedAfter restricts results when non-zero.
func (c *Client) ListChannelVideos(ctx context.Context, channelID string, publishedAfter time.Time, max int) ([]string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("maxResults", strconv.Itoa(max))
	if !publishedAfter.IsZero() {
		params.Set("publishedAfter", publishedAfter.UTC().Format(time.RFC3339))
	}

	var resp searchListResponse
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to list videos for channel %s: %w", channelID, err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

// Search runs a keyword video search with the given sort order
// (date, rating, relevance, title, viewCount).
func (c *Client) Search(ctx context.Context, query string, max int, order string) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(max))
	if order != "" {
		params.Set("order", order)
	}

	var resp searchListResponse
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q failed: %w", query, err)
	}

	results := make([]models.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, models.SearchResult{
			VideoID:     item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			ChannelName: item.Snippet.ChannelTitle,
			ChannelID:   item.Snippet.ChannelID,
			PublishedAt: item.Snippet.PublishedAt,
			Thumbnail:   item.Snippet.Thumbnails.High.URL,
		})
	}
	return results, nil
}

// GetVideoComments retrieves top-level comments on a video, ordered by
// "time" or "relevance".
func (c *Client) GetVideoComments(ctx context.Context, videoID string, max int, order string) ([]models.Comment, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("maxResults", strconv.Itoa(max))
	params.Set("textFormat", "plainText")
	if order != "" {
		params.Set("order", order)
	}

	var resp commentThreadListResponse
	if err := c.get(ctx, "/commentThreads", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch comments for video %s: %w", videoID, err)
	}

	comments := make([]models.Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		cs := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, models.Comment{
			Author:      cs.AuthorDisplayName,
			Text:        cs.TextDisplay,
			Likes:       cs.LikeCount,
			PublishedAt: cs.PublishedAt,
			ReplyCount:  item.Snippet.TotalReplyCount,
		})
	}
	return comments, nil
}

// GetTrendingVideos retrieves the mostPopular chart for a region.
// categoryID "0" means all categories.
func (c *Client) GetTrendingVideos(ctx context.Context, regionCode, categoryID string, max int) ([]models.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("chart", "mostPopular")
	params.Set("regionCode", regionCode)
	params.Set("maxResults", strconv.Itoa(max))
	if categoryID != "" && categoryID != "0" {
		params.Set("videoCategoryId", categoryID)
	}

	var resp videoListResponse
	if err := c.get(ctx, "/videos", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch trending videos for %s: %w", regionCode, err)
	}

	videos := make([]models.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, models.Video{
			ID:          item.ID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			ChannelName: item.Snippet.ChannelTitle,
			ChannelID:   item.Snippet.ChannelID,
			PublishedAt: item.Snippet.PublishedAt,
			Views:       parseCount(item.Statistics.ViewCount),
			Likes:       parseCount(item.Statistics.LikeCount),
			Comments:    parseCount(item.Statistics.CommentCount),
			Thumbnail:   item.Snippet.Thumbnails.High.URL,
		})
	}
	return videos, nil
}

// GetPlaylist retrieves a playlist header plus up to max of its items.
// Returns ErrNotFound when the playlist ID does not resolve.
func (c *Client) GetPlaylist(ctx context.Context, playlistID string, max int) (*models.Playlist, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", playlistID)

	var listResp playlistListResponse
	if err := c.get(ctx, "/playlists", params, &listResp); err != nil {
		return nil, fmt.Errorf("failed to fetch playlist %s: %w", playlistID, err)
	}
	if len(listResp.Items) == 0 {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, ErrNotFound)
	}

	header := listResp.Items[0]
	playlist := &models.Playlist{
		ID:          playlistID,
		Title:       header.Snippet.Title,
		Description: header.Snippet.Description,
		ChannelName: header.Snippet.ChannelTitle,
		ChannelID:   header.Snippet.ChannelID,
		TotalVideos: header.ContentDetails.ItemCount,
	}

	itemParams := url.Values{}
	itemParams.Set("part", "snippet")
	itemParams.Set("playlistId", playlistID)
	itemParams.Set("maxResults", strconv.Itoa(max))

	var itemsResp playlistItemsResponse
	if err := c.get(ctx, "/playlistItems", itemParams, &itemsResp); err != nil {
		return nil, fmt.Errorf("failed to fetch items for playlist %s: %w", playlistID, err)
	}

	for _, item := range itemsResp.Items {
		playlist.Items = append(playlist.Items, models.PlaylistItem{
			VideoID:     item.Snippet.ResourceID.VideoID,
			Title:       item.Snippet.Title,
			ChannelName: item.Snippet.ChannelTitle,
			PublishedAt: item.Snippet.PublishedAt,
			Position:    item.Snippet.Position,
		})
	}
	return playlist, nil
}

// get performs a single GET against the Data API. No retries: a transient
// upstream fault is the caller's decision to skip or surface.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", c.apiKey)
	reqURL := c.apiBaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseCount converts the API's decimal-string counters to uint64.
// Missing counters (e.g. hidden like counts) decode as 0.
func parseCount(s string) uint64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
