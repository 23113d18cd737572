package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tubelens/tubelens/internal/models"
	"github.com/tubelens/tubelens/internal/storage"
	"github.com/tubelens/tubelens/internal/youtube"
)

type fakeCatalog struct {
	videos    map[string]models.Video
	channels  map[string]models.Channel
	results   []models.SearchResult
	comments  []models.Comment
	trending  []models.Video
	playlists map[string]models.Playlist
}

func (f *fakeCatalog) GetVideo(_ context.Context, videoID string) (*models.Video, error) {
	v, ok := f.videos[videoID]
	if !ok {
		return nil, fmt.Errorf("video %s: %w", videoID, youtube.ErrNotFound)
	}
	return &v, nil
}

func (f *fakeCatalog) GetChannel(_ context.Context, channelID string) (*models.Channel, error) {
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", channelID, youtube.ErrNotFound)
	}
	return &ch, nil
}

func (f *fakeCatalog) ListChannelVideos(_ context.Context, channelID string, _ time.Time, _ int) ([]string, error) {
	var ids []string
	for id, v := range f.videos {
		if v.ChannelID == channelID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeCatalog) Search(_ context.Context, _ string, _ int, _ string) ([]models.SearchResult, error) {
	return f.results, nil
}

func (f *fakeCatalog) GetVideoComments(_ context.Context, _ string, _ int, _ string) ([]models.Comment, error) {
	return f.comments, nil
}

func (f *fakeCatalog) GetTrendingVideos(_ context.Context, _, _ string, _ int) ([]models.Video, error) {
	return f.trending, nil
}

func (f *fakeCatalog) GetPlaylist(_ context.Context, playlistID string, _ int) (*models.Playlist, error) {
	pl, ok := f.playlists[playlistID]
	if !ok {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, youtube.ErrNotFound)
	}
	return &pl, nil
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestToolset(catalog *fakeCatalog, store *storage.Storage) *Toolset {
	ts := New(catalog, store)
	ts.now = func() time.Time { return testNow }
	return ts
}

func callReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func decodeJSON(t *testing.T, res *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	text := textOf(t, res)
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		t.Fatalf("payload is not JSON: %v\n%s", err, text)
	}
	return payload
}

func testVideo(id string, views, likes, comments uint64) models.Video {
	return models.Video{
		ID:          id,
		Title:       "Video " + id,
		ChannelName: "Chan",
		ChannelID:   "chan1",
		PublishedAt: testNow.AddDate(0, 0, -3),
		Duration:    "PT4M13S",
		Views:       views,
		Likes:       likes,
		Comments:    comments,
	}
}

func testChannel(id string, subs, views, count uint64) models.Channel {
	return models.Channel{
		ID:          id,
		Title:       "Channel " + id,
		Country:     "US",
		PublishedAt: testNow.AddDate(-2, 0, 0),
		Subscribers: subs,
		TotalViews:  views,
		VideoCount:  count,
	}
}

func TestGetVideoInfo(t *testing.T) {
	catalog := &fakeCatalog{videos: map[string]models.Video{
		"v1": testVideo("v1", 1_500_000, 60_000, 5_000),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleGetVideoInfo(context.Background(), callReq(map[string]interface{}{
		"video_id": "https://youtu.be/v1",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["title"] != "Video v1" {
		t.Errorf("title = %v", payload["title"])
	}
	if payload["duration"] != "4m 13s" {
		t.Errorf("duration = %v", payload["duration"])
	}
	stats := payload["statistics"].(map[string]interface{})
	if stats["views_formatted"] != "1.5M" {
		t.Errorf("views_formatted = %v", stats["views_formatted"])
	}
	if payload["url"] != "https://youtube.com/watch?v=v1" {
		t.Errorf("url = %v", payload["url"])
	}
}

func TestGetVideoInfoNotFound(t *testing.T) {
	ts := newTestToolset(&fakeCatalog{videos: map[string]models.Video{}}, nil)

	res, err := ts.handleGetVideoInfo(context.Background(), callReq(map[string]interface{}{
		"video_id": "missing",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if got := textOf(t, res); got != "Video not found: missing" {
		t.Errorf("text = %q", got)
	}
}

func TestGetVideoComments(t *testing.T) {
	catalog := &fakeCatalog{comments: []models.Comment{
		{Author: "alice", Text: "great video", Likes: 12, PublishedAt: testNow.AddDate(0, 0, -1), ReplyCount: 2},
		{Author: "bob", Text: "nice", Likes: 3, PublishedAt: testNow},
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleGetVideoComments(context.Background(), callReq(map[string]interface{}{
		"video_id": "v1",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["video_id"] != "v1" {
		t.Errorf("video_id = %v", payload["video_id"])
	}
	if payload["total_comments"] != 2.0 {
		t.Errorf("total_comments = %v, want 2", payload["total_comments"])
	}
	comments := payload["comments"].([]interface{})
	first := comments[0].(map[string]interface{})
	if first["author"] != "alice" || first["likes"] != 12.0 {
		t.Errorf("first comment = %v", first)
	}
}

func TestSearchVideos(t *testing.T) {
	catalog := &fakeCatalog{results: []models.SearchResult{
		{VideoID: "v1", Title: "First hit", ChannelName: "Chan", ChannelID: "chan1", PublishedAt: testNow},
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleSearchVideos(context.Background(), callReq(map[string]interface{}{
		"query": "go tutorials",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["query"] != "go tutorials" {
		t.Errorf("query = %v", payload["query"])
	}
	if payload["total_results"] != 1.0 {
		t.Errorf("total_results = %v, want 1", payload["total_results"])
	}
	videos := payload["videos"].([]interface{})
	hit := videos[0].(map[string]interface{})
	if hit["video_id"] != "v1" || hit["channel"] != "Chan" {
		t.Errorf("hit = %v", hit)
	}
	if hit["url"] != "https://youtube.com/watch?v=v1" {
		t.Errorf("url = %v", hit["url"])
	}
}

func TestGetTrendingVideos(t *testing.T) {
	catalog := &fakeCatalog{trending: []models.Video{
		testVideo("v1", 2_000_000, 100_000, 9_000),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleGetTrendingVideos(context.Background(), callReq(map[string]interface{}{
		"region_code": "GB",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["region"] != "GB" {
		t.Errorf("region = %v, want GB", payload["region"])
	}
	if payload["total_videos"] != 1.0 {
		t.Errorf("total_videos = %v, want 1", payload["total_videos"])
	}
	videos := payload["videos"].([]interface{})
	top := videos[0].(map[string]interface{})
	if top["views_formatted"] != "2.0M" {
		t.Errorf("views_formatted = %v, want 2.0M", top["views_formatted"])
	}
}

func TestGetPlaylistInfo(t *testing.T) {
	catalog := &fakeCatalog{playlists: map[string]models.Playlist{
		"pl1": {
			ID:          "pl1",
			Title:       "Best of Chan",
			ChannelName: "Chan",
			ChannelID:   "chan1",
			TotalVideos: 40,
			Items: []models.PlaylistItem{
				{VideoID: "v1", Title: "Video v1", ChannelName: "Chan", PublishedAt: testNow, Position: 0},
				{VideoID: "v2", Title: "Video v2", ChannelName: "Chan", PublishedAt: testNow, Position: 1},
			},
		},
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleGetPlaylistInfo(context.Background(), callReq(map[string]interface{}{
		"playlist_id": "pl1",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["playlist_id"] != "pl1" {
		t.Errorf("playlist_id = %v", payload["playlist_id"])
	}
	if payload["total_videos"] != 40.0 {
		t.Errorf("total_videos = %v, want 40", payload["total_videos"])
	}
	if payload["videos_retrieved"] != 2.0 {
		t.Errorf("videos_retrieved = %v, want 2", payload["videos_retrieved"])
	}
	items := payload["videos"].([]interface{})
	second := items[1].(map[string]interface{})
	if second["video_id"] != "v2" || second["position"] != 1.0 {
		t.Errorf("second item = %v", second)
	}
}

func TestGetVideoAnalytics(t *testing.T) {
	catalog := &fakeCatalog{videos: map[string]models.Video{
		"v1": testVideo("v1", 1000, 60, 5),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleGetVideoAnalytics(context.Background(), callReq(map[string]interface{}{
		"video_id": "v1",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["like_rate"] != 6.0 {
		t.Errorf("like_rate = %v, want 6", payload["like_rate"])
	}
	if payload["comment_rate"] != 0.5 {
		t.Errorf("comment_rate = %v, want 0.5", payload["comment_rate"])
	}
	if payload["engagement_score"] != 5.7 {
		t.Errorf("engagement_score = %v, want 5.7", payload["engagement_score"])
	}
}

func TestAnalyzeVideoEngagement(t *testing.T) {
	catalog := &fakeCatalog{videos: map[string]models.Video{
		"v1": testVideo("v1", 1000, 60, 5),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleAnalyzeVideoEngagement(context.Background(), callReq(map[string]interface{}{
		"video_id": "v1",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	analysis := payload["engagement_analysis"].(map[string]interface{})
	if analysis["like_rating"] != "Excellent" {
		t.Errorf("like_rating = %v", analysis["like_rating"])
	}
	if analysis["comment_rating"] != "High Engagement" {
		t.Errorf("comment_rating = %v", analysis["comment_rating"])
	}
	if payload["interpretation"] == "" {
		t.Error("interpretation is empty")
	}
}

func TestGetVideoPerformanceScore(t *testing.T) {
	catalog := &fakeCatalog{videos: map[string]models.Video{
		"v1": testVideo("v1", 1000, 60, 5),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleGetVideoPerformanceScore(context.Background(), callReq(map[string]interface{}{
		"video_id": "v1",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["performance_score"] != 57.0 {
		t.Errorf("performance_score = %v, want 57", payload["performance_score"])
	}
	if payload["grade"] != "C" {
		t.Errorf("grade = %v, want C", payload["grade"])
	}
}

func TestCompareVideosValidation(t *testing.T) {
	ts := newTestToolset(&fakeCatalog{videos: map[string]models.Video{}}, nil)

	res, err := ts.handleCompareVideos(context.Background(), callReq(map[string]interface{}{
		"video_ids": []interface{}{"only-one"},
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if got := textOf(t, res); !strings.HasPrefix(got, "Error: ") {
		t.Errorf("expected Error prefix, got %q", got)
	}
}

func TestCompareVideosSkipsMissing(t *testing.T) {
	catalog := &fakeCatalog{videos: map[string]models.Video{
		"v1": testVideo("v1", 1000, 60, 5),
		"v2": testVideo("v2", 2000, 40, 2),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleCompareVideos(context.Background(), callReq(map[string]interface{}{
		"video_ids": []interface{}{"v1", "missing", "v2"},
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["videos_compared"] != 2.0 {
		t.Errorf("videos_compared = %v, want 2", payload["videos_compared"])
	}
	ranking := payload["ranking_by_engagement"].([]interface{})
	first := ranking[0].(map[string]interface{})
	// v1 scores 5.7, v2 scores 1.7
	if first["video_id"] != "v1" {
		t.Errorf("top ranked = %v, want v1", first["video_id"])
	}
	highlights := payload["highlights"].(map[string]interface{})
	mostViews := highlights["most_views"].(map[string]interface{})
	if mostViews["video_id"] != "v2" {
		t.Errorf("most_views = %v, want v2", mostViews["video_id"])
	}
}

func TestDetectViralMomentsSyntheticFallback(t *testing.T) {
	catalog := &fakeCatalog{videos: map[string]models.Video{
		"v1": testVideo("v1", 100_000, 5_000, 500),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleDetectViralMoments(context.Background(), callReq(map[string]interface{}{
		"video_id": "v1",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["history_source"] != "synthetic" {
		t.Errorf("history_source = %v, want synthetic", payload["history_source"])
	}
	// synthetic weekly gains never clear 10000 views/hour at this scale
	if payload["moments_detected"] != 0.0 {
		t.Errorf("moments_detected = %v, want 0", payload["moments_detected"])
	}
}

func TestTrackGrowthTrendsTrackedHistory(t *testing.T) {
	catalog := &fakeCatalog{videos: map[string]models.Video{
		"v1": testVideo("v1", 100_000, 5_000, 500),
	}}
	store, err := storage.New(10, 10, ":memory:")
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	defer store.Close()

	if err := store.TrackEntity("v1", "Video v1", testNow); err != nil {
		t.Fatalf("TrackEntity() error = %v", err)
	}
	for i, views := range []uint64{50_000, 75_000, 100_000} {
		snap := &models.Snapshot{
			ID:        uuid.New().String(),
			EntityID:  "v1",
			Views:     views,
			Likes:     views / 20,
			Comments:  views / 200,
			Timestamp: testNow.AddDate(0, 0, i-2),
			Source:    "tracked",
		}
		if err := store.AddSnapshot(snap); err != nil {
			t.Fatalf("AddSnapshot() error = %v", err)
		}
	}

	ts := newTestToolset(catalog, store)
	res, err := ts.handleTrackGrowthTrends(context.Background(), callReq(map[string]interface{}{
		"video_id": "v1",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["history_source"] != "tracked" {
		t.Errorf("history_source = %v, want tracked", payload["history_source"])
	}
	if payload["data_points"] != 3.0 {
		t.Errorf("data_points = %v, want 3", payload["data_points"])
	}
	if payload["view_growth_pct"] != 100.0 {
		t.Errorf("view_growth_pct = %v, want 100", payload["view_growth_pct"])
	}
	if payload["views_per_day"] != 25000.0 {
		t.Errorf("views_per_day = %v, want 25000", payload["views_per_day"])
	}
}

func TestForecastPerformanceSynthetic(t *testing.T) {
	catalog := &fakeCatalog{videos: map[string]models.Video{
		"v1": testVideo("v1", 100_000, 5_000, 500),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleForecastPerformance(context.Background(), callReq(map[string]interface{}{
		"video_id":   "v1",
		"days_ahead": 3.0,
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["history_source"] != "synthetic" {
		t.Errorf("history_source = %v, want synthetic", payload["history_source"])
	}
	forecast := payload["forecast"].([]interface{})
	if len(forecast) != 3 {
		t.Fatalf("forecast length = %d, want 3", len(forecast))
	}
	// synthetic series grows 70000 views over 14 days: 5000 views/day
	first := forecast[0].(map[string]interface{})
	if first["predicted_views"] != 105000.0 {
		t.Errorf("day 1 predicted_views = %v, want 105000", first["predicted_views"])
	}
}

func TestBenchmarkPerformance(t *testing.T) {
	catalog := &fakeCatalog{channels: map[string]models.Channel{
		"c1": testChannel("c1", 1000, 100_000, 100),
		"c2": testChannel("c2", 2000, 50_000, 50),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleBenchmarkPerformance(context.Background(), callReq(map[string]interface{}{
		"target_channel_id":      "c1",
		"competitor_channel_ids": []interface{}{"c2"},
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	target := payload["target"].(map[string]interface{})
	if target["rank_by_subscribers"] != 2.0 {
		t.Errorf("rank_by_subscribers = %v, want 2", target["rank_by_subscribers"])
	}
	// c1: avg views 1000, engagement 1000/1000*100 = 100
	// c2: avg views 1000, engagement 1000/2000*100 = 50
	if target["rank_by_engagement"] != 1.0 {
		t.Errorf("rank_by_engagement = %v, want 1", target["rank_by_engagement"])
	}
}

func TestIdentifyCompetitiveAdvantages(t *testing.T) {
	catalog := &fakeCatalog{channels: map[string]models.Channel{
		"c1": testChannel("c1", 1000, 100_000, 100),
		"c2": testChannel("c2", 2000, 50_000, 50),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleIdentifyCompetitiveAdvantages(context.Background(), callReq(map[string]interface{}{
		"channel_id":             "c1",
		"comparison_channel_ids": []interface{}{"c2"},
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	advantages := payload["advantages"].([]interface{})
	weaknesses := payload["weaknesses"].([]interface{})
	if len(advantages)+len(weaknesses) != 3 {
		t.Errorf("statements = %d + %d, want 3 total", len(advantages), len(weaknesses))
	}
	if len(advantages) != 1 || advantages[0] != "Above average view-to-subscriber ratio" {
		t.Errorf("advantages = %v", advantages)
	}
}

func TestTrackMarketShare(t *testing.T) {
	catalog := &fakeCatalog{channels: map[string]models.Channel{
		"c1": testChannel("c1", 100, 1000, 10),
		"c2": testChannel("c2", 900, 9000, 10),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleTrackMarketShare(context.Background(), callReq(map[string]interface{}{
		"channel_ids": []interface{}{"c1", "c2"},
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["total_subscribers"] != 1000.0 {
		t.Errorf("total_subscribers = %v, want 1000", payload["total_subscribers"])
	}
	channels := payload["channels"].([]interface{})
	first := channels[0].(map[string]interface{})
	if first["subscriber_share_percent"] != 10.0 {
		t.Errorf("subscriber_share_percent = %v, want 10", first["subscriber_share_percent"])
	}
}

func TestAnalyzeContentStrategy(t *testing.T) {
	ch := testChannel("c1", 1000, 100_000, 100)
	ch.PublishedAt = testNow.AddDate(0, 0, -600) // 20 months: 5 videos/month
	catalog := &fakeCatalog{channels: map[string]models.Channel{"c1": ch}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleAnalyzeContentStrategy(context.Background(), callReq(map[string]interface{}{
		"channel_id": "c1",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["posting_frequency"] != "Weekly" {
		t.Errorf("posting_frequency = %v, want Weekly", payload["posting_frequency"])
	}
	if payload["estimated_videos_per_month"] != 5.0 {
		t.Errorf("estimated_videos_per_month = %v, want 5", payload["estimated_videos_per_month"])
	}
}

func TestGenerateVideoReport(t *testing.T) {
	catalog := &fakeCatalog{videos: map[string]models.Video{
		"v1": testVideo("v1", 1000, 60, 5),
	}}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleGenerateVideoReport(context.Background(), callReq(map[string]interface{}{
		"video_id": "v1",
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	if payload["generated_at"] != "2026-03-01T12:00:00Z" {
		t.Errorf("generated_at = %v", payload["generated_at"])
	}
	performance := payload["performance"].(map[string]interface{})
	if performance["score"] != 57.0 {
		t.Errorf("score = %v, want 57", performance["score"])
	}
	if performance["grade"] != "C" {
		t.Errorf("grade = %v, want C", performance["grade"])
	}
	analysis := payload["analysis"].(map[string]interface{})
	if analysis["overall_assessment"] == "" {
		t.Error("overall_assessment is empty")
	}
}

func TestGenerateChannelReport(t *testing.T) {
	catalog := &fakeCatalog{
		channels: map[string]models.Channel{
			"chan1": testChannel("chan1", 10_000, 1_000_000, 200),
		},
		videos: map[string]models.Video{
			"v1": testVideo("v1", 1000, 60, 5),
			"v2": testVideo("v2", 3000, 30, 3),
		},
	}
	ts := newTestToolset(catalog, nil)

	res, err := ts.handleGenerateChannelReport(context.Background(), callReq(map[string]interface{}{
		"channel_id":  "chan1",
		"period_days": 7.0,
	}))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}

	payload := decodeJSON(t, res)
	summary := payload["period_summary"].(map[string]interface{})
	if summary["videos_published"] != 2.0 {
		t.Errorf("videos_published = %v, want 2", summary["videos_published"])
	}
	if summary["total_views"] != 4000.0 {
		t.Errorf("total_views = %v, want 4000", summary["total_views"])
	}
	if _, ok := payload["videos"]; !ok {
		t.Error("videos breakdown missing with include_videos default")
	}
	top := payload["top_performers"].(map[string]interface{})
	byViews := top["by_views"].([]interface{})
	first := byViews[0].(map[string]interface{})
	if first["video_id"] != "v2" {
		t.Errorf("top by views = %v, want v2", first["video_id"])
	}
}
