// Command vidreport prints engagement reports for videos or a channel
// straight to the terminal, without going through the MCP transport.
//
// Usage:
//
//	vidreport [-config configs/config.yaml] VIDEO_ID [VIDEO_ID...]
//	vidreport -channel CHANNEL_ID [-days 7]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/tubelens/tubelens/internal/analytics"
	"github.com/tubelens/tubelens/internal/config"
	"github.com/tubelens/tubelens/internal/mcptools"
	"github.com/tubelens/tubelens/internal/models"
	"github.com/tubelens/tubelens/internal/youtube"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	channelID  = flag.String("channel", "", "Channel ID or @handle to report on")
	days       = flag.Int("days", 7, "Reporting period in days for channel reports")
)

func main() {
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	client := youtube.NewClient(cfg.YouTube.APIBaseURL, cfg.YouTube.APIKey, cfg.YouTube.Timeout)
	ctx := context.Background()

	if *channelID != "" {
		if err := printChannelReport(ctx, client, *channelID, *days); err != nil {
			log.Fatalf("Channel report failed: %v", err)
		}
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: vidreport VIDEO_ID [VIDEO_ID...] or vidreport -channel CHANNEL_ID")
		os.Exit(2)
	}

	for _, arg := range flag.Args() {
		id := mcptools.ExtractVideoID(arg)
		if err := printVideoReport(ctx, client, id); err != nil {
			log.Fatalf("Video report failed for %s: %v", id, err)
		}
	}
}

func printVideoReport(ctx context.Context, client *youtube.Client, videoID string) error {
	video, err := client.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}

	report := analytics.BuildVideoReport(*video)

	header(video.Title)
	fmt.Printf("Channel:    %s\n", video.ChannelName)
	fmt.Printf("Published:  %s\n", video.PublishedAt.Format("2006-01-02"))
	fmt.Printf("Duration:   %s\n", mcptools.FormatDuration(video.Duration))
	fmt.Println()
	fmt.Printf("Views:      %s\n", humanize.Comma(int64(video.Views)))
	fmt.Printf("Likes:      %s (%.2f%%)\n", humanize.Comma(int64(video.Likes)), report.Metrics.LikeRate)
	fmt.Printf("Comments:   %s (%.2f%%)\n", humanize.Comma(int64(video.Comments)), report.Metrics.CommentRate)
	fmt.Println()
	fmt.Printf("Engagement: %.1f (%s likes, %s)\n",
		report.Metrics.EngagementScore,
		report.Performance.LikeRating,
		strings.ToLower(string(report.Performance.CommentRating)),
	)
	fmt.Printf("Score:      %.1f/100 (grade %s)\n", report.Performance.Score, report.Performance.Grade)
	fmt.Println()

	return nil
}

func printChannelReport(ctx context.Context, client *youtube.Client, rawID string, periodDays int) error {
	id := mcptools.ExtractChannelID(rawID)
	channel, err := client.GetChannel(ctx, id)
	if err != nil {
		return err
	}

	since := time.Now().AddDate(0, 0, -periodDays)
	videoIDs, err := client.ListChannelVideos(ctx, channel.ID, since, 50)
	if err != nil {
		return err
	}

	videos := make([]models.Video, 0, len(videoIDs))
	for _, videoID := range videoIDs {
		video, err := client.GetVideo(ctx, videoID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", videoID, err)
			continue
		}
		videos = append(videos, *video)
	}

	report := analytics.BuildChannelReport(*channel, videos, periodDays)

	header(channel.Title)
	fmt.Printf("Subscribers:  %s\n", humanize.Comma(int64(channel.Subscribers)))
	fmt.Printf("Total views:  %s\n", humanize.Comma(int64(channel.TotalViews)))
	fmt.Printf("Videos:       %s\n", humanize.Comma(int64(channel.VideoCount)))
	fmt.Println()
	fmt.Printf("Last %d days: %d videos, %s views, %s likes\n",
		periodDays,
		report.Summary.VideosPublished,
		humanize.Comma(int64(report.Summary.TotalViews)),
		humanize.Comma(int64(report.Summary.TotalLikes)),
	)
	fmt.Printf("Avg views:    %s per video\n", humanize.Comma(int64(report.Summary.AvgViews)))
	fmt.Printf("Avg like rate: %.2f%%\n", report.Summary.AvgLikeRate)
	fmt.Printf("Period score: %.1f/100 (grade %s)\n", report.Performance.Score, report.Performance.Grade)
	fmt.Println()

	if len(report.TopByViews) > 0 {
		top := report.TopByViews[0]
		fmt.Printf("Top by views:      %s (%s views)\n", top.Video.Title, humanize.Comma(int64(top.Video.Views)))
	}
	if len(report.TopByLikeRate) > 0 {
		top := report.TopByLikeRate[0]
		fmt.Printf("Top by like rate:  %s (%.2f%%)\n", top.Video.Title, top.Engagement.LikeRate)
	}
	fmt.Println()

	return nil
}

func header(title string) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 80))
}
