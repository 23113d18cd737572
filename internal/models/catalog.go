// Package models defines the core domain entities for tubelens.
// These models represent YouTube catalog objects (videos, channels,
// playlists, comments) and the metric snapshots derived from them.
//
// Catalog models carry the subset of the YouTube Data API v3 fields the
// analytics engine consumes. Counters are uint64 and never negative.
package models

import (
	"errors"
	"time"
)

// Video represents a single YouTube video with its current statistics.
type Video struct {
	ID          string    `json:"video_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ChannelName string    `json:"channel_name"`
	ChannelID   string    `json:"channel_id"`
	PublishedAt time.Time `json:"published_at"`
	Duration    string    `json:"duration"` // ISO 8601, e.g. "PT4M13S"
	Views       uint64    `json:"views"`
	Likes       uint64    `json:"likes"`
	Comments    uint64    `json:"comments"`
	Tags        []string  `json:"tags,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// Validate checks that all video fields are valid.
func (v *Video) Validate() error {
	if v.ID == "" {
		return errors.New("video ID must not be empty")
	}
	if v.Title == "" {
		return errors.New("video title must not be empty")
	}
	if v.ChannelID == "" {
		return errors.New("channel ID must not be empty")
	}
	return nil
}

// StatsSnapshot returns the video's current counters as a Snapshot,
// stamped with the given time. The snapshot ID is left for the caller.
func (v *Video) StatsSnapshot(at time.Time, source string) Snapshot {
	return Snapshot{
		EntityID:  v.ID,
		Views:     v.Views,
		Likes:     v.Likes,
		Comments:  v.Comments,
		Timestamp: at,
		Source:    source,
	}
}

// Channel represents a YouTube channel with its aggregate statistics.
type Channel struct {
	ID          string    `json:"channel_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CustomURL   string    `json:"custom_url,omitempty"`
	Country     string    `json:"country"`
	PublishedAt time.Time `json:"published_at"`
	Subscribers uint64    `json:"subscribers"`
	TotalViews  uint64    `json:"total_views"`
	VideoCount  uint64    `json:"video_count"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// Validate checks that all channel fields are valid.
func (c *Channel) Validate() error {
	if c.ID == "" {
		return errors.New("channel ID must not be empty")
	}
	if c.Title == "" {
		return errors.New("channel title must not be empty")
	}
	return nil
}

// Comment represents a single top-level comment on a video.
type Comment struct {
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	Likes       uint64    `json:"likes"`
	PublishedAt time.Time `json:"published_at"`
	ReplyCount  uint64    `json:"reply_count"`
}

// SearchResult represents one hit from a video search.
type SearchResult struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ChannelName string    `json:"channel_name"`
	ChannelID   string    `json:"channel_id"`
	PublishedAt time.Time `json:"published_at"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// Playlist represents a YouTube playlist header plus its retrieved items.
type Playlist struct {
	ID          string         `json:"playlist_id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	ChannelName string         `json:"channel_name"`
	ChannelID   string         `json:"channel_id"`
	TotalVideos uint64         `json:"total_videos"`
	Items       []PlaylistItem `json:"items"`
}

// PlaylistItem is a single video entry inside a playlist.
type PlaylistItem struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	ChannelName string    `json:"channel_name"`
	PublishedAt time.Time `json:"published_at"`
	Position    uint64    `json:"position"`
}
