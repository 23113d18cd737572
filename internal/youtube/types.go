package youtube

import "time"

// Raw YouTube Data API v3 response shapes. Statistics counters arrive as
// decimal strings and are converted to uint64 during model mapping.

type videoListResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID             string          `json:"id"`
	Snippet        videoSnippet    `json:"snippet"`
	ContentDetails contentDetails  `json:"contentDetails"`
	Statistics     videoStatistics `json:"statistics"`
}

type videoSnippet struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ChannelID    string     `json:"channelId"`
	ChannelTitle string     `json:"channelTitle"`
	PublishedAt  time.Time  `json:"publishedAt"`
	Tags         []string   `json:"tags"`
	CategoryID   string     `json:"categoryId"`
	Thumbnails   thumbnails `json:"thumbnails"`
}

type contentDetails struct {
	Duration string `json:"duration"`
}

type videoStatistics struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

type channelListResponse struct {
	Items []channelItem `json:"items"`
}

type channelItem struct {
	ID         string            `json:"id"`
	Snippet    channelSnippet    `json:"snippet"`
	Statistics channelStatistics `json:"statistics"`
}

type channelSnippet struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CustomURL   string     `json:"customUrl"`
	Country     string     `json:"country"`
	PublishedAt time.Time  `json:"publishedAt"`
	Thumbnails  thumbnails `json:"thumbnails"`
}

type channelStatistics struct {
	SubscriberCount string `json:"subscriberCount"`
	ViewCount       string `json:"viewCount"`
	VideoCount      string `json:"videoCount"`
}

type searchListResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID      searchItemID  `json:"id"`
	Snippet searchSnippet `json:"snippet"`
}

type searchItemID struct {
	VideoID string `json:"videoId"`
}

type searchSnippet struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ChannelID    string     `json:"channelId"`
	ChannelTitle string     `json:"channelTitle"`
	PublishedAt  time.Time  `json:"publishedAt"`
	Thumbnails   thumbnails `json:"thumbnails"`
}

type commentThreadListResponse struct {
	Items []commentThreadItem `json:"items"`
}

type commentThreadItem struct {
	Snippet struct {
		TopLevelComment struct {
			Snippet commentSnippet `json:"snippet"`
		} `json:"topLevelComment"`
		TotalReplyCount uint64 `json:"totalReplyCount"`
	} `json:"snippet"`
}

type commentSnippet struct {
	AuthorDisplayName string    `json:"authorDisplayName"`
	TextDisplay       string    `json:"textDisplay"`
	LikeCount         uint64    `json:"likeCount"`
	PublishedAt       time.Time `json:"publishedAt"`
}

type playlistListResponse struct {
	Items []playlistItem `json:"items"`
}

type playlistItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelID    string `json:"channelId"`
		ChannelTitle string `json:"channelTitle"`
	} `json:"snippet"`
	ContentDetails struct {
		ItemCount uint64 `json:"itemCount"`
	} `json:"contentDetails"`
}

type playlistItemsResponse struct {
	Items []playlistEntryItem `json:"items"`
}

type playlistEntryItem struct {
	Snippet struct {
		Title        string    `json:"title"`
		ChannelTitle string    `json:"channelTitle"`
		PublishedAt  time.Time `json:"publishedAt"`
		Position     uint64    `json:"position"`
		ResourceID   struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
}

type thumbnails struct {
	High struct {
		URL string `json:"url"`
	} `json:"high"`
}
