// Package mcptools exposes the analytics engine as MCP tools over stdio.
// Each tool resolves catalog entities, runs the relevant analytics, and
// returns an indented-JSON text payload. Failures are reported in-band
// as "Error: ..." text so clients never see protocol-level errors for
// bad input or upstream faults.
package mcptools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/tubelens/tubelens/internal/models"
	"github.com/tubelens/tubelens/internal/storage"
)

// Catalog is the upstream lookup surface the tools consume.
type Catalog interface {
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
	GetChannel(ctx context.Context, channelID string) (*models.Channel, error)
	ListChannelVideos(ctx context.Context, channelID string, publishedAfter time.Time, max int) ([]string, error)
	Search(ctx context.Context, query string, max int, order string) ([]models.SearchResult, error)
	GetVideoComments(ctx context.Context, videoID string, max int, order string) ([]models.Comment, error)
	GetTrendingVideos(ctx context.Context, regionCode, categoryID string, max int) ([]models.Video, error)
	GetPlaylist(ctx context.Context, playlistID string, max int) (*models.Playlist, error)
}

// Toolset binds the tool handlers to their collaborators. The snapshot
// store may be nil; trend tools then always use synthetic history.
type Toolset struct {
	catalog Catalog
	store   *storage.Storage
	now     func() time.Time
}

// New creates a Toolset over the given catalog and snapshot store.
func New(catalog Catalog, store *storage.Storage) *Toolset {
	return &Toolset{
		catalog: catalog,
		store:   store,
		now:     time.Now,
	}
}

// NewServer builds the MCP server with every tool registered.
func NewServer(version string, t *Toolset) *server.MCPServer {
	s := server.NewMCPServer(
		"tubelens",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	t.Register(s)
	return s
}

// Register adds all tools to the server.
func (t *Toolset) Register(s *server.MCPServer) {
	t.registerCatalogTools(s)
	t.registerAnalyticsTools(s)
	t.registerTrendTools(s)
	t.registerComparisonTools(s)
	t.registerReportTools(s)
}

// clampMax bounds a tool's max_results argument to [1, limit].
func clampMax(requested float64, fallback, limit int) int {
	n := int(requested)
	if n <= 0 {
		n = fallback
	}
	if n > limit {
		n = limit
	}
	return n
}
