// Package tracker runs the background polling loop that builds real
// snapshot history for configured videos and raises alerts when a video
// starts gaining views fast enough to count as a viral spike.
//
// Each cycle fetches current counters for every tracked video, appends a
// snapshot to storage, scans the recent window for viral spikes, and
// notifies via Telegram with per-video cooldown deduplication.
package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tubelens/tubelens/internal/analytics"
	"github.com/tubelens/tubelens/internal/logger"
	"github.com/tubelens/tubelens/internal/models"
	"github.com/tubelens/tubelens/internal/storage"
	"github.com/tubelens/tubelens/internal/telegram"
)

// Catalog is the subset of the upstream client the tracker needs.
type Catalog interface {
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
}

// Alerter delivers viral spike notifications. Nil disables alerting.
type Alerter interface {
	Send(alerts []telegram.Alert) error
}

// notifiedRecord tracks a previously sent alert for cooldown deduplication.
type notifiedRecord struct {
	SentAt time.Time
}

// Config holds the tracker's runtime parameters
type Config struct {
	VideoIDs          []string
	PollInterval      time.Duration
	Window            time.Duration
	ViralViewsPerHour float64
	AlertCooldown     time.Duration
}

// Tracker polls video counters and detects viral spikes
type Tracker struct {
	catalog        Catalog
	storage        *storage.Storage
	alerter        Alerter
	cfg            Config
	notifiedVideos map[string]notifiedRecord
}

// New creates a new Tracker instance
func New(catalog Catalog, s *storage.Storage, alerter Alerter, cfg Config) *Tracker {
	if cfg.ViralViewsPerHour <= 0 {
		cfg.ViralViewsPerHour = analytics.ViralViewsPerHour
	}
	return &Tracker{
		catalog:        catalog,
		storage:        s,
		alerter:        alerter,
		cfg:            cfg,
		notifiedVideos: make(map[string]notifiedRecord),
	}
}

// Run executes polling cycles until the context is cancelled. The first
// cycle runs immediately.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.PollInterval)
	defer ticker.Stop()

	t.RunCycle(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Tracker stopped")
			return
		case tick := <-ticker.C:
			t.RunCycle(ctx, tick)
		}
	}
}

// RunCycle performs one polling pass over all configured videos.
// Per-video failures are logged and skipped so one bad ID cannot stall
// the rest of the cycle.
func (t *Tracker) RunCycle(ctx context.Context, now time.Time) {
	var alerts []telegram.Alert

	for _, videoID := range t.cfg.VideoIDs {
		video, err := t.catalog.GetVideo(ctx, videoID)
		if err != nil {
			logger.Warn("Cycle: failed to fetch video %s: %v", videoID, err)
			continue
		}

		if err := t.storage.TrackEntity(video.ID, video.Title, now); err != nil {
			logger.Warn("Cycle: failed to track video %s: %v", video.ID, err)
			continue
		}

		snap := video.StatsSnapshot(now, "tracked")
		snap.ID = uuid.New().String()
		if err := t.storage.AddSnapshot(&snap); err != nil {
			logger.Warn("Cycle: failed to store snapshot for %s: %v", video.ID, err)
			continue
		}

		series, err := t.storage.GetSnapshotsInWindow(video.ID, t.cfg.Window)
		if err != nil {
			logger.Warn("Cycle: failed to load window for %s: %v", video.ID, err)
			continue
		}

		moments := analytics.Series(series).ViralMoments(t.cfg.ViralViewsPerHour)
		if len(moments) == 0 {
			continue
		}

		if rec, ok := t.notifiedVideos[video.ID]; ok && now.Sub(rec.SentAt) < t.cfg.AlertCooldown {
			continue
		}

		// Report the strongest spike in the window
		best := moments[0]
		for _, m := range moments[1:] {
			if m.ViewsPerHour > best.ViewsPerHour {
				best = m
			}
		}

		first := series[0]
		var gained uint64
		if best.TotalViews > first.Views {
			gained = best.TotalViews - first.Views
		}

		alerts = append(alerts, telegram.Alert{
			VideoID:      video.ID,
			VideoTitle:   video.Title,
			ChannelName:  video.ChannelName,
			ViewsPerHour: best.ViewsPerHour,
			ViewsGained:  gained,
			WindowStart:  first.Timestamp,
			WindowEnd:    best.Timestamp,
			DetectedAt:   now,
		})
	}

	if len(alerts) > 0 && t.alerter != nil {
		if err := t.alerter.Send(alerts); err != nil {
			logger.Error("Cycle: failed to send alerts: %v", err)
		} else {
			for _, a := range alerts {
				t.notifiedVideos[a.VideoID] = notifiedRecord{SentAt: now}
			}
			logger.Info("Cycle: sent %d viral alerts", len(alerts))
		}
	}

	if err := t.storage.RotateSnapshots(); err != nil {
		logger.Warn("Cycle: snapshot rotation failed: %v", err)
	}
	if err := t.storage.RotateEntities(); err != nil {
		logger.Warn("Cycle: entity rotation failed: %v", err)
	}
}
