package tracker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tubelens/tubelens/internal/models"
	"github.com/tubelens/tubelens/internal/storage"
	"github.com/tubelens/tubelens/internal/telegram"
)

type fakeCatalog struct {
	videos map[string]models.Video
}

func (f *fakeCatalog) GetVideo(_ context.Context, videoID string) (*models.Video, error) {
	v, ok := f.videos[videoID]
	if !ok {
		return nil, fmt.Errorf("not found: %s", videoID)
	}
	return &v, nil
}

type fakeAlerter struct {
	sent [][]telegram.Alert
	err  error
}

func (f *fakeAlerter) Send(alerts []telegram.Alert) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, alerts)
	return nil
}

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.New(100, 100, ":memory:")
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func video(id string, views uint64) models.Video {
	return models.Video{
		ID:          id,
		Title:       "Video " + id,
		ChannelName: "Chan",
		ChannelID:   "chan1",
		PublishedAt: time.Now().Add(-72 * time.Hour),
		Views:       views,
		Likes:       views / 20,
		Comments:    views / 200,
	}
}

func testConfig(ids ...string) Config {
	return Config{
		VideoIDs:          ids,
		PollInterval:      time.Minute,
		Window:            24 * time.Hour,
		ViralViewsPerHour: 10000,
		AlertCooldown:     time.Hour,
	}
}

func TestRunCycleStoresSnapshots(t *testing.T) {
	s := newTestStorage(t)
	catalog := &fakeCatalog{videos: map[string]models.Video{"v1": video("v1", 5000)}}
	tr := New(catalog, s, nil, testConfig("v1"))

	now := time.Now()
	tr.RunCycle(context.Background(), now.Add(-time.Hour))
	catalog.videos["v1"] = video("v1", 6000)
	tr.RunCycle(context.Background(), now)

	snaps, err := s.GetSnapshots("v1")
	if err != nil {
		t.Fatalf("GetSnapshots() error = %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(snaps))
	}
	if snaps[0].Views != 5000 || snaps[1].Views != 6000 {
		t.Errorf("views = %d, %d, want 5000, 6000", snaps[0].Views, snaps[1].Views)
	}
	if snaps[0].Source != "tracked" {
		t.Errorf("source = %q, want tracked", snaps[0].Source)
	}
}

func TestRunCycleAlertsOnViralSpike(t *testing.T) {
	s := newTestStorage(t)
	catalog := &fakeCatalog{videos: map[string]models.Video{"v1": video("v1", 10000)}}
	alerter := &fakeAlerter{}
	tr := New(catalog, s, alerter, testConfig("v1"))

	now := time.Now()
	tr.RunCycle(context.Background(), now.Add(-time.Hour))
	// +15000 views in one hour clears the 10000/hour threshold
	catalog.videos["v1"] = video("v1", 25000)
	tr.RunCycle(context.Background(), now)

	if len(alerter.sent) != 1 {
		t.Fatalf("sent batches = %d, want 1", len(alerter.sent))
	}
	alert := alerter.sent[0][0]
	if alert.VideoID != "v1" {
		t.Errorf("VideoID = %s, want v1", alert.VideoID)
	}
	if alert.ViewsPerHour < 14000 || alert.ViewsPerHour > 16000 {
		t.Errorf("ViewsPerHour = %f, want ~15000", alert.ViewsPerHour)
	}
	if alert.ViewsGained != 15000 {
		t.Errorf("ViewsGained = %d, want 15000", alert.ViewsGained)
	}
}

func TestRunCycleBelowThresholdNoAlert(t *testing.T) {
	s := newTestStorage(t)
	catalog := &fakeCatalog{videos: map[string]models.Video{"v1": video("v1", 10000)}}
	alerter := &fakeAlerter{}
	tr := New(catalog, s, alerter, testConfig("v1"))

	now := time.Now()
	tr.RunCycle(context.Background(), now.Add(-time.Hour))
	catalog.videos["v1"] = video("v1", 15000)
	tr.RunCycle(context.Background(), now)

	if len(alerter.sent) != 0 {
		t.Errorf("sent batches = %d, want 0", len(alerter.sent))
	}
}

func TestRunCycleCooldownSuppressesRepeat(t *testing.T) {
	s := newTestStorage(t)
	catalog := &fakeCatalog{videos: map[string]models.Video{"v1": video("v1", 10000)}}
	alerter := &fakeAlerter{}
	tr := New(catalog, s, alerter, testConfig("v1"))

	now := time.Now()
	tr.RunCycle(context.Background(), now.Add(-2*time.Hour))
	catalog.videos["v1"] = video("v1", 30000)
	tr.RunCycle(context.Background(), now.Add(-time.Hour))
	catalog.videos["v1"] = video("v1", 60000)
	tr.RunCycle(context.Background(), now.Add(-30*time.Minute))

	// second spike lands inside the one-hour cooldown
	if len(alerter.sent) != 1 {
		t.Errorf("sent batches = %d, want 1", len(alerter.sent))
	}
}

func TestRunCycleSkipsFailedVideo(t *testing.T) {
	s := newTestStorage(t)
	catalog := &fakeCatalog{videos: map[string]models.Video{"good": video("good", 1000)}}
	tr := New(catalog, s, nil, testConfig("missing", "good"))

	tr.RunCycle(context.Background(), time.Now())

	snaps, err := s.GetSnapshots("good")
	if err != nil {
		t.Fatalf("GetSnapshots() error = %v", err)
	}
	if len(snaps) != 1 {
		t.Errorf("good video snapshots = %d, want 1", len(snaps))
	}
}

func TestRunCycleFailedSendKeepsCooldownClear(t *testing.T) {
	s := newTestStorage(t)
	catalog := &fakeCatalog{videos: map[string]models.Video{"v1": video("v1", 10000)}}
	alerter := &fakeAlerter{err: fmt.Errorf("telegram down")}
	tr := New(catalog, s, alerter, testConfig("v1"))

	now := time.Now()
	tr.RunCycle(context.Background(), now.Add(-time.Hour))
	catalog.videos["v1"] = video("v1", 30000)
	tr.RunCycle(context.Background(), now.Add(-30*time.Minute))

	// delivery failed, so the next spike should still alert
	alerter.err = nil
	catalog.videos["v1"] = video("v1", 60000)
	tr.RunCycle(context.Background(), now)

	if len(alerter.sent) != 1 {
		t.Errorf("sent batches = %d, want 1", len(alerter.sent))
	}
}
