package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjid-cloud/minbar/internal/model"
)

func intPtr(n int) *int { return &n }

func namedEntry(id, priority int, contentType string, ref *int) model.ScheduleEntry {
	return model.ScheduleEntry{
		ID:              id,
		MasjidID:        1,
		ContentType:     contentType,
		ContentRef:      ref,
		DurationSeconds: 30,
		Priority:        priority,
		Active:          true,
	}
}

func activeAnnouncement(id int) model.Announcement {
	return model.Announcement{ID: id, MasjidID: 1, Title: "t", Active: true}
}

func TestResolveActive_EmptyScheduleFallsBackToPrayer(t *testing.T) {
	out := ResolveActive(nil, nil, nil, time.Now())

	require.Len(t, out, 1)
	assert.Equal(t, KindPrayer, out[0].Kind)
	assert.Equal(t, model.MinDurationSeconds, out[0].DurationSeconds)
}

func TestResolveActive_AllEntriesInactiveFallsBackToPrayer(t *testing.T) {
	entry := namedEntry(1, 0, model.ContentPrayerTimes, nil)
	entry.Active = false

	out := ResolveActive([]model.ScheduleEntry{entry}, nil, nil, time.Now())

	require.Len(t, out, 1)
	assert.Equal(t, KindPrayer, out[0].Kind)
}

func TestResolveActive_PriorityDescStableOrder(t *testing.T) {
	entries := []model.ScheduleEntry{
		namedEntry(1, 3, model.ContentPrayerTimes, nil),
		namedEntry(2, 10, model.ContentPrayerTimes, nil),
		namedEntry(3, 3, model.ContentPrayerTimes, nil),
		namedEntry(4, 7, model.ContentPrayerTimes, nil),
	}

	out := ResolveActive(entries, nil, nil, time.Now())

	require.Len(t, out, 4)
	assert.Equal(t, []int{10, 7, 3, 3}, []int{out[0].Priority, out[1].Priority, out[2].Priority, out[3].Priority})
	// among equal priorities, creation order wins
	assert.Equal(t, 1, out[2].EntryID)
	assert.Equal(t, 3, out[3].EntryID)
}

func TestResolveActive_Idempotent(t *testing.T) {
	entries := []model.ScheduleEntry{
		namedEntry(1, 1, model.ContentPrayerTimes, nil),
		namedEntry(2, 5, model.ContentAnnouncement, intPtr(7)),
	}
	announcements := []model.Announcement{activeAnnouncement(7)}
	now := time.Now()

	first := ResolveActive(entries, announcements, nil, now)
	second := ResolveActive(entries, announcements, nil, now)

	assert.Equal(t, first, second)
}

func TestResolveActive_DanglingAnnouncementRefDropped(t *testing.T) {
	entries := []model.ScheduleEntry{
		namedEntry(1, 0, model.ContentAnnouncement, intPtr(99)),
		namedEntry(2, 0, model.ContentPrayerTimes, nil),
	}

	out := ResolveActive(entries, nil, nil, time.Now())

	require.Len(t, out, 1)
	assert.Equal(t, KindPrayer, out[0].Kind)
	assert.Equal(t, 2, out[0].EntryID)
}

func TestResolveActive_DanglingMediaRefDropped(t *testing.T) {
	entries := []model.ScheduleEntry{
		namedEntry(1, 0, model.ContentImage, intPtr(42)),
	}

	out := ResolveActive(entries, nil, nil, time.Now())

	// nothing resolvable, so the prayer fallback kicks in
	require.Len(t, out, 1)
	assert.Equal(t, KindPrayer, out[0].Kind)
}

func TestResolveActive_AnnouncementExpansion(t *testing.T) {
	// entry without a ref expands into every active announcement
	entries := []model.ScheduleEntry{
		namedEntry(1, 0, model.ContentAnnouncement, nil),
	}
	announcements := []model.Announcement{
		activeAnnouncement(10),
		activeAnnouncement(11),
		{ID: 12, MasjidID: 1, Title: "off", Active: false},
	}

	out := ResolveActive(entries, announcements, nil, time.Now())

	require.Len(t, out, 2)
	assert.Equal(t, 10, out[0].Announcement.ID)
	assert.Equal(t, 11, out[1].Announcement.ID)
}

func TestResolveActive_AnnouncementOutsideDateWindowDropped(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -2)
	expired := activeAnnouncement(5)
	expired.EndDate = &yesterday

	entries := []model.ScheduleEntry{
		namedEntry(1, 0, model.ContentAnnouncement, intPtr(5)),
	}

	out := ResolveActive(entries, []model.Announcement{expired}, nil, time.Now())

	require.Len(t, out, 1)
	assert.Equal(t, KindPrayer, out[0].Kind)
}

func TestResolveActive_MediaResolved(t *testing.T) {
	entries := []model.ScheduleEntry{
		namedEntry(1, 0, model.ContentVideo, intPtr(3)),
		namedEntry(2, 0, model.ContentImage, intPtr(4)),
	}
	media := []model.MediaItem{
		{ID: 3, MasjidID: 1, Type: model.MediaVideo, URL: "/uploads/a.mp4"},
		{ID: 4, MasjidID: 1, Type: model.MediaImage, URL: "/uploads/b.png"},
	}

	out := ResolveActive(entries, nil, media, time.Now())

	require.Len(t, out, 2)
	assert.Equal(t, KindVideo, out[0].Kind)
	assert.Equal(t, "/uploads/a.mp4", out[0].URL)
	assert.Equal(t, KindImage, out[1].Kind)
	assert.Equal(t, "/uploads/b.png", out[1].URL)
}

func TestResolveActive_WebviewWithoutURLDropped(t *testing.T) {
	empty := ""
	entry := namedEntry(1, 0, model.ContentWebview, nil)
	entry.WebviewURL = &empty

	out := ResolveActive([]model.ScheduleEntry{entry}, nil, nil, time.Now())

	require.Len(t, out, 1)
	assert.Equal(t, KindPrayer, out[0].Kind)
}

func TestResolveActive_WebviewResolved(t *testing.T) {
	url := "https://example.org/board"
	entry := namedEntry(1, 2, model.ContentWebview, nil)
	entry.WebviewURL = &url

	out := ResolveActive([]model.ScheduleEntry{entry}, nil, nil, time.Now())

	require.Len(t, out, 1)
	assert.Equal(t, KindWebview, out[0].Kind)
	assert.Equal(t, url, out[0].URL)
}

func TestResolveActive_DurationClampedToMinimum(t *testing.T) {
	entry := namedEntry(1, 0, model.ContentPrayerTimes, nil)
	entry.DurationSeconds = 1

	out := ResolveActive([]model.ScheduleEntry{entry}, nil, nil, time.Now())

	require.Len(t, out, 1)
	assert.Equal(t, model.MinDurationSeconds, out[0].DurationSeconds)
}
