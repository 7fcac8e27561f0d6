package schedule

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/model"
)

// Resolved content kinds, as delivered to displays.
const (
	KindPrayer       = "prayer"
	KindAnnouncement = "announcement"
	KindImage        = "image"
	KindVideo        = "video"
	KindWebview      = "webview"
)

// ResolvedContent is one dereferenced item a display should show.
type ResolvedContent struct {
	Kind            string              `json:"kind"`
	EntryID         int                 `json:"entry_id,omitempty"`
	DurationSeconds int                 `json:"duration_seconds"`
	Priority        int                 `json:"priority"`
	URL             string              `json:"url,omitempty"`
	Announcement    *model.Announcement `json:"announcement,omitempty"`
	Media           *model.MediaItem    `json:"media,omitempty"`
}

// ResolveActive applies every schedule entry of a masjid to the current
// local time and returns the ordered list of content to rotate through.
//
// Entries must be supplied in creation order (id ascending); among equal
// priorities that order is preserved, so identical inputs always resolve to
// identically ordered output. Dangling content references are dropped
// silently: a stale ref left behind by an admin must never blank a live
// display. When nothing is active the masjid's prayer times are the
// permanent fallback.
func ResolveActive(
	entries []model.ScheduleEntry,
	announcements []model.Announcement,
	media []model.MediaItem,
	now time.Time,
) []ResolvedContent {
	byAnnouncement := make(map[int]*model.Announcement, len(announcements))
	for i := range announcements {
		byAnnouncement[announcements[i].ID] = &announcements[i]
	}
	byMedia := make(map[int]*model.MediaItem, len(media))
	for i := range media {
		byMedia[media[i].ID] = &media[i]
	}

	var out []ResolvedContent
	for i := range entries {
		entry := &entries[i]
		if !IsActiveAt(entry, now) {
			continue
		}
		out = append(out, dereference(entry, byAnnouncement, byMedia, announcements, now)...)
	}

	// priority governs; stable sort keeps creation order among ties
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})

	if len(out) == 0 {
		return []ResolvedContent{{
			Kind:            KindPrayer,
			DurationSeconds: model.MinDurationSeconds,
		}}
	}
	return out
}

func dereference(
	entry *model.ScheduleEntry,
	byAnnouncement map[int]*model.Announcement,
	byMedia map[int]*model.MediaItem,
	announcements []model.Announcement,
	now time.Time,
) []ResolvedContent {
	duration := entry.DurationSeconds
	if duration < model.MinDurationSeconds {
		duration = model.MinDurationSeconds
	}
	base := ResolvedContent{
		EntryID:         entry.ID,
		DurationSeconds: duration,
		Priority:        entry.Priority,
	}

	switch entry.ContentType {
	case model.ContentPrayerTimes:
		base.Kind = KindPrayer
		return []ResolvedContent{base}

	case model.ContentAnnouncement:
		if entry.ContentRef == nil {
			// no ref means rotate through every currently-active announcement
			var expanded []ResolvedContent
			for i := range announcements {
				a := &announcements[i]
				if !a.ActiveOn(now) {
					continue
				}
				item := base
				item.Kind = KindAnnouncement
				item.Announcement = a
				expanded = append(expanded, item)
			}
			return expanded
		}
		a, ok := byAnnouncement[*entry.ContentRef]
		if !ok || !a.ActiveOn(now) {
			log.Debug().Int("entry_id", entry.ID).Int("announcement_id", *entry.ContentRef).
				Msg("schedule entry references missing or inactive announcement, skipping")
			return nil
		}
		base.Kind = KindAnnouncement
		base.Announcement = a
		return []ResolvedContent{base}

	case model.ContentImage, model.ContentVideo:
		if entry.ContentRef == nil {
			return nil
		}
		m, ok := byMedia[*entry.ContentRef]
		if !ok {
			log.Debug().Int("entry_id", entry.ID).Int("media_id", *entry.ContentRef).
				Msg("schedule entry references missing media, skipping")
			return nil
		}
		if entry.ContentType == model.ContentVideo {
			base.Kind = KindVideo
		} else {
			base.Kind = KindImage
		}
		base.Media = m
		base.URL = m.URL
		return []ResolvedContent{base}

	case model.ContentWebview:
		if entry.WebviewURL == nil || *entry.WebviewURL == "" {
			return nil
		}
		base.Kind = KindWebview
		base.URL = *entry.WebviewURL
		return []ResolvedContent{base}
	}
	return nil
}
