package schedule

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/db"
)

// Service resolves active content for a masjid from the store. The poll
// endpoint and the push-triggered refetch both go through here, so the two
// paths can never drift apart.
type Service struct {
	store db.Store
}

func NewService(store db.Store) *Service {
	return &Service{store: store}
}

// ResolveForMasjid converts the instant into the masjid's local timezone,
// loads the masjid's schedule entries, active announcements, and media, and
// runs the resolver.
func (s *Service) ResolveForMasjid(masjidID int, now time.Time) ([]ResolvedContent, error) {
	masjid, err := s.store.GetMasjidByID(masjidID)
	if err != nil {
		return nil, err
	}
	local := now
	if loc, err := time.LoadLocation(masjid.Timezone); err == nil {
		local = now.In(loc)
	} else {
		log.Warn().Str("timezone", masjid.Timezone).Int("masjid_id", masjidID).
			Msg("invalid masjid timezone, resolving in UTC")
		local = now.UTC()
	}

	entries, err := s.store.ListScheduleEntries(masjidID)
	if err != nil {
		return nil, err
	}
	announcements, err := s.store.ListAnnouncementsActiveNow(masjidID, local)
	if err != nil {
		return nil, err
	}
	media, err := s.store.ListMedia(masjidID)
	if err != nil {
		return nil, err
	}

	return ResolveActive(entries, announcements, media, local), nil
}
