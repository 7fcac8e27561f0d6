package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/model"
)

func (s *pgStore) CreateAnnouncement(masjidID int, title, body string, imageURL *string, startDate, endDate *time.Time, priority int) (model.Announcement, error) {
	var a model.Announcement
	const q = `
	INSERT INTO announcements (masjid_id, title, body, image_url, start_date, end_date, priority, active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, true, now(), now())
	RETURNING id, masjid_id, title, body, image_url, start_date, end_date, priority, active, created_at, updated_at;`
	if err := s.db.Get(&a, q, masjidID, title, body, imageURL, startDate, endDate, priority); err != nil {
		log.Error().Err(err).Msg("CreateAnnouncement failed")
		return model.Announcement{}, err
	}
	return a, nil
}

// GetAnnouncementByID returns nil, sql.ErrNoRows when the id is unknown so
// the resolver can drop stale references by omission.
func (s *pgStore) GetAnnouncementByID(id int) (*model.Announcement, error) {
	var a model.Announcement
	err := s.db.Get(&a, `
		SELECT id, masjid_id, title, body, image_url, start_date, end_date, priority, active, created_at, updated_at
		FROM announcements
		WHERE id = $1;`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Int("announcement_id", id).Msg("GetAnnouncementByID failed")
		return nil, err
	}
	return &a, nil
}

func (s *pgStore) ListAnnouncements(masjidID int) ([]model.Announcement, error) {
	var out []model.Announcement
	err := s.db.Select(&out, `
		SELECT id, masjid_id, title, body, image_url, start_date, end_date, priority, active, created_at, updated_at
		FROM announcements
		WHERE masjid_id = $1
		ORDER BY id;`, masjidID)
	if err != nil {
		log.Error().Err(err).Int("masjid_id", masjidID).Msg("ListAnnouncements failed")
		return nil, err
	}
	return out, nil
}

// ListAnnouncementsActiveNow returns announcements whose kill switch is on
// and whose optional date window contains the given day, in creation order.
func (s *pgStore) ListAnnouncementsActiveNow(masjidID int, now time.Time) ([]model.Announcement, error) {
	var out []model.Announcement
	const q = `
	SELECT id, masjid_id, title, body, image_url, start_date, end_date, priority, active, created_at, updated_at
	  FROM announcements
	 WHERE masjid_id = $1
	   AND active = true
	   AND (start_date IS NULL OR start_date <= $2)
	   AND (end_date IS NULL OR end_date::date >= $2::date)
	 ORDER BY id;`
	if err := s.db.Select(&out, q, masjidID, now); err != nil {
		log.Error().Err(err).Int("masjid_id", masjidID).Msg("ListAnnouncementsActiveNow failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateAnnouncement(id int, title, body, imageURL *string, startDate, endDate *time.Time, priority *int, active *bool) error {
	_, err := s.db.Exec(`
		UPDATE announcements
		SET title = COALESCE($2, title),
		body = COALESCE($3, body),
		image_url = COALESCE($4, image_url),
		start_date = COALESCE($5, start_date),
		end_date = COALESCE($6, end_date),
		priority = COALESCE($7, priority),
		active = COALESCE($8, active),
		updated_at = now()
		WHERE id = $1;`, id, title, body, imageURL, startDate, endDate, priority, active)
	if err != nil {
		log.Error().Err(err).Int("announcement_id", id).Msg("UpdateAnnouncement failed")
	}
	return err
}

func (s *pgStore) DeleteAnnouncement(id int) error {
	_, err := s.db.Exec(`DELETE FROM announcements WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("announcement_id", id).Msg("DeleteAnnouncement failed")
	}
	return err
}
