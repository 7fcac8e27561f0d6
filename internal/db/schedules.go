package db

import (
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/model"
)

const scheduleColumns = `
	id, masjid_id, content_type, content_ref, webview_url,
	start_time, end_time, days_of_week, duration_seconds,
	priority, active, created_at, updated_at`

func (s *pgStore) CreateScheduleEntry(entry model.ScheduleEntry) (model.ScheduleEntry, error) {
	var created model.ScheduleEntry
	const q = `
	INSERT INTO schedule_entries
	  (masjid_id, content_type, content_ref, webview_url, start_time, end_time,
	   days_of_week, duration_seconds, priority, active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
	RETURNING ` + scheduleColumns + `;`
	err := s.db.Get(&created, q,
		entry.MasjidID, entry.ContentType, entry.ContentRef, entry.WebviewURL,
		entry.StartTime, entry.EndTime, pq.Int64Array(entry.DaysOfWeek),
		entry.DurationSeconds, entry.Priority, entry.Active)
	if err != nil {
		log.Error().Err(err).Msg("CreateScheduleEntry failed")
		return model.ScheduleEntry{}, err
	}
	return created, nil
}

func (s *pgStore) GetScheduleEntry(id int) (model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := s.db.Get(&entry, `SELECT `+scheduleColumns+` FROM schedule_entries WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("entry_id", id).Msg("GetScheduleEntry failed")
	}
	return entry, err
}

// ListScheduleEntries returns a masjid's entries in creation order; the
// resolver relies on that order for its priority tie-break.
func (s *pgStore) ListScheduleEntries(masjidID int) ([]model.ScheduleEntry, error) {
	var out []model.ScheduleEntry
	err := s.db.Select(&out, `
		SELECT `+scheduleColumns+`
		FROM schedule_entries
		WHERE masjid_id = $1
		ORDER BY id;`, masjidID)
	if err != nil {
		log.Error().Err(err).Int("masjid_id", masjidID).Msg("ListScheduleEntries failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateScheduleEntry(entry model.ScheduleEntry) error {
	_, err := s.db.Exec(`
		UPDATE schedule_entries
		SET content_type = $2,
		content_ref = $3,
		webview_url = $4,
		start_time = $5,
		end_time = $6,
		days_of_week = $7,
		duration_seconds = $8,
		priority = $9,
		active = $10,
		updated_at = now()
		WHERE id = $1;`,
		entry.ID, entry.ContentType, entry.ContentRef, entry.WebviewURL,
		entry.StartTime, entry.EndTime, pq.Int64Array(entry.DaysOfWeek),
		entry.DurationSeconds, entry.Priority, entry.Active)
	if err != nil {
		log.Error().Err(err).Int("entry_id", entry.ID).Msg("UpdateScheduleEntry failed")
	}
	return err
}

func (s *pgStore) DeleteScheduleEntry(id int) error {
	_, err := s.db.Exec(`DELETE FROM schedule_entries WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("entry_id", id).Msg("DeleteScheduleEntry failed")
	}
	return err
}
