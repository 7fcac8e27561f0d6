package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/model"
)

func (s *pgStore) CreateMediaItem(masjidID int, name, mediaType, url string, sizeBytes int64) (model.MediaItem, error) {
	var m model.MediaItem
	const q = `
	INSERT INTO media_items (masjid_id, name, type, url, size_bytes, created_at)
	VALUES ($1, $2, $3, $4, $5, now())
	RETURNING id, masjid_id, name, type, url, size_bytes, created_at;`
	if err := s.db.Get(&m, q, masjidID, name, mediaType, url, sizeBytes); err != nil {
		log.Error().Err(err).Msg("CreateMediaItem failed")
		return model.MediaItem{}, err
	}
	return m, nil
}

// GetMediaByID returns nil, sql.ErrNoRows when the id is unknown.
func (s *pgStore) GetMediaByID(id int) (*model.MediaItem, error) {
	var m model.MediaItem
	err := s.db.Get(&m, `
		SELECT id, masjid_id, name, type, url, size_bytes, created_at
		FROM media_items
		WHERE id = $1;`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Int("media_id", id).Msg("GetMediaByID failed")
		return nil, err
	}
	return &m, nil
}

func (s *pgStore) ListMedia(masjidID int) ([]model.MediaItem, error) {
	var out []model.MediaItem
	err := s.db.Select(&out, `
		SELECT id, masjid_id, name, type, url, size_bytes, created_at
		FROM media_items
		WHERE masjid_id = $1
		ORDER BY id;`, masjidID)
	if err != nil {
		log.Error().Err(err).Int("masjid_id", masjidID).Msg("ListMedia failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) DeleteMediaItem(id int) error {
	_, err := s.db.Exec(`DELETE FROM media_items WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("media_id", id).Msg("DeleteMediaItem failed")
	}
	return err
}
