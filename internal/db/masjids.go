package db

import (
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/model"
)

func (s *pgStore) CreateMasjid(name, city, timezone string, latitude, longitude float64) (model.Masjid, error) {
	var m model.Masjid
	const q = `
	INSERT INTO masjids (name, city, timezone, latitude, longitude, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, now(), now())
	RETURNING id, name, city, timezone, latitude, longitude, created_at, updated_at;`
	if err := s.db.Get(&m, q, name, city, timezone, latitude, longitude); err != nil {
		log.Error().Err(err).Msg("CreateMasjid failed")
		return model.Masjid{}, err
	}
	return m, nil
}

func (s *pgStore) GetMasjidByID(id int) (model.Masjid, error) {
	var m model.Masjid
	err := s.db.Get(&m, `
		SELECT id, name, city, timezone, latitude, longitude, created_at, updated_at
		FROM masjids
		WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("masjid_id", id).Msg("GetMasjidByID failed")
	}
	return m, err
}
