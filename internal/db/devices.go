package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/model"
)

func (s *pgStore) CreateDevice(name, pairingCode string) (model.Device, error) {
	var d model.Device
	const q = `
	INSERT INTO devices (name, pairing_code, paired, active_template, created_at, updated_at)
	VALUES ($1, $2, false, 'default', now(), now())
	RETURNING id, masjid_id, name, pairing_code, paired, active_template, last_seen_at, created_at, updated_at;`
	if err := s.db.Get(&d, q, name, pairingCode); err != nil {
		log.Error().Err(err).Msg("CreateDevice failed")
		return model.Device{}, err
	}
	return d, nil
}

func (s *pgStore) GetDeviceByID(id int) (model.Device, error) {
	var d model.Device
	err := s.db.Get(&d, `
		SELECT id, masjid_id, name, pairing_code, paired, active_template, last_seen_at, created_at, updated_at
		FROM devices
		WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("device_id", id).Msg("GetDeviceByID failed")
	}
	return d, err
}

// GetDeviceByPairingCode returns nil, nil when no device holds the code.
func (s *pgStore) GetDeviceByPairingCode(code string) (*model.Device, error) {
	var d model.Device
	err := s.db.Get(&d, `
		SELECT id, masjid_id, name, pairing_code, paired, active_template, last_seen_at, created_at, updated_at
		FROM devices
		WHERE pairing_code = $1;`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Msg("GetDeviceByPairingCode failed")
		return nil, err
	}
	return &d, nil
}

func (s *pgStore) ListDevices(masjidID int) ([]model.Device, error) {
	var devices []model.Device
	err := s.db.Select(&devices, `
		SELECT id, masjid_id, name, pairing_code, paired, active_template, last_seen_at, created_at, updated_at
		FROM devices
		WHERE masjid_id = $1
		ORDER BY id;`, masjidID)
	if err != nil {
		log.Error().Err(err).Int("masjid_id", masjidID).Msg("ListDevices failed")
		return nil, err
	}
	return devices, nil
}

func (s *pgStore) PairDevice(id, masjidID int) error {
	_, err := s.db.Exec(`
		UPDATE devices
		SET masjid_id = $2,
		paired = TRUE,
		updated_at = now()
		WHERE id = $1;`, id, masjidID)
	if err != nil {
		log.Error().Err(err).Int("device_id", id).Msg("PairDevice failed")
	}
	return err
}

func (s *pgStore) SetDeviceTemplate(id int, template string) error {
	_, err := s.db.Exec(`
		UPDATE devices
		SET active_template = $2,
		updated_at = now()
		WHERE id = $1;`, id, template)
	if err != nil {
		log.Error().Err(err).Int("device_id", id).Msg("SetDeviceTemplate failed")
	}
	return err
}

// TouchDevice bumps last_seen_at; called from the socket heartbeat.
func (s *pgStore) TouchDevice(id int) error {
	_, err := s.db.Exec(`
		UPDATE devices
		SET last_seen_at = now()
		WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("device_id", id).Msg("TouchDevice failed")
	}
	return err
}

func (s *pgStore) DeleteDevice(id int) error {
	_, err := s.db.Exec(`DELETE FROM devices WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("device_id", id).Msg("DeleteDevice failed")
	}
	return err
}
