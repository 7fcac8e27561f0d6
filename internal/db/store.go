// exposes a Store interface that is passed to API calls and the resolver
package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/masjid-cloud/minbar/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string, role string, masjidID *int) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)

	// masjid functions
	CreateMasjid(name, city, timezone string, latitude, longitude float64) (model.Masjid, error)
	GetMasjidByID(id int) (model.Masjid, error)

	// device functions
	CreateDevice(name, pairingCode string) (model.Device, error)
	GetDeviceByID(id int) (model.Device, error)
	GetDeviceByPairingCode(code string) (*model.Device, error)
	ListDevices(masjidID int) ([]model.Device, error)
	PairDevice(id, masjidID int) error
	SetDeviceTemplate(id int, template string) error
	TouchDevice(id int) error
	DeleteDevice(id int) error

	// announcement functions
	CreateAnnouncement(masjidID int, title, body string, imageURL *string, startDate, endDate *time.Time, priority int) (model.Announcement, error)
	GetAnnouncementByID(id int) (*model.Announcement, error)
	ListAnnouncements(masjidID int) ([]model.Announcement, error)
	ListAnnouncementsActiveNow(masjidID int, now time.Time) ([]model.Announcement, error)
	UpdateAnnouncement(id int, title, body, imageURL *string, startDate, endDate *time.Time, priority *int, active *bool) error
	DeleteAnnouncement(id int) error

	// media functions
	CreateMediaItem(masjidID int, name, mediaType, url string, sizeBytes int64) (model.MediaItem, error)
	GetMediaByID(id int) (*model.MediaItem, error)
	ListMedia(masjidID int) ([]model.MediaItem, error)
	DeleteMediaItem(id int) error

	// schedule entry functions
	CreateScheduleEntry(entry model.ScheduleEntry) (model.ScheduleEntry, error)
	GetScheduleEntry(id int) (model.ScheduleEntry, error)
	ListScheduleEntries(masjidID int) ([]model.ScheduleEntry, error)
	UpdateScheduleEntry(entry model.ScheduleEntry) error
	DeleteScheduleEntry(id int) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}
