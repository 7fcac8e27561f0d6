package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masjid-cloud/minbar/internal/db"
	"github.com/masjid-cloud/minbar/internal/http/api"
	"github.com/masjid-cloud/minbar/internal/http/middleware"
	"github.com/masjid-cloud/minbar/internal/model"
	"github.com/masjid-cloud/minbar/internal/schedule"
)

const testSecret = "test-secret"

// fakeStore is an in-memory db.Store for handler tests.
type fakeStore struct {
	mu            sync.Mutex
	masjids       map[int]model.Masjid
	devices       map[int]model.Device
	entries       map[int]model.ScheduleEntry
	announcements map[int]model.Announcement
	media         map[int]model.MediaItem
	touched       []int
	nextID        int
}

var _ db.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		masjids:       make(map[int]model.Masjid),
		devices:       make(map[int]model.Device),
		entries:       make(map[int]model.ScheduleEntry),
		announcements: make(map[int]model.Announcement),
		media:         make(map[int]model.MediaItem),
		nextID:        1,
	}
}

func (f *fakeStore) id() int {
	n := f.nextID
	f.nextID++
	return n
}

func (f *fakeStore) CreateUser(email, hashedPassword string, name *string, role string, masjidID *int) (int, error) {
	return 0, fmt.Errorf("not implemented")
}
func (f *fakeStore) GetUserByEmail(email string) (*model.User, error) {
	return nil, fmt.Errorf("not implemented")
}
func (f *fakeStore) GetUserByID(id int) (*model.User, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeStore) CreateMasjid(name, city, timezone string, latitude, longitude float64) (model.Masjid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := model.Masjid{ID: f.id(), Name: name, City: city, Timezone: timezone, Latitude: latitude, Longitude: longitude}
	f.masjids[m.ID] = m
	return m, nil
}

func (f *fakeStore) GetMasjidByID(id int) (model.Masjid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.masjids[id]
	if !ok {
		return model.Masjid{}, fmt.Errorf("masjid %d not found", id)
	}
	return m, nil
}

func (f *fakeStore) CreateDevice(name, pairingCode string) (model.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := model.Device{ID: f.id(), Name: name, PairingCode: pairingCode, ActiveTemplate: "default"}
	f.devices[d.ID] = d
	return d, nil
}

func (f *fakeStore) GetDeviceByID(id int) (model.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.devices[id]
	if !ok {
		return model.Device{}, fmt.Errorf("device %d not found", id)
	}
	return d, nil
}

func (f *fakeStore) GetDeviceByPairingCode(code string) (*model.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.devices {
		if d.PairingCode == code {
			found := d
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListDevices(masjidID int) ([]model.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Device
	for _, d := range f.devices {
		if d.MasjidID != nil && *d.MasjidID == masjidID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) PairDevice(id, masjidID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.devices[id]
	if !ok {
		return fmt.Errorf("device %d not found", id)
	}
	d.MasjidID = &masjidID
	d.Paired = true
	f.devices[id] = d
	return nil
}

func (f *fakeStore) SetDeviceTemplate(id int, template string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.devices[id]
	d.ActiveTemplate = template
	f.devices[id] = d
	return nil
}

func (f *fakeStore) TouchDevice(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeStore) DeleteDevice(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.devices, id)
	return nil
}

func (f *fakeStore) CreateAnnouncement(masjidID int, title, body string, imageURL *string, startDate, endDate *time.Time, priority int) (model.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := model.Announcement{ID: f.id(), MasjidID: masjidID, Title: title, Body: body, ImageURL: imageURL, StartDate: startDate, EndDate: endDate, Priority: priority, Active: true}
	f.announcements[a.ID] = a
	return a, nil
}

func (f *fakeStore) GetAnnouncementByID(id int) (*model.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.announcements[id]
	if !ok {
		return nil, fmt.Errorf("announcement %d not found", id)
	}
	return &a, nil
}

func (f *fakeStore) ListAnnouncements(masjidID int) ([]model.Announcement, error) {
	return f.ListAnnouncementsActiveNow(masjidID, time.Time{})
}

func (f *fakeStore) ListAnnouncementsActiveNow(masjidID int, now time.Time) ([]model.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Announcement
	for _, a := range f.announcements {
		if a.MasjidID == masjidID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateAnnouncement(id int, title, body, imageURL *string, startDate, endDate *time.Time, priority *int, active *bool) error {
	return nil
}
func (f *fakeStore) DeleteAnnouncement(id int) error { return nil }

func (f *fakeStore) CreateMediaItem(masjidID int, name, mediaType, url string, sizeBytes int64) (model.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := model.MediaItem{ID: f.id(), MasjidID: masjidID, Name: name, Type: mediaType, URL: url, SizeBytes: sizeBytes}
	f.media[m.ID] = m
	return m, nil
}

func (f *fakeStore) GetMediaByID(id int) (*model.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.media[id]
	if !ok {
		return nil, fmt.Errorf("media %d not found", id)
	}
	return &m, nil
}

func (f *fakeStore) ListMedia(masjidID int) ([]model.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.MediaItem
	for _, m := range f.media {
		if m.MasjidID == masjidID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteMediaItem(id int) error { return nil }

func (f *fakeStore) CreateScheduleEntry(entry model.ScheduleEntry) (model.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = f.id()
	f.entries[entry.ID] = entry
	return entry, nil
}

func (f *fakeStore) GetScheduleEntry(id int) (model.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return model.ScheduleEntry{}, fmt.Errorf("entry %d not found", id)
	}
	return e, nil
}

func (f *fakeStore) ListScheduleEntries(masjidID int) ([]model.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ScheduleEntry
	for id := 0; id < f.nextID; id++ {
		if e, ok := f.entries[id]; ok && e.MasjidID == masjidID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateScheduleEntry(entry model.ScheduleEntry) error { return nil }
func (f *fakeStore) DeleteScheduleEntry(id int) error                    { return nil }

func newTVRouter(store db.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/tv"},
		PairingModule(store, testSecret),
		ContentModule(store, schedule.NewService(store), testSecret),
	)
	return r
}

func TestGetContent_RequiresDeviceToken(t *testing.T) {
	router := newTVRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/tv/content", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetContent_RejectsGarbageToken(t *testing.T) {
	router := newTVRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/tv/content", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetContent_ResolvesAndTouches(t *testing.T) {
	store := newFakeStore()
	masjid, err := store.CreateMasjid("Al-Noor", "Dearborn", "UTC", 0, 0)
	require.NoError(t, err)
	device, err := store.CreateDevice("lobby", "123456")
	require.NoError(t, err)
	require.NoError(t, store.PairDevice(device.ID, masjid.ID))

	url := "https://example.org/board"
	_, err = store.CreateScheduleEntry(model.ScheduleEntry{
		MasjidID:        masjid.ID,
		ContentType:     model.ContentWebview,
		WebviewURL:      &url,
		DurationSeconds: 20,
		Active:          true,
	})
	require.NoError(t, err)

	token, err := middleware.GenerateDeviceJWT(device.ID, masjid.ID, testSecret)
	require.NoError(t, err)

	router := newTVRouter(store)
	req := httptest.NewRequest(http.MethodGet, "/api/tv/content", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var items []schedule.ResolvedContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, schedule.KindWebview, items[0].Kind)
	assert.Equal(t, url, items[0].URL)

	assert.Equal(t, []int{device.ID}, store.touched)
}

func TestGetContent_EmptyScheduleFallsBackToPrayer(t *testing.T) {
	store := newFakeStore()
	masjid, _ := store.CreateMasjid("Al-Noor", "Dearborn", "UTC", 0, 0)
	device, _ := store.CreateDevice("lobby", "654321")
	require.NoError(t, store.PairDevice(device.ID, masjid.ID))

	token, err := middleware.GenerateDeviceJWT(device.ID, masjid.ID, testSecret)
	require.NoError(t, err)

	router := newTVRouter(store)
	req := httptest.NewRequest(http.MethodGet, "/api/tv/content", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var items []schedule.ResolvedContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, schedule.KindPrayer, items[0].Kind)
}

func TestPairingStatus_UnclaimedDevice(t *testing.T) {
	store := newFakeStore()
	device, err := store.CreateDevice("lobby", "111222")
	require.NoError(t, err)

	router := newTVRouter(store)
	path := fmt.Sprintf("/api/tv/pair/status?device_id=%d&code=111222", device.ID)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Paired bool    `json:"paired"`
		Token  *string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Paired)
	assert.Nil(t, resp.Token)
}

func TestPairingStatus_ClaimedDeviceGetsToken(t *testing.T) {
	store := newFakeStore()
	masjid, _ := store.CreateMasjid("Al-Noor", "Dearborn", "UTC", 0, 0)
	device, err := store.CreateDevice("lobby", "333444")
	require.NoError(t, err)
	require.NoError(t, store.PairDevice(device.ID, masjid.ID))

	router := newTVRouter(store)
	path := fmt.Sprintf("/api/tv/pair/status?device_id=%d&code=333444", device.ID)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Paired bool    `json:"paired"`
		Token  *string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Paired)
	require.NotNil(t, resp.Token)

	deviceID, masjidID, err := middleware.ParseDeviceToken(*resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, device.ID, deviceID)
	assert.Equal(t, masjid.ID, masjidID)
}

func TestPairingStatus_WrongCodeRejected(t *testing.T) {
	store := newFakeStore()
	device, err := store.CreateDevice("lobby", "555666")
	require.NoError(t, err)

	router := newTVRouter(store)
	path := fmt.Sprintf("/api/tv/pair/status?device_id=%d&code=000000", device.ID)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
