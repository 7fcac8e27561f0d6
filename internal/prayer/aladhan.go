package prayer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/masjid-cloud/minbar/internal/model"
)

const aladhanURL = "https://api.aladhan.com/v1/timings?latitude=%f&longitude=%f&method=2"

var displayOrder = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

// FetchTimings asks the aladhan API for today's prayer times at the given
// coordinates and converts them to the 12-hour display format.
func FetchTimings(latitude, longitude float64) ([]model.Prayer, error) {
	resp, err := http.Get(fmt.Sprintf(aladhanURL, latitude, longitude))
	if err != nil {
		return nil, fmt.Errorf("failed to get prayer times: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prayer times upstream returned %d", resp.StatusCode)
	}

	var aladhan struct {
		Data struct {
			Timings map[string]string `json:"timings"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&aladhan); err != nil {
		return nil, fmt.Errorf("failed to decode prayer times: %w", err)
	}

	prayers := make([]model.Prayer, 0, len(displayOrder))
	for _, name := range displayOrder {
		t12, period, ok := to12Hour(aladhan.Data.Timings[name])
		if !ok {
			continue
		}
		prayers = append(prayers, model.Prayer{
			Name:   strings.ToUpper(name),
			Time:   t12,
			Period: period,
		})
	}
	return prayers, nil
}

// PageData assembles the render payload for a masjid's prayer template.
func PageData(masjid model.Masjid, now time.Time) (model.PrayerPageData, error) {
	prayers, err := FetchTimings(masjid.Latitude, masjid.Longitude)
	if err != nil {
		return model.PrayerPageData{}, err
	}
	return model.PrayerPageData{
		City:    strings.ToUpper(masjid.City),
		Date:    strings.ToUpper(now.Format("January 2, 2006")),
		Prayers: prayers,
	}, nil
}

// to12Hour converts "17:30" to ("05:30", "PM").
func to12Hour(t24 string) (string, string, bool) {
	parts := strings.Split(t24, ":")
	if len(parts) != 2 {
		return "", "", false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", "", false
	}
	period := "AM"
	if h >= 12 {
		period = "PM"
		if h > 12 {
			h -= 12
		}
	}
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%s", h, parts[1]), period, true
}
