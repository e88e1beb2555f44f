package catalog

import (
	"encoding/json"
	"time"
)

const serviceTimestampLayout = "2006-01-02T15:04:05"

// Phone mirrors a phone record returned by the catalog service.
type Phone struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Brand               string   `json:"brand"`
	Description         string   `json:"description"`
	Price               float64  `json:"price"`
	Currency            string   `json:"currency"`
	Rating              float64  `json:"rating"`
	ReviewCount         int      `json:"reviewCount"`
	StorageGB           int      `json:"storageGB"`
	RAMGB               int      `json:"ramGB"`
	BatteryCapacity     int      `json:"batteryCapacity"`
	ScreenSize          float64  `json:"screenSize"`
	CameraCount         int      `json:"cameraCount"`
	UsageTypes          []string `json:"usageTypes"`
	Is5G                bool     `json:"is5G"`
	IsWaterResistant    bool     `json:"isWaterResistant"`
	HasWirelessCharging bool     `json:"hasWirelessCharging"`
	ImageURL            string   `json:"imageUrl"`
	ReleaseDate         string   `json:"releaseDate"`
}

// ParsedReleaseDate returns the release date as time.Time when possible.
func (p Phone) ParsedReleaseDate() time.Time {
	return parseTime(p.ReleaseDate)
}

// PageInfo carries the pagination fields of a paginated list envelope.
type PageInfo struct {
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	TotalPages    int  `json:"totalPages"`
	TotalElements int  `json:"totalElements"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

// HasNext reports whether another page follows this one.
func (p PageInfo) HasNext() bool {
	if p.TotalPages > 0 {
		return p.Number+1 < p.TotalPages
	}
	return !p.Last
}

// Listing is the validated result of a successful catalog request.
type Listing struct {
	Phones    []Phone
	Page      *PageInfo // nil unless the service returned a paginated envelope
	RequestID string
}

// envelope is the wrapper every catalog endpoint responds with.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Path    string          `json:"path"`
}

// pageData mirrors the paginated form of the list endpoint's data field.
type pageData struct {
	Content *[]Phone `json:"content"`
	PageInfo
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(serviceTimestampLayout, value, time.Local); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
