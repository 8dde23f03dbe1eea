package upcoming

import (
	"database/sql"
	"sync"
)

// store handles all database operations for upcoming fixtures.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// AvailabilityStatus is a player's answer to an availability poll.
type AvailabilityStatus string

const (
	Available    AvailabilityStatus = "available"
	NotAvailable AvailabilityStatus = "not_available"
	Maybe        AvailabilityStatus = "maybe"
)

// Fixture is an upcoming match the team is polling availability for.
type Fixture struct {
	ID             string                `json:"id"`
	OpponentName   string                `json:"opponent_name"`
	MatchDate      int64                 `json:"match_date"` // unix seconds
	Venue          string                `json:"venue,omitempty"`
	Overs          int                   `json:"overs"`
	Notes          string                `json:"notes,omitempty"`
	CreatedAt      int64                 `json:"created_at"`
	Availabilities []*PlayerAvailability `json:"availabilities,omitempty"`
}

// PlayerAvailability is one player's response, keyed by device fingerprint
// so re-submitting from the same device updates instead of duplicating.
type PlayerAvailability struct {
	ID                string             `json:"id"`
	FixtureID         string             `json:"upcoming_match_id"`
	PlayerName        string             `json:"player_name"`
	Status            AvailabilityStatus `json:"status"`
	DeviceFingerprint string             `json:"device_fingerprint"`
	UpdatedAt         int64              `json:"updated_at"`
}

// AvailabilitySummary aggregates the responses for a fixture.
type AvailabilitySummary struct {
	TotalAvailable    int                   `json:"total_available"`
	TotalNotAvailable int                   `json:"total_not_available"`
	TotalMaybe        int                   `json:"total_maybe"`
	Players           []*PlayerAvailability `json:"players"`
}

// Summary builds the availability summary for the fixture.
func (f *Fixture) Summary() AvailabilitySummary {
	summary := AvailabilitySummary{Players: f.Availabilities}
	if summary.Players == nil {
		summary.Players = []*PlayerAvailability{}
	}
	for _, a := range f.Availabilities {
		switch a.Status {
		case Available:
			summary.TotalAvailable++
		case NotAvailable:
			summary.TotalNotAvailable++
		case Maybe:
			summary.TotalMaybe++
		}
	}
	return summary
}
