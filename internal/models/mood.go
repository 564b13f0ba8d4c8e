package models

import "time"

// MoodLevel is the ordered 5-point mood scale.
type MoodLevel string

const (
	MoodVeryLow MoodLevel = "very_low"
	MoodLow     MoodLevel = "low"
	MoodOkay    MoodLevel = "okay"
	MoodGood    MoodLevel = "good"
	MoodGreat   MoodLevel = "great"
)

// Numeric maps a level to its 1..5 value; 0 for an unknown level.
func (m MoodLevel) Numeric() int {
	switch m {
	case MoodVeryLow:
		return 1
	case MoodLow:
		return 2
	case MoodOkay:
		return 3
	case MoodGood:
		return 4
	case MoodGreat:
		return 5
	}
	return 0
}

// Valid reports whether the level is one of the five known values.
func (m MoodLevel) Valid() bool {
	return m.Numeric() != 0
}

type MoodEntry struct {
	Date          time.Time `json:"date"`
	Level         MoodLevel `json:"mood_level"`
	Notes         string    `json:"notes,omitempty"`
	ContextReason string    `json:"context_reason,omitempty"`
	Activities    []string  `json:"activities,omitempty"`
}

// MoodDocument is the persisted shape of the mood history.
type MoodDocument struct {
	Entries     []MoodEntry `json:"entries"`
	LastUpdated string      `json:"last_updated,omitempty"`
}

func (d *MoodDocument) TouchLastUpdated(ts string) { d.LastUpdated = ts }

// MoodStatistics summarizes a trailing window of entries. Zero values mean
// the window was empty; that is a defined result, not an error.
type MoodStatistics struct {
	Count int       `json:"count"`
	Mean  float64   `json:"mean"`
	Mode  MoodLevel `json:"mode,omitempty"`
}
