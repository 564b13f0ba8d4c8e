package services

import (
	"errors"
	"time"

	"github.com/talkheal/talkheal-backend/internal/models"
)

const stateKeyMood = "mood_history"

// MoodTracker records mood entries and computes trailing-window statistics.
// Entries are append-only and persisted immediately on every add.
type MoodTracker struct {
	docs *DocumentStore
}

func NewMoodTracker(docs *DocumentStore) *MoodTracker {
	return &MoodTracker{docs: docs}
}

// Document returns the session's mood history, loading it on first access.
func (t *MoodTracker) Document(st *State) *models.MoodDocument {
	v, ok := st.Get(stateKeyMood)
	if ok {
		if doc, ok := v.(*models.MoodDocument); ok {
			return doc
		}
	}

	doc := &models.MoodDocument{Entries: []models.MoodEntry{}}
	t.docs.Load(DocMoodHistory, doc)
	if doc.Entries == nil {
		doc.Entries = []models.MoodEntry{}
	}
	st.Set(stateKeyMood, doc)
	return doc
}

// AddEntry appends a mood entry stamped with the current time and persists
// the history immediately.
func (t *MoodTracker) AddEntry(st *State, level models.MoodLevel, notes, reason string, activities []string) (models.MoodEntry, error) {
	if !level.Valid() {
		return models.MoodEntry{}, errors.New("unknown mood level")
	}

	entry := models.MoodEntry{
		Date:          time.Now(),
		Level:         level,
		Notes:         notes,
		ContextReason: reason,
		Activities:    activities,
	}

	doc := t.Document(st)
	doc.Entries = append(doc.Entries, entry)
	if !t.docs.Save(DocMoodHistory, doc) {
		// Entry stays in session state; the caller learns persistence failed.
		return entry, errors.New("could not save mood history")
	}
	return entry, nil
}

// Recent returns entries within the trailing window, oldest first.
func (t *MoodTracker) Recent(st *State, windowDays int) []models.MoodEntry {
	cutoff := time.Now().AddDate(0, 0, -windowDays)
	var out []models.MoodEntry
	for _, e := range t.Document(st).Entries {
		if !e.Date.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// Statistics computes mean and modal mood over the trailing window. An empty
// window yields the zero-value result; it never fails.
func (t *MoodTracker) Statistics(st *State, windowDays int) models.MoodStatistics {
	recent := t.Recent(st, windowDays)
	if len(recent) == 0 {
		return models.MoodStatistics{}
	}

	sum := 0
	counts := make(map[models.MoodLevel]int)
	for _, e := range recent {
		sum += e.Level.Numeric()
		counts[e.Level]++
	}

	mode := models.MoodLevel("")
	best := 0
	for _, level := range []models.MoodLevel{
		models.MoodVeryLow, models.MoodLow, models.MoodOkay, models.MoodGood, models.MoodGreat,
	} {
		if counts[level] > best {
			best = counts[level]
			mode = level
		}
	}

	return models.MoodStatistics{
		Count: len(recent),
		Mean:  float64(sum) / float64(len(recent)),
		Mode:  mode,
	}
}
