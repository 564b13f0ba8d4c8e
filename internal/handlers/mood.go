package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/talkheal/talkheal-backend/internal/models"
)

type AddMoodRequest struct {
	Level      string   `json:"level"`
	Notes      string   `json:"notes,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Activities []string `json:"activities,omitempty"`
}

const defaultMoodWindowDays = 7

// AddMoodEntry records a mood check-in.
func AddMoodEntry(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req AddMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := Moods.AddEntry(st, models.MoodLevel(req.Level), req.Notes, req.Reason, req.Activities)
	if err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "unknown mood level" {
			status = http.StatusBadRequest
		}
		writeMessage(w, status, false, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"entry":   entry,
	})
}

// GetMoodHistory returns entries in the trailing window (?days=N, default 7).
func GetMoodHistory(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	days := moodWindow(r)
	entries := Moods.Recent(st, days)
	if entries == nil {
		entries = []models.MoodEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"days":    days,
		"entries": entries,
	})
}

// GetMoodStatistics returns mean and modal mood over the trailing window.
func GetMoodStatistics(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	days := moodWindow(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"days":       days,
		"statistics": Moods.Statistics(st, days),
	})
}

func moodWindow(r *http.Request) int {
	if raw := r.URL.Query().Get("days"); raw != "" {
		if days, err := strconv.Atoi(raw); err == nil && days > 0 {
			return days
		}
	}
	return defaultMoodWindowDays
}
