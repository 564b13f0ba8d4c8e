package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkheal/talkheal-backend/internal/models"
)

func TestLoadMissingFileLeavesDefault(t *testing.T) {
	docs := NewDocumentStore(t.TempDir())

	plan := models.EmptyCrisisPlan()
	plan.WarningSigns = []string{"tension"}

	ok := docs.Load(DocCrisisPlan, &plan)
	assert.False(t, ok)
	assert.Equal(t, []string{"tension"}, plan.WarningSigns)

	// Loading must not create the file.
	_, err := os.Stat(docs.Path(DocCrisisPlan))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	docs := NewDocumentStore(t.TempDir())

	plan := models.EmptyCrisisPlan()
	plan.WarningSigns = []string{"isolation", "poor sleep"}
	plan.ReasonsForLiving = []string{"family"}

	require.True(t, docs.Save(DocCrisisPlan, &plan))
	assert.NotEmpty(t, plan.LastUpdated)
	assert.NotEmpty(t, plan.CreatedDate)

	loaded := models.EmptyCrisisPlan()
	require.True(t, docs.Load(DocCrisisPlan, &loaded))
	assert.Equal(t, plan.WarningSigns, loaded.WarningSigns)
	assert.Equal(t, plan.ReasonsForLiving, loaded.ReasonsForLiving)
	assert.Equal(t, plan.LastUpdated, loaded.LastUpdated)
}

func TestSaveCreatesDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	docs := NewDocumentStore(dir)

	doc := &models.MoodDocument{Entries: []models.MoodEntry{}}
	require.True(t, docs.Save(DocMoodHistory, doc))

	_, err := os.Stat(docs.Path(DocMoodHistory))
	assert.NoError(t, err)
}

func TestLoadCorruptFileLeavesDefault(t *testing.T) {
	dir := t.TempDir()
	docs := NewDocumentStore(dir)

	require.NoError(t, os.WriteFile(docs.Path(DocMoodHistory), []byte("{not json"), 0o644))

	doc := &models.MoodDocument{Entries: []models.MoodEntry{{Notes: "kept"}}}
	ok := docs.Load(DocMoodHistory, doc)
	assert.False(t, ok)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "kept", doc.Entries[0].Notes)
}
