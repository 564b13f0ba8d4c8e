package services

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Document names, one file per concern under the data directory.
const (
	DocCrisisPlan       = "crisis_action_plan"
	DocPMRHistory       = "pmr_history"
	DocPomodoroHistory  = "pomodoro_history"
	DocTherapySessions  = "therapy_sessions"
	DocTherapyHomework  = "therapy_homework"
	DocValuesAssessment = "values_assessment"
	DocConversations    = "conversations"
	DocMoodHistory      = "mood_history"
)

// Timestamped is implemented by documents that carry a last_updated stamp;
// Save refreshes it just before writing.
type Timestamped interface {
	TouchLastUpdated(ts string)
}

// DocumentStore loads and saves named JSON documents under a data directory.
// Load never fails: a missing or unreadable file leaves the caller's default
// in place. Save reports success as a boolean; callers must check it before
// assuming the write happened.
type DocumentStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDocumentStore(dir string) *DocumentStore {
	return &DocumentStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// Path returns the file backing a document name.
func (s *DocumentStore) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// lockFor returns the per-document mutex so two sessions saving the same
// document do not interleave their writes.
func (s *DocumentStore) lockFor(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Load unmarshals the named document into dest. The caller populates dest
// with its default beforehand; on a missing file dest is left untouched and
// no file is created. A file that exists but fails to parse is downgraded to
// a warning and treated the same way.
func (s *DocumentStore) Load(name string, dest interface{}) bool {
	l := s.lockFor(name)
	l.Lock()
	defer l.Unlock()

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️  Could not read %s: %v", s.Path(name), err)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("⚠️  Could not parse %s, falling back to defaults: %v", s.Path(name), err)
		return false
	}
	return true
}

// Save writes the document as pretty-printed JSON, creating the data
// directory if needed. The write goes through a temp file and rename so a
// crash mid-write never leaves a truncated document behind.
func (s *DocumentStore) Save(name string, doc interface{}) bool {
	l := s.lockFor(name)
	l.Lock()
	defer l.Unlock()

	if t, ok := doc.(Timestamped); ok {
		t.TouchLastUpdated(time.Now().Format(time.RFC3339))
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Printf("⚠️  Could not create data directory %s: %v", s.dir, err)
		return false
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Printf("⚠️  Could not serialize %s: %v", name, err)
		return false
	}

	tmp, err := os.CreateTemp(s.dir, name+"-*.tmp")
	if err != nil {
		log.Printf("⚠️  Could not save %s: %v", name, err)
		return false
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		log.Printf("⚠️  Could not save %s: %v", name, err)
		return false
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		log.Printf("⚠️  Could not save %s: %v", name, err)
		return false
	}

	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		os.Remove(tmpName)
		log.Printf("⚠️  Could not save %s: %v", name, err)
		return false
	}
	return true
}
