package tools

import (
	"errors"
	"time"

	"github.com/talkheal/talkheal-backend/internal/models"
	"github.com/talkheal/talkheal-backend/internal/services"
)

// Therapy session record types.
const (
	TherapyPreparation = "preparation"
	TherapyNotes       = "notes"
)

type therapySessions struct {
	Sessions    []models.TherapySession `json:"sessions"`
	LastUpdated string                  `json:"last_updated,omitempty"`
}

func (d *therapySessions) TouchLastUpdated(ts string) { d.LastUpdated = ts }

type therapyHomework struct {
	Items       []models.HomeworkItem `json:"items"`
	LastUpdated string                `json:"last_updated,omitempty"`
}

func (d *therapyHomework) TouchLastUpdated(ts string) { d.LastUpdated = ts }

// TherapyView bundles session records and homework for the companion view.
type TherapyView struct {
	Sessions []models.TherapySession `json:"sessions"`
	Homework []models.HomeworkItem   `json:"homework"`
	Statuses []string                `json:"statuses"`
}

// TherapyTool keeps therapy session preparations, post-session notes, and
// homework assignments across two documents.
type TherapyTool struct {
	docs *services.DocumentStore
	now  func() time.Time
}

func NewTherapyTool(docs *services.DocumentStore) *TherapyTool {
	return &TherapyTool{docs: docs, now: time.Now}
}

func (t *TherapyTool) Name() string  { return "therapy" }
func (t *TherapyTool) Title() string { return "Therapy Companion" }

func (t *TherapyTool) loadSessions() *therapySessions {
	d := &therapySessions{Sessions: []models.TherapySession{}}
	t.docs.Load(services.DocTherapySessions, d)
	return d
}

func (t *TherapyTool) loadHomework() *therapyHomework {
	d := &therapyHomework{Items: []models.HomeworkItem{}}
	t.docs.Load(services.DocTherapyHomework, d)
	return d
}

func (t *TherapyTool) view() TherapyView {
	return TherapyView{
		Sessions: t.loadSessions().Sessions,
		Homework: t.loadHomework().Items,
		Statuses: models.HomeworkStatuses,
	}
}

func (t *TherapyTool) Render(st *services.State) (interface{}, error) {
	return t.view(), nil
}

func (t *TherapyTool) Action(st *services.State, action string, params map[string]interface{}) (interface{}, error) {
	switch action {
	case "add_preparation", "add_notes":
		var session models.TherapySession
		if err := decodeParams(params, &session); err != nil {
			return nil, err
		}
		session.Type = TherapyPreparation
		if action == "add_notes" {
			session.Type = TherapyNotes
		}
		session.CreatedDate = t.now().Format(time.RFC3339)

		d := t.loadSessions()
		d.Sessions = append(d.Sessions, session)
		if !t.docs.Save(services.DocTherapySessions, d) {
			return nil, errors.New("could not save therapy sessions")
		}

	case "add_homework":
		var item models.HomeworkItem
		if err := decodeParams(params, &item); err != nil {
			return nil, err
		}
		if item.Status == "" {
			item.Status = models.HomeworkStatuses[0]
		}
		item.AssignedDate = t.now().Format("2006-01-02")

		d := t.loadHomework()
		d.Items = append(d.Items, item)
		if !t.docs.Save(services.DocTherapyHomework, d) {
			return nil, errors.New("could not save therapy homework")
		}

	case "update_homework":
		var p struct {
			Index  int    `json:"index"`
			Status string `json:"status"`
			Notes  string `json:"notes"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}

		d := t.loadHomework()
		if p.Index < 0 || p.Index >= len(d.Items) {
			return nil, errors.New("homework item not found")
		}
		if p.Status != "" {
			d.Items[p.Index].Status = p.Status
		}
		if p.Notes != "" {
			d.Items[p.Index].Notes = p.Notes
		}
		if !t.docs.Save(services.DocTherapyHomework, d) {
			return nil, errors.New("could not save therapy homework")
		}

	default:
		return nil, ErrUnknownAction
	}

	return t.view(), nil
}
