package tools

import (
	"time"

	"github.com/talkheal/talkheal-backend/internal/models"
	"github.com/talkheal/talkheal-backend/internal/services"
)

// Progressive muscle relaxation phases. The session walks each muscle group
// through tense then relax; after the last group it ends in the done phase,
// which is terminal until a new session starts.
const (
	PMRPrepare = "prepare"
	PMRTense   = "tense"
	PMRRelax   = "relax"
	PMRDone    = "done"
)

const (
	PMRDurationQuick = "quick"
	PMRDurationFull  = "full"
)

var pmrFullGroups = []string{
	"Hands and forearms",
	"Upper arms",
	"Forehead",
	"Eyes and cheeks",
	"Mouth and jaw",
	"Neck and shoulders",
	"Chest and back",
	"Stomach",
	"Hips",
	"Thighs",
	"Calves",
	"Feet and toes",
}

var pmrQuickGroups = []string{
	"Hands and arms",
	"Face and neck",
	"Chest and stomach",
	"Legs and feet",
}

type pmrSession struct {
	Phase        string
	DurationType string
	Groups       []string
	GroupIndex   int
	StartedAt    time.Time
	Logged       bool
}

// PMRView is the rendered relaxation session state.
type PMRView struct {
	Phase        string             `json:"phase"`
	DurationType string             `json:"duration_type,omitempty"`
	CurrentGroup string             `json:"current_group,omitempty"`
	GroupIndex   int                `json:"group_index"`
	GroupCount   int                `json:"group_count"`
	History      []models.PMRRecord `json:"history"`
}

type pmrHistory struct {
	Records     []models.PMRRecord `json:"records"`
	LastUpdated string             `json:"last_updated,omitempty"`
}

func (h *pmrHistory) TouchLastUpdated(ts string) { h.LastUpdated = ts }

// PMRTool guides progressive muscle relaxation sessions and logs completed
// ones to the PMR history document.
type PMRTool struct {
	docs *services.DocumentStore
	now  func() time.Time
}

func NewPMRTool(docs *services.DocumentStore) *PMRTool {
	return &PMRTool{docs: docs, now: time.Now}
}

func (t *PMRTool) Name() string  { return "pmr" }
func (t *PMRTool) Title() string { return "Muscle Relaxation" }

func (t *PMRTool) session(st *services.State) *pmrSession {
	key := services.ToolStateKey(t.Name())
	v := st.GetOrInit(key, &pmrSession{Phase: PMRPrepare})
	sess, ok := v.(*pmrSession)
	if !ok {
		sess = &pmrSession{Phase: PMRPrepare}
		st.Set(key, sess)
	}
	return sess
}

func (t *PMRTool) loadHistory() *pmrHistory {
	history := &pmrHistory{Records: []models.PMRRecord{}}
	t.docs.Load(services.DocPMRHistory, history)
	return history
}

func (t *PMRTool) view(sess *pmrSession) PMRView {
	view := PMRView{
		Phase:        sess.Phase,
		DurationType: sess.DurationType,
		GroupIndex:   sess.GroupIndex,
		GroupCount:   len(sess.Groups),
		History:      t.loadHistory().Records,
	}
	if sess.Phase == PMRTense || sess.Phase == PMRRelax {
		view.CurrentGroup = sess.Groups[sess.GroupIndex]
	}
	return view
}

func (t *PMRTool) Render(st *services.State) (interface{}, error) {
	return t.view(t.session(st)), nil
}

func (t *PMRTool) Action(st *services.State, action string, params map[string]interface{}) (interface{}, error) {
	sess := t.session(st)

	switch action {
	case "start":
		var p struct {
			DurationType string `json:"duration_type"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		groups := pmrFullGroups
		if p.DurationType == PMRDurationQuick {
			groups = pmrQuickGroups
		} else {
			p.DurationType = PMRDurationFull
		}
		*sess = pmrSession{
			Phase:        PMRTense,
			DurationType: p.DurationType,
			Groups:       groups,
			StartedAt:    t.now(),
		}

	case "next":
		switch sess.Phase {
		case PMRTense:
			sess.Phase = PMRRelax
		case PMRRelax:
			if sess.GroupIndex+1 < len(sess.Groups) {
				sess.GroupIndex++
				sess.Phase = PMRTense
			} else {
				sess.Phase = PMRDone
				t.logRecord(sess, 0, true)
				sess.Logged = true
			}
		default:
			return nil, ErrNoActiveSession
		}

	case "rate":
		if sess.Phase != PMRDone || !sess.Logged {
			return nil, ErrNoActiveSession
		}
		var p struct {
			Rating int `json:"rating"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		t.applyRating(p.Rating)

	case "stop":
		// Incomplete sessions are not logged.
		*sess = pmrSession{Phase: PMRPrepare}

	default:
		return nil, ErrUnknownAction
	}

	return t.view(sess), nil
}

func (t *PMRTool) logRecord(sess *pmrSession, rating int, completed bool) {
	history := t.loadHistory()
	now := t.now()
	history.Records = append(history.Records, models.PMRRecord{
		Date:         now.Format("2006-01-02"),
		DurationType: sess.DurationType,
		MuscleGroups: len(sess.Groups),
		Rating:       rating,
		Completed:    completed,
		Timestamp:    now.Format(time.RFC3339),
	})
	t.docs.Save(services.DocPMRHistory, history)
}

// applyRating sets the rating on the most recent record.
func (t *PMRTool) applyRating(rating int) {
	history := t.loadHistory()
	if len(history.Records) == 0 {
		return
	}
	history.Records[len(history.Records)-1].Rating = rating
	t.docs.Save(services.DocPMRHistory, history)
}
