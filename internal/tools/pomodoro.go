package tools

import (
	"time"

	"github.com/talkheal/talkheal-backend/internal/models"
	"github.com/talkheal/talkheal-backend/internal/services"
)

// Pomodoro phases. The timer holds no goroutine; the deadline is compared
// against the clock whenever the tool is rendered or acted on, so an expired
// work interval is completed on the next poll regardless of how late it is.
const (
	PomodoroIdle  = "idle"
	PomodoroWork  = "work"
	PomodoroBreak = "break"
)

const (
	defaultWorkMinutes  = 25
	defaultBreakMinutes = 5
)

type pomodoroSession struct {
	Phase         string
	Task          string
	WorkMinutes   int
	BreakMinutes  int
	Deadline      time.Time
	Interruptions int
}

// PomodoroView is the rendered timer state.
type PomodoroView struct {
	Phase            string                  `json:"phase"`
	Task             string                  `json:"task,omitempty"`
	WorkMinutes      int                     `json:"work_minutes"`
	BreakMinutes     int                     `json:"break_minutes"`
	RemainingSeconds int                     `json:"remaining_seconds"`
	Interruptions    int                     `json:"interruptions"`
	CompletedToday   int                     `json:"completed_today"`
	History          []models.PomodoroRecord `json:"history"`
}

type pomodoroHistory struct {
	Records     []models.PomodoroRecord `json:"records"`
	LastUpdated string                  `json:"last_updated,omitempty"`
}

func (h *pomodoroHistory) TouchLastUpdated(ts string) { h.LastUpdated = ts }

// PomodoroTool is a focus timer with work and break intervals. Completed
// work intervals are appended to the pomodoro history document.
type PomodoroTool struct {
	docs *services.DocumentStore
	now  func() time.Time
}

func NewPomodoroTool(docs *services.DocumentStore) *PomodoroTool {
	return &PomodoroTool{docs: docs, now: time.Now}
}

func (t *PomodoroTool) Name() string  { return "pomodoro" }
func (t *PomodoroTool) Title() string { return "Focus Timer" }

func (t *PomodoroTool) session(st *services.State) *pomodoroSession {
	key := services.ToolStateKey(t.Name())
	v := st.GetOrInit(key, &pomodoroSession{
		Phase:        PomodoroIdle,
		WorkMinutes:  defaultWorkMinutes,
		BreakMinutes: defaultBreakMinutes,
	})
	sess, ok := v.(*pomodoroSession)
	if !ok {
		sess = &pomodoroSession{Phase: PomodoroIdle, WorkMinutes: defaultWorkMinutes, BreakMinutes: defaultBreakMinutes}
		st.Set(key, sess)
	}
	return sess
}

// advance applies any deadline that has passed since the last poll. A
// finished work interval is logged as completed and rolls straight into the
// break; a finished break returns to idle.
func (t *PomodoroTool) advance(sess *pomodoroSession) {
	now := t.now()

	if sess.Phase == PomodoroWork && !now.Before(sess.Deadline) {
		t.logRecord(sess, true)
		sess.Phase = PomodoroBreak
		sess.Deadline = sess.Deadline.Add(time.Duration(sess.BreakMinutes) * time.Minute)
	}
	if sess.Phase == PomodoroBreak && !now.Before(sess.Deadline) {
		sess.Phase = PomodoroIdle
		sess.Task = ""
		sess.Interruptions = 0
	}
}

func (t *PomodoroTool) logRecord(sess *pomodoroSession, completed bool) {
	history := &pomodoroHistory{Records: []models.PomodoroRecord{}}
	t.docs.Load(services.DocPomodoroHistory, history)

	now := t.now()
	history.Records = append(history.Records, models.PomodoroRecord{
		Date:            now.Format("2006-01-02"),
		DurationMinutes: sess.WorkMinutes,
		Task:            sess.Task,
		Interruptions:   sess.Interruptions,
		Completed:       completed,
		Timestamp:       now.Format(time.RFC3339),
	})
	t.docs.Save(services.DocPomodoroHistory, history)
}

func (t *PomodoroTool) Render(st *services.State) (interface{}, error) {
	sess := t.session(st)
	t.advance(sess)
	return t.view(sess), nil
}

func (t *PomodoroTool) view(sess *pomodoroSession) PomodoroView {
	remaining := 0
	if sess.Phase != PomodoroIdle {
		if d := sess.Deadline.Sub(t.now()); d > 0 {
			remaining = int(d.Seconds())
		}
	}

	history := &pomodoroHistory{Records: []models.PomodoroRecord{}}
	t.docs.Load(services.DocPomodoroHistory, history)

	today := t.now().Format("2006-01-02")
	completedToday := 0
	for _, rec := range history.Records {
		if rec.Date == today && rec.Completed {
			completedToday++
		}
	}

	return PomodoroView{
		Phase:            sess.Phase,
		Task:             sess.Task,
		WorkMinutes:      sess.WorkMinutes,
		BreakMinutes:     sess.BreakMinutes,
		RemainingSeconds: remaining,
		Interruptions:    sess.Interruptions,
		CompletedToday:   completedToday,
		History:          history.Records,
	}
}

func (t *PomodoroTool) Action(st *services.State, action string, params map[string]interface{}) (interface{}, error) {
	sess := t.session(st)
	t.advance(sess)

	switch action {
	case "start":
		var p struct {
			Task         string `json:"task"`
			WorkMinutes  int    `json:"work_minutes"`
			BreakMinutes int    `json:"break_minutes"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if p.WorkMinutes <= 0 {
			p.WorkMinutes = defaultWorkMinutes
		}
		if p.BreakMinutes <= 0 {
			p.BreakMinutes = defaultBreakMinutes
		}
		sess.Phase = PomodoroWork
		sess.Task = p.Task
		sess.WorkMinutes = p.WorkMinutes
		sess.BreakMinutes = p.BreakMinutes
		sess.Interruptions = 0
		sess.Deadline = t.now().Add(time.Duration(p.WorkMinutes) * time.Minute)

	case "interrupt":
		if sess.Phase != PomodoroWork {
			return nil, ErrNoActiveSession
		}
		sess.Interruptions++

	case "stop":
		// Abandoning a work interval still logs it, marked incomplete.
		if sess.Phase == PomodoroWork {
			t.logRecord(sess, false)
		}
		sess.Phase = PomodoroIdle
		sess.Task = ""
		sess.Interruptions = 0

	case "skip_break":
		if sess.Phase != PomodoroBreak {
			return nil, ErrNoActiveSession
		}
		sess.Phase = PomodoroIdle

	default:
		return nil, ErrUnknownAction
	}

	return t.view(sess), nil
}
