package tools

import (
	"time"

	"github.com/talkheal/talkheal-backend/internal/services"
)

// Breathing exercise techniques. Each is a fixed cycle of timed phases; the
// current phase is derived from elapsed time on every poll, so the server
// keeps no timer running.
type breathingPhase struct {
	Name    string `json:"name"`
	Seconds int    `json:"seconds"`
}

var breathingTechniques = map[string][]breathingPhase{
	"4-7-8": {
		{Name: "inhale", Seconds: 4},
		{Name: "hold", Seconds: 7},
		{Name: "exhale", Seconds: 8},
	},
	"box": {
		{Name: "inhale", Seconds: 4},
		{Name: "hold", Seconds: 4},
		{Name: "exhale", Seconds: 4},
		{Name: "hold", Seconds: 4},
	},
	"deep": {
		{Name: "inhale", Seconds: 5},
		{Name: "hold", Seconds: 2},
		{Name: "exhale", Seconds: 5},
	},
}

const defaultBreathingTechnique = "4-7-8"

type breathingSession struct {
	Technique string
	StartedAt time.Time
	Running   bool
}

// BreathingView is the rendered exercise state.
type BreathingView struct {
	Running          bool             `json:"running"`
	Technique        string           `json:"technique"`
	Techniques       []string         `json:"techniques"`
	Phases           []breathingPhase `json:"phases"`
	CurrentPhase     string           `json:"current_phase,omitempty"`
	PhaseSecondsLeft int              `json:"phase_seconds_left"`
	CompletedCycles  int              `json:"completed_cycles"`
}

// BreathingTool runs guided breathing cycles. It keeps no history document;
// the session state is all there is.
type BreathingTool struct {
	now func() time.Time
}

func NewBreathingTool() *BreathingTool {
	return &BreathingTool{now: time.Now}
}

func (t *BreathingTool) Name() string  { return "breathing" }
func (t *BreathingTool) Title() string { return "Breathing Exercises" }

func (t *BreathingTool) session(st *services.State) *breathingSession {
	key := services.ToolStateKey(t.Name())
	v := st.GetOrInit(key, &breathingSession{Technique: defaultBreathingTechnique})
	sess, ok := v.(*breathingSession)
	if !ok {
		sess = &breathingSession{Technique: defaultBreathingTechnique}
		st.Set(key, sess)
	}
	return sess
}

func techniqueNames() []string {
	return []string{"4-7-8", "box", "deep"}
}

func (t *BreathingTool) view(sess *breathingSession) BreathingView {
	phases := breathingTechniques[sess.Technique]
	view := BreathingView{
		Running:    sess.Running,
		Technique:  sess.Technique,
		Techniques: techniqueNames(),
		Phases:     phases,
	}
	if !sess.Running {
		return view
	}

	cycleSeconds := 0
	for _, p := range phases {
		cycleSeconds += p.Seconds
	}

	elapsed := int(t.now().Sub(sess.StartedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	view.CompletedCycles = elapsed / cycleSeconds

	within := elapsed % cycleSeconds
	for _, p := range phases {
		if within < p.Seconds {
			view.CurrentPhase = p.Name
			view.PhaseSecondsLeft = p.Seconds - within
			break
		}
		within -= p.Seconds
	}
	return view
}

func (t *BreathingTool) Render(st *services.State) (interface{}, error) {
	return t.view(t.session(st)), nil
}

func (t *BreathingTool) Action(st *services.State, action string, params map[string]interface{}) (interface{}, error) {
	sess := t.session(st)

	switch action {
	case "start":
		var p struct {
			Technique string `json:"technique"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		if _, ok := breathingTechniques[p.Technique]; !ok {
			p.Technique = defaultBreathingTechnique
		}
		sess.Technique = p.Technique
		sess.StartedAt = t.now()
		sess.Running = true

	case "stop":
		sess.Running = false

	default:
		return nil, ErrUnknownAction
	}

	return t.view(sess), nil
}
