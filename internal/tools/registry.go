package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/talkheal/talkheal-backend/internal/services"
)

var (
	ErrToolNotFound    = errors.New("tool not found")
	ErrUnknownAction   = errors.New("unknown action")
	ErrInvalidParams   = errors.New("invalid action parameters")
	ErrNoActiveSession = errors.New("no active tool session")
)

// Tool is one self-help tool behind the navigation router. Render produces
// the tool's current view for the session; Action applies a named action and
// returns the refreshed view.
type Tool interface {
	Name() string
	Title() string
	Render(st *services.State) (interface{}, error)
	Action(st *services.State, action string, params map[string]interface{}) (interface{}, error)
}

// ToolInfo is the catalog entry returned to clients.
type ToolInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Registry is the tool navigation router: a dispatch table keyed by tool
// name. At most one tool is active per session; opening a tool replaces the
// previous selection, and going home clears it.
type Registry struct {
	order []string
	tools map[string]Tool
}

func NewRegistry(docs *services.DocumentStore) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	r.register(NewPomodoroTool(docs))
	r.register(NewPMRTool(docs))
	r.register(NewBreathingTool())
	r.register(NewCrisisPlanTool(docs))
	r.register(NewValuesTool(docs))
	r.register(NewTherapyTool(docs))
	return r
}

func (r *Registry) register(t Tool) {
	r.order = append(r.order, t.Name())
	r.tools[t.Name()] = t
}

// List returns the catalog in registration order.
func (r *Registry) List() []ToolInfo {
	infos := make([]ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		infos = append(infos, ToolInfo{Name: t.Name(), Title: t.Title()})
	}
	return infos
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Open makes the named tool the session's active tool and renders it.
func (r *Registry) Open(st *services.State, name string) (interface{}, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, ErrToolNotFound
	}
	st.SetActiveTool(name)
	return t.Render(st)
}

// Render renders the session's active tool without changing navigation.
func (r *Registry) Render(st *services.State) (string, interface{}, error) {
	name := st.ActiveTool()
	if name == "" {
		return "", nil, ErrNoActiveSession
	}
	t, ok := r.tools[name]
	if !ok {
		return "", nil, ErrToolNotFound
	}
	view, err := t.Render(st)
	return name, view, err
}

// Action dispatches an action to the named tool. The tool must exist but
// does not have to be active; acting on it makes it active.
func (r *Registry) Action(st *services.State, name, action string, params map[string]interface{}) (interface{}, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, ErrToolNotFound
	}
	st.SetActiveTool(name)
	return t.Action(st, action, params)
}

// Home returns navigation to the home view. The departing tool's transient
// session state is discarded so reopening it starts fresh.
func (r *Registry) Home(st *services.State) {
	if name := st.ActiveTool(); name != "" {
		st.Delete(services.ToolStateKey(name))
	}
	st.SetActiveTool("")
}

// decodeParams maps loosely-typed action parameters onto a typed struct.
func decodeParams(params map[string]interface{}, dest interface{}) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
