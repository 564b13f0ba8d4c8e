package services

import "sync"

// State is one browser visit's worth of server-side view state: a mapping
// from named keys to values, created fresh per session and torn down with
// it. Every component initializes its slice through GetOrInit; there is no
// other shared mutable state between views.
type State struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

func NewState() *State {
	return &State{values: make(map[string]interface{})}
}

// GetOrInit returns the value under key, setting it to def first if the key
// is absent. Calling it again with a different default returns the value set
// on the first call; the default is only ever used once.
func (s *State) GetOrInit(key string, def interface{}) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	s.values[key] = def
	return def
}

// Get returns the value under key if present.
func (s *State) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value unconditionally.
func (s *State) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes a key; absent keys are a no-op.
func (s *State) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Session state keys used by the typed accessors below. Tools use their own
// namespaced keys via ToolStateKey.
const (
	stateKeyConversations      = "conversations"
	stateKeyActiveConversation = "active_conversation"
	stateKeyActiveTool         = "active_tool"
)

// ToolStateKey namespaces a tool's slice of session state.
func ToolStateKey(tool string) string {
	return "tool:" + tool
}

// ActiveTool returns the current tool selector, "" when on the home view.
func (s *State) ActiveTool() string {
	v := s.GetOrInit(stateKeyActiveTool, "")
	tool, _ := v.(string)
	return tool
}

// SetActiveTool moves navigation to the named tool; "" returns home.
func (s *State) SetActiveTool(tool string) {
	s.Set(stateKeyActiveTool, tool)
}

// ActiveConversation returns the selected conversation index, or
// models.NoActiveConversation (-1) when nothing is selected.
func (s *State) ActiveConversation() int {
	v := s.GetOrInit(stateKeyActiveConversation, -1)
	idx, _ := v.(int)
	return idx
}

func (s *State) SetActiveConversation(idx int) {
	s.Set(stateKeyActiveConversation, idx)
}
