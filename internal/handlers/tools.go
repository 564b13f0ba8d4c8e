package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talkheal/talkheal-backend/internal/tools"
)

type ToolActionRequest struct {
	Action string                 `json:"action"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// ListTools returns the tool catalog plus the session's active tool.
func ListTools(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tools":   Tools.List(),
		"active":  st.ActiveTool(),
	})
}

// OpenTool navigates to a tool and returns its rendered view.
func OpenTool(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	view, err := Tools.Open(st, name)
	if err != nil {
		writeMessage(w, toolErrorStatus(err), false, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tool":    name,
		"view":    view,
	})
}

// RenderTool re-renders a tool without changing navigation; timers that
// expired since the last poll advance here.
func RenderTool(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	t, found := Tools.Get(name)
	if !found {
		writeMessage(w, http.StatusNotFound, false, tools.ErrToolNotFound.Error())
		return
	}

	view, err := t.Render(st)
	if err != nil {
		writeMessage(w, toolErrorStatus(err), false, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tool":    name,
		"view":    view,
	})
}

// ToolAction applies a named action to a tool and returns the refreshed view.
func ToolAction(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req ToolActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := chi.URLParam(r, "name")
	view, err := Tools.Action(st, name, req.Action, req.Params)
	if err != nil {
		writeMessage(w, toolErrorStatus(err), false, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tool":    name,
		"view":    view,
	})
}

// GoHome leaves the active tool and returns to the home view.
func GoHome(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	Tools.Home(st)
	writeMessage(w, http.StatusOK, true, "Returned home")
}

func toolErrorStatus(err error) int {
	switch {
	case errors.Is(err, tools.ErrToolNotFound):
		return http.StatusNotFound
	case errors.Is(err, tools.ErrUnknownAction), errors.Is(err, tools.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, tools.ErrNoActiveSession):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
