package tools

import (
	"errors"
	"time"

	"github.com/talkheal/talkheal-backend/internal/models"
	"github.com/talkheal/talkheal-backend/internal/services"
)

// CrisisPlanTool edits the crisis action plan document. The plan is saved
// wholesale; there is no per-field patching.
type CrisisPlanTool struct {
	docs *services.DocumentStore
	now  func() time.Time
}

func NewCrisisPlanTool(docs *services.DocumentStore) *CrisisPlanTool {
	return &CrisisPlanTool{docs: docs, now: time.Now}
}

func (t *CrisisPlanTool) Name() string  { return "crisis_plan" }
func (t *CrisisPlanTool) Title() string { return "Crisis Action Plan" }

func (t *CrisisPlanTool) load() *models.CrisisPlan {
	plan := models.EmptyCrisisPlan()
	t.docs.Load(services.DocCrisisPlan, &plan)
	return &plan
}

func (t *CrisisPlanTool) Render(st *services.State) (interface{}, error) {
	return t.load(), nil
}

func (t *CrisisPlanTool) Action(st *services.State, action string, params map[string]interface{}) (interface{}, error) {
	switch action {
	case "save":
		plan := models.EmptyCrisisPlan()
		existing := t.load()
		plan.CreatedDate = existing.CreatedDate
		plan.LastReviewed = existing.LastReviewed
		if err := decodeParams(params, &plan); err != nil {
			return nil, err
		}
		if !t.docs.Save(services.DocCrisisPlan, &plan) {
			return nil, errors.New("could not save crisis plan")
		}
		return &plan, nil

	case "review":
		plan := t.load()
		plan.LastReviewed = t.now().Format(time.RFC3339)
		if !t.docs.Save(services.DocCrisisPlan, plan) {
			return nil, errors.New("could not save crisis plan")
		}
		return plan, nil

	default:
		return nil, ErrUnknownAction
	}
}
