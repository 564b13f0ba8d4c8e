package tools

import (
	"errors"
	"time"

	"github.com/talkheal/talkheal-backend/internal/models"
	"github.com/talkheal/talkheal-backend/internal/services"
)

// CoreValues is the catalog users select from during the assessment.
var CoreValues = []string{
	"Family", "Friendship", "Health", "Growth", "Creativity",
	"Achievement", "Independence", "Kindness", "Honesty", "Adventure",
	"Security", "Spirituality", "Community", "Learning", "Balance",
}

// ValuesView pairs the stored assessment with the selectable catalog.
type ValuesView struct {
	Catalog    []string                 `json:"catalog"`
	Assessment *models.ValuesAssessment `json:"assessment"`
}

// ValuesTool walks the values assessment: select values, rank them, score
// how aligned daily life feels with each, then set action goals.
type ValuesTool struct {
	docs *services.DocumentStore
	now  func() time.Time
}

func NewValuesTool(docs *services.DocumentStore) *ValuesTool {
	return &ValuesTool{docs: docs, now: time.Now}
}

func (t *ValuesTool) Name() string  { return "values" }
func (t *ValuesTool) Title() string { return "Values Assessment" }

func (t *ValuesTool) load() *models.ValuesAssessment {
	a := models.EmptyValuesAssessment()
	t.docs.Load(services.DocValuesAssessment, &a)
	return &a
}

func (t *ValuesTool) save(a *models.ValuesAssessment) error {
	if !t.docs.Save(services.DocValuesAssessment, a) {
		return errors.New("could not save values assessment")
	}
	return nil
}

func (t *ValuesTool) Render(st *services.State) (interface{}, error) {
	return ValuesView{Catalog: CoreValues, Assessment: t.load()}, nil
}

func (t *ValuesTool) Action(st *services.State, action string, params map[string]interface{}) (interface{}, error) {
	a := t.load()

	switch action {
	case "select":
		var p struct {
			Values []string `json:"values"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		a.SelectedValues = p.Values

	case "rank":
		var p struct {
			Values []string `json:"values"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		a.RankedValues = p.Values

	case "score":
		var p struct {
			Scores map[string]int `json:"scores"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		a.AlignmentScores = p.Scores

	case "add_goal":
		var p struct {
			Value string `json:"value"`
			Goal  string `json:"goal"`
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		a.Goals = append(a.Goals, models.ValuesGoal{
			Value: p.Value,
			Goal:  p.Goal,
			Date:  t.now().Format("2006-01-02"),
		})

	default:
		return nil, ErrUnknownAction
	}

	if err := t.save(a); err != nil {
		return nil, err
	}
	return ValuesView{Catalog: CoreValues, Assessment: a}, nil
}
