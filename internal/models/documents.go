package models

// Persisted self-help tool documents. Each lives in its own JSON file under
// the data directory and is loaded wholesale into session state on first
// access, mutated in memory, and saved wholesale on explicit save actions.

// CrisisContact is a person or service listed in the crisis action plan.
type CrisisContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

type CrisisPlan struct {
	WarningSigns          []string        `json:"warning_signs"`
	InternalCoping        []string        `json:"internal_coping"`
	DistractionActivities []string        `json:"distraction_activities"`
	SafePeople            []CrisisContact `json:"safe_people"`
	SafePlaces            []string        `json:"safe_places"`
	ProfessionalContacts  []CrisisContact `json:"professional_contacts"`
	MyTherapist           CrisisContact   `json:"my_therapist"`
	ReasonsForLiving      []string        `json:"reasons_for_living"`
	SafetySteps           []string        `json:"safety_steps"`
	EmergencyContacts     []CrisisContact `json:"emergency_contacts"`
	CreatedDate           string          `json:"created_date,omitempty"`
	LastUpdated           string          `json:"last_updated,omitempty"`
	LastReviewed          string          `json:"last_reviewed,omitempty"`
}

// EmptyCrisisPlan returns the default plan structure used when no plan has
// been saved yet.
func EmptyCrisisPlan() CrisisPlan {
	return CrisisPlan{
		WarningSigns:          []string{},
		InternalCoping:        []string{},
		DistractionActivities: []string{},
		SafePeople:            []CrisisContact{},
		SafePlaces:            []string{},
		ProfessionalContacts:  []CrisisContact{},
		ReasonsForLiving:      []string{},
		SafetySteps:           []string{},
		EmergencyContacts:     []CrisisContact{},
	}
}

func (p *CrisisPlan) TouchLastUpdated(ts string) {
	p.LastUpdated = ts
	if p.CreatedDate == "" {
		p.CreatedDate = ts
	}
}

// PMRRecord logs one completed progressive muscle relaxation session.
type PMRRecord struct {
	Date         string `json:"date"`
	DurationType string `json:"duration_type"`
	MuscleGroups int    `json:"muscle_groups"`
	Rating       int    `json:"rating"`
	Completed    bool   `json:"completed"`
	Timestamp    string `json:"timestamp"`
}

// PomodoroRecord logs one completed work interval.
type PomodoroRecord struct {
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
	Task            string `json:"task"`
	Interruptions   int    `json:"interruptions"`
	Completed       bool   `json:"completed"`
	Timestamp       string `json:"timestamp"`
}

// TherapySession is either a pre-session preparation ("preparation") or a
// post-session note ("notes"); the two variants share a file.
type TherapySession struct {
	Type          string            `json:"type"`
	SessionDate   string            `json:"session_date"`
	SessionTime   string            `json:"session_time,omitempty"`
	SessionNumber int               `json:"session_number,omitempty"`
	SessionRating int               `json:"session_rating,omitempty"`
	CreatedDate   string            `json:"created_date"`
	Responses     map[string]string `json:"responses,omitempty"`
	Questions     []string          `json:"questions,omitempty"`
	Topics        []string          `json:"topics,omitempty"`
	Reflections   map[string]string `json:"reflections,omitempty"`
	Techniques    []string          `json:"techniques,omitempty"`
	NextGoals     []string          `json:"next_goals,omitempty"`
}

// HomeworkStatus values for HomeworkItem.Status.
var HomeworkStatuses = []string{"Not Started", "In Progress", "Completed", "Struggled With"}

type HomeworkItem struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`
	AssignedDate string `json:"assigned_date"`
	DueDate      string `json:"due_date,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ValuesGoal is an action-plan goal tied to one of the ranked values.
type ValuesGoal struct {
	Value string `json:"value"`
	Goal  string `json:"goal"`
	Date  string `json:"date"`
}

type ValuesAssessment struct {
	SelectedValues  []string       `json:"selected_values"`
	RankedValues    []string       `json:"ranked_values"`
	AlignmentScores map[string]int `json:"alignment_scores"`
	Goals           []ValuesGoal   `json:"goals"`
	CreatedDate     string         `json:"created_date,omitempty"`
	LastUpdated     string         `json:"last_updated,omitempty"`
}

func (a *ValuesAssessment) TouchLastUpdated(ts string) {
	a.LastUpdated = ts
	if a.CreatedDate == "" {
		a.CreatedDate = ts
	}
}

// EmptyValuesAssessment returns the default assessment structure.
func EmptyValuesAssessment() ValuesAssessment {
	return ValuesAssessment{
		SelectedValues:  []string{},
		RankedValues:    []string{},
		AlignmentScores: map[string]int{},
		Goals:           []ValuesGoal{},
	}
}
