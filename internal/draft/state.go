package draft

import (
	"errors"
	"fmt"
)

type SetState string

const (
	SetLocal         SetState = "local"
	SetPendingCreate SetState = "pending-create"
	SetSynced        SetState = "synced"
	SetEditPending   SetState = "edit-pending"
)

type WorkoutState string

const (
	WorkoutLocal    WorkoutState = "local"
	WorkoutCreating WorkoutState = "creating"
	WorkoutSynced   WorkoutState = "synced"
)

const (
	DefaultWorkoutName = "Quick workout"
	workoutDescription = "Quick workout"
	unnamedExercise    = "(Unnamed)"
)

var (
	ErrWorkoutNotReady  = errors.New("workout not created yet")
	ErrInvalidSet       = errors.New("invalid set")
	ErrSetNotPersisted  = errors.New("set not persisted")
	ErrGroupNotFound    = errors.New("exercise group not found")
	ErrSetNotFound      = errors.New("set not found")
	ErrUnknownExercise  = errors.New("unknown exercise")
	ErrUnsyncedSets     = errors.New("workout has unsynced sets")
	ErrEmptyWorkoutName = errors.New("workout name is empty")
)

// SetInput carries the user supplied fields of a new set.
type SetInput struct {
	Weight float64
	Reps   int
	RPE    *float64
	Notes  *string
}

func (in SetInput) validate() error {
	if in.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidSet)
	}
	if in.Reps <= 0 {
		return fmt.Errorf("%w: reps must be positive", ErrInvalidSet)
	}
	if in.RPE != nil && (*in.RPE < 1 || *in.RPE > 10) {
		return fmt.Errorf("%w: rpe must be within 1..10", ErrInvalidSet)
	}
	return nil
}

// SetPatch is a staged edit of a persisted set. Nil fields are left unchanged.
type SetPatch struct {
	Weight *float64 `json:"weight,omitempty"`
	Reps   *int     `json:"reps,omitempty"`
	RPE    *float64 `json:"rpe,omitempty"`
	Notes  *string  `json:"notes,omitempty"`
}

// merge returns p overlaid with newer.
func (p *SetPatch) merge(newer SetPatch) *SetPatch {
	merged := SetPatch{}
	if p != nil {
		merged = *p
	}
	if newer.Weight != nil {
		merged.Weight = newer.Weight
	}
	if newer.Reps != nil {
		merged.Reps = newer.Reps
	}
	if newer.RPE != nil {
		merged.RPE = newer.RPE
	}
	if newer.Notes != nil {
		merged.Notes = newer.Notes
	}
	return &merged
}

type SetDraft struct {
	ID         string    `json:"id"`
	ExerciseID int       `json:"exerciseId"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	RPE        *float64  `json:"rpe,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	State      SetState  `json:"state"`
	ServerID   *int      `json:"serverId,omitempty"`
	Staged     *SetPatch `json:"staged,omitempty"`
}

// IsPersisted is true exactly when the server confirmed the set.
func (s SetDraft) IsPersisted() bool {
	return s.State == SetSynced || s.State == SetEditPending
}

// withPatch returns the set fields with p applied.
func (s SetDraft) withPatch(p *SetPatch) SetInput {
	in := SetInput{Weight: s.Weight, Reps: s.Reps, RPE: s.RPE, Notes: s.Notes}
	if p == nil {
		return in
	}
	if p.Weight != nil {
		in.Weight = *p.Weight
	}
	if p.Reps != nil {
		in.Reps = *p.Reps
	}
	if p.RPE != nil {
		in.RPE = p.RPE
	}
	if p.Notes != nil {
		in.Notes = p.Notes
	}
	return in
}

func (s SetDraft) clone() SetDraft {
	c := s
	if s.RPE != nil {
		rpe := *s.RPE
		c.RPE = &rpe
	}
	if s.Notes != nil {
		notes := *s.Notes
		c.Notes = &notes
	}
	if s.ServerID != nil {
		id := *s.ServerID
		c.ServerID = &id
	}
	if s.Staged != nil {
		c.Staged = s.Staged.merge(SetPatch{})
	}
	return c
}

// Group is a local only grouping of the sets logged for one exercise.
type Group struct {
	ExerciseID int        `json:"exerciseId"`
	Name       string     `json:"name"`
	Sets       []SetDraft `json:"sets"`
}

func (g Group) clone() Group {
	c := g
	c.Sets = make([]SetDraft, len(g.Sets))
	for i := range g.Sets {
		c.Sets[i] = g.Sets[i].clone()
	}
	return c
}

// State is a point-in-time copy of the editor.
type State struct {
	WorkoutID    *int
	WorkoutState WorkoutState
	Name         string
	Notes        string
	Groups       []Group
	// NameSaved and NotesSaved report whether the latest local value was acknowledged remotely.
	NameSaved  bool
	NotesSaved bool
}

// Unpersisted lists the sets the server has not confirmed.
func (s State) Unpersisted() []SetDraft {
	var sets []SetDraft
	for _, g := range s.Groups {
		for _, set := range g.Sets {
			if !set.IsPersisted() {
				sets = append(sets, set)
			}
		}
	}
	return sets
}
