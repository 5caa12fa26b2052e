package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/liftlog/internal/localstore"

	log "github.com/sirupsen/logrus"
)

// snapshot is the single draft slot stored under localstore.DraftKey.
type snapshot struct {
	WorkoutID *int          `json:"workoutId,omitempty"`
	Name      string        `json:"name"`
	Notes     string        `json:"notes"`
	Groups    []groupRecord `json:"groups"`
	SavedAt   time.Time     `json:"savedAt"`
}

type groupRecord struct {
	ExerciseID int         `json:"exerciseId"`
	Name       string      `json:"name"`
	Sets       []setRecord `json:"sets"`
}

type setRecord struct {
	SetDraft
	IsPersisted bool `json:"isPersisted"`
}

// persist writes the current state to the draft slot. Failures are logged only.
func (e *Editor) persist(ctx context.Context) {
	if e.store == nil {
		return
	}

	e.persistMutex.Lock()
	defer e.persistMutex.Unlock()

	e.mutex.Lock()
	snap := snapshot{
		Name:    e.name,
		Notes:   e.notes,
		Groups:  make([]groupRecord, len(e.groups)),
		SavedAt: e.now(),
	}
	if e.workoutID != nil {
		id := *e.workoutID
		snap.WorkoutID = &id
	}
	for i, g := range e.groups {
		rec := groupRecord{
			ExerciseID: g.ExerciseID,
			Name:       g.Name,
			Sets:       make([]setRecord, len(g.Sets)),
		}
		for j, s := range g.Sets {
			rec.Sets[j] = setRecord{SetDraft: s.clone(), IsPersisted: s.IsPersisted()}
		}
		snap.Groups[i] = rec
	}
	e.mutex.Unlock()

	snapBytes, err := json.Marshal(snap)
	if err != nil {
		log.Errorf("draft: marshal snapshot: %s", err)
		return
	}
	if err := e.store.Set(ctx, localstore.DraftKey, snapBytes); err != nil {
		log.Errorf("draft: write snapshot: %s", err)
	}
}

// Load rehydrates the stored draft when the editor holds no groups yet. The remote
// workout id is kept; sets whose create call was in flight come back as local.
func (e *Editor) Load(ctx context.Context) (bool, error) {
	e.mutex.Lock()
	hasGroups := len(e.groups) > 0
	e.mutex.Unlock()
	if hasGroups || e.store == nil {
		return false, nil
	}

	snapBytes, err := e.store.Get(ctx, localstore.DraftKey)
	if errors.Is(err, localstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read draft: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(snapBytes, &snap); err != nil {
		return false, fmt.Errorf("unmarshal draft: %w", err)
	}

	groups := make([]Group, len(snap.Groups))
	for i, rec := range snap.Groups {
		g := Group{
			ExerciseID: rec.ExerciseID,
			Name:       rec.Name,
			Sets:       make([]SetDraft, len(rec.Sets)),
		}
		for j, sr := range rec.Sets {
			set := sr.SetDraft
			switch {
			case set.State == SetPendingCreate:
				set.State = SetLocal
			case set.State == "":
				// slot written without explicit states
				if sr.IsPersisted && set.ServerID != nil {
					set.State = SetSynced
				} else {
					set.State = SetLocal
				}
			}
			if set.ServerID == nil && set.IsPersisted() {
				set.State = SetLocal
				set.Staged = nil
			}
			g.Sets[j] = set
		}
		groups[i] = g
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	if len(e.groups) > 0 {
		return false, nil
	}
	e.workoutID = snap.WorkoutID
	e.workoutState = WorkoutLocal
	if snap.WorkoutID != nil {
		e.workoutState = WorkoutSynced
	}
	e.name = snap.Name
	e.notes = snap.Notes
	e.groups = groups

	log.Debugf("draft: loaded snapshot saved at %s with %d groups", snap.SavedAt.Format(time.RFC3339), len(groups))
	return true, nil
}
