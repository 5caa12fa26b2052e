package draft

import (
	"context"
	"fmt"

	"github.com/2beens/liftlog/internal/api"
	"github.com/2beens/liftlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// AddSet validates the input, appends a pending set to the exercise group and submits it.
// A failed submission leaves the set local (visible as unpersisted); there is no retry.
func (e *Editor) AddSet(ctx context.Context, exerciseID int, in SetInput) (SetDraft, error) {
	if err := in.validate(); err != nil {
		return SetDraft{}, err
	}

	e.mutex.Lock()
	gi := e.groupIndexLocked(exerciseID)
	if gi < 0 {
		e.mutex.Unlock()
		return SetDraft{}, ErrGroupNotFound
	}
	if e.workoutID == nil {
		e.mutex.Unlock()
		return SetDraft{}, ErrWorkoutNotReady
	}

	set := SetDraft{
		ID:         e.newID(),
		ExerciseID: exerciseID,
		Weight:     in.Weight,
		Reps:       in.Reps,
		RPE:        in.RPE,
		Notes:      in.Notes,
		State:      SetPendingCreate,
	}
	e.groups[gi].Sets = append(e.groups[gi].Sets, set)
	e.mutex.Unlock()

	e.persist(ctx)

	return e.submitSet(ctx, set.ID, SetPendingCreate)
}

// RetryUnpersisted re-submits every local set. It is never called automatically.
func (e *Editor) RetryUnpersisted(ctx context.Context) error {
	var errs error
	if err := e.ensureWorkout(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}

	e.mutex.Lock()
	if e.workoutID == nil {
		e.mutex.Unlock()
		return ErrWorkoutNotReady
	}
	var localIDs []string
	for _, g := range e.groups {
		for _, s := range g.Sets {
			if s.State == SetLocal {
				localIDs = append(localIDs, s.ID)
			}
		}
	}
	e.mutex.Unlock()

	for _, id := range localIDs {
		if _, err := e.submitSet(ctx, id, SetLocal); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// submitSet issues create-set for a set found in the expected state, which makes
// concurrent submissions of the same set a no-op.
func (e *Editor) submitSet(ctx context.Context, localID string, expected SetState) (_ SetDraft, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "draft.createSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.mutex.Lock()
	set := e.findSetLocked(localID)
	if set == nil {
		e.mutex.Unlock()
		return SetDraft{}, ErrSetNotFound
	}
	if set.State != expected || e.workoutID == nil {
		current := set.clone()
		e.mutex.Unlock()
		return current, nil
	}
	set.State = SetPendingCreate
	payload := api.SetPayload{
		ExerciseID: set.ExerciseID,
		WorkoutID:  *e.workoutID,
		Weight:     set.Weight,
		Reps:       set.Reps,
		RPE:        set.RPE,
		Notes:      set.Notes,
	}
	e.mutex.Unlock()

	e.persist(ctx)

	created, createErr := e.remote.CreateSet(ctx, payload)

	e.mutex.Lock()
	set = e.findSetLocked(localID)
	if set == nil {
		e.mutex.Unlock()
		// the group was removed while the call was in flight
		if createErr == nil {
			log.Warnf("draft: set %d created for a removed exercise group", created.ID)
		}
		return SetDraft{}, ErrSetNotFound
	}
	if createErr != nil {
		set.State = SetLocal
		current := set.clone()
		e.mutex.Unlock()

		e.countSync("create", "failed")
		log.Errorf("draft: create set for exercise %d: %s", payload.ExerciseID, createErr)
		e.persist(ctx)
		return current, fmt.Errorf("create set: %w", createErr)
	}

	serverID := created.ID
	set.ServerID = &serverID
	set.State = SetSynced
	current := set.clone()
	e.mutex.Unlock()

	e.countSync("create", "ok")
	e.persist(ctx)
	return current, nil
}

// StageSetEdit stages changes on a persisted set until SaveSetEdit or DiscardSetEdit.
func (e *Editor) StageSetEdit(ctx context.Context, localID string, patch SetPatch) (SetDraft, error) {
	e.mutex.Lock()
	set := e.findSetLocked(localID)
	if set == nil {
		e.mutex.Unlock()
		return SetDraft{}, ErrSetNotFound
	}
	if set.ServerID == nil {
		e.mutex.Unlock()
		return SetDraft{}, ErrSetNotPersisted
	}

	staged := set.Staged.merge(patch)
	if err := set.withPatch(staged).validate(); err != nil {
		e.mutex.Unlock()
		return SetDraft{}, err
	}
	set.Staged = staged
	set.State = SetEditPending
	current := set.clone()
	e.mutex.Unlock()

	e.persist(ctx)
	return current, nil
}

// SaveSetEdit submits the staged edit. On success the fields are merged into the set,
// on failure the staged edit is kept.
func (e *Editor) SaveSetEdit(ctx context.Context, localID string) (_ SetDraft, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "draft.updateSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.mutex.Lock()
	set := e.findSetLocked(localID)
	if set == nil {
		e.mutex.Unlock()
		return SetDraft{}, ErrSetNotFound
	}
	if set.ServerID == nil {
		e.mutex.Unlock()
		return SetDraft{}, ErrSetNotPersisted
	}
	if set.Staged == nil || e.workoutID == nil {
		current := set.clone()
		e.mutex.Unlock()
		return current, nil
	}

	sent := set.Staged
	merged := set.withPatch(sent)
	serverID := *set.ServerID
	payload := api.SetPayload{
		ExerciseID: set.ExerciseID,
		WorkoutID:  *e.workoutID,
		Weight:     merged.Weight,
		Reps:       merged.Reps,
		RPE:        merged.RPE,
		Notes:      merged.Notes,
	}
	e.mutex.Unlock()

	updateErr := e.remote.UpdateSet(ctx, serverID, payload)

	e.mutex.Lock()
	set = e.findSetLocked(localID)
	if set == nil {
		e.mutex.Unlock()
		return SetDraft{}, ErrSetNotFound
	}
	if updateErr != nil {
		current := set.clone()
		e.mutex.Unlock()

		e.countSync("update", "failed")
		log.Errorf("draft: update set %d: %s", serverID, updateErr)
		return current, fmt.Errorf("update set: %w", updateErr)
	}

	set.Weight, set.Reps, set.RPE, set.Notes = merged.Weight, merged.Reps, merged.RPE, merged.Notes
	// a newer edit staged while saving stays pending
	if set.Staged == sent {
		set.Staged = nil
		set.State = SetSynced
	}
	current := set.clone()
	e.mutex.Unlock()

	e.countSync("update", "ok")
	e.persist(ctx)
	return current, nil
}

func (e *Editor) DiscardSetEdit(ctx context.Context, localID string) (SetDraft, error) {
	e.mutex.Lock()
	set := e.findSetLocked(localID)
	if set == nil {
		e.mutex.Unlock()
		return SetDraft{}, ErrSetNotFound
	}
	if set.State == SetEditPending {
		set.Staged = nil
		set.State = SetSynced
	}
	current := set.clone()
	e.mutex.Unlock()

	e.persist(ctx)
	return current, nil
}
