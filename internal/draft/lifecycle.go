package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/liftlog/internal/localstore"

	log "github.com/sirupsen/logrus"
)

func (e *Editor) remoteWorkoutID() (int, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.workoutID == nil {
		return 0, ErrWorkoutNotReady
	}
	return *e.workoutID, nil
}

func (e *Editor) Start(ctx context.Context) error {
	id, err := e.remoteWorkoutID()
	if err != nil {
		return err
	}
	if err := e.remote.StartWorkout(ctx, id); err != nil {
		return fmt.Errorf("start workout %d: %w", id, err)
	}
	return nil
}

func (e *Editor) Complete(ctx context.Context) error {
	id, err := e.remoteWorkoutID()
	if err != nil {
		return err
	}
	if err := e.remote.CompleteWorkout(ctx, id); err != nil {
		return fmt.Errorf("complete workout %d: %w", id, err)
	}
	return nil
}

// Finish completes the remote workout and clears the draft. Unsynced sets block it,
// retry or discard them first.
func (e *Editor) Finish(ctx context.Context) (int, error) {
	state := e.State()
	if unsynced := state.Unpersisted(); len(unsynced) > 0 {
		return 0, fmt.Errorf("%w: %d", ErrUnsyncedSets, len(unsynced))
	}
	for _, g := range state.Groups {
		for _, s := range g.Sets {
			if s.State == SetEditPending {
				return 0, fmt.Errorf("%w: set %s has a staged edit", ErrUnsyncedSets, s.ID)
			}
		}
	}

	id, err := e.remoteWorkoutID()
	if err != nil {
		return 0, err
	}
	if err := e.remote.CompleteWorkout(ctx, id); err != nil {
		return 0, fmt.Errorf("complete workout %d: %w", id, err)
	}

	if err := e.Discard(ctx); err != nil {
		return id, err
	}
	log.Debugf("draft: workout %d finished", id)
	return id, nil
}

// Discard drops the in-memory draft and the stored slot. No remote calls are made.
func (e *Editor) Discard(ctx context.Context) error {
	e.persistMutex.Lock()
	defer e.persistMutex.Unlock()

	e.mutex.Lock()
	e.workoutID = nil
	e.workoutState = WorkoutLocal
	e.name = DefaultWorkoutName
	e.notes = ""
	e.groups = nil
	e.nameRev, e.nameAck, e.notesRev, e.notesAck = 0, 0, 0, 0
	e.mutex.Unlock()

	if e.store == nil {
		return nil
	}
	if err := e.store.Delete(ctx, localstore.DraftKey); err != nil && !errors.Is(err, localstore.ErrNotFound) {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
