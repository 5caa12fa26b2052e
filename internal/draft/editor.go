package draft

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/liftlog/internal/api"
	"github.com/2beens/liftlog/internal/localstore"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Editor holds one in-progress workout and reconciles it against the remote api.
// Local state changes never wait for the network: remote calls are made outside
// the state lock and their outcome is folded back into the draft.
type Editor struct {
	remote         Remote
	store          localstore.Store
	metricsManager *metrics.Manager
	newID          func() string
	now            func() time.Time

	mutex        sync.Mutex
	workoutID    *int
	workoutState WorkoutState
	name         string
	notes        string
	groups       []Group

	// per-field autosave revisions: local edits bump rev, successful updates advance ack
	nameRev, nameAck   uint64
	notesRev, notesAck uint64

	// one update-workout in flight at a time, each carrying the state at send time
	saveMutex sync.Mutex
	// serializes snapshot writes to the store
	persistMutex sync.Mutex
}

func NewEditor(remote Remote, store localstore.Store, metricsManager *metrics.Manager) *Editor {
	return &Editor{
		remote:         remote,
		store:          store,
		metricsManager: metricsManager,
		newID:          uuid.NewString,
		now:            time.Now,
		workoutState:   WorkoutLocal,
		name:           DefaultWorkoutName,
	}
}

func (e *Editor) State() State {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.stateLocked()
}

func (e *Editor) stateLocked() State {
	s := State{
		WorkoutState: e.workoutState,
		Name:         e.name,
		Notes:        e.notes,
		Groups:       make([]Group, len(e.groups)),
		NameSaved:    e.nameAck >= e.nameRev,
		NotesSaved:   e.notesAck >= e.notesRev,
	}
	if e.workoutID != nil {
		id := *e.workoutID
		s.WorkoutID = &id
	}
	for i := range e.groups {
		s.Groups[i] = e.groups[i].clone()
	}
	return s
}

// AddExercise appends an empty group unless one for the exercise exists already,
// then makes sure the remote workout exists.
func (e *Editor) AddExercise(ctx context.Context, exercise api.Exercise) error {
	if exercise.ID <= 0 {
		return fmt.Errorf("%w: id %d", ErrUnknownExercise, exercise.ID)
	}

	e.mutex.Lock()
	if e.groupIndexLocked(exercise.ID) < 0 {
		name := exercise.Name
		if name == "" {
			name = unnamedExercise
		}
		e.groups = append(e.groups, Group{
			ExerciseID: exercise.ID,
			Name:       name,
			Sets:       []SetDraft{},
		})
		log.Debugf("draft: added exercise group %d [%s]", exercise.ID, name)
	}
	e.mutex.Unlock()

	e.persist(ctx)
	return e.ensureWorkout(ctx)
}

// RemoveExercise drops the group and its sets from the draft only. Sets already
// persisted stay on the server; their ids are returned so callers can act on them.
func (e *Editor) RemoveExercise(ctx context.Context, exerciseID int) ([]int, error) {
	e.mutex.Lock()
	idx := e.groupIndexLocked(exerciseID)
	if idx < 0 {
		e.mutex.Unlock()
		return nil, ErrGroupNotFound
	}

	var orphaned []int
	for _, s := range e.groups[idx].Sets {
		if s.ServerID != nil {
			orphaned = append(orphaned, *s.ServerID)
		}
	}
	e.groups = append(e.groups[:idx], e.groups[idx+1:]...)
	e.mutex.Unlock()

	if len(orphaned) > 0 {
		log.Warnf("draft: removed exercise %d locally, server sets %v were not deleted", exerciseID, orphaned)
	}

	e.persist(ctx)
	return orphaned, nil
}

func (e *Editor) SetName(ctx context.Context, name string) error {
	e.mutex.Lock()
	e.name = name
	e.nameRev++
	e.mutex.Unlock()

	return e.fieldChanged(ctx)
}

func (e *Editor) SetNotes(ctx context.Context, notes string) error {
	e.mutex.Lock()
	e.notes = notes
	e.notesRev++
	e.mutex.Unlock()

	return e.fieldChanged(ctx)
}

func (e *Editor) fieldChanged(ctx context.Context) error {
	e.persist(ctx)

	e.mutex.Lock()
	hasWorkout := e.workoutID != nil
	e.mutex.Unlock()

	if !hasWorkout {
		// the change doubles as a retry of a failed lazy creation
		return e.ensureWorkout(ctx)
	}
	return e.autosave(ctx)
}

// autosave pushes the current name and notes. Calls are serialized and each one
// carries the state at send time, so the last call to land holds the newest values.
func (e *Editor) autosave(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "draft.autosave")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	e.saveMutex.Lock()
	defer e.saveMutex.Unlock()

	e.mutex.Lock()
	if e.workoutID == nil {
		e.mutex.Unlock()
		return ErrWorkoutNotReady
	}
	workoutID := *e.workoutID
	payload := e.workoutPayloadLocked()
	nameRev, notesRev := e.nameRev, e.notesRev
	e.mutex.Unlock()

	if e.metricsManager != nil {
		e.metricsManager.CounterAutosaves.Inc()
	}

	if err := e.remote.UpdateWorkout(ctx, workoutID, payload); err != nil {
		log.Errorf("draft: autosave workout %d: %s", workoutID, err)
		return fmt.Errorf("update workout: %w", err)
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	stale := true
	if nameRev > e.nameAck {
		e.nameAck = nameRev
		stale = false
	}
	if notesRev > e.notesAck {
		e.notesAck = notesRev
		stale = false
	}
	if stale && e.metricsManager != nil {
		e.metricsManager.CounterStaleAutosaves.Inc()
	}

	return nil
}

// ensureWorkout issues the lazy create-workout call when groups exist, no remote id is
// known and no create is in flight. A failed create is only logged and returns the
// workout to local. Name or notes edited while the create was in flight are pushed
// right after it, and that autosave error is returned.
func (e *Editor) ensureWorkout(ctx context.Context) error {
	e.mutex.Lock()
	if len(e.groups) == 0 || e.workoutID != nil || e.workoutState == WorkoutCreating {
		e.mutex.Unlock()
		return nil
	}
	e.workoutState = WorkoutCreating
	payload := e.workoutPayloadLocked()
	nameRev, notesRev := e.nameRev, e.notesRev
	e.mutex.Unlock()

	ctx, span := tracing.GlobalTracer.Start(ctx, "draft.createWorkout")
	workout, err := e.remote.CreateWorkout(ctx, payload)
	tracing.EndSpanWithErrCheck(span, err)

	e.mutex.Lock()
	if err != nil {
		e.workoutState = WorkoutLocal
		e.mutex.Unlock()
		log.Errorf("draft: create workout [%s]: %s", payload.Name, err)
		e.persist(ctx)
		return nil
	}

	id := workout.ID
	e.workoutID = &id
	e.workoutState = WorkoutSynced
	e.nameAck = max(e.nameAck, nameRev)
	e.notesAck = max(e.notesAck, notesRev)
	changedMeanwhile := e.nameRev > nameRev || e.notesRev > notesRev
	e.mutex.Unlock()

	log.Debugf("draft: workout created: %d [%s]", id, payload.Name)
	e.persist(ctx)

	if changedMeanwhile {
		return e.autosave(ctx)
	}
	return nil
}

func (e *Editor) workoutPayloadLocked() api.WorkoutPayload {
	payload := api.WorkoutPayload{
		Name:        e.name,
		Description: workoutDescription,
		SetIDs:      []int{},
	}
	if e.notes != "" {
		notes := e.notes
		payload.Notes = &notes
	}
	for _, g := range e.groups {
		for _, s := range g.Sets {
			if s.ServerID != nil {
				payload.SetIDs = append(payload.SetIDs, *s.ServerID)
			}
		}
	}
	return payload
}

func (e *Editor) groupIndexLocked(exerciseID int) int {
	for i := range e.groups {
		if e.groups[i].ExerciseID == exerciseID {
			return i
		}
	}
	return -1
}

// findSetLocked returns the set with the given local id, or nil.
func (e *Editor) findSetLocked(localID string) *SetDraft {
	for gi := range e.groups {
		for si := range e.groups[gi].Sets {
			if e.groups[gi].Sets[si].ID == localID {
				return &e.groups[gi].Sets[si]
			}
		}
	}
	return nil
}

func (e *Editor) countSync(op, outcome string) {
	if e.metricsManager == nil {
		return
	}
	e.metricsManager.CounterSetSync.WithLabelValues(op, outcome).Inc()
}
