package draft

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/2beens/liftlog/internal/api"
	"github.com/2beens/liftlog/internal/localstore"
	"github.com/2beens/liftlog/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

var (
	squat = api.Exercise{ID: 1, Name: "Squat"}
	bench = api.Exercise{ID: 2, Name: "Bench Press"}
)

type testEditor struct {
	*Editor
	remote  *MockRemote
	store   *localstore.MemoryStore
	metrics *metrics.Manager
}

func newTestEditor(t *testing.T) *testEditor {
	t.Helper()
	ctrl := gomock.NewController(t)
	remote := NewMockRemote(ctrl)
	store := localstore.NewMemoryStore()
	metricsManager := metrics.NewTestManager()
	return &testEditor{
		Editor:  NewEditor(remote, store, metricsManager),
		remote:  remote,
		store:   store,
		metrics: metricsManager,
	}
}

// withWorkout adds squat and lets the lazy create succeed with the given id.
func (te *testEditor) withWorkout(t *testing.T, id int) {
	t.Helper()
	te.remote.EXPECT().
		CreateWorkout(gomock.Any(), gomock.Any()).
		Return(&api.Workout{ID: id}, nil)
	require.NoError(t, te.AddExercise(context.Background(), squat))
	require.NotNil(t, te.State().WorkoutID)
}

func (te *testEditor) storedSnapshot(t *testing.T) snapshot {
	t.Helper()
	snapBytes, err := te.store.Get(context.Background(), localstore.DraftKey)
	require.NoError(t, err)
	var snap snapshot
	require.NoError(t, json.Unmarshal(snapBytes, &snap))
	return snap
}

func ptr[T any](v T) *T {
	return &v
}

func TestEditor_AddExerciseIsIdempotent(t *testing.T) {
	te := newTestEditor(t)
	ctx := context.Background()

	te.remote.EXPECT().
		CreateWorkout(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payload api.WorkoutPayload) (*api.Workout, error) {
			assert.Equal(t, DefaultWorkoutName, payload.Name)
			assert.Equal(t, "Quick workout", payload.Description)
			assert.Equal(t, []int{}, payload.SetIDs)
			assert.Nil(t, payload.Notes)
			return &api.Workout{ID: 7, Name: payload.Name}, nil
		}).
		Times(1)

	require.NoError(t, te.AddExercise(ctx, squat))
	require.NoError(t, te.AddExercise(ctx, squat))

	state := te.State()
	require.Len(t, state.Groups, 1)
	assert.Equal(t, "Squat", state.Groups[0].Name)
	assert.Equal(t, WorkoutSynced, state.WorkoutState)
	require.NotNil(t, state.WorkoutID)
	assert.Equal(t, 7, *state.WorkoutID)

	require.NoError(t, te.AddExercise(ctx, bench))
	assert.Len(t, te.State().Groups, 2)
}

func TestEditor_AddExerciseRejectsUnknown(t *testing.T) {
	te := newTestEditor(t)

	err := te.AddExercise(context.Background(), api.Exercise{ID: 0, Name: "ghost"})
	assert.ErrorIs(t, err, ErrUnknownExercise)
	assert.Empty(t, te.State().Groups)
}

func TestEditor_AddExerciseUnnamed(t *testing.T) {
	te := newTestEditor(t)
	te.remote.EXPECT().CreateWorkout(gomock.Any(), gomock.Any()).Return(&api.Workout{ID: 1}, nil)

	require.NoError(t, te.AddExercise(context.Background(), api.Exercise{ID: 3}))
	assert.Equal(t, "(Unnamed)", te.State().Groups[0].Name)
}

func TestEditor_AddSetRejectedLocally(t *testing.T) {
	te := newTestEditor(t)
	te.withWorkout(t, 7)
	ctx := context.Background()

	// gomock fails the test on any CreateSet call
	for _, in := range []SetInput{
		{Weight: 0, Reps: 5},
		{Weight: 100, Reps: 0},
		{Weight: -5, Reps: 5},
		{Weight: 100, Reps: 5, RPE: ptr(0.5)},
		{Weight: 100, Reps: 5, RPE: ptr(11.0)},
	} {
		_, err := te.AddSet(ctx, squat.ID, in)
		assert.ErrorIs(t, err, ErrInvalidSet, "input: %+v", in)
	}
	assert.Empty(t, te.State().Groups[0].Sets)

	_, err := te.AddSet(ctx, bench.ID, SetInput{Weight: 60, Reps: 8})
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestEditor_AddSetSuccess(t *testing.T) {
	te := newTestEditor(t)
	te.withWorkout(t, 7)

	te.remote.EXPECT().
		CreateSet(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payload api.SetPayload) (*api.Set, error) {
			assert.Equal(t, api.SetPayload{
				ExerciseID: squat.ID,
				WorkoutID:  7,
				Weight:     100,
				Reps:       5,
				RPE:        ptr(8.0),
			}, payload)
			return &api.Set{ID: 55, Weight: 100, Reps: 5, WorkoutID: 7}, nil
		})

	set, err := te.AddSet(context.Background(), squat.ID, SetInput{Weight: 100, Reps: 5, RPE: ptr(8.0)})
	require.NoError(t, err)
	assert.True(t, set.IsPersisted())
	require.NotNil(t, set.ServerID)
	assert.Equal(t, 55, *set.ServerID)
	assert.NotEmpty(t, set.ID)

	state := te.State()
	require.Len(t, state.Groups[0].Sets, 1)
	assert.Equal(t, SetSynced, state.Groups[0].Sets[0].State)
	assert.Empty(t, state.Unpersisted())

	snap := te.storedSnapshot(t)
	require.Len(t, snap.Groups[0].Sets, 1)
	assert.True(t, snap.Groups[0].Sets[0].IsPersisted)

	assert.Equal(t, 1.0, testutil.ToFloat64(te.metrics.CounterSetSync.WithLabelValues("create", "ok")))
}

func TestEditor_AddSetFailureStaysUnpersisted(t *testing.T) {
	te := newTestEditor(t)
	te.withWorkout(t, 7)
	ctx := context.Background()

	te.remote.EXPECT().
		CreateSet(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))

	set, err := te.AddSet(ctx, squat.ID, SetInput{Weight: 100, Reps: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.False(t, set.IsPersisted())
	assert.Nil(t, set.ServerID)
	assert.Equal(t, SetLocal, set.State)

	// no rollback: the set stays visible
	state := te.State()
	require.Len(t, state.Groups[0].Sets, 1)
	assert.Len(t, state.Unpersisted(), 1)

	// explicit retry
	te.remote.EXPECT().CreateSet(gomock.Any(), gomock.Any()).Return(&api.Set{ID: 56}, nil)
	require.NoError(t, te.RetryUnpersisted(ctx))

	state = te.State()
	assert.Empty(t, state.Unpersisted())
	assert.Equal(t, 56, *state.Groups[0].Sets[0].ServerID)
	assert.Equal(t, 1.0, testutil.ToFloat64(te.metrics.CounterSetSync.WithLabelValues("create", "failed")))
}

func TestEditor_AddSetBeforeWorkoutReady(t *testing.T) {
	te := newTestEditor(t)
	ctx := context.Background()

	te.remote.EXPECT().
		CreateWorkout(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("service unavailable"))
	require.NoError(t, te.AddExercise(ctx, squat))

	state := te.State()
	assert.Nil(t, state.WorkoutID)
	assert.Equal(t, WorkoutLocal, state.WorkoutState)

	_, err := te.AddSet(ctx, squat.ID, SetInput{Weight: 100, Reps: 5})
	assert.ErrorIs(t, err, ErrWorkoutNotReady)
	assert.Empty(t, te.State().Groups[0].Sets)

	// editing the name retries the creation
	te.remote.EXPECT().
		CreateWorkout(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payload api.WorkoutPayload) (*api.Workout, error) {
			assert.Equal(t, "Leg Day", payload.Name)
			return &api.Workout{ID: 9}, nil
		})
	require.NoError(t, te.SetName(ctx, "Leg Day"))

	state = te.State()
	require.NotNil(t, state.WorkoutID)
	assert.Equal(t, 9, *state.WorkoutID)
	assert.True(t, state.NameSaved)
}

func TestEditor_NameChangedDuringCreateIsPushed(t *testing.T) {
	te := newTestEditor(t)
	ctx := context.Background()

	te.remote.EXPECT().
		CreateWorkout(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ api.WorkoutPayload) (*api.Workout, error) {
			// create still in flight: the edit stays local
			require.NoError(t, te.SetName(ctx, "Leg Day"))
			return &api.Workout{ID: 4}, nil
		})
	te.remote.EXPECT().
		UpdateWorkout(gomock.Any(), 4, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int, payload api.WorkoutPayload) error {
			assert.Equal(t, "Leg Day", payload.Name)
			return errors.New("timeout")
		})

	err := te.AddExercise(ctx, squat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")

	state := te.State()
	require.NotNil(t, state.WorkoutID)
	assert.Equal(t, "Leg Day", state.Name)
	assert.False(t, state.NameSaved)
}

func TestEditor_NoWorkoutWithoutGroups(t *testing.T) {
	te := newTestEditor(t)

	// no groups: name edits stay local, no calls
	require.NoError(t, te.SetName(context.Background(), "Leg Day"))
	require.NoError(t, te.SetNotes(context.Background(), "heavy"))

	state := te.State()
	assert.Nil(t, state.WorkoutID)
	assert.Equal(t, "Leg Day", state.Name)
	assert.Equal(t, "heavy", state.Notes)
}

func TestEditor_AutosaveEveryChange(t *testing.T) {
	te := newTestEditor(t)
	te.withWorkout(t, 7)
	ctx := context.Background()

	var names []string
	te.remote.EXPECT().
		UpdateWorkout(gomock.Any(), 7, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int, payload api.WorkoutPayload) error {
			names = append(names, payload.Name)
			return nil
		}).
		Times(3)

	require.NoError(t, te.SetName(ctx, "L"))
	require.NoError(t, te.SetName(ctx, "Le"))
	require.NoError(t, te.SetName(ctx, "Leg"))

	assert.Equal(t, []string{"L", "Le", "Leg"}, names)
	assert.True(t, te.State().NameSaved)
	assert.Equal(t, 3.0, testutil.ToFloat64(te.metrics.CounterAutosaves))
}

func TestEditor_AutosaveFailureKeepsLocalValue(t *testing.T) {
	te := newTestEditor(t)
	te.withWorkout(t, 7)

	te.remote.EXPECT().
		UpdateWorkout(gomock.Any(), 7, gomock.Any()).
		Return(errors.New("timeout"))

	err := te.SetNotes(context.Background(), "felt strong")
	require.Error(t, err)

	state := te.State()
	assert.Equal(t, "felt strong", state.Notes)
	assert.False(t, state.NotesSaved)
}

func TestEditor_ConcurrentAutosaveEndsWithLatestValue(t *testing.T) {
	te := newTestEditor(t)
	te.withWorkout(t, 7)
	ctx := context.Background()

	var (
		mutex    sync.Mutex
		inFlight int
		serverNm string
	)
	te.remote.EXPECT().
		UpdateWorkout(gomock.Any(), 7, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int, payload api.WorkoutPayload) error {
			mutex.Lock()
			inFlight++
			assert.Equal(t, 1, inFlight, "autosave calls must not overlap")
			mutex.Unlock()

			time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)

			mutex.Lock()
			inFlight--
			serverNm = payload.Name
			mutex.Unlock()
			return nil
		}).
		AnyTimes()

	var wg sync.WaitGroup
	for _, name := range []string{"L", "Le", "Leg", "Leg ", "Leg D", "Leg Da", "Leg Day"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			assert.NoError(t, te.SetName(ctx, name))
		}(name)
	}
	wg.Wait()

	state := te.State()
	assert.True(t, state.NameSaved)
	mutex.Lock()
	defer mutex.Unlock()
	assert.Equal(t, state.Name, serverNm)
}

func TestEditor_StageSetEditRequiresServerID(t *testing.T) {
	te := newTestEditor(t)
	te.withWorkout(t, 7)
	ctx := context.Background()

	te.remote.EXPECT().CreateSet(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	set, err := te.AddSet(ctx, squat.ID, SetInput{Weight: 100, Reps: 5})
	require.Error(t, err)

	_, err = te.StageSetEdit(ctx, set.ID, SetPatch{Reps: ptr(6)})
	assert.ErrorIs(t, err, ErrSetNotPersisted)
	_, err = te.SaveSetEdit(ctx, set.ID)
	assert.ErrorIs(t, err, ErrSetNotPersisted)

	_, err = te.StageSetEdit(ctx, "missing", SetPatch{Reps: ptr(6)})
	assert.ErrorIs(t, err, ErrSetNotFound)
}

func TestEditor_EditPersistedSet(t *testing.T) {
	te := newTestEditor(t)
	te.withWorkout(t, 7)
	ctx := context.Background()

	te.remote.EXPECT().CreateSet(gomock.Any(), gomock.Any()).Return(&api.Set{ID: 55}, nil)
	set, err := te.AddSet(ctx, squat.ID, SetInput{Weight: 100, Reps: 5})
	require.NoError(t, err)

	staged, err := te.StageSetEdit(ctx, set.ID, SetPatch{Reps: ptr(6)})
	require.NoError(t, err)
	assert.Equal(t, SetEditPending, staged.State)
	assert.True(t, staged.IsPersisted())
	assert.Equal(t, 5, staged.Reps, "staged edits do not touch the set until saved")

	_, err = te.StageSetEdit(ctx, set.ID, SetPatch{Weight: ptr(0.0)})
	assert.ErrorIs(t, err, ErrInvalidSet)

	staged, err = te.StageSetEdit(ctx, set.ID, SetPatch{Weight: ptr(102.5)})
	require.NoError(t, err)
	assert.Equal(t, 6, *staged.Staged.Reps)
	assert.Equal(t, 102.5, *staged.Staged.Weight)

	// failed save keeps the staged edit
	te.remote.EXPECT().UpdateSet(gomock.Any(), 55, gomock.Any()).Return(errors.New("503"))
	failed, err := te.SaveSetEdit(ctx, set.ID)
	require.Error(t, err)
	assert.Equal(t, SetEditPending, failed.State)
	require.NotNil(t, failed.Staged)

	te.remote.EXPECT().
		UpdateSet(gomock.Any(), 55, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int, payload api.SetPayload) error {
			assert.Equal(t, 102.5, payload.Weight)
			assert.Equal(t, 6, payload.Reps)
			assert.Equal(t, 7, payload.WorkoutID)
			assert.Equal(t, squat.ID, payload.ExerciseID)
			return nil
		})
	saved, err := te.SaveSetEdit(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, SetSynced, saved.State)
	assert.Nil(t, saved.Staged)
	assert.Equal(t, 102.5, saved.Weight)
	assert.Equal(t, 6, saved.Reps)
}

func TestEditor_DiscardSetEdit(t *testing.T) {
	te := newTestEditor(t)
	te.withWorkout(t, 7)
	ctx := context.Background()

	te.remote.EXPECT().CreateSet(gomock.Any(), gomock.Any()).Return(&api.Set{ID: 55}, nil)
	set, err := te.AddSet(ctx, squat.ID, SetInput{Weight: 100, Reps: 5})
	require.NoError(t, err)

	_, err = te.StageSetEdit(ctx, set.ID, SetPatch{Notes: ptr("easy")})
	require.NoError(t, err)

	discarded, err := te.DiscardSetEdit(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, SetSynced, discarded.State)
	assert.Nil(t, discarded.Staged)
	assert.Nil(t, discarded.Notes)
}

func TestEditor_RemoveExerciseIsLocalOnly(t *testing.T) {
	te := newTestEditor(t)
	te.withWorkout(t, 7)
	ctx := context.Background()

	te.remote.EXPECT().CreateSet(gomock.Any(), gomock.Any()).Return(&api.Set{ID: 55}, nil)
	te.remote.EXPECT().CreateSet(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	_, err := te.AddSet(ctx, squat.ID, SetInput{Weight: 100, Reps: 5})
	require.NoError(t, err)
	_, err = te.AddSet(ctx, squat.ID, SetInput{Weight: 100, Reps: 5})
	require.Error(t, err)

	orphaned, err := te.RemoveExercise(ctx, squat.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{55}, orphaned)
	assert.Empty(t, te.State().Groups)
	assert.Empty(t, te.storedSnapshot(t).Groups)

	_, err = te.RemoveExercise(ctx, squat.ID)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestEditor_ReloadReproducesDraft(t *testing.T) {
	te := newTestEditor(t)
	ctx := context.Background()

	te.remote.EXPECT().CreateWorkout(gomock.Any(), gomock.Any()).Return(&api.Workout{ID: 7}, nil)
	te.remote.EXPECT().UpdateWorkout(gomock.Any(), 7, gomock.Any()).Return(nil).Times(2)
	te.remote.EXPECT().CreateSet(gomock.Any(), gomock.Any()).Return(&api.Set{ID: 55}, nil)
	te.remote.EXPECT().CreateSet(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	require.NoError(t, te.AddExercise(ctx, squat))
	require.NoError(t, te.SetName(ctx, "Leg Day"))
	require.NoError(t, te.SetNotes(ctx, "new shoes"))
	_, err := te.AddSet(ctx, squat.ID, SetInput{Weight: 100, Reps: 5, RPE: ptr(7.5)})
	require.NoError(t, err)
	_, err = te.AddSet(ctx, squat.ID, SetInput{Weight: 105, Reps: 3})
	require.Error(t, err)
	require.NoError(t, te.AddExercise(ctx, bench))

	before := te.State()

	reloaded := NewEditor(te.remote, te.store, nil)
	loaded, err := reloaded.Load(ctx)
	require.NoError(t, err)
	require.True(t, loaded)

	after := reloaded.State()
	assert.Equal(t, before.WorkoutID, after.WorkoutID)
	assert.Equal(t, WorkoutSynced, after.WorkoutState)
	assert.Equal(t, "Leg Day", after.Name)
	assert.Equal(t, "new shoes", after.Notes)
	assert.Equal(t, before.Groups, after.Groups)

	// loading again with groups in memory is a no-op
	loaded, err = reloaded.Load(ctx)
	require.NoError(t, err)
	assert.False(t, loaded)
}

func TestEditor_LoadTurnsPendingCreateIntoLocal(t *testing.T) {
	store := localstore.NewMemoryStore()
	ctx := context.Background()

	snap := snapshot{
		WorkoutID: ptr(7),
		Name:      "Leg Day",
		Groups: []groupRecord{{
			ExerciseID: 1,
			Name:       "Squat",
			Sets: []setRecord{
				{SetDraft: SetDraft{ID: "a", ExerciseID: 1, Weight: 100, Reps: 5, State: SetPendingCreate}},
				{SetDraft: SetDraft{ID: "b", ExerciseID: 1, Weight: 100, Reps: 5, State: SetEditPending, ServerID: ptr(3), Staged: &SetPatch{Reps: ptr(4)}}, IsPersisted: true},
				{SetDraft: SetDraft{ID: "c", ExerciseID: 1, Weight: 100, Reps: 5, ServerID: ptr(4)}, IsPersisted: true},
			},
		}},
	}
	snapBytes, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, localstore.DraftKey, snapBytes))

	editor := NewEditor(nil, store, nil)
	loaded, err := editor.Load(ctx)
	require.NoError(t, err)
	require.True(t, loaded)

	sets := editor.State().Groups[0].Sets
	assert.Equal(t, SetLocal, sets[0].State)
	assert.Equal(t, SetEditPending, sets[1].State)
	assert.Equal(t, 4, *sets[1].Staged.Reps)
	assert.Equal(t, SetSynced, sets[2].State)
}

func TestEditor_LoadWithoutSnapshot(t *testing.T) {
	editor := NewEditor(nil, localstore.NewMemoryStore(), nil)
	loaded, err := editor.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, DefaultWorkoutName, editor.State().Name)
}

func TestEditor_StartAndFinish(t *testing.T) {
	te := newTestEditor(t)
	ctx := context.Background()

	assert.ErrorIs(t, te.Start(ctx), ErrWorkoutNotReady)

	te.withWorkout(t, 7)
	te.remote.EXPECT().StartWorkout(gomock.Any(), 7).Return(nil)
	require.NoError(t, te.Start(ctx))

	te.remote.EXPECT().CreateSet(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	_, err := te.AddSet(ctx, squat.ID, SetInput{Weight: 100, Reps: 5})
	require.Error(t, err)

	_, err = te.Finish(ctx)
	assert.ErrorIs(t, err, ErrUnsyncedSets)

	te.remote.EXPECT().CreateSet(gomock.Any(), gomock.Any()).Return(&api.Set{ID: 1}, nil)
	require.NoError(t, te.RetryUnpersisted(ctx))

	te.remote.EXPECT().CompleteWorkout(gomock.Any(), 7).Return(nil)
	id, err := te.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	state := te.State()
	assert.Nil(t, state.WorkoutID)
	assert.Empty(t, state.Groups)
	_, err = te.store.Get(ctx, localstore.DraftKey)
	assert.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestEditor_Discard(t *testing.T) {
	te := newTestEditor(t)
	te.withWorkout(t, 7)
	ctx := context.Background()

	require.NoError(t, te.Discard(ctx))
	assert.Nil(t, te.State().WorkoutID)
	_, err := te.store.Get(ctx, localstore.DraftKey)
	assert.ErrorIs(t, err, localstore.ErrNotFound)

	// a new session starts over
	te.remote.EXPECT().CreateWorkout(gomock.Any(), gomock.Any()).Return(&api.Workout{ID: 8}, nil)
	require.NoError(t, te.AddExercise(ctx, bench))
	assert.Equal(t, 8, *te.State().WorkoutID)
}
