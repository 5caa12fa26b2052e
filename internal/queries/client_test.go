package queries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2beens/liftlog/internal/api"
	"github.com/2beens/liftlog/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

type countingServer struct {
	hits sync.Map // path -> *atomic.Int32
}

func (s *countingServer) count(path string) int32 {
	v, ok := s.hits.Load(path)
	if !ok {
		return 0
	}
	return v.(*atomic.Int32).Load()
}

func (s *countingServer) inc(path string) {
	v, _ := s.hits.LoadOrStore(path, &atomic.Int32{})
	v.(*atomic.Int32).Add(1)
}

func newTestQueries(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *countingServer, *metrics.Manager) {
	t.Helper()
	counter := &countingServer{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.inc(r.Method + " " + r.URL.Path)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	metricsManager := metrics.NewTestManager()
	apiClient := api.NewClient(server.URL, server.Client(), api.StaticToken("dev-token"), metricsManager)
	return New(apiClient, 1, time.Minute, metricsManager), counter, metricsManager
}

func TestKey(t *testing.T) {
	assert.Equal(t, "sets/workout/3", Key{"sets", "workout", 3}.String())
	assert.Equal(t, "workouts/ids/1,2", Key{"workouts", "ids", []int{1, 2}}.String())

	assert.True(t, Key{"workouts"}.covers("workouts"))
	assert.True(t, Key{"workouts"}.covers("workouts/ids/1,2"))
	assert.False(t, Key{"workout"}.covers("workouts"))
	assert.True(t, Key{"workout"}.covers("workout/3"))
	assert.True(t, Key{"program", 1}.covers("program/1/week/2/workouts"))
	assert.False(t, Key{"program", 1}.covers("program/10"))
}

func TestClient_CachesReads(t *testing.T) {
	queries, counter, metricsManager := newTestQueries(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Squat"}]`))
	})

	for i := 0; i < 3; i++ {
		exercises, err := queries.Exercises(context.Background())
		require.NoError(t, err)
		require.Len(t, exercises, 1)
		assert.Equal(t, "Squat", exercises[0].Name)
	}

	assert.Equal(t, int32(1), counter.count("GET /api/Exercise"))
	assert.Equal(t, 2.0, testutil.ToFloat64(metricsManager.CounterQueryCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterQueryCache.WithLabelValues("miss")))
}

func TestClient_SubSecondTTLExpires(t *testing.T) {
	assert.Equal(t, 1, expireSeconds(0))
	assert.Equal(t, 1, expireSeconds(300*time.Millisecond))
	assert.Equal(t, 2, expireSeconds(1500*time.Millisecond))
	assert.Equal(t, 300, expireSeconds(5*time.Minute))

	cached, counter, metricsManager := newTestQueries(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Squat"}]`))
	})
	queries := New(cached.API(), 1, 300*time.Millisecond, metricsManager)

	_, err := queries.Exercises(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), counter.count("GET /api/Exercise"))

	assert.Eventually(t, func() bool {
		_, err := queries.Exercises(context.Background())
		return err == nil && counter.count("GET /api/Exercise") > 1
	}, 5*time.Second, 100*time.Millisecond)
}

func TestClient_MutationInvalidates(t *testing.T) {
	queries, counter, _ := newTestQueries(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/Set":
			_, _ = w.Write([]byte(`{"id":10,"weight":100,"reps":5,"workoutId":3}`))
		case r.URL.Path == "/api/Workout/3":
			_, _ = w.Write([]byte(`{"id":3,"name":"Leg Day","sets":[]}`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	})
	ctx := context.Background()

	_, err := queries.SetsByWorkout(ctx, 3)
	require.NoError(t, err)
	_, err = queries.Workout(ctx, 3)
	require.NoError(t, err)
	_, err = queries.Muscles(ctx)
	require.NoError(t, err)

	_, err = queries.CreateSet(ctx, api.SetPayload{ExerciseID: 1, WorkoutID: 3, Weight: 100, Reps: 5})
	require.NoError(t, err)

	_, err = queries.SetsByWorkout(ctx, 3)
	require.NoError(t, err)
	_, err = queries.Workout(ctx, 3)
	require.NoError(t, err)
	_, err = queries.Muscles(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(2), counter.count("GET /api/Set/byWorkoutId/3"))
	assert.Equal(t, int32(2), counter.count("GET /api/Workout/3"))
	// unrelated reads stay cached
	assert.Equal(t, int32(1), counter.count("GET /api/Muscle"))
}

func TestClient_FailedMutationKeepsCache(t *testing.T) {
	queries, counter, _ := newTestQueries(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	ctx := context.Background()

	_, err := queries.Workouts(ctx)
	require.NoError(t, err)

	err = queries.UpdateWorkout(ctx, 3, api.WorkoutPayload{Name: "x"})
	require.Error(t, err)

	_, err = queries.Workouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), counter.count("GET /api/Workout"))
}

func TestClient_NestedProgramInvalidation(t *testing.T) {
	queries, counter, _ := newTestQueries(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"id":5}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	ctx := context.Background()

	_, err := queries.ProgramWorkouts(ctx, 1, 2)
	require.NoError(t, err)
	_, err = queries.ProgramSummaries(ctx)
	require.NoError(t, err)
	_, err = queries.ProgramWeeks(ctx, 7)
	require.NoError(t, err)

	_, err = queries.CreateProgramExercise(ctx, 1, 2, 3, api.TrainingProgramExercisePayload{ExerciseID: 9, Sets: 3, Reps: 5})
	require.NoError(t, err)

	_, err = queries.ProgramWorkouts(ctx, 1, 2)
	require.NoError(t, err)
	_, err = queries.ProgramSummaries(ctx)
	require.NoError(t, err)
	_, err = queries.ProgramWeeks(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, int32(2), counter.count("GET /api/TrainingProgram/1/weeks/2/workouts"))
	assert.Equal(t, int32(2), counter.count("GET /api/TrainingProgram/summaries"))
	assert.Equal(t, int32(1), counter.count("GET /api/TrainingProgram/7/weeks"))
}

func TestClient_DeduplicatesConcurrentReads(t *testing.T) {
	release := make(chan struct{})
	queries, counter, _ := newTestQueries(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`[{"id":1,"name":"Leg Day"}]`))
	})

	const readers = 5
	var wg sync.WaitGroup
	results := make([][]api.Workout, readers)
	errs := make([]error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = queries.Workouts(context.Background())
		}(i)
	}

	// give every reader the chance to join the in-flight call
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		require.Len(t, results[i], 1)
	}
	assert.Equal(t, int32(1), counter.count("GET /api/Workout"))
}

func TestClient_Clear(t *testing.T) {
	queries, counter, _ := newTestQueries(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	ctx := context.Background()

	_, err := queries.Exercises(ctx)
	require.NoError(t, err)
	queries.Clear()
	_, err = queries.Exercises(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(2), counter.count("GET /api/Exercise"))
}
