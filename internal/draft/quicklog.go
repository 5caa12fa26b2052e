package draft

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/2beens/liftlog/internal/api"
	"github.com/2beens/liftlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const quickLogParallelism = 4

type QuickEntry struct {
	ExerciseID int
	Sets       []SetInput
}

type QuickLogParams struct {
	Name    string
	Notes   string
	Entries []QuickEntry
}

// QuickLog creates a workout and then all of its sets in one go, bypassing the draft.
// The workout id is returned together with the combined set failures.
func QuickLog(ctx context.Context, remote Remote, params QuickLogParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "draft.quickLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if strings.TrimSpace(params.Name) == "" {
		return 0, ErrEmptyWorkoutName
	}

	payload := api.WorkoutPayload{
		Name:        params.Name,
		Description: workoutDescription,
		SetIDs:      []int{},
	}
	if params.Notes != "" {
		notes := params.Notes
		payload.Notes = &notes
	}

	workout, err := remote.CreateWorkout(ctx, payload)
	if err != nil {
		log.Errorf("quick log: create workout: %s", err)
		return 0, fmt.Errorf("create workout: %w", err)
	}

	var (
		errsMutex sync.Mutex
		errs      error
	)
	addErr := func(err error) {
		errsMutex.Lock()
		errs = multierr.Append(errs, err)
		errsMutex.Unlock()
	}

	var eg errgroup.Group
	eg.SetLimit(quickLogParallelism)
	for _, entry := range params.Entries {
		if entry.ExerciseID <= 0 {
			continue
		}
		for i, in := range entry.Sets {
			if err := in.validate(); err != nil {
				addErr(fmt.Errorf("exercise %d set %d: %w", entry.ExerciseID, i+1, err))
				continue
			}
			setPayload := api.SetPayload{
				ExerciseID: entry.ExerciseID,
				WorkoutID:  workout.ID,
				Weight:     in.Weight,
				Reps:       in.Reps,
				RPE:        in.RPE,
				Notes:      in.Notes,
			}
			eg.Go(func() error {
				if _, err := remote.CreateSet(ctx, setPayload); err != nil {
					log.Errorf("quick log: create set for exercise %d: %s", setPayload.ExerciseID, err)
					addErr(fmt.Errorf("exercise %d set %d: %w", entry.ExerciseID, i+1, err))
				}
				return nil
			})
		}
	}
	_ = eg.Wait()

	return workout.ID, errs
}
