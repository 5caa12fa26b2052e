package queries

import (
	"context"

	"github.com/2beens/liftlog/internal/api"
)

// workoutsKey also covers Key{"workouts", "ids", ids}.
var workoutsKey = Key{"workouts"}

func workoutKey(id int) Key { return Key{"workout", id} }

func (c *Client) Workouts(ctx context.Context) ([]api.Workout, error) {
	return query(ctx, c, workoutsKey, c.api.ListWorkouts)
}

func (c *Client) Workout(ctx context.Context, id int) (*api.Workout, error) {
	return query(ctx, c, workoutKey(id), func(ctx context.Context) (*api.Workout, error) {
		return c.api.GetWorkout(ctx, id)
	})
}

func (c *Client) WorkoutsByIDs(ctx context.Context, ids []int) ([]api.Workout, error) {
	if len(ids) == 0 {
		return []api.Workout{}, nil
	}
	return query(ctx, c, Key{"workouts", "ids", ids}, func(ctx context.Context) ([]api.Workout, error) {
		return c.api.ListWorkoutsByIDs(ctx, ids)
	})
}

func (c *Client) CreateWorkout(ctx context.Context, payload api.WorkoutPayload) (*api.Workout, error) {
	keys := []Key{workoutsKey}
	if payload.ProgramID != nil {
		keys = append(keys, programsKey, programKey(*payload.ProgramID))
	}
	return mutate(ctx, c, keys, func(ctx context.Context) (*api.Workout, error) {
		return c.api.CreateWorkout(ctx, payload)
	})
}

func (c *Client) UpdateWorkout(ctx context.Context, id int, payload api.WorkoutPayload) error {
	return mutateNoResult(ctx, c, []Key{workoutsKey, workoutKey(id)}, func(ctx context.Context) error {
		return c.api.UpdateWorkout(ctx, id, payload)
	})
}

func (c *Client) DeleteWorkout(ctx context.Context, id int) error {
	return mutateNoResult(ctx, c, []Key{workoutsKey, workoutKey(id), setsKey}, func(ctx context.Context) error {
		return c.api.DeleteWorkout(ctx, id)
	})
}

func (c *Client) StartWorkout(ctx context.Context, id int) error {
	return mutateNoResult(ctx, c, []Key{workoutsKey, workoutKey(id)}, func(ctx context.Context) error {
		return c.api.StartWorkout(ctx, id)
	})
}

// CompleteWorkout also drops program reads: completed workouts count towards programs.
func (c *Client) CompleteWorkout(ctx context.Context, id int) error {
	return mutateNoResult(ctx, c, []Key{workoutsKey, workoutKey(id), programsKey, Key{"program"}}, func(ctx context.Context) error {
		return c.api.CompleteWorkout(ctx, id)
	})
}
