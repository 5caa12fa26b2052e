package queries

import (
	"context"

	"github.com/2beens/liftlog/internal/api"
)

// setsKey also covers the per-workout lists: Key{"sets", "workout", id}.
var setsKey = Key{"sets"}

func setKey(id int) Key { return Key{"set", id} }

func setsByWorkoutKey(workoutID int) Key { return Key{"sets", "workout", workoutID} }

func (c *Client) Sets(ctx context.Context) ([]api.Set, error) {
	return query(ctx, c, setsKey, c.api.ListSets)
}

func (c *Client) Set(ctx context.Context, id int) (*api.Set, error) {
	return query(ctx, c, setKey(id), func(ctx context.Context) (*api.Set, error) {
		return c.api.GetSet(ctx, id)
	})
}

func (c *Client) SetsByWorkout(ctx context.Context, workoutID int) ([]api.Set, error) {
	return query(ctx, c, setsByWorkoutKey(workoutID), func(ctx context.Context) ([]api.Set, error) {
		return c.api.ListSetsByWorkout(ctx, workoutID)
	})
}

// a workout embeds its sets, so set mutations also drop the workout reads
func setMutationKeys(setID, workoutID int) []Key {
	keys := []Key{setsKey, workoutsKey}
	if setID > 0 {
		keys = append(keys, setKey(setID))
	}
	if workoutID > 0 {
		keys = append(keys, workoutKey(workoutID))
	} else {
		keys = append(keys, Key{"workout"})
	}
	return keys
}

func (c *Client) CreateSet(ctx context.Context, payload api.SetPayload) (*api.Set, error) {
	return mutate(ctx, c, setMutationKeys(0, payload.WorkoutID), func(ctx context.Context) (*api.Set, error) {
		return c.api.CreateSet(ctx, payload)
	})
}

func (c *Client) UpdateSet(ctx context.Context, id int, payload api.SetPayload) error {
	return mutateNoResult(ctx, c, setMutationKeys(id, payload.WorkoutID), func(ctx context.Context) error {
		return c.api.UpdateSet(ctx, id, payload)
	})
}

func (c *Client) DeleteSet(ctx context.Context, id int) error {
	return mutateNoResult(ctx, c, setMutationKeys(id, 0), func(ctx context.Context) error {
		return c.api.DeleteSet(ctx, id)
	})
}
