package queries

import (
	"context"

	"github.com/2beens/liftlog/internal/api"
)

var exercisesKey = Key{"exercises"}

func exerciseKey(id int) Key { return Key{"exercise", id} }

func (c *Client) Exercises(ctx context.Context) ([]api.Exercise, error) {
	return query(ctx, c, exercisesKey, c.api.ListExercises)
}

func (c *Client) Exercise(ctx context.Context, id int) (*api.Exercise, error) {
	return query(ctx, c, exerciseKey(id), func(ctx context.Context) (*api.Exercise, error) {
		return c.api.GetExercise(ctx, id)
	})
}

func (c *Client) CreateExercise(ctx context.Context, payload api.ExercisePayload) (*api.Exercise, error) {
	return mutate(ctx, c, []Key{exercisesKey}, func(ctx context.Context) (*api.Exercise, error) {
		return c.api.CreateExercise(ctx, payload)
	})
}

func (c *Client) UpdateExercise(ctx context.Context, id int, payload api.ExercisePayload) error {
	return mutateNoResult(ctx, c, []Key{exercisesKey, exerciseKey(id)}, func(ctx context.Context) error {
		return c.api.UpdateExercise(ctx, id, payload)
	})
}

func (c *Client) DeleteExercise(ctx context.Context, id int) error {
	return mutateNoResult(ctx, c, []Key{exercisesKey, exerciseKey(id)}, func(ctx context.Context) error {
		return c.api.DeleteExercise(ctx, id)
	})
}
