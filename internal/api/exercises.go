package api

import (
	"context"
	"fmt"
)

func (c *Client) ListExercises(ctx context.Context) ([]Exercise, error) {
	return get[[]Exercise](ctx, c, "/Exercise")
}

func (c *Client) GetExercise(ctx context.Context, id int) (*Exercise, error) {
	return get[*Exercise](ctx, c, fmt.Sprintf("/Exercise/%d", id))
}

func (c *Client) CreateExercise(ctx context.Context, payload ExercisePayload) (*Exercise, error) {
	return post[Exercise](ctx, c, "/Exercise", payload)
}

func (c *Client) UpdateExercise(ctx context.Context, id int, payload ExercisePayload) error {
	return c.put(ctx, fmt.Sprintf("/Exercise/%d", id), payload)
}

func (c *Client) DeleteExercise(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/Exercise/%d", id))
}
