package api

import (
	"context"
	"fmt"
)

func (c *Client) ListSets(ctx context.Context) ([]Set, error) {
	return get[[]Set](ctx, c, "/Set")
}

func (c *Client) GetSet(ctx context.Context, id int) (*Set, error) {
	return get[*Set](ctx, c, fmt.Sprintf("/Set/%d", id))
}

func (c *Client) ListSetsByWorkout(ctx context.Context, workoutID int) ([]Set, error) {
	return get[[]Set](ctx, c, fmt.Sprintf("/Set/byWorkoutId/%d", workoutID))
}

func (c *Client) CreateSet(ctx context.Context, payload SetPayload) (*Set, error) {
	return post[Set](ctx, c, "/Set", payload)
}

func (c *Client) UpdateSet(ctx context.Context, id int, payload SetPayload) error {
	return c.put(ctx, fmt.Sprintf("/Set/%d", id), payload)
}

func (c *Client) DeleteSet(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/Set/%d", id))
}
