package api

import (
	"context"
	"fmt"
)

func (c *Client) ListMuscles(ctx context.Context) ([]Muscle, error) {
	return get[[]Muscle](ctx, c, "/Muscle")
}

func (c *Client) GetMuscle(ctx context.Context, id int) (*Muscle, error) {
	return get[*Muscle](ctx, c, fmt.Sprintf("/Muscle/%d", id))
}

func (c *Client) CreateMuscle(ctx context.Context, payload MusclePayload) (*Muscle, error) {
	return post[Muscle](ctx, c, "/Muscle", payload)
}

func (c *Client) UpdateMuscle(ctx context.Context, id int, payload MusclePayload) error {
	return c.put(ctx, fmt.Sprintf("/Muscle/%d", id), payload)
}

func (c *Client) DeleteMuscle(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/Muscle/%d", id))
}
