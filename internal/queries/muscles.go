package queries

import (
	"context"

	"github.com/2beens/liftlog/internal/api"
)

var musclesKey = Key{"muscles"}

func muscleKey(id int) Key { return Key{"muscle", id} }

func (c *Client) Muscles(ctx context.Context) ([]api.Muscle, error) {
	return query(ctx, c, musclesKey, c.api.ListMuscles)
}

func (c *Client) Muscle(ctx context.Context, id int) (*api.Muscle, error) {
	return query(ctx, c, muscleKey(id), func(ctx context.Context) (*api.Muscle, error) {
		return c.api.GetMuscle(ctx, id)
	})
}

func (c *Client) CreateMuscle(ctx context.Context, payload api.MusclePayload) (*api.Muscle, error) {
	return mutate(ctx, c, []Key{musclesKey}, func(ctx context.Context) (*api.Muscle, error) {
		return c.api.CreateMuscle(ctx, payload)
	})
}

func (c *Client) UpdateMuscle(ctx context.Context, id int, payload api.MusclePayload) error {
	return mutateNoResult(ctx, c, []Key{musclesKey, muscleKey(id)}, func(ctx context.Context) error {
		return c.api.UpdateMuscle(ctx, id, payload)
	})
}

func (c *Client) DeleteMuscle(ctx context.Context, id int) error {
	return mutateNoResult(ctx, c, []Key{musclesKey, muscleKey(id)}, func(ctx context.Context) error {
		return c.api.DeleteMuscle(ctx, id)
	})
}
