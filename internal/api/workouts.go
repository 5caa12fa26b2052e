package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) ListWorkouts(ctx context.Context) ([]Workout, error) {
	return get[[]Workout](ctx, c, "/Workout")
}

func (c *Client) GetWorkout(ctx context.Context, id int) (*Workout, error) {
	return get[*Workout](ctx, c, fmt.Sprintf("/Workout/%d", id))
}

// ListWorkoutsByIDs issues GET /Workout/byIds?ids=1&ids=2.
func (c *Client) ListWorkoutsByIDs(ctx context.Context, ids []int) ([]Workout, error) {
	if len(ids) == 0 {
		return []Workout{}, nil
	}
	q := url.Values{}
	for _, id := range ids {
		q.Add("ids", strconv.Itoa(id))
	}
	return get[[]Workout](ctx, c, "/Workout/byIds?"+q.Encode())
}

func (c *Client) CreateWorkout(ctx context.Context, payload WorkoutPayload) (*Workout, error) {
	if payload.SetIDs == nil {
		payload.SetIDs = []int{}
	}
	return post[Workout](ctx, c, "/Workout", payload)
}

func (c *Client) UpdateWorkout(ctx context.Context, id int, payload WorkoutPayload) error {
	if payload.SetIDs == nil {
		payload.SetIDs = []int{}
	}
	return c.put(ctx, fmt.Sprintf("/Workout/%d", id), payload)
}

func (c *Client) DeleteWorkout(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/Workout/%d", id))
}

func (c *Client) StartWorkout(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/Workout/%d/start", id), nil, nil)
}

func (c *Client) CompleteWorkout(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/Workout/%d/complete", id), nil, nil)
}
