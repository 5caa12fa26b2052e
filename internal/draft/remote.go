package draft

import (
	"context"

	"github.com/2beens/liftlog/internal/api"
)

//go:generate mockgen -source=$GOFILE -destination=remote_mock_test.go -package=draft

// Remote is the part of the workout api the editor reconciles against.
type Remote interface {
	CreateWorkout(ctx context.Context, payload api.WorkoutPayload) (*api.Workout, error)
	UpdateWorkout(ctx context.Context, id int, payload api.WorkoutPayload) error
	StartWorkout(ctx context.Context, id int) error
	CompleteWorkout(ctx context.Context, id int) error
	CreateSet(ctx context.Context, payload api.SetPayload) (*api.Set, error)
	UpdateSet(ctx context.Context, id int, payload api.SetPayload) error
}
