package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/liftlog/internal/api"

	"golang.org/x/sync/errgroup"
)

const recentCount = 3

type WorkoutStatus string

const (
	StatusPlanned    WorkoutStatus = "planned"
	StatusInProgress WorkoutStatus = "in progress"
	StatusCompleted  WorkoutStatus = "completed"
)

func statusOf(w api.Workout) WorkoutStatus {
	switch {
	case w.IsCompleted:
		return StatusCompleted
	case w.IsStarted:
		return StatusInProgress
	default:
		return StatusPlanned
	}
}

// Source is the read side the dashboard needs; queries.Client satisfies it.
type Source interface {
	Workouts(ctx context.Context) ([]api.Workout, error)
	Programs(ctx context.Context) ([]api.TrainingProgram, error)
}

type RecentWorkout struct {
	ID          int           `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	SetCount    int           `json:"setCount" yaml:"setCount"`
	Status      WorkoutStatus `json:"status" yaml:"status"`
	CompletedAt *time.Time    `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

type ActiveProgram struct {
	ID        int    `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	WeekCount int    `json:"weekCount" yaml:"weekCount"`
}

type Summary struct {
	TotalWorkouts      int             `json:"totalWorkouts" yaml:"totalWorkouts"`
	ActivePrograms     int             `json:"activePrograms" yaml:"activePrograms"`
	CompletedWorkouts  int             `json:"completedWorkouts" yaml:"completedWorkouts"`
	InProgressWorkouts int             `json:"inProgressWorkouts" yaml:"inProgressWorkouts"`
	Recent             []RecentWorkout `json:"recent" yaml:"recent"`
	Programs           []ActiveProgram `json:"programs" yaml:"programs"`
}

// Build loads workouts and programs in parallel and aggregates them.
// Recent workouts are the first ones in the order the api lists them.
func Build(ctx context.Context, src Source) (*Summary, error) {
	var (
		workouts []api.Workout
		programs []api.TrainingProgram
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		if workouts, err = src.Workouts(egCtx); err != nil {
			return fmt.Errorf("load workouts: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if programs, err = src.Programs(egCtx); err != nil {
			return fmt.Errorf("load programs: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return summarize(workouts, programs), nil
}

func summarize(workouts []api.Workout, programs []api.TrainingProgram) *Summary {
	s := &Summary{
		TotalWorkouts: len(workouts),
		Recent:        []RecentWorkout{},
		Programs:      []ActiveProgram{},
	}

	for i, w := range workouts {
		switch statusOf(w) {
		case StatusCompleted:
			s.CompletedWorkouts++
		case StatusInProgress:
			s.InProgressWorkouts++
		}
		if i < recentCount {
			s.Recent = append(s.Recent, RecentWorkout{
				ID:          w.ID,
				Name:        w.Name,
				SetCount:    len(w.Sets),
				Status:      statusOf(w),
				CompletedAt: w.CompletedAt,
			})
		}
	}

	for _, p := range programs {
		if p.IsTemplate {
			continue
		}
		s.ActivePrograms++
		s.Programs = append(s.Programs, ActiveProgram{
			ID:        p.ID,
			Name:      p.Name,
			WeekCount: p.WeekCount,
		})
	}

	return s
}
