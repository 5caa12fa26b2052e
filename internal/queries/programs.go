package queries

import (
	"context"

	"github.com/2beens/liftlog/internal/api"
)

// programsKey also covers Key{"programs", "summaries"}; programKey(id) covers the nested
// weeks/workouts/exercises reads of that program.
var programsKey = Key{"programs"}

func programKey(id int) Key { return Key{"program", id} }

func weeksKey(programID int) Key { return Key{"program", programID, "weeks"} }

func weekKey(programID, weekID int) Key { return Key{"program", programID, "week", weekID} }

func programWorkoutsKey(programID, weekID int) Key {
	return Key{"program", programID, "week", weekID, "workouts"}
}

func programWorkoutKey(programID, weekID, workoutID int) Key {
	return Key{"program", programID, "week", weekID, "workout", workoutID}
}

func programExercisesKey(programID, weekID, workoutID int) Key {
	return Key{"program", programID, "week", weekID, "workout", workoutID, "exercises"}
}

func programExerciseKey(programID, weekID, workoutID, exerciseID int) Key {
	return Key{"program", programID, "week", weekID, "workout", workoutID, "exercise", exerciseID}
}

// nested changes alter the program tree and its summary
func programTreeKeys(programID int) []Key {
	return []Key{programsKey, programKey(programID)}
}

func (c *Client) Programs(ctx context.Context) ([]api.TrainingProgram, error) {
	return query(ctx, c, programsKey, c.api.ListPrograms)
}

func (c *Client) ProgramSummaries(ctx context.Context) ([]api.ProgramSummary, error) {
	return query(ctx, c, Key{"programs", "summaries"}, c.api.ListProgramSummaries)
}

func (c *Client) Program(ctx context.Context, id int) (*api.TrainingProgram, error) {
	return query(ctx, c, programKey(id), func(ctx context.Context) (*api.TrainingProgram, error) {
		return c.api.GetProgram(ctx, id)
	})
}

func (c *Client) CreateProgram(ctx context.Context, payload api.TrainingProgramPayload) (*api.TrainingProgram, error) {
	return mutate(ctx, c, []Key{programsKey}, func(ctx context.Context) (*api.TrainingProgram, error) {
		return c.api.CreateProgram(ctx, payload)
	})
}

func (c *Client) UpdateProgram(ctx context.Context, id int, payload api.TrainingProgramPayload) error {
	return mutateNoResult(ctx, c, programTreeKeys(id), func(ctx context.Context) error {
		return c.api.UpdateProgram(ctx, id, payload)
	})
}

func (c *Client) DeleteProgram(ctx context.Context, id int) error {
	return mutateNoResult(ctx, c, programTreeKeys(id), func(ctx context.Context) error {
		return c.api.DeleteProgram(ctx, id)
	})
}

// weeks

func (c *Client) ProgramWeeks(ctx context.Context, programID int) ([]api.TrainingProgramWeek, error) {
	return query(ctx, c, weeksKey(programID), func(ctx context.Context) ([]api.TrainingProgramWeek, error) {
		return c.api.ListProgramWeeks(ctx, programID)
	})
}

func (c *Client) ProgramWeek(ctx context.Context, programID, weekID int) (*api.TrainingProgramWeek, error) {
	return query(ctx, c, weekKey(programID, weekID), func(ctx context.Context) (*api.TrainingProgramWeek, error) {
		return c.api.GetProgramWeek(ctx, programID, weekID)
	})
}

func (c *Client) CreateProgramWeek(ctx context.Context, programID int, payload api.TrainingProgramWeekPayload) (*api.TrainingProgramWeek, error) {
	return mutate(ctx, c, programTreeKeys(programID), func(ctx context.Context) (*api.TrainingProgramWeek, error) {
		return c.api.CreateProgramWeek(ctx, programID, payload)
	})
}

func (c *Client) UpdateProgramWeek(ctx context.Context, programID, weekID int, payload api.TrainingProgramWeekPayload) error {
	return mutateNoResult(ctx, c, programTreeKeys(programID), func(ctx context.Context) error {
		return c.api.UpdateProgramWeek(ctx, programID, weekID, payload)
	})
}

func (c *Client) DeleteProgramWeek(ctx context.Context, programID, weekID int) error {
	return mutateNoResult(ctx, c, programTreeKeys(programID), func(ctx context.Context) error {
		return c.api.DeleteProgramWeek(ctx, programID, weekID)
	})
}

// planned workouts

func (c *Client) ProgramWorkouts(ctx context.Context, programID, weekID int) ([]api.TrainingProgramWorkout, error) {
	return query(ctx, c, programWorkoutsKey(programID, weekID), func(ctx context.Context) ([]api.TrainingProgramWorkout, error) {
		return c.api.ListProgramWorkouts(ctx, programID, weekID)
	})
}

func (c *Client) ProgramWorkout(ctx context.Context, programID, weekID, workoutID int) (*api.TrainingProgramWorkout, error) {
	return query(ctx, c, programWorkoutKey(programID, weekID, workoutID), func(ctx context.Context) (*api.TrainingProgramWorkout, error) {
		return c.api.GetProgramWorkout(ctx, programID, weekID, workoutID)
	})
}

func (c *Client) CreateProgramWorkout(ctx context.Context, programID, weekID int, payload api.TrainingProgramWorkoutPayload) (*api.TrainingProgramWorkout, error) {
	return mutate(ctx, c, programTreeKeys(programID), func(ctx context.Context) (*api.TrainingProgramWorkout, error) {
		return c.api.CreateProgramWorkout(ctx, programID, weekID, payload)
	})
}

func (c *Client) UpdateProgramWorkout(ctx context.Context, programID, weekID, workoutID int, payload api.TrainingProgramWorkoutPayload) error {
	return mutateNoResult(ctx, c, programTreeKeys(programID), func(ctx context.Context) error {
		return c.api.UpdateProgramWorkout(ctx, programID, weekID, workoutID, payload)
	})
}

func (c *Client) DeleteProgramWorkout(ctx context.Context, programID, weekID, workoutID int) error {
	return mutateNoResult(ctx, c, programTreeKeys(programID), func(ctx context.Context) error {
		return c.api.DeleteProgramWorkout(ctx, programID, weekID, workoutID)
	})
}

// planned exercises

func (c *Client) ProgramExercises(ctx context.Context, programID, weekID, workoutID int) ([]api.TrainingProgramExercise, error) {
	return query(ctx, c, programExercisesKey(programID, weekID, workoutID), func(ctx context.Context) ([]api.TrainingProgramExercise, error) {
		return c.api.ListProgramExercises(ctx, programID, weekID, workoutID)
	})
}

func (c *Client) ProgramExercise(ctx context.Context, programID, weekID, workoutID, exerciseID int) (*api.TrainingProgramExercise, error) {
	return query(ctx, c, programExerciseKey(programID, weekID, workoutID, exerciseID), func(ctx context.Context) (*api.TrainingProgramExercise, error) {
		return c.api.GetProgramExercise(ctx, programID, weekID, workoutID, exerciseID)
	})
}

func (c *Client) CreateProgramExercise(ctx context.Context, programID, weekID, workoutID int, payload api.TrainingProgramExercisePayload) (*api.TrainingProgramExercise, error) {
	return mutate(ctx, c, programTreeKeys(programID), func(ctx context.Context) (*api.TrainingProgramExercise, error) {
		return c.api.CreateProgramExercise(ctx, programID, weekID, workoutID, payload)
	})
}

func (c *Client) UpdateProgramExercise(ctx context.Context, programID, weekID, workoutID, exerciseID int, payload api.TrainingProgramExercisePayload) error {
	return mutateNoResult(ctx, c, programTreeKeys(programID), func(ctx context.Context) error {
		return c.api.UpdateProgramExercise(ctx, programID, weekID, workoutID, exerciseID, payload)
	})
}

func (c *Client) DeleteProgramExercise(ctx context.Context, programID, weekID, workoutID, exerciseID int) error {
	return mutateNoResult(ctx, c, programTreeKeys(programID), func(ctx context.Context) error {
		return c.api.DeleteProgramExercise(ctx, programID, weekID, workoutID, exerciseID)
	})
}
