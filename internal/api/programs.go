package api

import (
	"context"
	"fmt"
)

func programPath(id int) string {
	return fmt.Sprintf("/TrainingProgram/%d", id)
}

func weeksPath(programID int) string {
	return programPath(programID) + "/weeks"
}

func programWorkoutsPath(programID, weekID int) string {
	return fmt.Sprintf("%s/%d/workouts", weeksPath(programID), weekID)
}

func programExercisesPath(programID, weekID, workoutID int) string {
	return fmt.Sprintf("%s/%d/exercises", programWorkoutsPath(programID, weekID), workoutID)
}

func (c *Client) ListPrograms(ctx context.Context) ([]TrainingProgram, error) {
	return get[[]TrainingProgram](ctx, c, "/TrainingProgram")
}

func (c *Client) ListProgramSummaries(ctx context.Context) ([]ProgramSummary, error) {
	return get[[]ProgramSummary](ctx, c, "/TrainingProgram/summaries")
}

func (c *Client) GetProgram(ctx context.Context, id int) (*TrainingProgram, error) {
	return get[*TrainingProgram](ctx, c, programPath(id))
}

func (c *Client) CreateProgram(ctx context.Context, payload TrainingProgramPayload) (*TrainingProgram, error) {
	return post[TrainingProgram](ctx, c, "/TrainingProgram", payload)
}

func (c *Client) UpdateProgram(ctx context.Context, id int, payload TrainingProgramPayload) error {
	return c.put(ctx, programPath(id), payload)
}

func (c *Client) DeleteProgram(ctx context.Context, id int) error {
	return c.delete(ctx, programPath(id))
}

// weeks

func (c *Client) ListProgramWeeks(ctx context.Context, programID int) ([]TrainingProgramWeek, error) {
	return get[[]TrainingProgramWeek](ctx, c, weeksPath(programID))
}

func (c *Client) GetProgramWeek(ctx context.Context, programID, weekID int) (*TrainingProgramWeek, error) {
	return get[*TrainingProgramWeek](ctx, c, fmt.Sprintf("%s/%d", weeksPath(programID), weekID))
}

func (c *Client) CreateProgramWeek(ctx context.Context, programID int, payload TrainingProgramWeekPayload) (*TrainingProgramWeek, error) {
	return post[TrainingProgramWeek](ctx, c, weeksPath(programID), payload)
}

func (c *Client) UpdateProgramWeek(ctx context.Context, programID, weekID int, payload TrainingProgramWeekPayload) error {
	return c.put(ctx, fmt.Sprintf("%s/%d", weeksPath(programID), weekID), payload)
}

func (c *Client) DeleteProgramWeek(ctx context.Context, programID, weekID int) error {
	return c.delete(ctx, fmt.Sprintf("%s/%d", weeksPath(programID), weekID))
}

// planned workouts

func (c *Client) ListProgramWorkouts(ctx context.Context, programID, weekID int) ([]TrainingProgramWorkout, error) {
	return get[[]TrainingProgramWorkout](ctx, c, programWorkoutsPath(programID, weekID))
}

func (c *Client) GetProgramWorkout(ctx context.Context, programID, weekID, workoutID int) (*TrainingProgramWorkout, error) {
	return get[*TrainingProgramWorkout](ctx, c, fmt.Sprintf("%s/%d", programWorkoutsPath(programID, weekID), workoutID))
}

func (c *Client) CreateProgramWorkout(ctx context.Context, programID, weekID int, payload TrainingProgramWorkoutPayload) (*TrainingProgramWorkout, error) {
	return post[TrainingProgramWorkout](ctx, c, programWorkoutsPath(programID, weekID), payload)
}

func (c *Client) UpdateProgramWorkout(ctx context.Context, programID, weekID, workoutID int, payload TrainingProgramWorkoutPayload) error {
	return c.put(ctx, fmt.Sprintf("%s/%d", programWorkoutsPath(programID, weekID), workoutID), payload)
}

func (c *Client) DeleteProgramWorkout(ctx context.Context, programID, weekID, workoutID int) error {
	return c.delete(ctx, fmt.Sprintf("%s/%d", programWorkoutsPath(programID, weekID), workoutID))
}

// planned exercises

func (c *Client) ListProgramExercises(ctx context.Context, programID, weekID, workoutID int) ([]TrainingProgramExercise, error) {
	return get[[]TrainingProgramExercise](ctx, c, programExercisesPath(programID, weekID, workoutID))
}

func (c *Client) GetProgramExercise(ctx context.Context, programID, weekID, workoutID, exerciseID int) (*TrainingProgramExercise, error) {
	return get[*TrainingProgramExercise](ctx, c, fmt.Sprintf("%s/%d", programExercisesPath(programID, weekID, workoutID), exerciseID))
}

func (c *Client) CreateProgramExercise(ctx context.Context, programID, weekID, workoutID int, payload TrainingProgramExercisePayload) (*TrainingProgramExercise, error) {
	return post[TrainingProgramExercise](ctx, c, programExercisesPath(programID, weekID, workoutID), payload)
}

func (c *Client) UpdateProgramExercise(ctx context.Context, programID, weekID, workoutID, exerciseID int, payload TrainingProgramExercisePayload) error {
	return c.put(ctx, fmt.Sprintf("%s/%d", programExercisesPath(programID, weekID, workoutID), exerciseID), payload)
}

func (c *Client) DeleteProgramExercise(ctx context.Context, programID, weekID, workoutID, exerciseID int) error {
	return c.delete(ctx, fmt.Sprintf("%s/%d", programExercisesPath(programID, weekID, workoutID), exerciseID))
}
