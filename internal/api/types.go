package api

import "time"

type Exercise struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ExercisePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MuscleIDs   []int  `json:"muscleIds"`
}

type Muscle struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type MusclePayload struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ExerciseIDs []int  `json:"exerciseIds"`
}

type Set struct {
	ID          int        `json:"id"`
	Weight      float64    `json:"weight"`
	Reps        int        `json:"reps"`
	RPE         *float64   `json:"rpe,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Exercise    Exercise   `json:"exercise"`
	WorkoutID   int        `json:"workoutId"`
}

type SetPayload struct {
	ExerciseID int      `json:"exerciseId"`
	WorkoutID  int      `json:"workoutId"`
	Weight     float64  `json:"weight"`
	Reps       int      `json:"reps"`
	RPE        *float64 `json:"rpe,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

type Workout struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsStarted   bool       `json:"isStarted"`
	IsCompleted bool       `json:"isCompleted"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Sets        []Set      `json:"sets"`
}

type WorkoutPayload struct {
	Name        string  `json:"name"`
	ProgramID   *int    `json:"programId,omitempty"`
	Description string  `json:"description"`
	Notes       *string `json:"notes,omitempty"`
	SetIDs      []int   `json:"setIds"`
}

type TrainingProgram struct {
	ID                int                   `json:"id"`
	Name              string                `json:"name"`
	Description       string                `json:"description"`
	WeekCount         int                   `json:"weekCount"`
	IsTemplate        bool                  `json:"isTemplate"`
	IsPublic          bool                  `json:"isPublic"`
	Weeks             []TrainingProgramWeek `json:"weeks"`
	CompletedWorkouts []Workout             `json:"completedWorkouts"`
}

type TrainingProgramPayload struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	WeekCount       int    `json:"weekCount"`
	IsTemplate      bool   `json:"isTemplate"`
	IsPublic        bool   `json:"isPublic"`
	ParentProgramID *int   `json:"parentProgramId,omitempty"`
}

type TrainingProgramWeek struct {
	ID         int                      `json:"id"`
	WeekNumber int                      `json:"weekNumber"`
	Notes      *string                  `json:"notes,omitempty"`
	Workouts   []TrainingProgramWorkout `json:"workouts"`
}

type TrainingProgramWeekPayload struct {
	WeekNumber int     `json:"weekNumber"`
	Notes      *string `json:"notes,omitempty"`
}

type TrainingProgramWorkout struct {
	ID        int                       `json:"id"`
	DayOfWeek int                       `json:"dayOfWeek"`
	Name      string                    `json:"name"`
	Exercises []TrainingProgramExercise `json:"exercises"`
}

type TrainingProgramWorkoutPayload struct {
	DayOfWeek int    `json:"dayOfWeek"`
	Name      string `json:"name"`
}

type TrainingProgramExercise struct {
	ID         int       `json:"id"`
	Order      int       `json:"order"`
	Sets       int       `json:"sets"`
	Reps       int       `json:"reps"`
	Weight     *float64  `json:"weight,omitempty"`
	RPE        *float64  `json:"rpe,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	ExerciseID int       `json:"exerciseId"`
	Exercise   *Exercise `json:"exercise,omitempty"`
}

type TrainingProgramExercisePayload struct {
	Order      int      `json:"order"`
	Sets       int      `json:"sets"`
	Reps       int      `json:"reps"`
	Weight     *float64 `json:"weight,omitempty"`
	RPE        *float64 `json:"rpe,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	ExerciseID int      `json:"exerciseId"`
}

type ProgramSummary struct {
	ID                    int    `json:"id"`
	Name                  string `json:"name"`
	Description           string `json:"description"`
	WeekCount             int    `json:"weekCount"`
	IsTemplate            bool   `json:"isTemplate"`
	IsPublic              bool   `json:"isPublic"`
	CompletedWorkoutCount int    `json:"completedWorkoutCount"`
}
