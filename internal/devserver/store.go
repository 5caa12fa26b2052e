package devserver

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/liftlog/internal/api"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid request")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func notFound(entity string, id int) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
}

type exerciseRow struct {
	api.Exercise
	MuscleIDs []int
}

type muscleRow struct {
	api.Muscle
	ExerciseIDs []int
}

type setRow struct {
	ID          int
	ExerciseID  int
	WorkoutID   int
	Weight      float64
	Reps        int
	RPE         *float64
	Notes       *string
	IsCompleted bool
	CompletedAt *time.Time
}

type workoutRow struct {
	ID          int
	Name        string
	Description string
	ProgramID   *int
	Notes       *string
	IsStarted   bool
	IsCompleted bool
	StartedAt   *time.Time
	CompletedAt *time.Time
}

type programRow struct {
	ID              int
	Name            string
	Description     string
	WeekCount       int
	IsTemplate      bool
	IsPublic        bool
	ParentProgramID *int
}

type weekRow struct {
	ID         int
	ProgramID  int
	WeekNumber int
	Notes      *string
}

type programWorkoutRow struct {
	ID        int
	WeekID    int
	DayOfWeek int
	Name      string
}

type programExerciseRow struct {
	ID        int
	WorkoutID int
	api.TrainingProgramExercisePayload
}

// Store is the in-memory data behind the dev server. It checks required fields and
// references only; there are no other business rules.
type Store struct {
	mutex sync.RWMutex
	now   func() time.Time

	exercises        *table[exerciseRow]
	muscles          *table[muscleRow]
	sets             *table[setRow]
	workouts         *table[workoutRow]
	programs         *table[programRow]
	weeks            *table[weekRow]
	programWorkouts  *table[programWorkoutRow]
	programExercises *table[programExerciseRow]
}

func NewStore() *Store {
	return &Store{
		now:              time.Now,
		exercises:        newTable[exerciseRow](),
		muscles:          newTable[muscleRow](),
		sets:             newTable[setRow](),
		workouts:         newTable[workoutRow](),
		programs:         newTable[programRow](),
		weeks:            newTable[weekRow](),
		programWorkouts:  newTable[programWorkoutRow](),
		programExercises: newTable[programExerciseRow](),
	}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func (s *Store) ListExercises() []api.Exercise {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	rows := s.exercises.list(nil)
	exercises := make([]api.Exercise, len(rows))
	for i, row := range rows {
		exercises[i] = row.Exercise
	}
	return exercises
}

func (s *Store) GetExercise(id int) (api.Exercise, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	row, ok := s.exercises.get(id)
	if !ok {
		return api.Exercise{}, notFound("exercise", id)
	}
	return row.Exercise, nil
}

func (s *Store) CreateExercise(p api.ExercisePayload) (api.Exercise, error) {
	if err := required("name", p.Name); err != nil {
		return api.Exercise{}, err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	row := s.exercises.insert(func(id int) exerciseRow {
		return exerciseRow{
			Exercise:  api.Exercise{ID: id, Name: p.Name, Description: p.Description},
			MuscleIDs: p.MuscleIDs,
		}
	})
	return row.Exercise, nil
}

func (s *Store) UpdateExercise(id int, p api.ExercisePayload) error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.exercises.put(id, exerciseRow{
		Exercise:  api.Exercise{ID: id, Name: p.Name, Description: p.Description},
		MuscleIDs: p.MuscleIDs,
	}) {
		return notFound("exercise", id)
	}
	return nil
}

func (s *Store) DeleteExercise(id int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.exercises.delete(id) {
		return notFound("exercise", id)
	}
	return nil
}

func (s *Store) ListMuscles() []api.Muscle {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	rows := s.muscles.list(nil)
	muscles := make([]api.Muscle, len(rows))
	for i, row := range rows {
		muscles[i] = row.Muscle
	}
	return muscles
}

func (s *Store) GetMuscle(id int) (api.Muscle, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	row, ok := s.muscles.get(id)
	if !ok {
		return api.Muscle{}, notFound("muscle", id)
	}
	return row.Muscle, nil
}

func (s *Store) CreateMuscle(p api.MusclePayload) (api.Muscle, error) {
	if err := required("name", p.Name); err != nil {
		return api.Muscle{}, err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	row := s.muscles.insert(func(id int) muscleRow {
		return muscleRow{
			Muscle:      api.Muscle{ID: id, Name: p.Name, Category: p.Category, Description: p.Description},
			ExerciseIDs: p.ExerciseIDs,
		}
	})
	return row.Muscle, nil
}

func (s *Store) UpdateMuscle(id int, p api.MusclePayload) error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.muscles.put(id, muscleRow{
		Muscle:      api.Muscle{ID: id, Name: p.Name, Category: p.Category, Description: p.Description},
		ExerciseIDs: p.ExerciseIDs,
	}) {
		return notFound("muscle", id)
	}
	return nil
}

func (s *Store) DeleteMuscle(id int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.muscles.delete(id) {
		return notFound("muscle", id)
	}
	return nil
}
