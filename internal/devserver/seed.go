package devserver

import (
	"fmt"
	"strings"

	"github.com/2beens/liftlog/internal/api"

	"github.com/brianvoe/gofakeit/v6"
)

type seedExercise struct {
	name        string
	description string
	muscles     []string
}

var defaultMuscles = []api.MusclePayload{
	{Name: "Quadriceps", Category: "Legs", Description: "Front of the thigh"},
	{Name: "Hamstrings", Category: "Legs", Description: "Back of the thigh"},
	{Name: "Glutes", Category: "Legs", Description: "Hip extensors"},
	{Name: "Chest", Category: "Upper body", Description: "Pectoralis major and minor"},
	{Name: "Back", Category: "Upper body", Description: "Lats, traps and rhomboids"},
	{Name: "Shoulders", Category: "Upper body", Description: "Deltoids"},
	{Name: "Triceps", Category: "Arms", Description: "Back of the upper arm"},
	{Name: "Biceps", Category: "Arms", Description: "Front of the upper arm"},
}

var defaultExercises = []seedExercise{
	{"Squat", "Barbell back squat", []string{"Quadriceps", "Glutes"}},
	{"Bench Press", "Flat barbell bench press", []string{"Chest", "Triceps"}},
	{"Deadlift", "Conventional barbell deadlift", []string{"Hamstrings", "Glutes", "Back"}},
	{"Overhead Press", "Standing barbell press", []string{"Shoulders", "Triceps"}},
	{"Barbell Row", "Bent over row", []string{"Back", "Biceps"}},
	{"Pull Up", "Bodyweight pull up", []string{"Back", "Biceps"}},
}

// SeedDefaults loads the base muscles, exercises and a starter program template.
func (s *Store) SeedDefaults() error {
	muscleIDs := map[string]int{}
	for _, p := range defaultMuscles {
		m, err := s.CreateMuscle(p)
		if err != nil {
			return fmt.Errorf("seed muscle %s: %w", p.Name, err)
		}
		muscleIDs[m.Name] = m.ID
	}

	exerciseIDs := map[string]int{}
	for _, ex := range defaultExercises {
		p := api.ExercisePayload{Name: ex.name, Description: ex.description, MuscleIDs: []int{}}
		for _, name := range ex.muscles {
			p.MuscleIDs = append(p.MuscleIDs, muscleIDs[name])
		}
		created, err := s.CreateExercise(p)
		if err != nil {
			return fmt.Errorf("seed exercise %s: %w", ex.name, err)
		}
		exerciseIDs[created.Name] = created.ID
	}

	return s.seedStarterProgram(exerciseIDs)
}

func (s *Store) seedStarterProgram(exerciseIDs map[string]int) error {
	program, err := s.CreateProgram(api.TrainingProgramPayload{
		Name:        "Starter Strength",
		Description: "Three full body sessions a week",
		WeekCount:   1,
		IsTemplate:  true,
		IsPublic:    true,
	})
	if err != nil {
		return err
	}
	week, err := s.CreateWeek(program.ID, api.TrainingProgramWeekPayload{WeekNumber: 1})
	if err != nil {
		return err
	}

	days := []struct {
		day       int
		name      string
		exercises []string
	}{
		{1, "Day A", []string{"Squat", "Bench Press", "Barbell Row"}},
		{3, "Day B", []string{"Squat", "Overhead Press", "Deadlift"}},
		{5, "Day C", []string{"Squat", "Bench Press", "Pull Up"}},
	}
	for _, d := range days {
		workout, err := s.CreateProgramWorkout(program.ID, week.ID, api.TrainingProgramWorkoutPayload{
			DayOfWeek: d.day,
			Name:      d.name,
		})
		if err != nil {
			return err
		}
		for i, name := range d.exercises {
			if _, err := s.CreateProgramExercise(program.ID, week.ID, workout.ID, api.TrainingProgramExercisePayload{
				Order:      i + 1,
				Sets:       3,
				Reps:       5,
				ExerciseID: exerciseIDs[name],
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedFakeExercises adds n generated exercises; the same seed yields the same names.
func (s *Store) SeedFakeExercises(n int, seed int64) ([]api.Exercise, error) {
	faker := gofakeit.New(seed)
	created := make([]api.Exercise, 0, n)
	for i := 0; i < n; i++ {
		name := capitalize(faker.Adjective()) + " " + capitalize(faker.Noun())
		ex, err := s.CreateExercise(api.ExercisePayload{
			Name:        name,
			Description: faker.Sentence(6),
			MuscleIDs:   []int{},
		})
		if err != nil {
			return nil, err
		}
		created = append(created, ex)
	}
	return created, nil
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
