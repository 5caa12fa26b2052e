package devserver

import (
	"github.com/2beens/liftlog/internal/api"
)

func (s *Store) programExerciseLocked(row programExerciseRow) api.TrainingProgramExercise {
	pe := api.TrainingProgramExercise{
		ID:         row.ID,
		Order:      row.Order,
		Sets:       row.Sets,
		Reps:       row.Reps,
		Weight:     row.Weight,
		RPE:        row.RPE,
		Notes:      row.Notes,
		ExerciseID: row.ExerciseID,
	}
	if ex, ok := s.exercises.get(row.ExerciseID); ok {
		exercise := ex.Exercise
		pe.Exercise = &exercise
	}
	return pe
}

func (s *Store) programWorkoutLocked(row programWorkoutRow) api.TrainingProgramWorkout {
	rows := s.programExercises.list(func(pe programExerciseRow) bool { return pe.WorkoutID == row.ID })
	exercises := make([]api.TrainingProgramExercise, len(rows))
	for i, pe := range rows {
		exercises[i] = s.programExerciseLocked(pe)
	}
	return api.TrainingProgramWorkout{
		ID:        row.ID,
		DayOfWeek: row.DayOfWeek,
		Name:      row.Name,
		Exercises: exercises,
	}
}

func (s *Store) weekLocked(row weekRow) api.TrainingProgramWeek {
	rows := s.programWorkouts.list(func(pw programWorkoutRow) bool { return pw.WeekID == row.ID })
	workouts := make([]api.TrainingProgramWorkout, len(rows))
	for i, pw := range rows {
		workouts[i] = s.programWorkoutLocked(pw)
	}
	return api.TrainingProgramWeek{
		ID:         row.ID,
		WeekNumber: row.WeekNumber,
		Notes:      row.Notes,
		Workouts:   workouts,
	}
}

func (s *Store) completedWorkoutsLocked(programID int) []api.Workout {
	rows := s.workouts.list(func(w workoutRow) bool {
		return w.IsCompleted && w.ProgramID != nil && *w.ProgramID == programID
	})
	workouts := make([]api.Workout, len(rows))
	for i, row := range rows {
		workouts[i] = s.workoutLocked(row)
	}
	return workouts
}

func (s *Store) programLocked(row programRow) api.TrainingProgram {
	rows := s.weeks.list(func(w weekRow) bool { return w.ProgramID == row.ID })
	weeks := make([]api.TrainingProgramWeek, len(rows))
	for i, w := range rows {
		weeks[i] = s.weekLocked(w)
	}
	return api.TrainingProgram{
		ID:                row.ID,
		Name:              row.Name,
		Description:       row.Description,
		WeekCount:         row.WeekCount,
		IsTemplate:        row.IsTemplate,
		IsPublic:          row.IsPublic,
		Weeks:             weeks,
		CompletedWorkouts: s.completedWorkoutsLocked(row.ID),
	}
}

func (s *Store) ListPrograms() []api.TrainingProgram {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	rows := s.programs.list(nil)
	programs := make([]api.TrainingProgram, len(rows))
	for i, row := range rows {
		programs[i] = s.programLocked(row)
	}
	return programs
}

func (s *Store) ProgramSummaries() []api.ProgramSummary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	rows := s.programs.list(nil)
	summaries := make([]api.ProgramSummary, len(rows))
	for i, row := range rows {
		summaries[i] = api.ProgramSummary{
			ID:                    row.ID,
			Name:                  row.Name,
			Description:           row.Description,
			WeekCount:             row.WeekCount,
			IsTemplate:            row.IsTemplate,
			IsPublic:              row.IsPublic,
			CompletedWorkoutCount: len(s.completedWorkoutsLocked(row.ID)),
		}
	}
	return summaries
}

func (s *Store) GetProgram(id int) (api.TrainingProgram, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	row, ok := s.programs.get(id)
	if !ok {
		return api.TrainingProgram{}, notFound("program", id)
	}
	return s.programLocked(row), nil
}

// CreateProgram creates a program. With a parent program id the parent's weeks,
// workouts and exercises are copied into the new program.
func (s *Store) CreateProgram(p api.TrainingProgramPayload) (api.TrainingProgram, error) {
	if err := required("name", p.Name); err != nil {
		return api.TrainingProgram{}, err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if p.ParentProgramID != nil {
		if _, ok := s.programs.get(*p.ParentProgramID); !ok {
			return api.TrainingProgram{}, invalid("unknown parent program %d", *p.ParentProgramID)
		}
	}

	row := s.programs.insert(func(id int) programRow {
		return programRow{
			ID:              id,
			Name:            p.Name,
			Description:     p.Description,
			WeekCount:       p.WeekCount,
			IsTemplate:      p.IsTemplate,
			IsPublic:        p.IsPublic,
			ParentProgramID: p.ParentProgramID,
		}
	})
	if p.ParentProgramID != nil {
		s.copyProgramTreeLocked(*p.ParentProgramID, row.ID)
	}
	return s.programLocked(row), nil
}

func (s *Store) copyProgramTreeLocked(fromID, toID int) {
	for _, week := range s.weeks.list(func(w weekRow) bool { return w.ProgramID == fromID }) {
		newWeek := s.weeks.insert(func(id int) weekRow {
			return weekRow{ID: id, ProgramID: toID, WeekNumber: week.WeekNumber, Notes: week.Notes}
		})
		for _, pw := range s.programWorkouts.list(func(pw programWorkoutRow) bool { return pw.WeekID == week.ID }) {
			newWorkout := s.programWorkouts.insert(func(id int) programWorkoutRow {
				return programWorkoutRow{ID: id, WeekID: newWeek.ID, DayOfWeek: pw.DayOfWeek, Name: pw.Name}
			})
			for _, pe := range s.programExercises.list(func(pe programExerciseRow) bool { return pe.WorkoutID == pw.ID }) {
				s.programExercises.insert(func(id int) programExerciseRow {
					return programExerciseRow{ID: id, WorkoutID: newWorkout.ID, TrainingProgramExercisePayload: pe.TrainingProgramExercisePayload}
				})
			}
		}
	}
}

func (s *Store) UpdateProgram(id int, p api.TrainingProgramPayload) error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	row, ok := s.programs.get(id)
	if !ok {
		return notFound("program", id)
	}
	row.Name, row.Description, row.WeekCount = p.Name, p.Description, p.WeekCount
	row.IsTemplate, row.IsPublic = p.IsTemplate, p.IsPublic
	s.programs.put(id, row)
	return nil
}

func (s *Store) DeleteProgram(id int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.programs.delete(id) {
		return notFound("program", id)
	}
	for _, weekID := range s.weeks.ids(func(w weekRow) bool { return w.ProgramID == id }) {
		s.deleteWeekTreeLocked(weekID)
	}
	return nil
}

func (s *Store) deleteWeekTreeLocked(weekID int) {
	s.weeks.delete(weekID)
	for _, workoutID := range s.programWorkouts.ids(func(pw programWorkoutRow) bool { return pw.WeekID == weekID }) {
		s.deleteProgramWorkoutTreeLocked(workoutID)
	}
}

func (s *Store) deleteProgramWorkoutTreeLocked(workoutID int) {
	s.programWorkouts.delete(workoutID)
	for _, peID := range s.programExercises.ids(func(pe programExerciseRow) bool { return pe.WorkoutID == workoutID }) {
		s.programExercises.delete(peID)
	}
}

// weekRowLocked resolves a week through its program.
func (s *Store) weekRowLocked(programID, weekID int) (weekRow, error) {
	if _, ok := s.programs.get(programID); !ok {
		return weekRow{}, notFound("program", programID)
	}
	week, ok := s.weeks.get(weekID)
	if !ok || week.ProgramID != programID {
		return weekRow{}, notFound("week", weekID)
	}
	return week, nil
}

func (s *Store) programWorkoutRowLocked(programID, weekID, workoutID int) (programWorkoutRow, error) {
	if _, err := s.weekRowLocked(programID, weekID); err != nil {
		return programWorkoutRow{}, err
	}
	pw, ok := s.programWorkouts.get(workoutID)
	if !ok || pw.WeekID != weekID {
		return programWorkoutRow{}, notFound("program workout", workoutID)
	}
	return pw, nil
}

func (s *Store) programExerciseRowLocked(programID, weekID, workoutID, exerciseID int) (programExerciseRow, error) {
	if _, err := s.programWorkoutRowLocked(programID, weekID, workoutID); err != nil {
		return programExerciseRow{}, err
	}
	pe, ok := s.programExercises.get(exerciseID)
	if !ok || pe.WorkoutID != workoutID {
		return programExerciseRow{}, notFound("program exercise", exerciseID)
	}
	return pe, nil
}

func (s *Store) ListWeeks(programID int) ([]api.TrainingProgramWeek, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if _, ok := s.programs.get(programID); !ok {
		return nil, notFound("program", programID)
	}
	rows := s.weeks.list(func(w weekRow) bool { return w.ProgramID == programID })
	weeks := make([]api.TrainingProgramWeek, len(rows))
	for i, row := range rows {
		weeks[i] = s.weekLocked(row)
	}
	return weeks, nil
}

func (s *Store) GetWeek(programID, weekID int) (api.TrainingProgramWeek, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	row, err := s.weekRowLocked(programID, weekID)
	if err != nil {
		return api.TrainingProgramWeek{}, err
	}
	return s.weekLocked(row), nil
}

func (s *Store) CreateWeek(programID int, p api.TrainingProgramWeekPayload) (api.TrainingProgramWeek, error) {
	if p.WeekNumber <= 0 {
		return api.TrainingProgramWeek{}, invalid("weekNumber is required")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.programs.get(programID); !ok {
		return api.TrainingProgramWeek{}, notFound("program", programID)
	}
	row := s.weeks.insert(func(id int) weekRow {
		return weekRow{ID: id, ProgramID: programID, WeekNumber: p.WeekNumber, Notes: p.Notes}
	})
	return s.weekLocked(row), nil
}

func (s *Store) UpdateWeek(programID, weekID int, p api.TrainingProgramWeekPayload) error {
	if p.WeekNumber <= 0 {
		return invalid("weekNumber is required")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	row, err := s.weekRowLocked(programID, weekID)
	if err != nil {
		return err
	}
	row.WeekNumber, row.Notes = p.WeekNumber, p.Notes
	s.weeks.put(weekID, row)
	return nil
}

func (s *Store) DeleteWeek(programID, weekID int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, err := s.weekRowLocked(programID, weekID); err != nil {
		return err
	}
	s.deleteWeekTreeLocked(weekID)
	return nil
}

func (s *Store) ListProgramWorkouts(programID, weekID int) ([]api.TrainingProgramWorkout, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if _, err := s.weekRowLocked(programID, weekID); err != nil {
		return nil, err
	}
	rows := s.programWorkouts.list(func(pw programWorkoutRow) bool { return pw.WeekID == weekID })
	workouts := make([]api.TrainingProgramWorkout, len(rows))
	for i, row := range rows {
		workouts[i] = s.programWorkoutLocked(row)
	}
	return workouts, nil
}

func (s *Store) GetProgramWorkout(programID, weekID, workoutID int) (api.TrainingProgramWorkout, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	row, err := s.programWorkoutRowLocked(programID, weekID, workoutID)
	if err != nil {
		return api.TrainingProgramWorkout{}, err
	}
	return s.programWorkoutLocked(row), nil
}

func (s *Store) CreateProgramWorkout(programID, weekID int, p api.TrainingProgramWorkoutPayload) (api.TrainingProgramWorkout, error) {
	if err := required("name", p.Name); err != nil {
		return api.TrainingProgramWorkout{}, err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, err := s.weekRowLocked(programID, weekID); err != nil {
		return api.TrainingProgramWorkout{}, err
	}
	row := s.programWorkouts.insert(func(id int) programWorkoutRow {
		return programWorkoutRow{ID: id, WeekID: weekID, DayOfWeek: p.DayOfWeek, Name: p.Name}
	})
	return s.programWorkoutLocked(row), nil
}

func (s *Store) UpdateProgramWorkout(programID, weekID, workoutID int, p api.TrainingProgramWorkoutPayload) error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	row, err := s.programWorkoutRowLocked(programID, weekID, workoutID)
	if err != nil {
		return err
	}
	row.DayOfWeek, row.Name = p.DayOfWeek, p.Name
	s.programWorkouts.put(workoutID, row)
	return nil
}

func (s *Store) DeleteProgramWorkout(programID, weekID, workoutID int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, err := s.programWorkoutRowLocked(programID, weekID, workoutID); err != nil {
		return err
	}
	s.deleteProgramWorkoutTreeLocked(workoutID)
	return nil
}

func (s *Store) ListProgramExercises(programID, weekID, workoutID int) ([]api.TrainingProgramExercise, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if _, err := s.programWorkoutRowLocked(programID, weekID, workoutID); err != nil {
		return nil, err
	}
	rows := s.programExercises.list(func(pe programExerciseRow) bool { return pe.WorkoutID == workoutID })
	exercises := make([]api.TrainingProgramExercise, len(rows))
	for i, row := range rows {
		exercises[i] = s.programExerciseLocked(row)
	}
	return exercises, nil
}

func (s *Store) GetProgramExercise(programID, weekID, workoutID, exerciseID int) (api.TrainingProgramExercise, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	row, err := s.programExerciseRowLocked(programID, weekID, workoutID, exerciseID)
	if err != nil {
		return api.TrainingProgramExercise{}, err
	}
	return s.programExerciseLocked(row), nil
}

func (s *Store) checkProgramExerciseLocked(p api.TrainingProgramExercisePayload) error {
	if p.ExerciseID <= 0 {
		return invalid("exerciseId is required")
	}
	if _, ok := s.exercises.get(p.ExerciseID); !ok {
		return invalid("unknown exercise %d", p.ExerciseID)
	}
	return nil
}

func (s *Store) CreateProgramExercise(programID, weekID, workoutID int, p api.TrainingProgramExercisePayload) (api.TrainingProgramExercise, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, err := s.programWorkoutRowLocked(programID, weekID, workoutID); err != nil {
		return api.TrainingProgramExercise{}, err
	}
	if err := s.checkProgramExerciseLocked(p); err != nil {
		return api.TrainingProgramExercise{}, err
	}
	row := s.programExercises.insert(func(id int) programExerciseRow {
		return programExerciseRow{ID: id, WorkoutID: workoutID, TrainingProgramExercisePayload: p}
	})
	return s.programExerciseLocked(row), nil
}

func (s *Store) UpdateProgramExercise(programID, weekID, workoutID, exerciseID int, p api.TrainingProgramExercisePayload) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	row, err := s.programExerciseRowLocked(programID, weekID, workoutID, exerciseID)
	if err != nil {
		return err
	}
	if err := s.checkProgramExerciseLocked(p); err != nil {
		return err
	}
	row.TrainingProgramExercisePayload = p
	s.programExercises.put(exerciseID, row)
	return nil
}

func (s *Store) DeleteProgramExercise(programID, weekID, workoutID, exerciseID int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, err := s.programExerciseRowLocked(programID, weekID, workoutID, exerciseID); err != nil {
		return err
	}
	s.programExercises.delete(exerciseID)
	return nil
}
