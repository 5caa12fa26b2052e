package devserver

import (
	"slices"

	"github.com/2beens/liftlog/internal/api"
)

func (s *Store) setLocked(row setRow) api.Set {
	set := api.Set{
		ID:          row.ID,
		Weight:      row.Weight,
		Reps:        row.Reps,
		RPE:         row.RPE,
		IsCompleted: row.IsCompleted,
		CompletedAt: row.CompletedAt,
		Notes:       row.Notes,
		WorkoutID:   row.WorkoutID,
	}
	if ex, ok := s.exercises.get(row.ExerciseID); ok {
		set.Exercise = ex.Exercise
	} else {
		set.Exercise = api.Exercise{ID: row.ExerciseID}
	}
	return set
}

func (s *Store) setsLocked(keep func(setRow) bool) []api.Set {
	rows := s.sets.list(keep)
	sets := make([]api.Set, len(rows))
	for i, row := range rows {
		sets[i] = s.setLocked(row)
	}
	return sets
}

func (s *Store) ListSets() []api.Set {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.setsLocked(nil)
}

func (s *Store) GetSet(id int) (api.Set, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	row, ok := s.sets.get(id)
	if !ok {
		return api.Set{}, notFound("set", id)
	}
	return s.setLocked(row), nil
}

func (s *Store) ListSetsByWorkout(workoutID int) ([]api.Set, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if _, ok := s.workouts.get(workoutID); !ok {
		return nil, notFound("workout", workoutID)
	}
	return s.setsLocked(func(row setRow) bool { return row.WorkoutID == workoutID }), nil
}

func (s *Store) checkSetRefsLocked(p api.SetPayload) error {
	if p.ExerciseID <= 0 {
		return invalid("exerciseId is required")
	}
	if p.WorkoutID <= 0 {
		return invalid("workoutId is required")
	}
	if _, ok := s.exercises.get(p.ExerciseID); !ok {
		return invalid("unknown exercise %d", p.ExerciseID)
	}
	if _, ok := s.workouts.get(p.WorkoutID); !ok {
		return invalid("unknown workout %d", p.WorkoutID)
	}
	return nil
}

func (s *Store) CreateSet(p api.SetPayload) (api.Set, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.checkSetRefsLocked(p); err != nil {
		return api.Set{}, err
	}
	row := s.sets.insert(func(id int) setRow {
		return setRow{
			ID:         id,
			ExerciseID: p.ExerciseID,
			WorkoutID:  p.WorkoutID,
			Weight:     p.Weight,
			Reps:       p.Reps,
			RPE:        p.RPE,
			Notes:      p.Notes,
		}
	})
	return s.setLocked(row), nil
}

func (s *Store) UpdateSet(id int, p api.SetPayload) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	row, ok := s.sets.get(id)
	if !ok {
		return notFound("set", id)
	}
	if err := s.checkSetRefsLocked(p); err != nil {
		return err
	}
	row.ExerciseID, row.WorkoutID = p.ExerciseID, p.WorkoutID
	row.Weight, row.Reps, row.RPE, row.Notes = p.Weight, p.Reps, p.RPE, p.Notes
	s.sets.put(id, row)
	return nil
}

func (s *Store) DeleteSet(id int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.sets.delete(id) {
		return notFound("set", id)
	}
	return nil
}

func (s *Store) workoutLocked(row workoutRow) api.Workout {
	return api.Workout{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		IsStarted:   row.IsStarted,
		IsCompleted: row.IsCompleted,
		StartedAt:   row.StartedAt,
		CompletedAt: row.CompletedAt,
		Notes:       row.Notes,
		Sets:        s.setsLocked(func(set setRow) bool { return set.WorkoutID == row.ID }),
	}
}

// ListWorkouts returns the workouts newest first.
func (s *Store) ListWorkouts() []api.Workout {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	ids := s.workouts.ids(nil)
	slices.Reverse(ids)
	workouts := make([]api.Workout, 0, len(ids))
	for _, id := range ids {
		row, _ := s.workouts.get(id)
		workouts = append(workouts, s.workoutLocked(row))
	}
	return workouts
}

func (s *Store) GetWorkout(id int) (api.Workout, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	row, ok := s.workouts.get(id)
	if !ok {
		return api.Workout{}, notFound("workout", id)
	}
	return s.workoutLocked(row), nil
}

// ListWorkoutsByIDs keeps the requested order and skips unknown ids.
func (s *Store) ListWorkoutsByIDs(ids []int) []api.Workout {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	workouts := make([]api.Workout, 0, len(ids))
	for _, id := range ids {
		if row, ok := s.workouts.get(id); ok {
			workouts = append(workouts, s.workoutLocked(row))
		}
	}
	return workouts
}

func (s *Store) checkWorkoutLocked(p api.WorkoutPayload) error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	if p.ProgramID != nil {
		if _, ok := s.programs.get(*p.ProgramID); !ok {
			return invalid("unknown program %d", *p.ProgramID)
		}
	}
	for _, setID := range p.SetIDs {
		if _, ok := s.sets.get(setID); !ok {
			return invalid("unknown set %d", setID)
		}
	}
	return nil
}

// linkSetsLocked moves the listed sets onto the workout.
func (s *Store) linkSetsLocked(workoutID int, setIDs []int) {
	for _, setID := range setIDs {
		row, _ := s.sets.get(setID)
		row.WorkoutID = workoutID
		s.sets.put(setID, row)
	}
}

func (s *Store) CreateWorkout(p api.WorkoutPayload) (api.Workout, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.checkWorkoutLocked(p); err != nil {
		return api.Workout{}, err
	}
	row := s.workouts.insert(func(id int) workoutRow {
		return workoutRow{
			ID:          id,
			Name:        p.Name,
			Description: p.Description,
			ProgramID:   p.ProgramID,
			Notes:       p.Notes,
		}
	})
	s.linkSetsLocked(row.ID, p.SetIDs)
	return s.workoutLocked(row), nil
}

func (s *Store) UpdateWorkout(id int, p api.WorkoutPayload) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	row, ok := s.workouts.get(id)
	if !ok {
		return notFound("workout", id)
	}
	if err := s.checkWorkoutLocked(p); err != nil {
		return err
	}
	row.Name, row.Description, row.Notes = p.Name, p.Description, p.Notes
	if p.ProgramID != nil {
		row.ProgramID = p.ProgramID
	}
	s.workouts.put(id, row)
	s.linkSetsLocked(id, p.SetIDs)
	return nil
}

func (s *Store) DeleteWorkout(id int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.workouts.delete(id) {
		return notFound("workout", id)
	}
	for _, setID := range s.sets.ids(func(row setRow) bool { return row.WorkoutID == id }) {
		s.sets.delete(setID)
	}
	return nil
}

func (s *Store) StartWorkout(id int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	row, ok := s.workouts.get(id)
	if !ok {
		return notFound("workout", id)
	}
	if !row.IsStarted {
		now := s.now()
		row.IsStarted = true
		row.StartedAt = &now
		s.workouts.put(id, row)
	}
	return nil
}

// CompleteWorkout marks the workout and all of its sets completed.
func (s *Store) CompleteWorkout(id int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	row, ok := s.workouts.get(id)
	if !ok {
		return notFound("workout", id)
	}
	if row.IsCompleted {
		return nil
	}
	now := s.now()
	if !row.IsStarted {
		row.IsStarted = true
		row.StartedAt = &now
	}
	row.IsCompleted = true
	row.CompletedAt = &now
	s.workouts.put(id, row)

	for _, setID := range s.sets.ids(func(set setRow) bool { return set.WorkoutID == id }) {
		set, _ := s.sets.get(setID)
		set.IsCompleted = true
		set.CompletedAt = &now
		s.sets.put(setID, set)
	}
	return nil
}
