package devserver

import (
	"net/http"

	"github.com/2beens/liftlog/internal/api"

	"github.com/gorilla/mux"
)

const (
	idVar      = "{id:[0-9]+}"
	weekVar    = "{weekId:[0-9]+}"
	workoutVar = "{workoutId:[0-9]+}"
	exerVar    = "{exerciseId:[0-9]+}"
)

// setupAPIRoutes registers the REST resources under the /api subrouter.
func setupAPIRoutes(r *mux.Router, store *Store) {
	r.HandleFunc("/Exercise", handleRead(listOf(store.ListExercises))).Methods(http.MethodGet).Name(routeName("exercise", "list"))
	r.HandleFunc("/Exercise/"+idVar, handleRead(byID(store.GetExercise))).Methods(http.MethodGet).Name(routeName("exercise", "get"))
	r.HandleFunc("/Exercise", handleCreate(func(_ *http.Request, p api.ExercisePayload) (api.Exercise, error) {
		return store.CreateExercise(p)
	})).Methods(http.MethodPost).Name(routeName("exercise", "create"))
	r.HandleFunc("/Exercise/"+idVar, handleUpdate(func(r *http.Request, p api.ExercisePayload) error {
		id, err := pathInt(r, "id")
		if err != nil {
			return err
		}
		return store.UpdateExercise(id, p)
	})).Methods(http.MethodPut).Name(routeName("exercise", "update"))
	r.HandleFunc("/Exercise/"+idVar, handleAction(withID(store.DeleteExercise))).Methods(http.MethodDelete).Name(routeName("exercise", "delete"))

	r.HandleFunc("/Muscle", handleRead(listOf(store.ListMuscles))).Methods(http.MethodGet).Name(routeName("muscle", "list"))
	r.HandleFunc("/Muscle/"+idVar, handleRead(byID(store.GetMuscle))).Methods(http.MethodGet).Name(routeName("muscle", "get"))
	r.HandleFunc("/Muscle", handleCreate(func(_ *http.Request, p api.MusclePayload) (api.Muscle, error) {
		return store.CreateMuscle(p)
	})).Methods(http.MethodPost).Name(routeName("muscle", "create"))
	r.HandleFunc("/Muscle/"+idVar, handleUpdate(func(r *http.Request, p api.MusclePayload) error {
		id, err := pathInt(r, "id")
		if err != nil {
			return err
		}
		return store.UpdateMuscle(id, p)
	})).Methods(http.MethodPut).Name(routeName("muscle", "update"))
	r.HandleFunc("/Muscle/"+idVar, handleAction(withID(store.DeleteMuscle))).Methods(http.MethodDelete).Name(routeName("muscle", "delete"))

	r.HandleFunc("/Set", handleRead(listOf(store.ListSets))).Methods(http.MethodGet).Name(routeName("set", "list"))
	r.HandleFunc("/Set/"+idVar, handleRead(byID(store.GetSet))).Methods(http.MethodGet).Name(routeName("set", "get"))
	r.HandleFunc("/Set/byWorkoutId/"+idVar, handleRead(byID(store.ListSetsByWorkout))).Methods(http.MethodGet).Name(routeName("set", "list-by-workout"))
	r.HandleFunc("/Set", handleCreate(func(_ *http.Request, p api.SetPayload) (api.Set, error) {
		return store.CreateSet(p)
	})).Methods(http.MethodPost).Name(routeName("set", "create"))
	r.HandleFunc("/Set/"+idVar, handleUpdate(func(r *http.Request, p api.SetPayload) error {
		id, err := pathInt(r, "id")
		if err != nil {
			return err
		}
		return store.UpdateSet(id, p)
	})).Methods(http.MethodPut).Name(routeName("set", "update"))
	r.HandleFunc("/Set/"+idVar, handleAction(withID(store.DeleteSet))).Methods(http.MethodDelete).Name(routeName("set", "delete"))

	r.HandleFunc("/Workout", handleRead(listOf(store.ListWorkouts))).Methods(http.MethodGet).Name(routeName("workout", "list"))
	r.HandleFunc("/Workout/byIds", handleRead(func(r *http.Request) ([]api.Workout, error) {
		ids, err := queryInts(r, "ids")
		if err != nil {
			return nil, err
		}
		return store.ListWorkoutsByIDs(ids), nil
	})).Methods(http.MethodGet).Name(routeName("workout", "list-by-ids"))
	r.HandleFunc("/Workout/"+idVar, handleRead(byID(store.GetWorkout))).Methods(http.MethodGet).Name(routeName("workout", "get"))
	r.HandleFunc("/Workout", handleCreate(func(_ *http.Request, p api.WorkoutPayload) (api.Workout, error) {
		return store.CreateWorkout(p)
	})).Methods(http.MethodPost).Name(routeName("workout", "create"))
	r.HandleFunc("/Workout/"+idVar, handleUpdate(func(r *http.Request, p api.WorkoutPayload) error {
		id, err := pathInt(r, "id")
		if err != nil {
			return err
		}
		return store.UpdateWorkout(id, p)
	})).Methods(http.MethodPut).Name(routeName("workout", "update"))
	r.HandleFunc("/Workout/"+idVar, handleAction(withID(store.DeleteWorkout))).Methods(http.MethodDelete).Name(routeName("workout", "delete"))
	r.HandleFunc("/Workout/"+idVar+"/start", handleAction(withID(store.StartWorkout))).Methods(http.MethodPost).Name(routeName("workout", "start"))
	r.HandleFunc("/Workout/"+idVar+"/complete", handleAction(withID(store.CompleteWorkout))).Methods(http.MethodPost).Name(routeName("workout", "complete"))

	setupProgramRoutes(r, store)
}

func withID(action func(id int) error) func(r *http.Request) error {
	return func(r *http.Request) error {
		id, err := pathInt(r, "id")
		if err != nil {
			return err
		}
		return action(id)
	}
}

func setupProgramRoutes(r *mux.Router, store *Store) {
	const (
		programs  = "/TrainingProgram"
		program   = programs + "/" + idVar
		weeks     = program + "/weeks"
		week      = weeks + "/" + weekVar
		pWorkouts = week + "/workouts"
		pWorkout  = pWorkouts + "/" + workoutVar
		pExers    = pWorkout + "/exercises"
		pExer     = pExers + "/" + exerVar
	)

	r.HandleFunc(programs, handleRead(listOf(store.ListPrograms))).Methods(http.MethodGet).Name(routeName("program", "list"))
	r.HandleFunc(programs+"/summaries", handleRead(listOf(store.ProgramSummaries))).Methods(http.MethodGet).Name(routeName("program", "summaries"))
	r.HandleFunc(program, handleRead(byID(store.GetProgram))).Methods(http.MethodGet).Name(routeName("program", "get"))
	r.HandleFunc(programs, handleCreate(func(_ *http.Request, p api.TrainingProgramPayload) (api.TrainingProgram, error) {
		return store.CreateProgram(p)
	})).Methods(http.MethodPost).Name(routeName("program", "create"))
	r.HandleFunc(program, handleUpdate(func(r *http.Request, p api.TrainingProgramPayload) error {
		id, err := pathInt(r, "id")
		if err != nil {
			return err
		}
		return store.UpdateProgram(id, p)
	})).Methods(http.MethodPut).Name(routeName("program", "update"))
	r.HandleFunc(program, handleAction(withID(store.DeleteProgram))).Methods(http.MethodDelete).Name(routeName("program", "delete"))

	r.HandleFunc(weeks, handleRead(byID(store.ListWeeks))).Methods(http.MethodGet).Name(routeName("program-week", "list"))
	r.HandleFunc(week, handleRead(func(r *http.Request) (api.TrainingProgramWeek, error) {
		ids, err := pathInts(r, "id", "weekId")
		if err != nil {
			return api.TrainingProgramWeek{}, err
		}
		return store.GetWeek(ids[0], ids[1])
	})).Methods(http.MethodGet).Name(routeName("program-week", "get"))
	r.HandleFunc(weeks, handleCreate(func(r *http.Request, p api.TrainingProgramWeekPayload) (api.TrainingProgramWeek, error) {
		id, err := pathInt(r, "id")
		if err != nil {
			return api.TrainingProgramWeek{}, err
		}
		return store.CreateWeek(id, p)
	})).Methods(http.MethodPost).Name(routeName("program-week", "create"))
	r.HandleFunc(week, handleUpdate(func(r *http.Request, p api.TrainingProgramWeekPayload) error {
		ids, err := pathInts(r, "id", "weekId")
		if err != nil {
			return err
		}
		return store.UpdateWeek(ids[0], ids[1], p)
	})).Methods(http.MethodPut).Name(routeName("program-week", "update"))
	r.HandleFunc(week, handleAction(func(r *http.Request) error {
		ids, err := pathInts(r, "id", "weekId")
		if err != nil {
			return err
		}
		return store.DeleteWeek(ids[0], ids[1])
	})).Methods(http.MethodDelete).Name(routeName("program-week", "delete"))

	r.HandleFunc(pWorkouts, handleRead(func(r *http.Request) ([]api.TrainingProgramWorkout, error) {
		ids, err := pathInts(r, "id", "weekId")
		if err != nil {
			return nil, err
		}
		return store.ListProgramWorkouts(ids[0], ids[1])
	})).Methods(http.MethodGet).Name(routeName("program-workout", "list"))
	r.HandleFunc(pWorkout, handleRead(func(r *http.Request) (api.TrainingProgramWorkout, error) {
		ids, err := pathInts(r, "id", "weekId", "workoutId")
		if err != nil {
			return api.TrainingProgramWorkout{}, err
		}
		return store.GetProgramWorkout(ids[0], ids[1], ids[2])
	})).Methods(http.MethodGet).Name(routeName("program-workout", "get"))
	r.HandleFunc(pWorkouts, handleCreate(func(r *http.Request, p api.TrainingProgramWorkoutPayload) (api.TrainingProgramWorkout, error) {
		ids, err := pathInts(r, "id", "weekId")
		if err != nil {
			return api.TrainingProgramWorkout{}, err
		}
		return store.CreateProgramWorkout(ids[0], ids[1], p)
	})).Methods(http.MethodPost).Name(routeName("program-workout", "create"))
	r.HandleFunc(pWorkout, handleUpdate(func(r *http.Request, p api.TrainingProgramWorkoutPayload) error {
		ids, err := pathInts(r, "id", "weekId", "workoutId")
		if err != nil {
			return err
		}
		return store.UpdateProgramWorkout(ids[0], ids[1], ids[2], p)
	})).Methods(http.MethodPut).Name(routeName("program-workout", "update"))
	r.HandleFunc(pWorkout, handleAction(func(r *http.Request) error {
		ids, err := pathInts(r, "id", "weekId", "workoutId")
		if err != nil {
			return err
		}
		return store.DeleteProgramWorkout(ids[0], ids[1], ids[2])
	})).Methods(http.MethodDelete).Name(routeName("program-workout", "delete"))

	r.HandleFunc(pExers, handleRead(func(r *http.Request) ([]api.TrainingProgramExercise, error) {
		ids, err := pathInts(r, "id", "weekId", "workoutId")
		if err != nil {
			return nil, err
		}
		return store.ListProgramExercises(ids[0], ids[1], ids[2])
	})).Methods(http.MethodGet).Name(routeName("program-exercise", "list"))
	r.HandleFunc(pExer, handleRead(func(r *http.Request) (api.TrainingProgramExercise, error) {
		ids, err := pathInts(r, "id", "weekId", "workoutId", "exerciseId")
		if err != nil {
			return api.TrainingProgramExercise{}, err
		}
		return store.GetProgramExercise(ids[0], ids[1], ids[2], ids[3])
	})).Methods(http.MethodGet).Name(routeName("program-exercise", "get"))
	r.HandleFunc(pExers, handleCreate(func(r *http.Request, p api.TrainingProgramExercisePayload) (api.TrainingProgramExercise, error) {
		ids, err := pathInts(r, "id", "weekId", "workoutId")
		if err != nil {
			return api.TrainingProgramExercise{}, err
		}
		return store.CreateProgramExercise(ids[0], ids[1], ids[2], p)
	})).Methods(http.MethodPost).Name(routeName("program-exercise", "create"))
	r.HandleFunc(pExer, handleUpdate(func(r *http.Request, p api.TrainingProgramExercisePayload) error {
		ids, err := pathInts(r, "id", "weekId", "workoutId", "exerciseId")
		if err != nil {
			return err
		}
		return store.UpdateProgramExercise(ids[0], ids[1], ids[2], ids[3], p)
	})).Methods(http.MethodPut).Name(routeName("program-exercise", "update"))
	r.HandleFunc(pExer, handleAction(func(r *http.Request) error {
		ids, err := pathInts(r, "id", "weekId", "workoutId", "exerciseId")
		if err != nil {
			return err
		}
		return store.DeleteProgramExercise(ids[0], ids[1], ids[2], ids[3])
	})).Methods(http.MethodDelete).Name(routeName("program-exercise", "delete"))
}
