package main

import (
	"fmt"

	"github.com/2beens/liftlog/internal/draft"

	"github.com/urfave/cli/v2"
)

type setView struct {
	ID        string   `json:"id" yaml:"id"`
	Weight    float64  `json:"weight" yaml:"weight"`
	Reps      int      `json:"reps" yaml:"reps"`
	RPE       *float64 `json:"rpe,omitempty" yaml:"rpe,omitempty"`
	Notes     *string  `json:"notes,omitempty" yaml:"notes,omitempty"`
	State     string   `json:"state" yaml:"state"`
	ServerID  *int     `json:"serverId,omitempty" yaml:"serverId,omitempty"`
	Persisted bool     `json:"persisted" yaml:"persisted"`
	Staged    bool     `json:"staged,omitempty" yaml:"staged,omitempty"`
}

type groupView struct {
	ExerciseID int       `json:"exerciseId" yaml:"exerciseId"`
	Name       string    `json:"name" yaml:"name"`
	Sets       []setView `json:"sets" yaml:"sets"`
}

type draftView struct {
	WorkoutID   *int        `json:"workoutId,omitempty" yaml:"workoutId,omitempty"`
	Workout     string      `json:"workout" yaml:"workout"`
	Name        string      `json:"name" yaml:"name"`
	NameSaved   bool        `json:"nameSaved" yaml:"nameSaved"`
	Notes       string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	NotesSaved  bool        `json:"notesSaved" yaml:"notesSaved"`
	Exercises   []groupView `json:"exercises" yaml:"exercises"`
	Unpersisted int         `json:"unpersisted" yaml:"unpersisted"`
}

func newSetView(s draft.SetDraft) setView {
	return setView{
		ID:        s.ID,
		Weight:    s.Weight,
		Reps:      s.Reps,
		RPE:       s.RPE,
		Notes:     s.Notes,
		State:     string(s.State),
		ServerID:  s.ServerID,
		Persisted: s.IsPersisted(),
		Staged:    s.Staged != nil,
	}
}

func newDraftView(state draft.State) draftView {
	view := draftView{
		WorkoutID:   state.WorkoutID,
		Workout:     string(state.WorkoutState),
		Name:        state.Name,
		NameSaved:   state.NameSaved,
		Notes:       state.Notes,
		NotesSaved:  state.NotesSaved,
		Exercises:   make([]groupView, len(state.Groups)),
		Unpersisted: len(state.Unpersisted()),
	}
	for i, g := range state.Groups {
		gv := groupView{ExerciseID: g.ExerciseID, Name: g.Name, Sets: make([]setView, len(g.Sets))}
		for j, s := range g.Sets {
			gv.Sets[j] = newSetView(s)
		}
		view.Exercises[i] = gv
	}
	return view
}

func (r *runner) printDraft() error {
	return r.out.print(newDraftView(r.app.editor.State()))
}

// draftAction runs do and prints the resulting draft, or the error.
func (r *runner) draftAction(do func(c *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if err := do(c); err != nil {
			return outputError(err)
		}
		return r.printDraft()
	}
}

func (r *runner) draftCmd() *cli.Command {
	return &cli.Command{
		Name:  "draft",
		Usage: "Build the in-progress workout; every change is saved locally and synced",
		Action: func(c *cli.Context) error {
			return r.printDraft()
		},
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the current draft",
				Action: func(c *cli.Context) error {
					return r.printDraft()
				},
			},
			{
				Name:      "add-exercise",
				Usage:     "Add an exercise group; the first one creates the remote workout",
				ArgsUsage: "<exercise id>",
				Action: r.draftAction(func(c *cli.Context) error {
					id, err := argInt(c, 0, "exercise id")
					if err != nil {
						return err
					}
					exercise, err := r.app.queries.Exercise(c.Context, id)
					if err != nil {
						return err
					}
					return r.app.editor.AddExercise(c.Context, *exercise)
				}),
			},
			{
				Name:      "remove-exercise",
				Usage:     "Remove an exercise group from the draft (sets already saved stay on the server)",
				ArgsUsage: "<exercise id>",
				Action: r.draftAction(func(c *cli.Context) error {
					id, err := argInt(c, 0, "exercise id")
					if err != nil {
						return err
					}
					orphaned, err := r.app.editor.RemoveExercise(c.Context, id)
					if err != nil {
						return err
					}
					if len(orphaned) > 0 {
						r.out.message("sets left on the server: %v", orphaned)
					}
					return nil
				}),
			},
			{
				Name:      "add-set",
				Usage:     "Add a set to an exercise group",
				ArgsUsage: "<exercise id> <WEIGHTxREPS[@RPE]>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "notes", Usage: "set notes"},
				},
				Action: r.draftAction(func(c *cli.Context) error {
					id, err := argInt(c, 0, "exercise id")
					if err != nil {
						return err
					}
					in, err := parseSet(c.Args().Get(1))
					if err != nil {
						return err
					}
					if c.IsSet("notes") {
						notes := c.String("notes")
						in.Notes = &notes
					}
					_, err = r.app.editor.AddSet(c.Context, id, in)
					return err
				}),
			},
			{
				Name:      "edit-set",
				Usage:     "Stage changes to a saved set, and save them with --save",
				ArgsUsage: "<set id>",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "weight", Usage: "new weight"},
					&cli.IntFlag{Name: "reps", Usage: "new reps"},
					&cli.Float64Flag{Name: "rpe", Usage: "new rpe"},
					&cli.StringFlag{Name: "notes", Usage: "new notes"},
					&cli.BoolFlag{Name: "save", Usage: "save the staged edit right away"},
				},
				Action: r.draftAction(func(c *cli.Context) error {
					localID := c.Args().First()
					if localID == "" {
						return fmt.Errorf("missing set id")
					}
					var patch draft.SetPatch
					if c.IsSet("weight") {
						v := c.Float64("weight")
						patch.Weight = &v
					}
					if c.IsSet("reps") {
						v := c.Int("reps")
						patch.Reps = &v
					}
					if c.IsSet("rpe") {
						v := c.Float64("rpe")
						patch.RPE = &v
					}
					if c.IsSet("notes") {
						v := c.String("notes")
						patch.Notes = &v
					}
					if _, err := r.app.editor.StageSetEdit(c.Context, localID, patch); err != nil {
						return err
					}
					if !c.Bool("save") {
						return nil
					}
					_, err := r.app.editor.SaveSetEdit(c.Context, localID)
					return err
				}),
			},
			{
				Name:      "save-edit",
				Usage:     "Send a staged set edit",
				ArgsUsage: "<set id>",
				Action: r.draftAction(func(c *cli.Context) error {
					_, err := r.app.editor.SaveSetEdit(c.Context, c.Args().First())
					return err
				}),
			},
			{
				Name:      "cancel-edit",
				Usage:     "Drop a staged set edit",
				ArgsUsage: "<set id>",
				Action: r.draftAction(func(c *cli.Context) error {
					_, err := r.app.editor.DiscardSetEdit(c.Context, c.Args().First())
					return err
				}),
			},
			{
				Name:  "retry",
				Usage: "Re-send every set the server has not confirmed",
				Action: r.draftAction(func(c *cli.Context) error {
					return r.app.editor.RetryUnpersisted(c.Context)
				}),
			},
			{
				Name:      "name",
				Usage:     "Rename the workout",
				ArgsUsage: "<name>",
				Action: r.draftAction(func(c *cli.Context) error {
					return r.app.editor.SetName(c.Context, c.Args().First())
				}),
			},
			{
				Name:      "notes",
				Usage:     "Set the workout notes",
				ArgsUsage: "<notes>",
				Action: r.draftAction(func(c *cli.Context) error {
					return r.app.editor.SetNotes(c.Context, c.Args().First())
				}),
			},
			{
				Name:  "start",
				Usage: "Mark the remote workout started",
				Action: r.draftAction(func(c *cli.Context) error {
					return r.app.editor.Start(c.Context)
				}),
			},
			{
				Name:  "finish",
				Usage: "Complete the workout and clear the draft",
				Action: func(c *cli.Context) error {
					id, err := r.app.editor.Finish(c.Context)
					if err != nil {
						return outputError(err)
					}
					r.out.message("workout %d completed", id)
					return nil
				},
			},
			{
				Name:  "discard",
				Usage: "Throw the draft away locally (nothing is deleted remotely)",
				Action: func(c *cli.Context) error {
					if err := r.app.editor.Discard(c.Context); err != nil {
						return outputError(err)
					}
					r.out.message("draft discarded")
					return nil
				},
			},
		},
	}
}

func (r *runner) quickLogCmd() *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "Log a whole workout in one go, without a draft",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "workout name"},
			&cli.StringFlag{Name: "notes", Usage: "workout notes"},
			&cli.StringSliceFlag{Name: "entry", Aliases: []string{"x"}, Required: true, Usage: "EXERCISE_ID:WEIGHTxREPS[@RPE],..., repeatable"},
		},
		Action: func(c *cli.Context) error {
			params := draft.QuickLogParams{Name: c.String("name"), Notes: c.String("notes")}
			for _, raw := range c.StringSlice("entry") {
				entry, err := parseQuickEntry(raw)
				if err != nil {
					return outputError(err)
				}
				params.Entries = append(params.Entries, entry)
			}

			workoutID, err := draft.QuickLog(c.Context, r.app.queries, params)
			if workoutID == 0 && err != nil {
				return outputError(err)
			}
			workout, getErr := r.app.queries.Workout(c.Context, workoutID)
			if getErr != nil {
				return outputError(getErr)
			}
			if printErr := r.out.print(workout); printErr != nil {
				return printErr
			}
			if err != nil {
				return outputError(fmt.Errorf("some sets were not saved: %w", err))
			}
			return nil
		},
	}
}
