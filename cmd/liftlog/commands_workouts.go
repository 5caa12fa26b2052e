package main

import (
	"github.com/2beens/liftlog/internal/api"
	"github.com/2beens/liftlog/internal/dashboard"

	"github.com/urfave/cli/v2"
)

func (r *runner) workoutAction(verb string, do func(c *cli.Context, id int) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		id, err := argInt(c, 0, "workout id")
		if err != nil {
			return outputError(err)
		}
		if err := do(c, id); err != nil {
			return outputError(err)
		}
		r.out.message("workout %d %s", id, verb)
		return nil
	}
}

func (r *runner) workoutsCmd() *cli.Command {
	return &cli.Command{
		Name:  "workouts",
		Usage: "Browse logged workouts",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List workouts, newest first",
				Flags: []cli.Flag{
					&cli.IntSliceFlag{Name: "id", Usage: "only these workout ids, repeatable"},
				},
				Action: func(c *cli.Context) error {
					var (
						workouts []api.Workout
						err      error
					)
					if ids := c.IntSlice("id"); len(ids) > 0 {
						workouts, err = r.app.queries.WorkoutsByIDs(c.Context, ids)
					} else {
						workouts, err = r.app.queries.Workouts(c.Context)
					}
					if err != nil {
						return outputError(err)
					}
					return r.out.print(workouts)
				},
			},
			{
				Name:      "show",
				Usage:     "Show a workout with its sets",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := argInt(c, 0, "workout id")
					if err != nil {
						return outputError(err)
					}
					workout, err := r.app.queries.Workout(c.Context, id)
					if err != nil {
						return outputError(err)
					}
					return r.out.print(workout)
				},
			},
			{
				Name:      "start",
				Usage:     "Mark a workout started",
				ArgsUsage: "<id>",
				Action: r.workoutAction("started", func(c *cli.Context, id int) error {
					return r.app.queries.StartWorkout(c.Context, id)
				}),
			},
			{
				Name:      "complete",
				Usage:     "Mark a workout and its sets completed",
				ArgsUsage: "<id>",
				Action: r.workoutAction("completed", func(c *cli.Context, id int) error {
					return r.app.queries.CompleteWorkout(c.Context, id)
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete a workout",
				ArgsUsage: "<id>",
				Action: r.workoutAction("deleted", func(c *cli.Context, id int) error {
					return r.app.queries.DeleteWorkout(c.Context, id)
				}),
			},
		},
	}
}

func (r *runner) programsCmd() *cli.Command {
	return &cli.Command{
		Name:  "programs",
		Usage: "Browse and start training programs",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List program summaries",
				Action: func(c *cli.Context) error {
					summaries, err := r.app.queries.ProgramSummaries(c.Context)
					if err != nil {
						return outputError(err)
					}
					return r.out.print(summaries)
				},
			},
			{
				Name:      "show",
				Usage:     "Show a program with its weeks, workouts and exercises",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := argInt(c, 0, "program id")
					if err != nil {
						return outputError(err)
					}
					program, err := r.app.queries.Program(c.Context, id)
					if err != nil {
						return outputError(err)
					}
					return r.out.print(program)
				},
			},
			{
				Name:  "create",
				Usage: "Create a program, optionally as a copy of a template",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "program name"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "program description"},
					&cli.IntFlag{Name: "weeks", Value: 1, Usage: "number of weeks"},
					&cli.IntFlag{Name: "from", Usage: "parent program id to copy"},
				},
				Action: func(c *cli.Context) error {
					payload := api.TrainingProgramPayload{
						Name:        c.String("name"),
						Description: c.String("description"),
						WeekCount:   c.Int("weeks"),
					}
					if c.IsSet("from") {
						parentID := c.Int("from")
						payload.ParentProgramID = &parentID
					}
					program, err := r.app.queries.CreateProgram(c.Context, payload)
					if err != nil {
						return outputError(err)
					}
					return r.out.print(program)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a program and everything under it",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := argInt(c, 0, "program id")
					if err != nil {
						return outputError(err)
					}
					if err := r.app.queries.DeleteProgram(c.Context, id); err != nil {
						return outputError(err)
					}
					r.out.message("program %d deleted", id)
					return nil
				},
			},
		},
	}
}

func (r *runner) dashboardCmd() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Summarize workouts and active programs",
		Action: func(c *cli.Context) error {
			summary, err := dashboard.Build(c.Context, r.app.queries)
			if err != nil {
				return outputError(err)
			}
			return r.out.print(summary)
		},
	}
}
