package main

import (
	"github.com/2beens/liftlog/internal/api"

	"github.com/urfave/cli/v2"
)

func (r *runner) exercisesCmd() *cli.Command {
	return &cli.Command{
		Name:  "exercises",
		Usage: "List and manage exercises",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all exercises",
				Action: func(c *cli.Context) error {
					exercises, err := r.app.queries.Exercises(c.Context)
					if err != nil {
						return outputError(err)
					}
					return r.out.print(exercises)
				},
			},
			{
				Name:      "show",
				Usage:     "Show one exercise",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := argInt(c, 0, "exercise id")
					if err != nil {
						return outputError(err)
					}
					exercise, err := r.app.queries.Exercise(c.Context, id)
					if err != nil {
						return outputError(err)
					}
					return r.out.print(exercise)
				},
			},
			{
				Name:  "add",
				Usage: "Create an exercise",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "exercise name"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "exercise description"},
					&cli.IntSliceFlag{Name: "muscle", Aliases: []string{"m"}, Usage: "worked muscle id, repeatable"},
				},
				Action: func(c *cli.Context) error {
					muscleIDs := c.IntSlice("muscle")
					if muscleIDs == nil {
						muscleIDs = []int{}
					}
					exercise, err := r.app.queries.CreateExercise(c.Context, api.ExercisePayload{
						Name:        c.String("name"),
						Description: c.String("description"),
						MuscleIDs:   muscleIDs,
					})
					if err != nil {
						return outputError(err)
					}
					return r.out.print(exercise)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete an exercise",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := argInt(c, 0, "exercise id")
					if err != nil {
						return outputError(err)
					}
					if err := r.app.queries.DeleteExercise(c.Context, id); err != nil {
						return outputError(err)
					}
					r.out.message("exercise %d deleted", id)
					return nil
				},
			},
		},
	}
}

func (r *runner) musclesCmd() *cli.Command {
	return &cli.Command{
		Name:  "muscles",
		Usage: "List muscles",
		Action: func(c *cli.Context) error {
			muscles, err := r.app.queries.Muscles(c.Context)
			if err != nil {
				return outputError(err)
			}
			return r.out.print(muscles)
		},
	}
}
