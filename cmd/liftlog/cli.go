package main

import (
	"io"

	"github.com/urfave/cli/v2"
)

// runner carries the per-invocation state from Before to the command actions.
type runner struct {
	app *application
	out printer
}

func newCLIApp(out io.Writer) *cli.App {
	r := &runner{out: printer{out: out}}

	app := &cli.App{
		Name:    "liftlog",
		Usage:   "Track workouts, sets and training programs",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Aliases: []string{"e"}, Value: "development", Usage: "environment [prod | production | dev | development]", EnvVars: []string{"LIFTLOG_ENV"}},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "./config.toml", Usage: "path for the TOML config file", EnvVars: []string{"LIFTLOG_CONFIG"}},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: formatYAML, Usage: "output format: yaml|json"},
		},
		Before: func(c *cli.Context) error {
			r.out.format = c.String("output")
			a, err := newApplication(c.Context, c.String("env"), c.String("config"))
			if err != nil {
				return outputError(err)
			}
			r.app = a
			return nil
		},
		After: func(c *cli.Context) error {
			if r.app == nil {
				return nil
			}
			return r.app.close()
		},
		Commands: []*cli.Command{
			r.loginCmd(),
			r.signupCmd(),
			r.logoutCmd(),
			r.whoamiCmd(),
			r.exercisesCmd(),
			r.musclesCmd(),
			r.workoutsCmd(),
			r.programsCmd(),
			r.dashboardCmd(),
			r.draftCmd(),
			r.quickLogCmd(),
		},
	}
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}
