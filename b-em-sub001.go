// This file is part of b-em-sub001.
//
// b-em-sub001 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// b-em-sub001 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with b-em-sub001.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rjpontefract/b-em-sub001/environment"
	"github.com/rjpontefract/b-em-sub001/hardware/preferences"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/notifications"
	"github.com/rjpontefract/b-em-sub001/prefs"
	"github.com/rjpontefract/b-em-sub001/statsview"
	"github.com/rjpontefract/b-em-sub001/version"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(ctx, os.Args)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "* error: %v\n", err)
		os.Exit(10)
	}
}

// app holds the streams used by the commands so that they can be replaced in
// tests.
type app struct {
	in  io.Reader
	out io.Writer
	err io.Writer

	stopStats func()
}

// notifier logs every notice it receives.
type notifier struct{}

func (notifier) Notify(notice notifications.Notice, detail string) error {
	logger.Logf(logger.Allow, "notify", "%s %s", notice, detail)
	return nil
}

func newApp(in io.Reader, out io.Writer, errOut io.Writer) *cli.Command {
	a := &app{in: in, out: out, err: errOut}

	ver, _, _ := version.Version()

	return &cli.Command{
		Name:      "b-em-sub001",
		Usage:     "BBC Micro cassette tape tool",
		Version:   ver,
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefs",
				Usage: `preference values for this run, eg. "tape.oneof::stop; tape.compress::false"`,
			},
			&cli.StringFlag{
				Name:      "prefsfile",
				Usage:     "preferences file to use instead of the default",
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:  "log",
				Usage: "echo log to stderr",
			},
			&cli.BoolFlag{
				Name:  "statsview",
				Usage: fmt.Sprintf("run stats server (available: %v)", statsview.Available()),
			},
			&cli.StringFlag{
				Name:  "statsview-addr",
				Value: statsview.DefaultAddress,
				Usage: "address of the stats server",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("log") {
				logger.SetEcho(a.err, false)
			}
			if cmd.Bool("statsview") {
				a.stopStats = statsview.Launch(a.err, cmd.String("statsview-addr"))
			}
			prefs.PushCommandLineStack(cmd.String("prefs"))
			return ctx, nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if unused := prefs.PopCommandLineStack(); unused != "" {
				fmt.Fprintf(a.err, "* unused preferences: %s\n", unused)
			}
			logger.SetEcho(nil, false)
			if a.stopStats != nil {
				a.stopStats()
			}
			return nil
		},
		Commands: []*cli.Command{
			a.infoCommand(),
			a.convertCommand(),
			a.catalogueCommand(),
			a.listCommand(),
			a.importCommand(),
			a.exportCommand(),
			a.captureCommand(),
		},
	}
}

// environment creates the environment for a command. The preferences are
// loaded from disk with the command line preferences applied.
func (a *app) environment(cmd *cli.Command) (*environment.Environment, error) {
	p, err := preferences.NewPreferences(cmd.String("prefsfile"))
	if err != nil {
		return nil, err
	}
	return environment.NewEnvironment(environment.MainEmulation, p, notifier{})
}
