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

	"github.com/rjpontefract/b-em-sub001/archivefs"
	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/digest"
	"github.com/rjpontefract/b-em-sub001/hardware/acia"
	"github.com/rjpontefract/b-em-sub001/hardware/serial"
	"github.com/rjpontefract/b-em-sub001/tape"
	"github.com/rjpontefract/b-em-sub001/tape/soundload"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/tape/tapeio"
	"github.com/rjpontefract/b-em-sub001/wavwriter"
	"github.com/urfave/cli/v3"
)

// sentinel patterns for the command line
const (
	WrongArgs   = "%s: expected %d argument(s)"
	CaptureWait = "capture: transmitter did not become ready"
)

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.Args().Len() != n {
		return curated.Errorf(WrongArgs, cmd.Name, n)
	}
	return nil
}

// loadTape creates an environment for the command and loads the named file
// into a new tape.
func (a *app) loadTape(cmd *cli.Command, path string) (*tape.Tape, error) {
	env, err := a.environment(cmd)
	if err != nil {
		return nil, err
	}
	tp := tape.NewTape(env)
	if err := tp.LoadFile(path); err != nil {
		return nil, err
	}
	return tp, nil
}

func hms(tones int32) string {
	h, m, s := tapeclock.HoursMinutesSeconds(tones)
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func (a *app) infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "describe a tape file",
		ArgsUsage: "FILE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}

			tp, err := a.loadTape(cmd, cmd.Args().First())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "format:   %s\n", tp.FileType())
			fmt.Fprintf(a.out, "duration: %s\n", hms(tp.Duration()))

			dig, err := digest.Tape(tp)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "digest:   %s (%d tones)\n", dig, dig.Count())

			ft := tp.FileType()
			if ft&tape.FileUEF == tape.FileUEF {
				u := tp.UEF()
				g := u.Globals()
				fmt.Fprintf(a.out, "chunks:   %d\n", len(u.Chunks()))
				if g.ShortTitle != "" {
					fmt.Fprintf(a.out, "title:    %s\n", g.ShortTitle)
				}
				for _, o := range g.Origins {
					fmt.Fprintf(a.out, "origin:   %s\n", o)
				}
				for _, s := range g.Instructions {
					fmt.Fprintf(a.out, "info:     %s\n", s)
				}
				if g.MakeUEF.Valid {
					fmt.Fprintf(a.out, "makeuef:  %d.%d\n", g.MakeUEF.Major, g.MakeUEF.Minor)
				}
			}
			if ft&tape.FileCSW == tape.FileCSW {
				c := tp.CSW()
				fmt.Fprintf(a.out, "csw:      v%d.%d %d Hz, %d pulses\n", c.Header.Major, c.Header.Minor,
					c.Header.Rate, len(c.Pulses()))
			}
			if ft&tape.FileTIBET == tape.FileTIBET {
				fmt.Fprintf(a.out, "spans:    %d\n", len(tp.TIBET().Spans()))
			}

			return nil
		},
	}
}

func (a *app) catalogueCommand() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "list the files on a tape",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "phantoms",
				Usage: "include blocks that look like phantoms",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}

			tp, err := a.loadTape(cmd, cmd.Args().First())
			if err != nil {
				return err
			}

			return tp.Catalogue(!cmd.Bool("phantoms"), func(e tape.CatalogueEntry) {
				fmt.Fprintln(a.out, e.String())
			})
		},
	}
}

func (a *app) listCommand() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "list the tape files in a directory or zip archive",
		ArgsUsage: "PATH",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}

			var afs archivefs.Path
			defer afs.Close()

			if err := afs.Set(cmd.Args().First()); err != nil {
				return err
			}

			entries, err := afs.List()
			if err != nil {
				return err
			}

			for _, e := range entries {
				if e.IsDir {
					fmt.Fprintf(a.out, "%s/\n", e.Name)
					continue
				}
				if _, _, err := tape.FileTypeFromPath(e.Name); err == nil {
					fmt.Fprintln(a.out, e.Name)
				}
			}

			return nil
		},
	}
}

func (a *app) convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "play a tape through an emulated ACIA and save what it records",
		ArgsUsage: "IN OUT",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "compress",
				Usage: "compress the output",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}

			tp, err := a.loadTape(cmd, cmd.Args().Get(0))
			if err != nil {
				return err
			}

			if cmd.IsSet("compress") {
				cfg := tp.Config()
				cfg.Compress = cmd.Bool("compress")
				tp.SetConfig(cfg)
			}

			dst, err := tp.Convert()
			if err != nil {
				return err
			}

			out := cmd.Args().Get(1)
			if err := dst.SaveFile(out); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s: %s\n", out, hms(dst.Duration()))

			return nil
		},
	}
}

func (a *app) importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "make a CSW file from a WAV or MP3 recording",
		ArgsUsage: "AUDIO OUT",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}

			env, err := a.environment(cmd)
			if err != nil {
				return err
			}

			in := cmd.Args().Get(0)
			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()

			c, err := soundload.Load(env, in, f)
			if err != nil {
				return err
			}

			data, err := c.Save(tape.NewTape(env).Config().Compress)
			if err != nil {
				return err
			}

			out := cmd.Args().Get(1)
			if err := tapeio.WriteFile(out, data); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s: %d pulses, %s\n", out, len(c.Pulses()), hms(c.Duration()))

			return nil
		},
	}
}

func (a *app) exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write a tape as a WAV file",
		ArgsUsage: "IN OUT",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}

			tp, err := a.loadTape(cmd, cmd.Args().Get(0))
			if err != nil {
				return err
			}

			// pulses are only held by the CSW codec
			if tp.FileType()&tape.FileCSW != tape.FileCSW {
				tp, err = tp.Convert()
				if err != nil {
					return err
				}
			}

			env, err := a.environment(cmd)
			if err != nil {
				return err
			}
			return wavwriter.WriteFile(env, cmd.Args().Get(1), tp.CSW())
		},
	}
}

func (a *app) captureCommand() *cli.Command {
	return &cli.Command{
		Name:      "capture",
		Usage:     "send standard input through the RS423 port to a file or serial device",
		ArgsUsage: "DEST",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "baud",
				Value: 9600,
				Usage: "baud rate of the serial ULA",
			},
			&cli.BoolFlag{
				Name:  "device",
				Usage: "DEST is a serial device rather than a file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}

			env, err := a.environment(cmd)
			if err != nil {
				return err
			}

			baud := int(cmd.Int("baud"))
			rate, err := serial.RateBits(baud)
			if err != nil {
				return err
			}

			var sink *serial.FileSink
			if cmd.Bool("device") {
				sink, err = serial.OpenDevice(cmd.Args().First(), env.Prefs.Serial.DeviceBaud.Get().(int))
			} else {
				sink, err = serial.CreateFileSink(cmd.Args().First())
			}
			if err != nil {
				return err
			}

			ac := acia.NewACIA(env, "rs423", nil)
			u := serial.NewULA(env, ac, nil)
			u.Write(serial.ControlRS423 | rate)
			if err := u.SelectTransport(serial.TransportFileSink, sink); err != nil {
				_ = sink.Close()
				return err
			}

			// 8N1 with the clocks divided by 16
			if err := ac.Write(acia.ControlRegister, 0x15); err != nil {
				return err
			}

			n, err := transmit(ctx, u, ac, a.in)
			if err != nil {
				_ = u.SelectTransport(serial.TransportNone, nil)
				return err
			}

			if err := u.SelectTransport(serial.TransportNone, nil); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s: %d bytes\n", sink, n)

			return nil
		},
	}
}

// transmit writes every byte from the reader to the ACIA, running the ULA
// until the transmitter is ready for each one.
func transmit(ctx context.Context, u *serial.ULA, ac *acia.ACIA, r io.Reader) (int, error) {
	// 2 MHz cycles in one frame at the slowest baud rate
	const patience = 2000000 * 10 / 75

	var n int
	buf := make([]byte, 4096)

	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		m, rerr := r.Read(buf)
		for _, b := range buf[:m] {
			var waited int
			for ac.Status()&acia.StatusTDRE != acia.StatusTDRE {
				if waited > patience {
					return n, curated.Errorf(CaptureWait)
				}
				if _, err := u.Tick2MHz(16); err != nil {
					return n, err
				}
				waited += 16
			}
			if err := ac.Write(acia.DataRegister, b); err != nil {
				return n, err
			}
			n++
		}

		if rerr == io.EOF {
			return n, nil
		}
		if rerr != nil {
			return n, rerr
		}
	}
}
