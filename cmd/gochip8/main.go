// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/lassandro/gochip8/pkg/audio"
	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/lassandro/gochip8/pkg/runner"
	"github.com/lassandro/gochip8/pkg/statsview"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

var helpvar bool
var debugvar bool
var tracevar bool
var quietvar bool
var versionvar bool
var bellvar bool
var sdlvar bool
var statsvar bool
var hzvar int
var scalevar int
var framesvar int
var wavvar string

const usage = "gochip8 [flags] filename"

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.BoolVar(&tracevar, "trace", false, "Enables debug level logging with an instruction trace")
	flag.BoolVar(&quietvar, "q", false, "Only log errors")
	flag.BoolVar(&versionvar, "version", false, "Displays the version")
	flag.BoolVar(&bellvar, "bell", false, "Rings the terminal bell when the tone starts")
	flag.BoolVar(&sdlvar, "sdl", false, "Opens an SDL window (requires the sdl build tag)")
	flag.BoolVar(&statsvar, "statsview", false, "Serves runtime statistics (requires the statsview build tag)")
	flag.IntVar(&hzvar, "hz", 600, "Instructions executed per second (at least 60)")
	flag.IntVar(&scalevar, "scale", 10, "SDL window pixel scale")
	flag.IntVar(&framesvar, "frames", 0, "Runs this many frames headless and prints the display")
	flag.StringVar(&wavvar, "wav", "", "Records the tone to a WAV file")
}

func createLogger() *log.Logger {
	cfg := log.DefaultConfig()
	if tracevar {
		cfg.Level = log.DebugLevel
	} else if quietvar {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func gochip8() int {
	flag.Parse()

	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	if versionvar {
		fmt.Printf("gochip8 version: %s\n", buildinfo.Version(version, commit, date))
		return 0
	}

	logger := createLogger()

	cycles, err := cyclesPerFrame(hzvar)

	if err != nil {
		logger.Error("Invalid -hz", log.Err(err))
		return 1
	}

	args := flag.Args()

	if len(args) != 1 {
		logger.Error(usage)
		return 1
	}

	mc, image, err := loadFile(args[0])

	if err != nil {
		logger.Error("Loading program failed", log.Err(err))
		return 1
	}

	logger.Debug("Program loaded",
		log.String("file", args[0]),
		log.Int("size", len(image)))

	if framesvar > 0 {
		return headless(mc, logger, cycles)
	}

	if statsvar {
		if statsview.Available() {
			statsview.Launch(os.Stderr)
		} else {
			logger.Warn("Statsview is not available in this build")
		}
	}

	r := runner.New(mc, logger)
	r.CyclesPerFrame = cycles
	r.Trace = tracevar

	speakers := audio.Multi{}

	if wavvar != "" {
		speakers = append(speakers, audio.NewRecorder(wavvar))
	}

	if bellvar {
		speakers = append(speakers, &audio.Bell{Out: os.Stdout})
	}

	if len(speakers) > 0 {
		r.Speaker = speakers

		defer func() {
			if err := speakers.Close(); err != nil {
				logger.Error("Closing audio failed", log.Err(err))
			}
		}()
	}

	front, err := newFrontend(logger)

	if err != nil {
		logger.Error("Opening display failed", log.Err(err))
		return 1
	}

	defer func() {
		if err := front.Close(); err != nil {
			logger.Error("Closing display failed", log.Err(err))
		}
	}()

	r.Renderer = front
	r.Input = front

	var ctx context.Context

	if debugvar {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(context.Background())
		defer cancel()

		dbg := &debugger.Debugger{
			Binary:      image,
			HandleBreak: handleBreak,
			HandleRead:  handleRead,
			HandleWrite: handleWrite,
		}
		mc.Debugger = dbg
		stop = cancel

		c := make(chan os.Signal, 1)
		defer close(c)

		signal.Notify(c, os.Interrupt)
		defer signal.Stop(c)

		go func() {
			for range c {
				fmt.Println()
				dbg.Break = true
			}
		}()

		debugREPL(dbg, mc)

		if shouldexit {
			return 0
		}
	} else {
		ctx = app.Context()
	}

	err = r.Run(ctx)

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Machine stopped", log.Err(err))
		return 1
	}

	return 0
}

// cyclesPerFrame converts an instruction rate to whole instructions per
// frame. Rates below one instruction per frame are rejected.
func cyclesPerFrame(hz int) (int, error) {
	if hz < runner.DefaultFrameRate {
		return 0, fmt.Errorf("%d instructions per second is below %d", hz, runner.DefaultFrameRate)
	}

	return hz / runner.DefaultFrameRate, nil
}

func loadFile(filename string) (*machine.Machine, []byte, error) {
	image, err := os.ReadFile(filename)

	if err != nil {
		return nil, nil, fmt.Errorf("reading file: %w", err)
	}

	mc := machine.New()

	if err := mc.LoadProgram(image); err != nil {
		return nil, nil, fmt.Errorf("loading '%s': %w", filename, err)
	}

	return mc, image, nil
}

func headless(mc *machine.Machine, logger *log.Logger, cycles int) int {
	r := runner.New(mc, logger)
	r.CyclesPerFrame = cycles
	r.Trace = tracevar

	for i := 0; i < framesvar; i++ {
		if err := r.RunFrame(); err != nil {
			logger.Error("Machine stopped", log.Err(err))
			return 1
		}
	}

	fmt.Println(mc.State.Display.String())
	return 0
}

func main() {
	os.Exit(gochip8())
}
