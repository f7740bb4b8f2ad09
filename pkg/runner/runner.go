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

// Package runner paces a machine in real time and connects it to a
// renderer, an input source and a speaker.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/keypad"
	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/retroenv/retrogolib/log"
)

const (
	DefaultFrameRate      = 60
	DefaultCyclesPerFrame = 10
)

type Renderer interface {
	Render(display *machine.Display) error
}

type Input interface {
	Poll(keys keypad.Latcher) error
}

type Speaker interface {
	Update(sound uint8) error
}

type Runner struct {
	Machine  *machine.Machine
	Renderer Renderer
	Input    Input
	Speaker  Speaker

	CyclesPerFrame int
	FrameRate      int

	Logger *log.Logger

	// Trace logs every executed instruction at debug level.
	Trace bool

	frames uint64
	steps  uint64
}

func New(mc *machine.Machine, logger *log.Logger) *Runner {
	return &Runner{
		Machine:        mc,
		CyclesPerFrame: DefaultCyclesPerFrame,
		FrameRate:      DefaultFrameRate,
		Logger:         logger,
	}
}

func (r *Runner) Frames() uint64 {
	return r.frames
}

func (r *Runner) Steps() uint64 {
	return r.steps
}

func (r *Runner) frameRate() int {
	if r.FrameRate <= 0 {
		return DefaultFrameRate
	}
	return r.FrameRate
}

func (r *Runner) cyclesPerFrame() int {
	if r.CyclesPerFrame <= 0 {
		return DefaultCyclesPerFrame
	}
	return r.CyclesPerFrame
}

// Run executes one frame per tick until the context is cancelled, the
// machine faults or the input asks to quit. A quit request returns nil.
func (r *Runner) Run(ctx context.Context) error {
	rate := r.frameRate()

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	r.Logger.Info("Starting machine",
		log.Int("frame_rate", rate),
		log.Int("cycles_per_frame", r.cyclesPerFrame()))

	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("Machine stopped",
				log.Stringer("elapsed", time.Since(start)),
				log.Int("frames", int(r.frames)))
			return ctx.Err()

		case <-ticker.C:
		}

		if err := r.RunFrame(); err != nil {
			if errors.Is(err, keypad.ErrQuit) {
				r.Logger.Info("Quit requested")
				return nil
			}
			return err
		}
	}
}

// RunFrame latches fresh input, executes one frame of instructions and then
// presents the display and sound state.
func (r *Runner) RunFrame() error {
	mc := r.Machine
	mc.ClearKeys()

	if r.Input != nil {
		if err := r.Input.Poll(mc); err != nil {
			return fmt.Errorf("polling input: %w", err)
		}
	}

	for i := 0; i < r.cyclesPerFrame(); i++ {
		if r.Trace {
			r.trace(mc)
		}

		if err := mc.Step(); err != nil {
			var fault *machine.Fault
			if errors.As(err, &fault) {
				r.Logger.Error("Machine fault",
					log.Err(fault.Err),
					log.Hex("pc", fault.Program),
					log.Hex("opcode", fault.Opcode))
			}
			return err
		}

		r.steps++
	}

	if mc.State.Dirty && r.Renderer != nil {
		if err := r.Renderer.Render(&mc.State.Display); err != nil {
			return fmt.Errorf("rendering display: %w", err)
		}
		mc.State.Dirty = false
	}

	if r.Speaker != nil {
		if err := r.Speaker.Update(mc.State.Sound); err != nil {
			return fmt.Errorf("updating speaker: %w", err)
		}
	}

	r.frames++

	if r.frames%uint64(r.frameRate()) == 0 {
		r.Logger.Debug("Frame statistics",
			log.Int("frames", int(r.frames)),
			log.Int("steps", int(r.steps)),
			log.Hex("pc", mc.State.Program),
			log.Int("pixels", mc.State.Display.Count()),
			log.Uint8("delay", mc.State.Delay),
			log.Uint8("sound", mc.State.Sound))
	}

	return nil
}

func (r *Runner) trace(mc *machine.Machine) {
	pc := mc.State.Program

	if int(pc)+1 >= machine.MemorySize {
		return
	}

	word := encoding.JoinWord(mc.State.Memory[pc], mc.State.Memory[pc+1])

	r.Logger.Debug("Step",
		log.Hex("pc", pc),
		log.Hex("opcode", word),
		log.String("ins", debugger.Disassemble(word)))
}
