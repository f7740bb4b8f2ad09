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

// Package audio turns the sound timer into output. A Recorder captures the
// tone to a WAV file, buffering every sample in memory until Close.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	SampleRate = 44100
	BitDepth   = 8
	Frequency  = 440
	FrameRate  = 60

	SamplesPerFrame = SampleRate / FrameRate

	silence   = 0x80
	amplitude = 0x40
	period    = SampleRate / Frequency
)

// Speaker is updated once per frame with the current sound timer.
type Speaker interface {
	Update(sound uint8) error
}

type Recorder struct {
	filename string
	buffer   []int
	phase    int
}

func NewRecorder(filename string) *Recorder {
	return &Recorder{
		filename: filename,
		buffer:   make([]int, 0, SamplesPerFrame*FrameRate),
	}
}

// Update appends one frame of samples: a square wave while sound is
// non-zero, silence otherwise.
func (r *Recorder) Update(sound uint8) error {
	for i := 0; i < SamplesPerFrame; i++ {
		sample := silence

		if sound > 0 {
			if r.phase < period/2 {
				sample += amplitude
			} else {
				sample -= amplitude
			}
			r.phase = (r.phase + 1) % period
		} else {
			r.phase = 0
		}

		r.buffer = append(r.buffer, sample)
	}

	return nil
}

// Samples returns the number of buffered samples.
func (r *Recorder) Samples() int {
	return len(r.buffer)
}

// Close encodes the buffered samples to the recorder's file.
func (r *Recorder) Close() (rerr error) {
	f, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wav: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleRate, BitDepth, 1, 1)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           r.buffer,
		SourceBitDepth: BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	return nil
}

// Bell rings the terminal bell each time the tone starts.
type Bell struct {
	Out io.Writer

	active bool
}

func (b *Bell) Update(sound uint8) error {
	active := sound > 0
	defer func() { b.active = active }()

	if active && !b.active {
		if _, err := io.WriteString(b.Out, "\a"); err != nil {
			return fmt.Errorf("bell: %w", err)
		}
	}

	return nil
}

// Multi fans updates out to several speakers.
type Multi []Speaker

func (m Multi) Update(sound uint8) error {
	var errs []error

	for _, speaker := range m {
		if err := speaker.Update(sound); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Close closes every speaker that is an io.Closer.
func (m Multi) Close() error {
	var errs []error

	for _, speaker := range m {
		if closer, ok := speaker.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}
