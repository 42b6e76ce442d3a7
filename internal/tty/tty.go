/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

// Package tty runs a CHIP-8 virtual machine inside a terminal. The
// display is drawn with half-block characters, two CHIP-8 rows per line.
package tty

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// HoldFrames is how long a key stays pressed after it is typed. Terminals
// report key presses only, never releases.
const HoldFrames = 6

// KeyMap maps typed characters to CHIP-8 keys. The CHIP-8 keypad
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// is laid over the left side of a QWERTY keyboard.
var KeyMap = map[byte]uint{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

const (
	keyEscape = 0x1B
	keyCtrlC  = 0x03
	keyBell   = "\a"
)

// Driver runs the frame loop of a virtual machine against a terminal.
type Driver struct {
	vm     *chip8.CHIP_8
	logger *log.Logger
	out    *bufio.Writer
	cycles int

	// frames left before each key is released
	held [16]int

	// the sound timer was running last frame
	sounding bool
}

// New creates a Driver that draws to out, running cycles instructions
// per frame.
func New(vm *chip8.CHIP_8, logger *log.Logger, out io.Writer, cycles int) *Driver {
	return &Driver{
		vm:     vm,
		logger: logger,
		out:    bufio.NewWriter(out),
		cycles: cycles,
	}
}

// Run puts stdin into raw mode and runs the virtual machine until the
// context is done, escape is pressed or it faults.
func Run(ctx context.Context, vm *chip8.CHIP_8, logger *log.Logger, cycles int) error {
	fd := int(os.Stdin.Fd())

	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer func() { _ = term.Restore(fd, state) }()

		if w, h, err := term.GetSize(fd); err == nil && (w < chip8.Width || h < chip8.Height/2) {
			logger.Warn("Terminal is smaller than the display", log.Int("width", w), log.Int("height", h))
		}
	}

	d := New(vm, logger, os.Stdout, cycles)
	defer d.reset()

	return d.Run(ctx, readKeys(os.Stdin))
}

// readKeys forwards every byte read to a channel, which is closed when
// the reader fails.
func readKeys(r io.Reader) <-chan byte {
	keys := make(chan byte, 16)

	go func() {
		defer close(keys)

		buf := make([]byte, 16)
		for {
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				keys <- b
			}
			if err != nil {
				return
			}
		}
	}()

	return keys
}

// Run executes frames at 60 Hz, handling typed keys between frames.
func (d *Driver) Run(ctx context.Context, keys <-chan byte) error {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	d.clear()

	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if b == keyEscape || b == keyCtrlC {
				return nil
			}
			d.Type(b)
		case <-ticker.C:
			if err := d.Frame(); err != nil {
				return err
			}
		}
	}
}

// Type presses the CHIP-8 key mapped to a typed character.
func (d *Driver) Type(b byte) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}

	if key, ok := KeyMap[b]; ok {
		d.vm.PressKey(key)
		d.held[key] = HoldFrames
	}
}

// Frame releases expired keys, runs a frame of emulation and redraws the
// display. Only faults are returned.
func (d *Driver) Frame() error {
	for key := range d.held {
		if d.held[key] > 0 {
			if d.held[key]--; d.held[key] == 0 {
				d.vm.ReleaseKey(uint(key))
			}
		}
	}

	if err := d.vm.RunFrame(d.cycles); err != nil {
		var bp *chip8.BreakpointError

		switch {
		case errors.As(err, &bp):
			d.logger.Debug("Breakpoint ignored", log.Hex("address", bp.Breakpoint.Address))
		case errors.Is(err, chip8.ErrUnknownOpcode):
			d.logger.Warn("Skipped instruction", log.Err(err))
		default:
			d.logger.Error("Virtual machine halted", log.Err(err))
			return err
		}
	}

	// ring the bell as the sound timer starts
	if sounding := d.vm.Sounding(); sounding != d.sounding {
		if d.sounding = sounding; sounding {
			_, _ = d.out.WriteString(keyBell)
		}
	}

	fb := d.vm.Snapshot()
	Render(d.out, &fb)

	return d.out.Flush()
}

// clear erases the terminal and hides the cursor.
func (d *Driver) clear() {
	_, _ = d.out.WriteString("\x1b[2J\x1b[?25l")
	_ = d.out.Flush()
}

// reset shows the cursor again below the display.
func (d *Driver) reset() {
	_, _ = d.out.WriteString("\x1b[?25h\r\n")
	_ = d.out.Flush()
}

// half-block glyphs indexed by top | bottom<<1
var blocks = [4]string{" ", "▀", "▄", "█"}

// Render draws the framebuffer at the top left of the terminal.
func Render(w io.Writer, fb *chip8.Framebuffer) {
	buf := make([]byte, 0, chip8.Width*chip8.Height*2)
	buf = append(buf, "\x1b[H"...)

	for y := 0; y < chip8.Height; y += 2 {
		for x := range chip8.Width {
			i := 0
			if fb.Pixel(x, y) {
				i |= 1
			}
			if fb.Pixel(x, y+1) {
				i |= 2
			}
			buf = append(buf, blocks[i]...)
		}
		buf = append(buf, '\r', '\n')
	}

	_, _ = w.Write(buf)
}
