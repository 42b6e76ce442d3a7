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

// Package config handles command line options and logger setup.
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/massung/chip8vm/internal/translate"
	"github.com/retroenv/retrogolib/log"
)

var f = translate.From

const (
	// DefaultCycles is the number of instructions executed per frame.
	DefaultCycles = 10

	// MaxCycles is the fastest supported instruction rate per frame.
	MaxCycles = 1000

	// DefaultScale is the size of a CHIP-8 pixel in the window.
	DefaultScale = 5
)

// Options are the command line settings of the emulator.
type Options struct {
	Input      string // program file, the built-in boot program if empty
	Assembly   bool   // the input is assembler source
	Cycles     int    // instructions per 60 Hz frame
	Scale      int    // pixel size of the window
	Terminal   bool   // render to the terminal instead of a window
	Paused     bool   // start with the debugger paused
	Seed       uint64 // RND seed, random if zero
	Debug      bool
	Quiet      bool
	Foreground uint32 // lit pixel color as 0xRRGGBB
	Background uint32 // unlit pixel color as 0xRRGGBB
}

// ParseFlags parses the command line. The first argument is the program
// name.
func ParseFlags(args []string) (Options, error) {
	name := "chip8"
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	var fg, bg string
	flags.BoolVar(&opts.Assembly, "asm", false, "assemble the input file as CHIP-8 source")
	flags.IntVar(&opts.Cycles, "cycles", DefaultCycles, "instructions executed per frame (1-1000)")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "size of a pixel in the window")
	flags.BoolVar(&opts.Terminal, "tty", false, "run in the terminal instead of a window")
	flags.BoolVar(&opts.Paused, "paused", false, "start paused in the debugger")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed for the random number generator, 0 for a random seed")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "quiet", false, "only log errors")
	flags.StringVar(&fg, "fg", "#8FD18F", "color of lit pixels")
	flags.StringVar(&bg, "bg", "#0F1F0F", "color of unlit pixels")

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error(), err: err}
	}

	switch rest := flags.Args(); len(rest) {
	case 0:
	case 1:
		opts.Input = rest[0]
	default:
		return opts, &UsageError{flags: flags, msg: f("unexpected argument %s, only one program can be run", rest[1])}
	}

	if opts.Cycles < 1 || opts.Cycles > MaxCycles {
		return opts, &UsageError{flags: flags, msg: f("cycles must be between 1 and %v", MaxCycles)}
	}
	if opts.Scale < 1 {
		return opts, &UsageError{flags: flags, msg: f("scale must be positive")}
	}
	if opts.Assembly && opts.Input == "" {
		return opts, &UsageError{flags: flags, msg: f("-asm requires a source file")}
	}

	var err error
	if opts.Foreground, err = parseColor(fg); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	if opts.Background, err = parseColor(bg); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	return opts, nil
}

// parseColor parses a #RRGGBB color.
func parseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("%s: %s", f("invalid color"), s)
	}

	c, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %s", f("invalid color"), s)
	}
	return uint32(c), nil
}

// UsageError represents an error that should show usage information.
// Wraps flag.ErrHelp when -h or -help was given.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
	err   error
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) Unwrap() error {
	return e.err
}

// ShowUsage prints the usage text and all flags.
func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "%s\n\n", f("usage: %s [options] [program file]", e.flags.Name()))
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// CreateLogger creates a logger with appropriate settings.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
