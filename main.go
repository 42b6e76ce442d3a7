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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/massung/chip8vm/chip8"
	"github.com/massung/chip8vm/internal/boot"
	"github.com/massung/chip8vm/internal/config"
	"github.com/massung/chip8vm/internal/logview"
	"github.com/massung/chip8vm/internal/translate"
	"github.com/massung/chip8vm/internal/tty"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	version = "dev"

	/// The CHIP-8 virtual machine.
	///
	VM *chip8.CHIP_8

	/// File is the program running, empty for the boot program.
	///
	File string

	/// Labels of the running program by address, if it was assembled.
	///
	Labels map[uint16]string

	/// The SDL Window and Renderer.
	///
	Window   *sdl.Window
	Renderer *sdl.Renderer

	/// Logger for the console and Log for the debugger log pane.
	///
	Logger *log.Logger
	Log    *logview.View

	/// Opts are the command line options.
	///
	Opts config.Options

	/// Paused is true while the debugger is stopped.
	///
	Paused bool

	/// Cycles is the number of instructions executed per frame.
	///
	Cycles int
)

var f = translate.From

func init() {
	runtime.LockOSThread()
}

func main() {
	var err error

	if Opts, err = config.ParseFlags(os.Args); err != nil {
		var usageErr *config.UsageError
		if !errors.As(err, &usageErr) {
			os.Exit(2)
		}

		// asking for help isn't an error
		if errors.Is(err, flag.ErrHelp) {
			usageErr.ShowUsage(os.Stdout)
			os.Exit(0)
		}

		fmt.Fprintln(os.Stderr, err)
		usageErr.ShowUsage(os.Stderr)
		os.Exit(2)
	}

	Logger = config.CreateLogger(Opts.Debug, Opts.Quiet)
	Logger.Info("chip8", log.String("version", version))

	// create a new CHIP-8 virtual machine, must happen early!
	VM = chip8.New()
	if Opts.Seed != 0 {
		VM.Rand = rand.New(rand.NewPCG(Opts.Seed, Opts.Seed))
	}

	File = Opts.Input
	Cycles = Opts.Cycles
	Paused = Opts.Paused
	Log = logview.New(logview.DefaultLimit)

	ctx := app.Context()

	if Opts.Terminal {
		err = runTerminal(ctx)
	} else {
		err = runWindow(ctx)
	}

	if err != nil {
		Logger.Fatal("CHIP-8 stopped", log.Err(err))
	}
}

/// Run the virtual machine in the terminal.
///
func runTerminal(ctx context.Context) error {
	if err := Load(); err != nil {
		return err
	}

	return tty.Run(ctx, VM, Logger, Cycles)
}

/// Run the virtual machine and debugger in an SDL window.
///
func runWindow(ctx context.Context) error {
	var err error

	// initialize SDL
	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return err
	}
	defer sdl.Quit()

	// create the main window and renderer
	w, h := WindowSize()
	if Window, Renderer, err = sdl.CreateWindowAndRenderer(w, h, uint32(sdl.WINDOW_SHOWN)); err != nil {
		return err
	}
	defer Window.Destroy()
	defer Renderer.Destroy()

	// initialize subsystems
	if err = InitScreen(); err != nil {
		return err
	}
	if err = InitFont(); err != nil {
		return err
	}
	if err = InitAudio(); err != nil {
		Logger.Warn("Audio disabled", log.Err(err))
	}
	defer CloseAudio()

	// a broken program falls back to the boot program
	if err = Load(); err != nil {
		LoadFailed(err)
	}

	DebugHelp()

	// refresh rate, the timers and emulation are driven by it
	video := time.NewTicker(time.Second / 60)
	defer video.Stop()

	// loop until window closed or user quit
	for ProcessEvents() {
		select {
		case <-ctx.Done():
			return nil
		case <-video.C:
			if !Paused {
				Report(VM.RunFrame(Cycles))
			}

			UpdateAudio()
			Refresh()
		}
	}

	return nil
}

/// Load the current program file, or the boot program, into the VM.
///
func Load() error {
	var a *chip8.Assembly
	var err error

	switch {
	case File == "":
		a, err = boot.Assemble()
	case Opts.Assembly || isSource(File):
		var source []byte
		if source, err = os.ReadFile(File); err == nil {
			a, err = chip8.Assemble(source)
		}
	default:
		var rom []byte
		if rom, err = os.ReadFile(File); err == nil {
			err = VM.Load(rom)
			clear(VM.Breakpoints)
		}
	}

	if err == nil && a != nil {
		err = VM.LoadAssembly(a)
	}
	if err != nil {
		return err
	}

	// map addresses back to labels for the debugger
	Labels = make(map[uint16]string)
	if a != nil {
		for label, address := range a.Labels {
			Labels[address] = label
		}
	}

	name := programName()
	Logger.Info("Program loaded", log.String("program", name), log.Int("breakpoints", len(VM.Breakpoints)))
	Log.Logln(f("Loaded %s", name))

	if Window != nil {
		Window.SetTitle(fmt.Sprintf("CHIP-8 - %s", name))
	}

	return nil
}

/// LoadFailed reports a program that couldn't be loaded and boots instead.
///
func LoadFailed(err error) {
	Logger.Error("Loading program failed", log.String("file", File), log.Err(err))
	Log.Logln(err.Error())

	dialog.Message("%s", err.Error()).Title(f("Loading %s failed", filepath.Base(File))).Error()

	// go back to the boot program
	File = ""
	if err := Load(); err != nil {
		Logger.Error("Boot program failed", log.Err(err))
	}
}

/// LoadDialog asks for a program file to load.
///
func LoadDialog() {
	file, err := dialog.File().
		Title(f("Load CHIP-8 Program")).
		Filter(f("CHIP-8 programs"), "ch8", "c8", "rom").
		Filter(f("CHIP-8 source"), "asm", "c8s", "chip8").
		Load()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			Logger.Error("File dialog failed", log.Err(err))
		}
		return
	}

	File = file
	if err := Load(); err != nil {
		LoadFailed(err)
	}
}

/// Report the result of running the VM. Breakpoints and faults pause it.
///
func Report(err error) {
	if err == nil {
		return
	}

	var bp *chip8.BreakpointError

	switch {
	case errors.As(err, &bp):
		Paused = true
		Logger.Info("Breakpoint", log.Hex("address", bp.Breakpoint.Address), log.String("reason", bp.Breakpoint.Reason))
	case errors.Is(err, chip8.ErrUnknownOpcode):
		Logger.Warn("Skipped instruction", log.Err(err))
	default:
		Paused = true
		Logger.Error("Virtual machine halted", log.Err(err))
	}

	Log.Log(err.Error())
}

/// Source files are assembled instead of loaded.
///
func isSource(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".asm", ".c8s", ".chip8":
		return true
	}
	return false
}

/// Name of the running program.
///
func programName() string {
	if File == "" {
		return "BOOT"
	}
	return filepath.Base(File)
}
