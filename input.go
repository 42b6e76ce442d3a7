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
	"github.com/massung/chip8vm/internal/config"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// KeyMap is a mapping of scancodes to the CHIP-8 keypad
	///
	///   1 2 3 C      1 2 3 4
	///   4 5 6 D  ->  Q W E R
	///   7 8 9 E      A S D F
	///   A 0 B F      Z X C V
	///
	KeyMap = map[sdl.Scancode]uint{
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_V: 0xF,
	}
)

/// ProcessEvents from SDL and map keys to the CHIP-8 VM. Returns false
/// once the window is closed.
///
func ProcessEvents() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			key, ok := KeyMap[ev.Keysym.Scancode]

			switch {
			case ok && ev.Type == sdl.KEYDOWN:
				VM.PressKey(key)
			case ok:
				VM.ReleaseKey(key)
			case ev.Type == sdl.KEYDOWN:
				DebugKey(ev.Keysym.Scancode, ev.Keysym.Mod, ev.Repeat != 0)
			}
		}
	}

	return true
}

/// DebugKey handles the emulator and debugger keys.
///
func DebugKey(code sdl.Scancode, mod uint16, repeat bool) {
	switch code {
	case sdl.SCANCODE_UP, sdl.SCANCODE_PAGEUP:
		Log.ScrollUp()
	case sdl.SCANCODE_DOWN, sdl.SCANCODE_PAGEDOWN:
		Log.ScrollDown(LogLines)
	case sdl.SCANCODE_HOME:
		Log.Home()
	case sdl.SCANCODE_END:
		Log.End()
	case sdl.SCANCODE_LEFTBRACKET:
		SetSpeed(Cycles / 2)
	case sdl.SCANCODE_RIGHTBRACKET:
		SetSpeed(Cycles * 2)
	}

	// the remaining keys don't repeat
	if repeat {
		return
	}

	switch code {
	case sdl.SCANCODE_ESCAPE:
		File = ""

		// go back to the boot program
		if err := Load(); err != nil {
			LoadFailed(err)
		}
	case sdl.SCANCODE_BACKSPACE:
		VM.Reset()

		// holding control during reset will reboot paused
		Paused = mod&sdl.KMOD_CTRL != 0
		Log.Logln(f("Reset"))
	case sdl.SCANCODE_F2:
		if err := Load(); err != nil {
			LoadFailed(err)
		}
	case sdl.SCANCODE_F3:
		LoadDialog()
	case sdl.SCANCODE_F4:
		DebugDump()
	case sdl.SCANCODE_H:
		DebugHelp()
	case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
		Paused = !Paused
	case sdl.SCANCODE_F6, sdl.SCANCODE_F10:
		if Paused {
			Report(VM.SingleStep())
		}
	case sdl.SCANCODE_F7, sdl.SCANCODE_F11:
		if Paused {
			if VM.SetOverBreakpoint() {
				Paused = false
			} else {
				Report(VM.SingleStep())
			}
		}
	case sdl.SCANCODE_F8:
		if Paused {
			DebugMemory()
		}
	case sdl.SCANCODE_F9:
		if Paused {
			if VM.ToggleBreakpoint() {
				Log.Log(f("Breakpoint set at %04X", VM.PC))
			} else {
				Log.Log(f("Breakpoint cleared at %04X", VM.PC))
			}
		}
	}
}

/// SetSpeed changes the instructions executed per frame.
///
func SetSpeed(cycles int) {
	Cycles = min(max(cycles, 1), config.MaxCycles)

	Logger.Debug("Speed changed", log.Int("cycles", Cycles))
	Log.Log(f("Speed: %v instructions per frame", Cycles))
}
