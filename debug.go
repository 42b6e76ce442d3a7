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
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

/// Debugger colors.
///
const (
	ColorBackground = 0x202A35
	ColorShadow     = 0x000000
	ColorHighlight  = 0x5F7078
	ColorText       = 0xC8D0D8
	ColorLabel      = 0x8FD18F
	ColorBreakpoint = 0xD06060
	ColorRunning    = 0x3966B0
	ColorPaused     = 0xB02039
)

var (
	/// Address is the first address shown in the disassembly pane.
	///
	Address uint16
)

/// Refresh redraws the whole window.
///
func Refresh() {
	setDrawColor(ColorBackground)
	_ = Renderer.Clear()

	sw, sh := ScreenSize()
	w, _ := WindowSize()

	// pane positions
	asmX := Margin*2 + sw + 4
	regsY := Margin*2 + sh + 4
	logY := regsY + RegsHeight + Margin

	// frame various portions of the app
	Frame(Margin, Margin, sw+4, sh+4)
	Frame(asmX, Margin, AsmWidth, sh+4)
	Frame(Margin, regsY, w-Margin*2, RegsHeight)
	Frame(Margin, logY, w-Margin*2, LogHeight)

	// update the video screen and copy it
	RefreshScreen()
	CopyScreen(Margin+2, Margin+2, sw, sh)

	// debug assembly, registers and the log
	DebugAssembly(asmX+4, Margin+4, int(sh)/LineHeight)
	DebugRegisters(Margin+4, regsY+4)
	DebugLog(Margin+4, logY+4)

	// show the new frame
	Renderer.Present()
}

/// Frame draws a sunken border.
///
func Frame(x, y, w, h int32) {
	setDrawColor(ColorShadow)
	_ = Renderer.DrawLine(x, y, x+w, y)
	_ = Renderer.DrawLine(x, y, x, y+h)

	// highlight
	setDrawColor(ColorHighlight)
	_ = Renderer.DrawLine(x+w, y, x+w, y+h)
	_ = Renderer.DrawLine(x, y+h, x+w, y+h)
}

/// DebugHelp shows the keys in the log.
///
func DebugHelp() {
	Log.Logln(f("Virtual keys:"))
	Log.Log("  1 2 3 4")
	Log.Log("  Q W E R")
	Log.Log("  A S D F")
	Log.Log("  Z X C V")
	Log.Logln(f("Emulation keys:"))
	Log.Log(f("  ESC      - Unload program"))
	Log.Log(f("  BS       - Reset, CTRL to reset paused"))
	Log.Log(f("  F2 / F3  - Reload / load program"))
	Log.Log(f("  F4       - Dump registers"))
	Log.Log(f("  [ / ]    - Slower / faster"))
	Log.Log(f("  Pg Up/Dn - Scroll log"))
	Log.Log(f("  H        - Help"))
	Log.Logln(f("Debugger keys:"))
	Log.Log(f("  F5 SPACE - Pause / resume"))
	Log.Log(f("  F6 F10   - Step"))
	Log.Log(f("  F7 F11   - Step over"))
	Log.Log(f("  F8       - Memory at I"))
	Log.Log(f("  F9       - Toggle breakpoint"))
}

/// DebugDump writes the registers to the log.
///
func DebugDump() {
	Log.Logln(strings.Split(VM.Dump().String(), "\n")...)
}

/// DebugMemory writes the memory at I to the log.
///
func DebugMemory() {
	Log.Logln(f("Memory at I:"))

	for row := uint16(0); row < 64; row += 8 {
		address := (VM.I + row) & 0xFFF

		var b strings.Builder
		fmt.Fprintf(&b, "%04X -", address)

		for i := range uint16(8) {
			fmt.Fprintf(&b, " %02X", VM.Memory[(address+i)&0xFFF])
		}

		Log.Log(b.String())
	}
}

/// DebugAssembly renders the disassembled instructions around the
/// CHIP-8 program counter.
///
func DebugAssembly(x, y int32, lines int) {
	span := uint16(lines * 2)

	// keep the window still while the PC is inside it
	if VM.PC < Address+2 || VM.PC >= Address+span-2 || (Address^VM.PC)&1 == 1 {
		Address = max(VM.PC, 2) - 2
	}

	for i := range lines {
		address := Address + uint16(i*2)
		row := y + int32(i*LineHeight)

		if address == VM.PC {
			if Paused {
				setDrawColor(ColorPaused)
			} else {
				setDrawColor(ColorRunning)
			}

			// highlight the current instruction
			_ = Renderer.FillRect(&sdl.Rect{X: x - 2, Y: row, W: AsmWidth - 4, H: LineHeight})
		}

		color := uint32(ColorText)
		if _, ok := VM.Breakpoints[address]; ok {
			color = ColorBreakpoint
		}

		text := VM.Disassemble(address)
		if label, ok := Labels[address]; ok {
			text = fmt.Sprintf("%-24s.%s", text, label)
		}

		DrawText(text, x, row, color)
	}
}

/// DebugRegisters shows the state of the virtual machine.
///
func DebugRegisters(x, y int32) {
	lines := strings.Split(VM.Dump().String(), "\n")

	// status is on the last line
	status := f("RUNNING")
	if Paused {
		status = f("PAUSED")
	}
	lines = append(lines, fmt.Sprintf("%s  %s  %d IPF  %d CYCLES", programName(), status, Cycles, VM.Cycles))

	for i, line := range lines {
		DrawText(line, x, y+int32(i*LineHeight), ColorText)
	}
}

/// DebugLog shows the end of the log.
///
func DebugLog(x, y int32) {
	for i, line := range Log.Window(LogLines) {
		DrawText(line, x, y+int32(i*LineHeight), ColorLabel)
	}
}
