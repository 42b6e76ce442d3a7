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
	"github.com/massung/chip8vm/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

/// Window layout, in pixels.
///
const (
	Margin = 8

	/// Disassembly pane width.
	///
	AsmWidth = 30*CharWidth + 8

	/// Register pane height.
	///
	RegsHeight = 6*LineHeight + 8

	/// Log pane height.
	///
	LogLines  = 8
	LogHeight = LogLines*LineHeight + 8
)

var (
	/// Screen is the render target the CHIP-8 video memory is drawn to.
	///
	Screen *sdl.Texture
)

/// InitScreen creates the render target for the CHIP-8 display.
///
func InitScreen() error {
	var err error

	Screen, err = Renderer.CreateTexture(sdl.PIXELFORMAT_RGB888, sdl.TEXTUREACCESS_TARGET, chip8.Width, chip8.Height)

	return err
}

/// ScreenSize is the size of the scaled CHIP-8 display.
///
func ScreenSize() (int32, int32) {
	return int32(chip8.Width * Opts.Scale), int32(chip8.Height * Opts.Scale)
}

/// WindowSize fits the display and every debugger pane.
///
func WindowSize() (int32, int32) {
	sw, sh := ScreenSize()

	w := Margin*3 + sw + 4 + AsmWidth
	h := Margin*4 + sh + 4 + RegsHeight + LogHeight

	return w, h
}

/// RefreshScreen with the CHIP-8 video memory.
///
func RefreshScreen() {
	if err := Renderer.SetRenderTarget(Screen); err != nil {
		return
	}

	// the background color for the screen
	setDrawColor(Opts.Background)
	_ = Renderer.Clear()

	// set the pixel color
	setDrawColor(Opts.Foreground)

	// draw all the lit pixels
	fb := VM.Snapshot()
	for y := range chip8.Height {
		for x := range chip8.Width {
			if fb.Pixel(x, y) {
				_ = Renderer.DrawPoint(int32(x), int32(y))
			}
		}
	}

	// restore the render target
	_ = Renderer.SetRenderTarget(nil)
}

/// CopyScreen to the render target, stretched to w x h.
///
func CopyScreen(x, y, w, h int32) {
	src := sdl.Rect{W: chip8.Width, H: chip8.Height}

	_ = Renderer.Copy(Screen, &src, &sdl.Rect{X: x, Y: y, W: w, H: h})
}

/// Set the draw color from a 0xRRGGBB value.
///
func setDrawColor(c uint32) {
	_ = Renderer.SetDrawColor(uint8(c>>16), uint8(c>>8), uint8(c), 255)
}
