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
	"image"
	"image/color"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

/// Glyph cell size of the debugger font.
///
const (
	CharWidth  = 7
	LineHeight = 13

	/// Printable ASCII range in the font atlas.
	///
	firstChar = ' '
	lastChar  = '~'
)

var (
	/// Font is an atlas texture of every printable character.
	///
	Font *sdl.Texture
)

/// Rasterize the printable characters into a single row of cells.
///
func rasterizeFont() *image.Alpha {
	face := basicfont.Face7x13
	n := int(lastChar - firstChar + 1)

	img := image.NewAlpha(image.Rect(0, 0, n*CharWidth, LineHeight))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Opaque),
		Face: face,
	}

	for c := firstChar; c <= lastChar; c++ {
		d.Dot = fixed.P(int(c-firstChar)*CharWidth, face.Ascent)
		d.DrawString(string(c))
	}

	return img
}

/// InitFont draws the font atlas into a transparent texture. Text is
/// colored with the texture color modulation.
///
func InitFont() error {
	var err error

	img := rasterizeFont()
	b := img.Bounds()

	if Font, err = Renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_TARGET, int32(b.Dx()), int32(b.Dy())); err != nil {
		return err
	}
	if err = Font.SetBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		return err
	}
	if err = Renderer.SetRenderTarget(Font); err != nil {
		return err
	}

	// clear to transparent, glyph pixels are white
	_ = Renderer.SetDrawColor(0, 0, 0, 0)
	_ = Renderer.Clear()
	_ = Renderer.SetDrawColor(255, 255, 255, 255)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.AlphaAt(x, y).A >= 0x80 {
				_ = Renderer.DrawPoint(int32(x), int32(y))
			}
		}
	}

	return Renderer.SetRenderTarget(nil)
}

/// DrawText using the font atlas in a 0xRRGGBB color.
///
func DrawText(s string, x, y int32, c uint32) {
	_ = Font.SetColorMod(uint8(c>>16), uint8(c>>8), uint8(c))

	src := sdl.Rect{W: CharWidth, H: LineHeight}
	dst := sdl.Rect{X: x, Y: y, W: CharWidth, H: LineHeight}

	// loop over all the characters in the string
	for _, c := range s {
		if c > firstChar && c <= lastChar {
			src.X = int32(c-firstChar) * CharWidth

			// draw the character to the renderer
			_ = Renderer.Copy(Font, &src, &dst)
		}

		// advance
		dst.X += CharWidth
	}
}
