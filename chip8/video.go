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

package chip8

const (
	/// Width of the display in pixels.
	///
	Width = 64

	/// Height of the display in pixels.
	///
	Height = 32

	/// VideoSize is the number of bytes of video memory.
	///
	VideoSize = Width * Height / 8
)

/// Framebuffer is a copy of video memory that renderers can read while
/// the virtual machine keeps running.
///
type Framebuffer [VideoSize]byte

/// Pixel returns true if the pixel at x, y is lit. Coordinates wrap.
///
func (fb *Framebuffer) Pixel(x, y int) bool {
	p := (y&(Height-1))*Width + (x & (Width - 1))

	return fb[p>>3]&(0x80>>uint(p&7)) != 0
}

/// Snapshot returns a copy of video memory.
///
func (vm *CHIP_8) Snapshot() Framebuffer {
	return Framebuffer(vm.Video)
}

/// flip toggles the pixel at x, y and returns true if it was lit.
///
func (vm *CHIP_8) flip(x, y int) bool {
	p := (y&(Height-1))*Width + (x & (Width - 1))
	bit := byte(0x80) >> uint(p&7)

	// was the pixel on before the xor?
	lit := vm.Video[p>>3]&bit != 0

	vm.Video[p>>3] ^= bit

	return lit
}
