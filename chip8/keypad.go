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

/// Keypad reports the state of the 16 CHIP-8 keys. Mapping physical
/// input to key codes 0..F is the implementation's responsibility.
///
type Keypad interface {
	/// IsPressed returns true if key 0..F is currently held down.
	///
	IsPressed(key byte) bool

	/// AnyPressed returns the lowest key currently held down, or false
	/// if none are.
	///
	AnyPressed() (byte, bool)
}

/// Keys is a Keypad backed by the state of each key.
///
type Keys [16]bool

/// IsPressed returns true if key is held down. Only the low nibble of
/// key is used.
///
func (k *Keys) IsPressed(key byte) bool {
	return k[key&0xF]
}

/// AnyPressed returns the lowest key held down.
///
func (k *Keys) AnyPressed() (byte, bool) {
	for i, down := range k {
		if down {
			return byte(i), true
		}
	}

	return 0, false
}
