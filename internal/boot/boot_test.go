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

package boot

import (
	"testing"

	"github.com/massung/chip8vm/chip8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoot(t *testing.T) {
	assert := assert.New(t)

	a, err := Assemble()
	require.NoError(t, err)
	assert.Contains(a.Labels, "KEY")

	vm := chip8.New()
	require.NoError(t, vm.LoadAssembly(a))
	require.NoError(t, vm.RunFrame(1000))
	assert.True(vm.Waiting())

	fb := vm.Snapshot()

	// the top row of the 0 and 8 sprites
	assert.True(fb.Pixel(4, 4))
	assert.True(fb.Pixel(7, 4))
	assert.True(fb.Pixel(4, 12))

	// the last key defaults to 0
	assert.True(fb.Pixel(28, 22))
	assert.False(fb.Pixel(29, 24))

	vm.PressKey(0xA)
	require.NoError(t, vm.RunFrame(1000))
	assert.True(vm.Sounding())
	assert.Equal(byte(0xA), vm.V[4])

	fb = vm.Snapshot()
	assert.True(fb.Pixel(28, 22))
	assert.True(fb.Pixel(29, 24))
	assert.False(fb.Pixel(29, 23))

	// holding the key doesn't repeat it
	assert.True(vm.Waiting())
	vm.V[4] = 0
	require.NoError(t, vm.RunFrame(1000))
	assert.True(vm.Waiting())
	assert.Equal(byte(0), vm.V[4])

	vm.ReleaseKey(0xA)
	vm.PressKey(0xB)
	require.NoError(t, vm.RunFrame(1000))
	assert.True(vm.Waiting())
	assert.Equal(byte(0xB), vm.V[4])
}
