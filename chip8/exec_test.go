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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadImmediate(t *testing.T) {
	for x := range 16 {
		vm := boot(t, 0x6000|uint16(x)<<8|0x42)
		steps(t, vm, 1)

		assert.Equal(t, byte(0x42), vm.V[x])
		assert.Equal(t, uint16(0x202), vm.PC)
	}
}

func TestLoadAddress(t *testing.T) {
	vm := boot(t, 0xA123)
	steps(t, vm, 1)

	assert.Equal(t, uint16(0x123), vm.I)
	assert.Equal(t, uint16(0x202), vm.PC)
}

func TestClear(t *testing.T) {
	assert := assert.New(t)
	vm := boot(t, 0x00E0, 0x00E0)

	for i := range vm.Video {
		vm.Video[i] = byte(i)
	}

	steps(t, vm, 1)
	assert.Equal([VideoSize]byte{}, vm.Video)

	steps(t, vm, 1)
	assert.Equal([VideoSize]byte{}, vm.Video)
}

func TestJump(t *testing.T) {
	assert := assert.New(t)

	vm := boot(t, 0x1ABC)
	steps(t, vm, 1)
	assert.Equal(uint16(0xABC), vm.PC)

	vm = boot(t, 0xB300)
	vm.V[0] = 4
	steps(t, vm, 1)
	assert.Equal(uint16(0x304), vm.PC)

	// the target address wraps
	vm = boot(t, 0xBFFF)
	vm.V[0] = 0xFF
	steps(t, vm, 1)
	assert.Equal(uint16(0x0FE), vm.PC)
}

func TestProgramCounterWraps(t *testing.T) {
	assert := assert.New(t)
	vm := New()

	vm.Memory[0xFFE] = 0x60
	vm.Memory[0xFFF] = 0x07
	vm.PC = 0xFFE

	steps(t, vm, 1)
	assert.Equal(byte(7), vm.V[0])
	assert.Equal(uint16(0x000), vm.PC)
}

func TestCallReturn(t *testing.T) {
	assert := assert.New(t)

	// CALL #0206; JP #0202; #0000; RET
	vm := boot(t, 0x2206, 0x1202, 0x0000, 0x00EE)

	steps(t, vm, 1)
	assert.Equal(uint16(0x206), vm.PC)
	assert.Equal(uint8(1), vm.SP)
	assert.Equal(uint16(0x202), vm.Stack[0])

	steps(t, vm, 1)
	assert.Equal(uint16(0x202), vm.PC)
	assert.Equal(uint8(0), vm.SP)
}

func TestStackOverflow(t *testing.T) {
	assert := assert.New(t)
	vm := boot(t, 0x2200)

	steps(t, vm, StackDepth)
	assert.Equal(uint8(StackDepth), vm.SP)

	err := vm.Step()
	require.Error(t, err)
	assert.ErrorIs(err, ErrStackOverflow)

	var fault *FaultError
	require.True(t, errors.As(err, &fault))
	assert.Equal(uint16(0x200), fault.Address)
	assert.Equal(uint16(0x2200), fault.Opcode)

	// the machine stays halted on the faulting instruction
	cycles := vm.Cycles
	assert.ErrorIs(vm.Step(), ErrStackOverflow)
	assert.ErrorIs(vm.RunFrame(10), ErrStackOverflow)
	assert.ErrorIs(vm.Fault(), ErrStackOverflow)
	assert.Equal(uint16(0x200), vm.PC)
	assert.Equal(uint8(StackDepth), vm.SP)
	assert.Equal(cycles, vm.Cycles)

	vm.Reset()
	assert.NoError(vm.Fault())
	assert.NoError(vm.Step())
}

func TestStackUnderflow(t *testing.T) {
	assert := assert.New(t)
	vm := boot(t, 0x00EE)

	err := vm.Step()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(uint16(0x200), vm.PC)
	assert.Equal(uint8(0), vm.SP)
	assert.ErrorIs(vm.Step(), ErrStackUnderflow)
}

func TestUnknownOpcode(t *testing.T) {
	for _, inst := range []uint16{0x0000, 0x0123, 0x00FF, 0x8008, 0x800F, 0xE0FF, 0xF0FF, 0xF001} {
		vm := boot(t, inst, 0x6001)

		err := vm.Step()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownOpcode)

		var unknown *UnknownOpcodeError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, inst, unknown.Opcode)
		assert.Equal(t, uint16(0x200), unknown.Address)

		// execution continues with the next instruction
		assert.Equal(t, uint16(0x202), vm.PC)
		assert.NoError(t, vm.Fault())
		assert.NoError(t, vm.Step())
		assert.Equal(t, byte(1), vm.V[0])
	}
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name string
		inst uint16
		skip bool
	}{
		{"SE equal", 0x3105, true},
		{"SE not equal", 0x3106, false},
		{"SNE equal", 0x4105, false},
		{"SNE not equal", 0x4106, true},
		{"SE registers equal", 0x5120, true},
		{"SE registers not equal", 0x5130, false},
		{"SNE registers equal", 0x9120, false},
		{"SNE registers not equal", 0x9130, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := boot(t, tt.inst)
			vm.V[1], vm.V[2], vm.V[3] = 5, 5, 6
			steps(t, vm, 1)

			if tt.skip {
				assert.Equal(t, uint16(0x204), vm.PC)
			} else {
				assert.Equal(t, uint16(0x202), vm.PC)
			}
		})
	}
}

func TestKeySkips(t *testing.T) {
	assert := assert.New(t)

	vm := boot(t, 0xE59E, 0xE5A1)
	vm.V[5] = 0x17 // only the low nibble selects the key
	vm.PressKey(7)

	steps(t, vm, 1)
	assert.Equal(uint16(0x204), vm.PC)

	vm.PC = 0x202
	steps(t, vm, 1)
	assert.Equal(uint16(0x204), vm.PC)

	vm.ReleaseKey(7)
	vm.PC = 0x200
	steps(t, vm, 1)
	assert.Equal(uint16(0x202), vm.PC)

	steps(t, vm, 1)
	assert.Equal(uint16(0x206), vm.PC)
}

func TestWaitKey(t *testing.T) {
	assert := assert.New(t)
	vm := boot(t, 0xF20A, 0x6001)

	steps(t, vm, 1)
	assert.True(vm.Waiting())
	assert.False(vm.PollKey())

	// nothing executes while waiting
	steps(t, vm, 3)
	assert.Equal(uint16(0x202), vm.PC)
	assert.Equal(int64(1), vm.Cycles)

	vm.PressKey(0xE)
	assert.True(vm.PollKey())
	assert.False(vm.Waiting())
	assert.Equal(byte(0xE), vm.V[2])
	assert.False(vm.PollKey())

	steps(t, vm, 1)
	assert.Equal(byte(1), vm.V[0])
}

func TestSingleStepWaitKey(t *testing.T) {
	assert := assert.New(t)

	// LD V2, K; LD V0, 1
	vm := boot(t, 0xF20A, 0x6001)

	require.NoError(t, vm.SingleStep())
	assert.True(vm.Waiting())

	// nothing pressed, nothing executes
	require.NoError(t, vm.SingleStep())
	assert.True(vm.Waiting())
	assert.Equal(int64(1), vm.Cycles)

	vm.PressKey(0x5)
	require.NoError(t, vm.SingleStep())
	assert.False(vm.Waiting())
	assert.Equal(byte(0x5), vm.V[2])
	assert.Equal(byte(1), vm.V[0])
	assert.Equal(uint16(0x204), vm.PC)
}

func TestAlu(t *testing.T) {
	tests := []struct {
		name   string
		inst   uint16
		x, y   byte
		result byte
		flag   byte
	}{
		{"LD", 0x8120, 0x12, 0x34, 0x34, 0xAA},
		{"OR", 0x8121, 0x0F, 0xF0, 0xFF, 0xAA},
		{"AND", 0x8122, 0x3C, 0x0F, 0x0C, 0xAA},
		{"XOR", 0x8123, 0xFF, 0x0F, 0xF0, 0xAA},
		{"ADD", 0x8124, 0x10, 0x20, 0x30, 0},
		{"ADD carry", 0x8124, 0xFF, 0x01, 0x00, 1},
		{"SUB", 0x8125, 0x05, 0x03, 0x02, 1},
		{"SUB equal", 0x8125, 0x05, 0x05, 0x00, 1},
		{"SUB borrow", 0x8125, 0x03, 0x05, 0xFE, 0},
		{"SUBN", 0x8127, 0x03, 0x05, 0x02, 1},
		{"SUBN borrow", 0x8127, 0x05, 0x03, 0xFE, 0},
		{"SHR", 0x8126, 0x05, 0x00, 0x02, 1},
		{"SHR even", 0x8126, 0x04, 0x00, 0x02, 0},
		{"SHL", 0x812E, 0x81, 0x00, 0x02, 1},
		{"SHL small", 0x812E, 0x41, 0x00, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := boot(t, tt.inst)
			vm.V[1], vm.V[2], vm.V[0xF] = tt.x, tt.y, 0xAA
			steps(t, vm, 1)

			assert.Equal(t, tt.result, vm.V[1])
			assert.Equal(t, tt.flag, vm.V[0xF])
		})
	}
}

func TestAluFlagRegister(t *testing.T) {
	assert := assert.New(t)

	// the flag is written after the result
	vm := boot(t, 0x8F14)
	vm.V[0xF], vm.V[1] = 0x80, 0x90
	steps(t, vm, 1)
	assert.Equal(byte(1), vm.V[0xF])

	vm = boot(t, 0x8F06)
	vm.V[0xF] = 0x02
	steps(t, vm, 1)
	assert.Equal(byte(0), vm.V[0xF])
}

func TestAddImmediate(t *testing.T) {
	assert := assert.New(t)
	vm := boot(t, 0x7101)
	vm.V[1], vm.V[0xF] = 0xFF, 0x55

	steps(t, vm, 1)
	assert.Equal(byte(0), vm.V[1])
	assert.Equal(byte(0x55), vm.V[0xF])
}

func TestRandom(t *testing.T) {
	assert := assert.New(t)

	vm := boot(t, 0xC300)
	vm.V[3] = 0xFF
	steps(t, vm, 1)
	assert.Equal(byte(0), vm.V[3])

	for range 100 {
		vm = boot(t, 0xC30F)
		steps(t, vm, 1)
		assert.LessOrEqual(vm.V[3], byte(0x0F))
	}
}

func TestTimerInstructions(t *testing.T) {
	assert := assert.New(t)

	// LD DT, V1; LD ST, V2; LD V3, DT
	vm := boot(t, 0xF115, 0xF218, 0xF307)
	vm.V[1], vm.V[2] = 9, 4

	steps(t, vm, 2)
	assert.Equal(byte(9), vm.DT)
	assert.Equal(byte(4), vm.ST)
	assert.True(vm.Sounding())

	vm.TickTimers()
	steps(t, vm, 1)
	assert.Equal(byte(8), vm.V[3])
}

func TestAddressInstructions(t *testing.T) {
	assert := assert.New(t)

	// ADD I, V1; LD F, V2
	vm := boot(t, 0xF11E, 0xF229)
	vm.I, vm.V[1], vm.V[2] = 0x300, 0x20, 0xA

	steps(t, vm, 1)
	assert.Equal(uint16(0x320), vm.I)

	steps(t, vm, 1)
	assert.Equal(uint16(FontBase+50), vm.I)
	assert.Equal(Font[50:55], vm.Memory[vm.I:vm.I+5])
}

func TestBCD(t *testing.T) {
	tests := map[byte][3]byte{
		0:   {0, 0, 0},
		7:   {0, 0, 7},
		42:  {0, 4, 2},
		254: {2, 5, 4},
		255: {2, 5, 5},
	}

	for v, digits := range tests {
		vm := boot(t, 0xF433)
		vm.V[4], vm.I = v, 0x300
		steps(t, vm, 1)

		assert.Equal(t, digits[:], vm.Memory[0x300:0x303])
		assert.Equal(t, uint16(0x300), vm.I)
	}
}

func TestSaveLoadRegisters(t *testing.T) {
	assert := assert.New(t)

	// LD [I], V3; LD V3, [I]
	vm := boot(t, 0xF355, 0xF365)
	vm.I = 0x400
	vm.V = [16]byte{1, 2, 3, 4, 5}

	steps(t, vm, 1)
	assert.Equal([]byte{1, 2, 3, 4, 0}, vm.Memory[0x400:0x405])
	assert.Equal(uint16(0x400), vm.I)

	vm.V = [16]byte{}
	vm.Memory[0x403] = 9
	vm.Memory[0x404] = 7
	steps(t, vm, 1)
	assert.Equal([16]byte{1, 2, 3, 9}, vm.V)
	assert.Equal(uint16(0x400), vm.I)
}

func TestDraw(t *testing.T) {
	assert := assert.New(t)

	// LD I, #0050; DRW V0, V1, 5; DRW V0, V1, 5
	vm := boot(t, 0xA050, 0xD015, 0xD015)
	vm.V[0], vm.V[1] = 8, 2

	steps(t, vm, 2)
	assert.Equal(byte(0), vm.V[0xF])

	fb := vm.Snapshot()
	for x := range 4 {
		assert.True(fb.Pixel(8+x, 2))
		assert.True(fb.Pixel(8+x, 6))
	}
	assert.True(fb.Pixel(8, 3))
	assert.False(fb.Pixel(9, 3))
	assert.True(fb.Pixel(11, 3))
	assert.False(fb.Pixel(12, 2))

	// drawing again erases the sprite
	steps(t, vm, 1)
	assert.Equal(byte(1), vm.V[0xF])
	assert.Equal([VideoSize]byte{}, vm.Video)
}

func TestDrawWraps(t *testing.T) {
	assert := assert.New(t)

	vm := boot(t, 0xD012)
	vm.I = 0x300
	vm.Memory[0x300] = 0xFF
	vm.Memory[0x301] = 0x80
	vm.V[0], vm.V[1] = 60, 31

	steps(t, vm, 1)
	assert.Equal(byte(0), vm.V[0xF])

	fb := vm.Snapshot()
	for x := 60; x < 68; x++ {
		assert.True(fb.Pixel(x%Width, 31))
	}
	assert.True(fb.Pixel(60, 0))
	assert.False(fb.Pixel(61, 0))
	assert.False(fb.Pixel(4, 31))

	// the origin itself wraps too
	vm = boot(t, 0xD011)
	vm.I = 0x300
	vm.Memory[0x300] = 0x80
	vm.V[0], vm.V[1] = 64+3, 32+1

	steps(t, vm, 1)
	fb = vm.Snapshot()
	assert.True(fb.Pixel(3, 1))
}

func TestDrawCollision(t *testing.T) {
	assert := assert.New(t)

	vm := boot(t, 0xD011, 0xD231)
	vm.I = 0x300
	vm.Memory[0x300] = 0xC0
	vm.V[1], vm.V[2], vm.V[3] = 0, 1, 0

	steps(t, vm, 2)
	assert.Equal(byte(1), vm.V[0xF])

	fb := vm.Snapshot()
	assert.True(fb.Pixel(0, 0))
	assert.False(fb.Pixel(1, 0))
	assert.True(fb.Pixel(2, 0))
}
