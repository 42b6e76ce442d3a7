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
	"math/rand/v2"
	"time"
)

const (
	/// MemorySize is the number of addressable bytes.
	///
	MemorySize = 0x1000

	/// ProgramBase is the address every program is loaded at and where
	/// execution begins.
	///
	ProgramBase = 0x200

	/// ProgramSize is the largest program image that fits in memory.
	///
	ProgramSize = MemorySize - ProgramBase

	/// StackDepth is the maximum number of nested subroutine calls.
	///
	StackDepth = 16
)

/// CHIP_8 virtual machine emulator.
///
type CHIP_8 struct {
	/// ROM is the pristine memory image created by Load: the font
	/// sprites and the program. Reset copies it back into Memory.
	///
	ROM [MemorySize]byte

	/// Memory addressable by CHIP-8. The first 512 bytes are reserved
	/// for the interpreter; only the font sprites live there.
	///
	Memory [MemorySize]byte

	/// Video memory for CHIP-8 (64x32 bits). Each bit represents a
	/// single pixel. It is stored MSB first. For example, pixel <0,0>
	/// is bit 0x80 of byte 0.
	///
	Video [VideoSize]byte

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// SP is the number of return addresses on the stack.
	///
	SP uint8

	/// Stack holds the return addresses of active subroutine calls.
	///
	Stack [StackDepth]uint16

	/// I is the address register.
	///
	I uint16

	/// V are the 16 virtual registers.
	///
	V [16]byte

	/// DT is the delay timer register. It counts down to zero once per
	/// call to TickTimers.
	///
	DT byte

	/// ST is the sound timer register. A tone plays while it is non-zero.
	///
	ST byte

	/// Cycles is how many instructions have been executed since reset.
	///
	Cycles int64

	/// W is the wait key (V-register) index. When waiting for a key
	/// to be pressed, it is set to 0..F, otherwise it is NoWait.
	///
	W int

	/// Keys hold the current state for the 16-key pad keys. It is the
	/// default Keypad.
	///
	Keys Keys

	/// Keypad is queried by the key instructions. Defaults to &Keys.
	///
	Keypad Keypad

	/// Rand is the source used by RND.
	///
	Rand *rand.Rand

	/// Breakpoints are addresses RunFrame stops at.
	///
	Breakpoints map[uint16]Breakpoint

	// fault is set by a fatal error and cleared by Reset.
	fault error

	// resume skips the breakpoint check for the next instruction.
	resume bool

	// held are the keys down when the key wait began.
	held uint16
}

/// NoWait is the value of W when the virtual machine is not waiting
/// for a key press.
///
const NoWait = -1

/// New creates a CHIP-8 virtual machine with no program loaded.
///
func New() *CHIP_8 {
	seed := uint64(time.Now().UnixNano())

	vm := &CHIP_8{
		Rand:        rand.New(rand.NewPCG(seed, seed>>32)),
		Breakpoints: make(map[uint16]Breakpoint),
	}

	vm.Keypad = &vm.Keys

	// the font is present even without a program
	copy(vm.ROM[FontBase:], Font[:])

	// reset the VM memory
	vm.Reset()

	return vm
}

/// LoadROM creates a new CHIP-8 virtual machine running program.
///
func LoadROM(program []byte) (*CHIP_8, error) {
	vm := New()

	if err := vm.Load(program); err != nil {
		return nil, err
	}

	return vm, nil
}

/// Load writes the font sprites and program into memory and resets the
/// virtual machine. Nothing is written if the program does not fit.
///
func (vm *CHIP_8) Load(program []byte) error {
	if len(program) > ProgramSize {
		return &LoadError{Size: len(program), Err: ErrImageTooLarge}
	}

	vm.ROM = [MemorySize]byte{}

	// copy the font sprites into the CHIP-8
	copy(vm.ROM[FontBase:], Font[:])

	// copy the program into the CHIP-8
	copy(vm.ROM[ProgramBase:], program)

	// reset the VM memory
	vm.Reset()

	return nil
}

/// Reset the CHIP-8 virtual machine memory.
///
func (vm *CHIP_8) Reset() {
	vm.Memory = vm.ROM

	// reset video memory
	vm.Video = [VideoSize]byte{}

	// reset keys
	vm.Keys = Keys{}

	// reset program counter and stack
	vm.PC = ProgramBase
	vm.SP = 0
	vm.Stack = [StackDepth]uint16{}

	// reset address register
	vm.I = 0

	// reset virtual registers
	vm.V = [16]byte{}

	// reset timer registers
	vm.DT = 0
	vm.ST = 0

	// reset the cycles executed
	vm.Cycles = 0

	// not waiting for a key
	vm.W = NoWait

	// clear any fault
	vm.fault = nil
	vm.resume = false
	vm.held = 0
}

/// PressKey emulates a CHIP-8 key being pressed.
///
func (vm *CHIP_8) PressKey(key uint) {
	if key < 16 {
		vm.Keys[key] = true
	}
}

/// ReleaseKey emulates a CHIP-8 key being released.
///
func (vm *CHIP_8) ReleaseKey(key uint) {
	if key < 16 {
		vm.Keys[key] = false
	}
}

/// Waiting is true while an LD Vx, K instruction waits for a key.
///
func (vm *CHIP_8) Waiting() bool {
	return vm.W != NoWait
}

/// PollKey resolves a pending LD Vx, K instruction once a key goes
/// down. Keys already held when the wait began must be released and
/// pressed again. It returns true if the wait was satisfied.
///
func (vm *CHIP_8) PollKey() bool {
	if vm.W == NoWait {
		return false
	}

	if _, ok := vm.Keypad.AnyPressed(); !ok {
		vm.held = 0
		return false
	}

	for key := range byte(16) {
		bit := uint16(1) << key

		if !vm.Keypad.IsPressed(key) {
			vm.held &^= bit
			continue
		}

		// still down from before the wait
		if vm.held&bit != 0 {
			continue
		}

		// store the key and resume execution
		vm.V[vm.W] = key
		vm.W = NoWait
		vm.held = 0

		return true
	}

	return false
}

/// TickTimers counts the delay and sound timers down toward zero. It
/// should be called at 60 Hz, independent of the instruction rate.
///
func (vm *CHIP_8) TickTimers() {
	if vm.DT > 0 {
		vm.DT--
	}
	if vm.ST > 0 {
		vm.ST--
	}
}

/// Sounding is true while the sound timer is running.
///
func (vm *CHIP_8) Sounding() bool {
	return vm.ST > 0
}

/// Fault returns the fatal error that halted the virtual machine, if any.
///
func (vm *CHIP_8) Fault() error {
	return vm.fault
}

/// RunFrame runs one frame of emulation: resolve a pending key wait,
/// execute up to cycles instructions, then tick the timers. Unknown
/// instructions are skipped and the first one is returned after the
/// frame completes. A breakpoint or fault stops the frame early, in
/// which case the timers are not ticked.
///
func (vm *CHIP_8) RunFrame(cycles int) error {
	var skipped error

	vm.PollKey()

	for i := 0; i < cycles && !vm.Waiting(); i++ {
		if bp, ok := vm.Breakpoints[vm.PC]; ok && !vm.resume {
			if bp.Once {
				delete(vm.Breakpoints, bp.Address)
			}

			// resuming will step past it
			vm.resume = true

			return &BreakpointError{Breakpoint: bp}
		}

		if err := vm.Step(); err != nil {
			var unknown *UnknownOpcodeError
			if !errors.As(err, &unknown) {
				return err
			}

			if skipped == nil {
				skipped = err
			}
		}
	}

	vm.TickTimers()

	return skipped
}
