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
	"fmt"
	"strings"
)

/// Breakpoint halts RunFrame before the instruction at Address executes.
///
type Breakpoint struct {
	Address uint16
	Reason  string

	/// Once breakpoints are removed when hit.
	///
	Once bool
}

/// ToggleBreakpoint adds or removes a breakpoint at the program counter.
/// It returns true if a breakpoint was added.
///
func (vm *CHIP_8) ToggleBreakpoint() bool {
	if _, ok := vm.Breakpoints[vm.PC]; ok {
		delete(vm.Breakpoints, vm.PC)
		return false
	}

	vm.Breakpoints[vm.PC] = Breakpoint{Address: vm.PC, Reason: "user"}
	return true
}

/// SetOverBreakpoint prepares to step over the instruction at the program
/// counter. If it is a CALL, a one-shot breakpoint is placed after it and
/// true is returned; the caller then resumes execution. Otherwise the
/// caller should single step.
///
func (vm *CHIP_8) SetOverBreakpoint() bool {
	if vm.opcode(vm.PC)&0xF000 != 0x2000 {
		return false
	}

	next := (vm.PC + 2) & 0xFFF

	if _, ok := vm.Breakpoints[next]; !ok {
		vm.Breakpoints[next] = Breakpoint{Address: next, Once: true}
	}

	return true
}

/// opcode reads the instruction at address without executing it.
///
func (vm *CHIP_8) opcode(address uint16) uint16 {
	return uint16(vm.Memory[address&0xFFF])<<8 | uint16(vm.Memory[(address+1)&0xFFF])
}

/// Dump is a snapshot of the registers, for debugging.
///
type Dump struct {
	PC     uint16
	I      uint16
	Opcode uint16
	V      [16]byte
	DT     byte
	ST     byte
	SP     uint8
	Stack  []uint16
	Cycles int64
	Wait   int
}

/// Dump returns the current register state and the instruction at PC.
///
func (vm *CHIP_8) Dump() Dump {
	return Dump{
		PC:     vm.PC,
		I:      vm.I,
		Opcode: vm.opcode(vm.PC),
		V:      vm.V,
		DT:     vm.DT,
		ST:     vm.ST,
		SP:     vm.SP,
		Stack:  append([]uint16(nil), vm.Stack[:vm.SP]...),
		Cycles: vm.Cycles,
		Wait:   vm.W,
	}
}

/// String formats the dump as a multi-line report.
///
func (d Dump) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "PC=%04X I=%04X OP=%04X %s\n", d.PC, d.I, d.Opcode, Disassemble(d.Opcode))

	for i, v := range d.V {
		fmt.Fprintf(&b, "V%X=%02X", i, v)

		if i&7 == 7 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}

	fmt.Fprintf(&b, "DT=%02X ST=%02X SP=%X", d.DT, d.ST, d.SP)

	for _, r := range d.Stack {
		fmt.Fprintf(&b, " %04X", r)
	}

	if d.Wait != NoWait {
		fmt.Fprintf(&b, "\nWAIT V%X", d.Wait)
	}

	return b.String()
}
