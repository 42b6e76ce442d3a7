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

	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

/// Disassemble the CHIP-8 instruction at an address.
///
func (vm *CHIP_8) Disassemble(address uint16) string {
	if int(address) >= len(vm.Memory)-1 {
		return ""
	}

	// fetch the instruction at this location
	inst := vm.opcode(address)

	// end of program memory?
	if inst == 0 {
		return fmt.Sprintf("%04X -", address)
	}

	return fmt.Sprintf("%04X - %s", address, Disassemble(inst))
}

/// Disassemble a single instruction.
///
func Disassemble(inst uint16) string {
	name, ok := mnemonic(inst)
	if !ok {
		return "??"
	}

	// some instructions take no operands
	ops := operands(inst)
	if ops == "" {
		return name
	}

	return fmt.Sprintf("%-6s %s", name, ops)
}

/// Find the mnemonic for an instruction in the opcode table.
///
func mnemonic(inst uint16) (string, bool) {
	for _, op := range cpu.Opcodes[int(inst>>12)] {
		if op.Instruction != nil && op.Info.Mask&inst == op.Info.Value {
			return strings.ToUpper(op.Instruction.Name), true
		}
	}

	return "", false
}

/// Format the operands of an instruction.
///
func operands(inst uint16) string {
	// 12-bit literal address
	a := inst & 0xFFF

	// byte and nibble literals
	b := byte(inst & 0xFF)
	n := byte(inst & 0xF)

	// vx and vy registers
	x := inst >> 8 & 0xF
	y := inst >> 4 & 0xF

	switch inst >> 12 {
	case 0x0:
		if inst == 0x00E0 || inst == 0x00EE {
			return ""
		}
		return fmt.Sprintf("#%04X", a)
	case 0x1, 0x2:
		return fmt.Sprintf("#%04X", a)
	case 0x3, 0x4, 0x6, 0x7, 0xC:
		return fmt.Sprintf("V%X, #%02X", x, b)
	case 0x5, 0x9:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0x8:
		if n == 0x6 || n == 0xE {
			return fmt.Sprintf("V%X", x)
		}
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA:
		return fmt.Sprintf("I, #%04X", a)
	case 0xB:
		return fmt.Sprintf("V0, #%04X", a)
	case 0xD:
		return fmt.Sprintf("V%X, V%X, %d", x, y, n)
	case 0xE:
		return fmt.Sprintf("V%X", x)
	}

	// the F-family is distinguished by its low byte
	switch b {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x1E:
		return fmt.Sprintf("I, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}

	return ""
}
