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

/// Step the CHIP-8 virtual machine a single instruction. Nothing is
/// executed while waiting for a key. A fatal error halts the machine and
/// is returned by every further Step until it is reset.
///
func (vm *CHIP_8) Step() error {
	if vm.fault != nil {
		return vm.fault
	}

	if vm.W != NoWait {
		return nil
	}

	// fetch the next instruction
	inst := vm.fetch()

	// execute it, undoing the fetch on a fatal error
	if err := vm.Execute(inst); err != nil {
		if fault, ok := err.(*FaultError); ok {
			vm.PC = fault.Address
			vm.fault = fault
		}

		return err
	}

	return nil
}

/// SingleStep is a debugger step: a pending key wait is first resolved
/// from the keypad, then one instruction executes.
///
func (vm *CHIP_8) SingleStep() error {
	vm.PollKey()

	return vm.Step()
}

/// Execute a single, already fetched, instruction. The program counter
/// must already point past it.
///
func (vm *CHIP_8) Execute(inst uint16) error {
	vm.resume = false

	// 12-bit address operand
	a := inst & 0xFFF

	// byte and nibble operands
	b := byte(inst & 0xFF)
	n := byte(inst & 0xF)

	// x and y register operands
	x := uint(inst >> 8 & 0xF)
	y := uint(inst >> 4 & 0xF)

	// increment the cycle count
	vm.Cycles += 1

	// instruction decoding
	switch inst >> 12 {
	case 0x0:
		switch inst {
		case 0x00E0:
			vm.cls()
		case 0x00EE:
			return vm.ret(inst)
		default:
			return vm.unknown(inst)
		}
	case 0x1:
		vm.jump(a)
	case 0x2:
		return vm.call(inst, a)
	case 0x3:
		vm.skipIf(x, b)
	case 0x4:
		vm.skipIfNot(x, b)
	case 0x5:
		vm.skipIfXY(x, y)
	case 0x6:
		vm.loadX(x, b)
	case 0x7:
		vm.addX(x, b)
	case 0x8:
		switch n {
		case 0x0:
			vm.loadXY(x, y)
		case 0x1:
			vm.or(x, y)
		case 0x2:
			vm.and(x, y)
		case 0x3:
			vm.xor(x, y)
		case 0x4:
			vm.addXY(x, y)
		case 0x5:
			vm.subXY(x, y)
		case 0x6:
			vm.shr(x)
		case 0x7:
			vm.subYX(x, y)
		case 0xE:
			vm.shl(x)
		default:
			return vm.unknown(inst)
		}
	case 0x9:
		vm.skipIfNotXY(x, y)
	case 0xA:
		vm.loadI(a)
	case 0xB:
		vm.jumpV0(a)
	case 0xC:
		vm.rnd(x, b)
	case 0xD:
		vm.drw(x, y, n)
	case 0xE:
		switch b {
		case 0x9E:
			vm.skipIfPressed(x)
		case 0xA1:
			vm.skipIfNotPressed(x)
		default:
			return vm.unknown(inst)
		}
	case 0xF:
		switch b {
		case 0x07:
			vm.loadXDT(x)
		case 0x0A:
			vm.loadXK(x)
		case 0x15:
			vm.loadDTX(x)
		case 0x18:
			vm.loadSTX(x)
		case 0x1E:
			vm.addIX(x)
		case 0x29:
			vm.loadF(x)
		case 0x33:
			vm.loadB(x)
		case 0x55:
			vm.saveRegs(x)
		case 0x65:
			vm.loadRegs(x)
		default:
			return vm.unknown(inst)
		}
	}

	return nil
}

/// Fetch the next 16-bit instruction to execute.
///
func (vm *CHIP_8) fetch() uint16 {
	i := vm.PC

	// advance the program counter
	vm.PC = (vm.PC + 2) & 0xFFF

	// return the 16-bit instruction
	return uint16(vm.Memory[i&0xFFF])<<8 | uint16(vm.Memory[(i+1)&0xFFF])
}

/// Address of the instruction currently executing.
///
func (vm *CHIP_8) current() uint16 {
	return (vm.PC - 2) & 0xFFF
}

/// Report an instruction that doesn't decode. It is skipped.
///
func (vm *CHIP_8) unknown(inst uint16) error {
	return &UnknownOpcodeError{Address: vm.current(), Opcode: inst}
}

/// Skip the next instruction.
///
func (vm *CHIP_8) skip() {
	vm.PC = (vm.PC + 2) & 0xFFF
}

/// Clear the video display memory.
///
func (vm *CHIP_8) cls() {
	for i := range vm.Video {
		vm.Video[i] = 0
	}
}

/// call a subroutine at address.
///
func (vm *CHIP_8) call(inst, address uint16) error {
	if vm.SP == StackDepth {
		return &FaultError{Address: vm.current(), Opcode: inst, Err: ErrStackOverflow}
	}

	// push program counter onto stack
	vm.Stack[vm.SP] = vm.PC
	vm.SP++

	// jump to address
	vm.PC = address

	return nil
}

/// return from subroutine.
///
func (vm *CHIP_8) ret(inst uint16) error {
	if vm.SP == 0 {
		return &FaultError{Address: vm.current(), Opcode: inst, Err: ErrStackUnderflow}
	}

	// restore program counter
	vm.SP--
	vm.PC = vm.Stack[vm.SP]

	return nil
}

/// jump to address.
///
func (vm *CHIP_8) jump(address uint16) {
	vm.PC = address
}

/// jump to address + v0.
///
func (vm *CHIP_8) jumpV0(address uint16) {
	vm.PC = (address + uint16(vm.V[0])) & 0xFFF
}

/// skip next instruction if vx == n.
///
func (vm *CHIP_8) skipIf(x uint, b byte) {
	if vm.V[x] == b {
		vm.skip()
	}
}

/// skip next instruction if vx != n.
///
func (vm *CHIP_8) skipIfNot(x uint, b byte) {
	if vm.V[x] != b {
		vm.skip()
	}
}

/// skip next instruction if vx == vy.
///
func (vm *CHIP_8) skipIfXY(x, y uint) {
	if vm.V[x] == vm.V[y] {
		vm.skip()
	}
}

/// skip next instruction if vx != vy.
///
func (vm *CHIP_8) skipIfNotXY(x, y uint) {
	if vm.V[x] != vm.V[y] {
		vm.skip()
	}
}

/// skip next instruction if key(vx) is pressed.
///
func (vm *CHIP_8) skipIfPressed(x uint) {
	if vm.Keypad.IsPressed(vm.V[x] & 0xF) {
		vm.skip()
	}
}

/// skip next instruction if key(vx) is not pressed.
///
func (vm *CHIP_8) skipIfNotPressed(x uint) {
	if !vm.Keypad.IsPressed(vm.V[x] & 0xF) {
		vm.skip()
	}
}

/// load n into vx.
///
func (vm *CHIP_8) loadX(x uint, b byte) {
	vm.V[x] = b
}

/// load y into vx.
///
func (vm *CHIP_8) loadXY(x, y uint) {
	vm.V[x] = vm.V[y]
}

/// load delay timer into vx.
///
func (vm *CHIP_8) loadXDT(x uint) {
	vm.V[x] = vm.DT
}

/// load vx into delay timer.
///
func (vm *CHIP_8) loadDTX(x uint) {
	vm.DT = vm.V[x]
}

/// load vx into sound timer.
///
func (vm *CHIP_8) loadSTX(x uint) {
	vm.ST = vm.V[x]
}

/// load vx with next key hit. Execution is suspended until the driver
/// polls a key press. Keys already down don't count.
///
func (vm *CHIP_8) loadXK(x uint) {
	vm.W = int(x)
	vm.held = 0

	for key := range byte(16) {
		if vm.Keypad.IsPressed(key) {
			vm.held |= 1 << key
		}
	}
}

/// load address register.
///
func (vm *CHIP_8) loadI(address uint16) {
	vm.I = address
}

/// load address with BCD of vx.
///
func (vm *CHIP_8) loadB(x uint) {
	n := vm.V[x]

	// write to memory
	vm.Memory[(vm.I+0)&0xFFF] = n / 100
	vm.Memory[(vm.I+1)&0xFFF] = n / 10 % 10
	vm.Memory[(vm.I+2)&0xFFF] = n % 10
}

/// load font sprite for vx into I.
///
func (vm *CHIP_8) loadF(x uint) {
	vm.I = FontBase + uint16(vm.V[x])*5
}

/// or vx with vy into vx.
///
func (vm *CHIP_8) or(x, y uint) {
	vm.V[x] |= vm.V[y]
}

/// and vx with vy into vx.
///
func (vm *CHIP_8) and(x, y uint) {
	vm.V[x] &= vm.V[y]
}

/// xor vx with vy into vx.
///
func (vm *CHIP_8) xor(x, y uint) {
	vm.V[x] ^= vm.V[y]
}

/// shl vx 1 bit, set carry to MSB of vx before shift.
///
func (vm *CHIP_8) shl(x uint) {
	c := vm.V[x] >> 7

	vm.V[x] <<= 1
	vm.V[0xF] = c
}

/// shr vx 1 bit, set carry to LSB of vx before shift.
///
func (vm *CHIP_8) shr(x uint) {
	c := vm.V[x] & 1

	vm.V[x] >>= 1
	vm.V[0xF] = c
}

/// add n to vx.
///
func (vm *CHIP_8) addX(x uint, b byte) {
	vm.V[x] += b
}

/// add vy to vx and set carry.
///
func (vm *CHIP_8) addXY(x, y uint) {
	sum := uint(vm.V[x]) + uint(vm.V[y])

	vm.V[x] = byte(sum)
	vm.V[0xF] = byte(sum >> 8)
}

/// add vx to i.
///
func (vm *CHIP_8) addIX(x uint) {
	vm.I += uint16(vm.V[x])
}

/// subtract vy from vx, set carry if no borrow.
///
func (vm *CHIP_8) subXY(x, y uint) {
	c := carry(vm.V[x] >= vm.V[y])

	vm.V[x] -= vm.V[y]
	vm.V[0xF] = c
}

/// subtract vx from vy and store in vx, set carry if no borrow.
///
func (vm *CHIP_8) subYX(x, y uint) {
	c := carry(vm.V[y] >= vm.V[x])

	vm.V[x] = vm.V[y] - vm.V[x]
	vm.V[0xF] = c
}

/// load a random number & n into vx.
///
func (vm *CHIP_8) rnd(x uint, b byte) {
	vm.V[x] = byte(vm.Rand.Uint32()) & b
}

/// draw a sprite at I to video memory at vx, vy.
///
func (vm *CHIP_8) drw(x, y uint, n byte) {
	c := false

	// origin of the sprite
	px := int(vm.V[x])
	py := int(vm.V[y])

	// draw each row of the sprite, msb is the left-most pixel
	for i := 0; i < int(n); i++ {
		s := vm.Memory[(vm.I+uint16(i))&0xFFF]

		for j := 0; j < 8; j++ {
			if s&(0x80>>uint(j)) != 0 {
				// were any pixels turned off?
				if vm.flip(px+j, py+i) {
					c = true
				}
			}
		}
	}

	// set carry flag if any collision occurred
	vm.V[0xF] = carry(c)
}

/// save registers v0..vx to I.
///
func (vm *CHIP_8) saveRegs(x uint) {
	for i := uint(0); i <= x; i++ {
		vm.Memory[(vm.I+uint16(i))&0xFFF] = vm.V[i]
	}
}

/// load registers v0..vx from I.
///
func (vm *CHIP_8) loadRegs(x uint) {
	for i := uint(0); i <= x; i++ {
		vm.V[i] = vm.Memory[(vm.I+uint16(i))&0xFFF]
	}
}

/// convert a condition to a VF flag value.
///
func carry(c bool) byte {
	if c {
		return 1
	}

	return 0
}
