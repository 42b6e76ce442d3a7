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

	"github.com/massung/chip8vm/internal/translate"
)

var f = translate.From

var (
	// Load errors
	ErrImageTooLarge = errors.New(f("program image too large"))

	// Fatal execution errors
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))

	// Non-fatal execution errors
	ErrUnknownOpcode = errors.New(f("unknown opcode"))
	ErrBreakpoint    = errors.New(f("breakpoint"))

	// Assembler errors
	ErrExpectedLabel      = errors.New(f("expected label"))
	ErrExpectedOperand    = errors.New(f("expected operand"))
	ErrUnexpectedToken    = errors.New(f("unexpected token"))
	ErrIllegalIndirection = errors.New(f("illegal indirection"))
	ErrIllegalExpression  = errors.New(f("illegal expression"))
	ErrIllegalLiteral     = errors.New(f("illegal literal"))
	ErrUnterminatedString = errors.New(f("unterminated string"))
	ErrIllegalInstruction = errors.New(f("illegal instruction"))
	ErrIllegalDirective   = errors.New(f("illegal directive"))
	ErrIllegalAssignment  = errors.New(f("illegal label assignment"))
	ErrDuplicateLabel     = errors.New(f("duplicate label"))
	ErrUnresolvedLabel    = errors.New(f("unresolved label"))
)

/// LoadError is returned when a program image cannot be loaded.
///
type LoadError struct {
	Size int
	Err  error
}

func (err *LoadError) Error() string {
	return f("%v: %v bytes, %v available", err.Err, err.Size, ProgramSize)
}

func (err *LoadError) Unwrap() error {
	return err.Err
}

/// UnknownOpcodeError reports an instruction that matched no dispatch case.
///
type UnknownOpcodeError struct {
	Address uint16
	Opcode  uint16
}

func (err *UnknownOpcodeError) Error() string {
	return f("unknown opcode %04X at %04X", err.Opcode, err.Address)
}

func (err *UnknownOpcodeError) Is(target error) bool {
	return target == ErrUnknownOpcode
}

/// FaultError is a fatal execution error. The virtual machine stays halted
/// on the faulting instruction until it is reset.
///
type FaultError struct {
	Address uint16
	Opcode  uint16
	Err     error
}

func (err *FaultError) Error() string {
	return f("%v at %04X (%04X)", err.Err, err.Address, err.Opcode)
}

func (err *FaultError) Unwrap() error {
	return err.Err
}

/// BreakpointError is returned when execution reaches a breakpoint.
///
type BreakpointError struct {
	Breakpoint Breakpoint
}

func (err *BreakpointError) Error() string {
	if err.Breakpoint.Reason == "" {
		return f("breakpoint at %04X", err.Breakpoint.Address)
	}

	return f("breakpoint at %04X: %v", err.Breakpoint.Address, err.Breakpoint.Reason)
}

func (err *BreakpointError) Is(target error) bool {
	return target == ErrBreakpoint
}

/// AsmError is an assembler failure on a line of source.
///
type AsmError struct {
	Line int
	Err  error
}

func (err *AsmError) Error() string {
	if err.Line == 0 {
		return err.Err.Error()
	}

	return f("line %v: %v", err.Line, err.Err)
}

func (err *AsmError) Unwrap() error {
	return err.Err
}
