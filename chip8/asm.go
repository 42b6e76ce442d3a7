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
	"bufio"
	"bytes"
	"fmt"
	"runtime"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at ProgramBase.
	///
	ROM []byte

	/// Breakpoints assembled with the BREAK directive.
	///
	Breakpoints []Breakpoint

	/// Labels maps each address label to its address.
	///
	Labels map[string]uint16

	// every label and EQU assignment
	symbols map[string]token

	// ROM offsets referencing labels not yet defined
	unresolved map[int]fixup

	// source line being assembled
	line int
}

/// A forward label reference to patch once all labels are known.
///
type fixup struct {
	label string
	line  int
}

/// An instruction form: the operand types it accepts and its encoder.
/// The encoder receives register indices and literal values in operand
/// order and returns false if a value is out of range.
///
type form struct {
	ops    []tokenType
	encode func(v []int) (uint16, bool)
}

/// Encodings of every instruction mnemonic.
///
var forms = map[string][]form{
	"CLS":  {{nil, fixed(0x00E0)}},
	"RET":  {{nil, fixed(0x00EE)}},
	"JP":   {{ops(TOKEN_LIT), address(0x1000, 0)}, {ops(TOKEN_V, TOKEN_LIT), jumpV0}},
	"CALL": {{ops(TOKEN_LIT), address(0x2000, 0)}},
	"SE":   {{ops(TOKEN_V, TOKEN_LIT), immediate(0x3000)}, {ops(TOKEN_V, TOKEN_V), registers(0x5000)}},
	"SNE":  {{ops(TOKEN_V, TOKEN_LIT), immediate(0x4000)}, {ops(TOKEN_V, TOKEN_V), registers(0x9000)}},
	"SKP":  {{ops(TOKEN_V), register(0xE09E, 0)}},
	"SKNP": {{ops(TOKEN_V), register(0xE0A1, 0)}},
	"OR":   {{ops(TOKEN_V, TOKEN_V), registers(0x8001)}},
	"AND":  {{ops(TOKEN_V, TOKEN_V), registers(0x8002)}},
	"XOR":  {{ops(TOKEN_V, TOKEN_V), registers(0x8003)}},
	"SUB":  {{ops(TOKEN_V, TOKEN_V), registers(0x8005)}},
	"SUBN": {{ops(TOKEN_V, TOKEN_V), registers(0x8007)}},
	"SHR":  {{ops(TOKEN_V), shift(0x8006)}, {ops(TOKEN_V, TOKEN_V), registers(0x8006)}},
	"SHL":  {{ops(TOKEN_V), shift(0x800E)}, {ops(TOKEN_V, TOKEN_V), registers(0x800E)}},
	"RND":  {{ops(TOKEN_V, TOKEN_LIT), immediate(0xC000)}},
	"DRW":  {{ops(TOKEN_V, TOKEN_V, TOKEN_LIT), sprite}},
	"ADD": {
		{ops(TOKEN_V, TOKEN_LIT), immediate(0x7000)},
		{ops(TOKEN_V, TOKEN_V), registers(0x8004)},
		{ops(TOKEN_I, TOKEN_V), register(0xF01E, 1)},
	},
	"LD": {
		{ops(TOKEN_V, TOKEN_LIT), immediate(0x6000)},
		{ops(TOKEN_V, TOKEN_V), registers(0x8000)},
		{ops(TOKEN_I, TOKEN_LIT), address(0xA000, 1)},
		{ops(TOKEN_V, TOKEN_DT), register(0xF007, 0)},
		{ops(TOKEN_V, TOKEN_K), register(0xF00A, 0)},
		{ops(TOKEN_DT, TOKEN_V), register(0xF015, 1)},
		{ops(TOKEN_ST, TOKEN_V), register(0xF018, 1)},
		{ops(TOKEN_F, TOKEN_V), register(0xF029, 1)},
		{ops(TOKEN_B, TOKEN_V), register(0xF033, 1)},
		{ops(TOKEN_ADDRESS, TOKEN_V), register(0xF055, 1)},
		{ops(TOKEN_V, TOKEN_ADDRESS), register(0xF065, 0)},
	},
}

func ops(t ...tokenType) []tokenType {
	return t
}

func fixed(inst uint16) func([]int) (uint16, bool) {
	return func([]int) (uint16, bool) {
		return inst, true
	}
}

func address(base uint16, i int) func([]int) (uint16, bool) {
	return func(v []int) (uint16, bool) {
		return base | uint16(v[i]&0xFFF), v[i] >= 0 && v[i] < MemorySize
	}
}

func jumpV0(v []int) (uint16, bool) {
	return 0xB000 | uint16(v[1]&0xFFF), v[0] == 0 && v[1] >= 0 && v[1] < MemorySize
}

func immediate(base uint16) func([]int) (uint16, bool) {
	return func(v []int) (uint16, bool) {
		return base | uint16(v[0])<<8 | uint16(byte(v[1])), v[1] >= -0x80 && v[1] <= 0xFF
	}
}

func register(base uint16, i int) func([]int) (uint16, bool) {
	return func(v []int) (uint16, bool) {
		return base | uint16(v[i])<<8, true
	}
}

func registers(base uint16) func([]int) (uint16, bool) {
	return func(v []int) (uint16, bool) {
		return base | uint16(v[0])<<8 | uint16(v[1])<<4, true
	}
}

func shift(base uint16) func([]int) (uint16, bool) {
	return func(v []int) (uint16, bool) {
		return base | uint16(v[0])<<8 | uint16(v[0])<<4, true
	}
}

func sprite(v []int) (uint16, bool) {
	return 0xD000 | uint16(v[0])<<8 | uint16(v[1])<<4 | uint16(v[2]&0xF), v[2] >= 0 && v[2] < 0x10
}

/// Assemble a CHIP-8 source file into a program image based at
/// ProgramBase. Failures are returned as an *AsmError.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	a := &Assembly{
		ROM:        make([]byte, 0, ProgramSize),
		Labels:     make(map[string]uint16),
		symbols:    make(map[string]token),
		unresolved: make(map[int]fixup),
	}

	// assembly errors are raised as panics
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if _, fatal := r.(runtime.Error); fatal || !ok {
				panic(r)
			}

			out, err = nil, &AsmError{Line: line, Err: e}
		}
	}()

	// create simple line scanner over the file
	scanner := bufio.NewScanner(bytes.NewReader(bytes.ToUpper(program)))

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		a.line = line
		a.assemble(&tokenScanner{bytes: scanner.Bytes()})

		if len(a.ROM) > ProgramSize {
			panic(ErrImageTooLarge)
		}
	}

	if serr := scanner.Err(); serr != nil {
		return nil, &AsmError{Line: line, Err: serr}
	}

	// patch all forward references
	for offset, ref := range a.unresolved {
		t, ok := a.symbols[ref.label]
		if !ok || t.typ != TOKEN_LIT {
			line = ref.line

			panic(fmt.Errorf("%w: %s", ErrUnresolvedLabel, ref.label))
		}

		// every instruction taking an address keeps it in the low 12 bits
		a.ROM[offset] = a.ROM[offset]&0xF0 | byte(t.val.(int)>>8&0xF)
		a.ROM[offset+1] = byte(t.val.(int))
	}

	return a, nil
}

/// Load an assembled program and install its breakpoints.
///
func (vm *CHIP_8) LoadAssembly(a *Assembly) error {
	if err := vm.Load(a.ROM); err != nil {
		return err
	}

	clear(vm.Breakpoints)

	for _, bp := range a.Breakpoints {
		vm.Breakpoints[bp.Address] = bp
	}

	return nil
}

/// Address of the next assembled byte.
///
func (a *Assembly) pc() int {
	return ProgramBase + len(a.ROM)
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	// assign labels
	if t.typ == TOKEN_LABEL {
		t = a.assembleLabel(t.val.(string), s)
	}

	switch t.typ {
	case TOKEN_INSTRUCTION:
		a.assembleInstruction(t.val.(string), s)
	case TOKEN_BREAK:
		a.assembleBreakpoint(s)
	case TOKEN_END:
	default:
		panic(ErrUnexpectedToken)
	}
}

/// Scan for a label and add it to the assembly.
///
func (a *Assembly) assembleLabel(label string, s *tokenScanner) token {
	if _, exists := a.symbols[label]; exists {
		panic(fmt.Errorf("%w: %s", ErrDuplicateLabel, label))
	}

	// scan the next token
	t := s.scanToken()

	if t.typ != TOKEN_EQU {
		a.symbols[label] = token{typ: TOKEN_LIT, val: a.pc()}
		a.Labels[label] = uint16(a.pc())

		return t
	}

	// an equate is either a literal value or a v-register alias
	v := a.assembleOperand(s.scanToken(), -1)
	if v.typ != TOKEN_LIT && v.typ != TOKEN_V {
		panic(ErrIllegalAssignment)
	}

	// should be the final token
	if t = s.scanToken(); t.typ != TOKEN_END {
		panic(ErrIllegalAssignment)
	}

	a.symbols[label] = v

	return t
}

/// Create a new breakpoint at the current address.
///
func (a *Assembly) assembleBreakpoint(s *tokenScanner) {
	reason := s.scanToEnd().val.(string)

	a.Breakpoints = append(a.Breakpoints, Breakpoint{
		Address: uint16(a.pc()),
		Reason:  reason,
	})
}

/// Compile a single instruction or data directive into the assembly.
///
func (a *Assembly) assembleInstruction(i string, s *tokenScanner) {
	tokens := s.scanOperands()

	switch i {
	case "BYTE":
		a.ROM = append(a.ROM, a.assembleBYTE(tokens)...)
	case "WORD":
		a.ROM = append(a.ROM, a.assembleWORD(tokens)...)
	case "ALIGN":
		a.ROM = append(a.ROM, a.assembleALIGN(tokens)...)
	case "PAD":
		a.ROM = append(a.ROM, a.assemblePAD(tokens)...)
	default:
		inst := a.encode(i, tokens)

		a.ROM = append(a.ROM, byte(inst>>8), byte(inst))
	}
}

/// Find the first form of an instruction matching the operands.
///
func (a *Assembly) encode(i string, tokens []token) uint16 {
	for _, form := range forms[i] {
		if v, ok := a.assembleOperands(tokens, form.ops...); ok {
			if inst, ok := form.encode(v); ok {
				return inst
			}
		}
	}

	panic(fmt.Errorf("%w: %s", ErrIllegalInstruction, i))
}

/// Assemble a single operand, expanding label references and expressions.
/// Forward references are recorded against the ROM offset, unless offset
/// is negative.
///
func (a *Assembly) assembleOperand(t token, offset int) token {
	switch t.typ {
	case TOKEN_REF:
		label := t.val.(string)

		if v, exists := a.symbols[label]; exists {
			return v
		}

		if offset < 0 {
			panic(fmt.Errorf("%w: %s", ErrUnresolvedLabel, label))
		}

		a.unresolved[offset] = fixup{label: label, line: a.line}

		return token{typ: TOKEN_LIT, val: ProgramBase}
	case TOKEN_EXPR:
		return a.evaluate(t.val.(string))
	}

	return t
}

/// Match the desired token types with a list of tokens. Returns the
/// register indices and literal values of the operands.
///
func (a *Assembly) assembleOperands(tokens []token, m ...tokenType) ([]int, bool) {
	if len(tokens) != len(m) {
		return nil, false
	}

	v := make([]int, 0, len(m))

	for i, typ := range m {
		t := a.assembleOperand(tokens[i], len(a.ROM))

		if t.typ != typ {
			return nil, false
		}

		// registers without an index (I, DT, ...) have no value
		n, _ := t.val.(int)

		v = append(v, n)
	}

	return v, true
}

/// Evaluate a compile-time expression over the labels defined so far.
///
func (a *Assembly) evaluate(expr string) token {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}

	// all literal symbols are visible to the expression
	pred := starlark.StringDict{}
	for label, t := range a.symbols {
		if t.typ == TOKEN_LIT {
			pred[label] = starlark.MakeInt(t.val.(int))
		}
	}

	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", "rc="+expr+"\n", pred)
	if err != nil {
		panic(fmt.Errorf("%w: %s", ErrIllegalExpression, expr))
	}

	if rc, ok := dict["rc"].(starlark.Int); ok {
		if n, ok := rc.Int64(); ok {
			return token{typ: TOKEN_LIT, val: int(n)}
		}
	}

	panic(fmt.Errorf("%w: %s", ErrIllegalExpression, expr))
}

/// Assemble a BYTE directive.
///
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		op := a.assembleOperand(t, -1)

		switch {
		case op.typ == TOKEN_TEXT:
			b = append(b, op.val.(string)...)
		case op.typ == TOKEN_LIT && op.val.(int) >= -0x80 && op.val.(int) <= 0xFF:
			b = append(b, byte(op.val.(int)))
		default:
			panic(fmt.Errorf("%w: BYTE", ErrIllegalDirective))
		}
	}

	return b
}

/// Assemble a WORD directive.
///
func (a *Assembly) assembleWORD(tokens []token) []byte {
	b := make([]byte, 0, len(tokens)*2)

	for _, t := range tokens {
		op := a.assembleOperand(t, len(a.ROM)+len(b))

		if op.typ != TOKEN_LIT || op.val.(int) < -0x8000 || op.val.(int) > 0xFFFF {
			panic(fmt.Errorf("%w: WORD", ErrIllegalDirective))
		}

		// store msb first
		b = append(b, byte(op.val.(int)>>8), byte(op.val.(int)))
	}

	return b
}

/// Assemble an ALIGN directive.
///
func (a *Assembly) assembleALIGN(tokens []token) []byte {
	if v, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		n := v[0]

		if n > 0 && n&(n-1) == 0 {
			return make([]byte, (n-a.pc()&(n-1))&(n-1))
		}
	}

	panic(fmt.Errorf("%w: ALIGN", ErrIllegalDirective))
}

/// Assemble a PAD directive.
///
func (a *Assembly) assemblePAD(tokens []token) []byte {
	if v, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		if n := v[0]; n >= 0 && n <= ProgramSize-len(a.ROM) {
			return make([]byte, n)
		}
	}

	panic(fmt.Errorf("%w: PAD", ErrIllegalDirective))
}
