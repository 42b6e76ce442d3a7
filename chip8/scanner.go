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
	"strconv"
	"strings"
)

/// tokenType is the kind of a token.
///
type tokenType uint

/// Kinds of token.
///
const (
	TOKEN_END tokenType = iota
	TOKEN_CHAR
	TOKEN_LABEL
	TOKEN_REF
	TOKEN_INSTRUCTION
	TOKEN_ADDRESS
	TOKEN_OPERAND
	TOKEN_V
	TOKEN_B
	TOKEN_I
	TOKEN_F
	TOKEN_K
	TOKEN_DT
	TOKEN_ST
	TOKEN_LIT
	TOKEN_TEXT
	TOKEN_EXPR
	TOKEN_BREAK
	TOKEN_EQU
)

/// token is one lexeme and its value.
///
type token struct {
	typ tokenType

	// literal value or text, depending on typ
	val any
}

/// tokenScanner splits one source line into tokens.
///
type tokenScanner struct {
	bytes []byte

	// offset into bytes
	pos int
}

/// Mnemonics and directives that begin an instruction.
///
var instructions = map[string]bool{
	"CLS": true, "RET": true, "JP": true, "CALL": true, "SE": true, "SNE": true,
	"SKP": true, "SKNP": true, "LD": true, "OR": true, "AND": true, "XOR": true,
	"ADD": true, "SUB": true, "SUBN": true, "SHR": true, "SHL": true, "RND": true,
	"DRW": true, "BYTE": true, "WORD": true, "ALIGN": true, "PAD": true,
}

/// scanToken returns the next token on the line, TOKEN_END once exhausted.
///
func (s *tokenScanner) scanToken() token {
	for len(s.bytes) > s.pos && s.bytes[s.pos] < 33 {
		s.pos++
	}

	// nothing left on the line
	if len(s.bytes) <= s.pos {
		return token{typ: TOKEN_END, val: ""}
	}

	// peek
	c := s.bytes[s.pos]

	switch {
	case c == ';':
		return s.scanToEnd()
	case c == '.' && s.pos == 0:
		return s.scanLabel()
	case s.pos == 0:
		panic(ErrExpectedLabel)
	case c == '[':
		return s.scanIndirection()
	case c == '(':
		return s.scanExpression()
	case c == ',':
		return s.scanOperand()
	case c == '#':
		return s.scanHexLit()
	case c == '$':
		return s.scanBinLit()
	case c == '-' || c >= '0' && c <= '9':
		return s.scanDecLit()
	case c >= 'A' && c <= 'Z' || c == '_':
		return s.scanIdentifier()
	case c == '"' || c == '\'':
		return s.scanString(c)
	}

	return s.scanChar()
}

/// scanOperands reads the operand list of an instruction.
///
func (s *tokenScanner) scanOperands() []token {
	tokens := make([]token, 0, 3)

	// no more operands
	for t := s.scanToken(); t.typ != TOKEN_END; {
		tokens = append(tokens, t)

		// end of the line?
		if t = s.scanToken(); t.typ != TOKEN_OPERAND {
			if t.typ == TOKEN_END {
				break
			}

			panic(ErrUnexpectedToken)
		}

		// operand value
		t = t.val.(token)
	}

	return tokens
}

/// scanChar returns a punctuation character.
///
func (s *tokenScanner) scanChar() token {
	i := s.pos

	// move past it
	s.pos += 1

	// single character
	return token{typ: TOKEN_CHAR, val: s.bytes[i]}
}

/// scanToEnd consumes the remainder of the line.
///
func (s *tokenScanner) scanToEnd() token {
	text := string(s.bytes[s.pos:])

	// consume everything
	s.pos = len(s.bytes)

	// drop the comment character
	text = strings.TrimPrefix(strings.TrimSpace(text), ";")

	return token{typ: TOKEN_END, val: strings.TrimSpace(text)}
}

/// scanOperand reads one operand after a comma.
///
func (s *tokenScanner) scanOperand() token {
	s.pos += 1

	// operand follows
	t := s.scanToken()

	// operand required
	if t.typ == TOKEN_END {
		panic(ErrExpectedOperand)
	}

	return token{typ: TOKEN_OPERAND, val: t}
}

/// scanLabel reads a .LABEL definition at column 0.
///
func (s *tokenScanner) scanLabel() token {
	s.pos += 1

	// first character must start an identifier
	if s.pos < len(s.bytes) && (s.bytes[s.pos] >= 'A' && s.bytes[s.pos] <= 'Z' || s.bytes[s.pos] == '_') {
		if id := s.scanIdentifier(); id.typ == TOKEN_REF {
			return token{typ: TOKEN_LABEL, val: id.val}
		}
	}

	panic(ErrExpectedLabel)
}

/// scanIdentifier classifies a mnemonic, register or label reference.
///
func (s *tokenScanner) scanIdentifier() token {
	i := s.pos

	// consume the rest of the identifier
	for ; s.pos < len(s.bytes); s.pos++ {
		c := s.bytes[s.pos]

		// identifier characters
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			break
		}
	}

	// extract the identifier
	id := string(s.bytes[i:s.pos])

	// v-registers are V followed by a single hex digit
	if len(id) == 2 && id[0] == 'V' {
		if n, err := strconv.ParseUint(id[1:], 16, 4); err == nil {
			return token{typ: TOKEN_V, val: int(n)}
		}
	}

	// mnemonic, register, or a label reference
	switch id {
	case "I":
		return token{typ: TOKEN_I}
	case "B":
		return token{typ: TOKEN_B}
	case "F":
		return token{typ: TOKEN_F}
	case "K":
		return token{typ: TOKEN_K}
	case "D", "DT":
		return token{typ: TOKEN_DT}
	case "S", "ST":
		return token{typ: TOKEN_ST}
	case "BREAK":
		return token{typ: TOKEN_BREAK}
	case "EQU":
		return token{typ: TOKEN_EQU}
	}

	if instructions[id] {
		return token{typ: TOKEN_INSTRUCTION, val: id}
	}

	return token{typ: TOKEN_REF, val: id}
}

/// scanIndirection reads a [ ] operand.
///
func (s *tokenScanner) scanIndirection() token {
	s.pos += 1

	// scan the next token to take the indirect address of
	t := s.scanToken()

	// expect ']'
	if c := s.scanToken(); c.typ != TOKEN_CHAR || c.val.(byte) != ']' {
		panic(ErrIllegalIndirection)
	}

	return token{typ: TOKEN_ADDRESS, val: t}
}

/// scanExpression captures a ( ) expression for later evaluation.
///
func (s *tokenScanner) scanExpression() token {
	depth := 0
	i := s.pos

	for ; s.pos < len(s.bytes); s.pos++ {
		switch s.bytes[s.pos] {
		case '(':
			depth++
		case ')':
			depth--
		}

		if depth == 0 {
			s.pos++

			return token{typ: TOKEN_EXPR, val: string(s.bytes[i:s.pos])}
		}
	}

	panic(ErrIllegalExpression)
}

/// scanDecLit reads a decimal literal.
///
func (s *tokenScanner) scanDecLit() token {
	i := s.pos

	// optional sign
	if s.bytes[i] == '-' {
		s.pos += 1
	}

	// consume decimal digits
	for ; s.pos < len(s.bytes); s.pos += 1 {
		if strings.IndexByte("0123456789", s.bytes[s.pos]) < 0 {
			break
		}
	}

	// convert the value to a signed number
	if n, err := strconv.ParseInt(string(s.bytes[i:s.pos]), 10, 32); err == nil {
		return token{typ: TOKEN_LIT, val: int(n)}
	}

	panic(ErrIllegalLiteral)
}

/// scanHexLit reads a # literal.
///
func (s *tokenScanner) scanHexLit() token {
	i := s.pos

	// consume hex digits
	for s.pos += 1; s.pos < len(s.bytes); s.pos += 1 {
		if strings.IndexByte("0123456789ABCDEF", s.bytes[s.pos]) < 0 {
			break
		}
	}

	// parse the hex digits
	if n, err := strconv.ParseInt(string(s.bytes[i+1:s.pos]), 16, 32); err == nil {
		return token{typ: TOKEN_LIT, val: int(n)}
	}

	panic(ErrIllegalLiteral)
}

/// scanBinLit reads a $ literal.
///
func (s *tokenScanner) scanBinLit() token {
	i := s.pos

	// consume binary digits
	for s.pos += 1; s.pos < len(s.bytes); s.pos += 1 {
		if strings.IndexByte(".01", s.bytes[s.pos]) < 0 {
			break
		}
	}

	// dots are zero bits
	v := strings.ReplaceAll(string(s.bytes[i+1:s.pos]), ".", "0")

	// convert the binary value to an unsigned number
	if n, err := strconv.ParseInt(v, 2, 32); err == nil {
		return token{typ: TOKEN_LIT, val: int(n)}
	}

	panic(ErrIllegalLiteral)
}

/// scanString reads text up to the term quote.
///
func (s *tokenScanner) scanString(term byte) token {
	s.pos += 1

	// token start
	i := s.pos

	// up to the closing quote
	for s.pos < len(s.bytes) && s.bytes[s.pos] != term {
		s.pos++
	}

	if s.pos == len(s.bytes) {
		panic(ErrUnterminatedString)
	}

	// skip the closing quote
	s.pos++

	return token{typ: TOKEN_TEXT, val: string(s.bytes[i : s.pos-1])}
}
