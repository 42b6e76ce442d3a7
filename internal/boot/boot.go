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

// Package boot holds the program run when no program file is given.
package boot

import (
	"github.com/massung/chip8vm/chip8"
)

// Source draws the sixteen hex digit sprites, then shows each key as it
// is pressed with a short beep.
const Source = `
; hex digit test pattern
.WIDTH  EQU   64
.LEFT   EQU   4
.ROW2   EQU   12
.DIGIT  EQU   V0
.X      EQU   V1
.Y      EQU   V2

        CLS
        LD    DIGIT, 0
        LD    X, LEFT
        LD    Y, LEFT
.DRAW   LD    F, DIGIT
        DRW   X, Y, 5
        ADD   DIGIT, 1
        ADD   X, 7
        SE    DIGIT, 8
        JP    NEXT
        LD    X, LEFT
        LD    Y, ROW2
.NEXT   SE    DIGIT, 16
        JP    DRAW

; show the last key pressed
        LD    V4, 0
        LD    V5, (WIDTH // 2 - LEFT)
        LD    V6, 22
        LD    F, V4
        DRW   V5, V6, 5
.KEY    LD    V3, K
        LD    F, V4
        DRW   V5, V6, 5
        LD    V4, V3
        LD    F, V4
        DRW   V5, V6, 5
        LD    V0, 6
        LD    ST, V0
        JP    KEY
`

// Assemble assembles the boot program.
func Assemble() (*chip8.Assembly, error) {
	return chip8.Assemble([]byte(Source))
}
