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

// Package logview keeps the lines shown in the debugger log pane.
package logview

import (
	"strings"
)

// DefaultLimit is the number of lines kept before the oldest are dropped.
const DefaultLimit = 1000

// View is an output log that can be viewed and scrolled.
type View struct {
	// buf contains each line of logged text.
	buf []string

	// pos is one past the last line visible in the window.
	pos int

	// limit is the maximum number of lines kept.
	limit int
}

// New creates a View keeping at most limit lines.
func New(limit int) *View {
	if limit <= 0 {
		limit = DefaultLimit
	}

	return &View{
		buf:   make([]string, 0, 100),
		limit: limit,
	}
}

// Log outputs a new line to the log.
func (v *View) Log(s ...string) {
	v.append(strings.Join(s, " "))
}

// Logln outputs a new line to the log, with an empty line prefixed.
func (v *View) Logln(s ...string) {
	v.append("", strings.Join(s, " "))
}

// append adds lines, following them if the view was at the end.
func (v *View) append(lines ...string) {
	follow := v.pos == len(v.buf)

	v.buf = append(v.buf, lines...)

	// drop the oldest lines
	if over := len(v.buf) - v.limit; over > 0 {
		v.buf = append(v.buf[:0], v.buf[over:]...)
		v.pos = max(v.pos-over, 0)
	}

	if follow {
		v.pos = len(v.buf)
	}
}

// Len returns the number of lines logged.
func (v *View) Len() int {
	return len(v.buf)
}

// Clear removes all lines.
func (v *View) Clear() {
	v.buf = v.buf[:0]
	v.pos = 0
}

// Window returns the last n lines visible at the scroll position.
func (v *View) Window(n int) []string {
	start := max(v.pos-n, 0)
	end := min(start+n, len(v.buf))

	return v.buf[start:end]
}

// Home scrolls the log to the beginning.
func (v *View) Home() {
	v.pos = 0
}

// End scrolls the log to the end.
func (v *View) End() {
	v.pos = len(v.buf)
}

// ScrollUp scrolls the log back one line.
func (v *View) ScrollUp() {
	v.pos = max(v.pos-1, 0)
}

// ScrollDown scrolls the log forward one line. A window of lines is
// always kept full.
func (v *View) ScrollDown(windowSize int) {
	v.pos = min(max(v.pos+1, windowSize), len(v.buf))
}
