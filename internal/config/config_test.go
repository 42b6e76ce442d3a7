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

package config

import (
	"bytes"
	"errors"
	"flag"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Options
	}{
		{
			name: "defaults",
			args: []string{"chip8"},
			want: Options{Cycles: DefaultCycles, Scale: DefaultScale, Foreground: 0x8FD18F, Background: 0x0F1F0F},
		},
		{
			name: "program",
			args: []string{"chip8", "pong.ch8"},
			want: Options{Input: "pong.ch8", Cycles: DefaultCycles, Scale: DefaultScale, Foreground: 0x8FD18F, Background: 0x0F1F0F},
		},
		{
			name: "all flags",
			args: []string{"chip8", "-asm", "-cycles", "20", "-scale", "8", "-tty", "-paused", "-seed", "42",
				"-debug", "-fg", "#FFFFFF", "-bg", "000000", "game.c8"},
			want: Options{
				Input:      "game.c8",
				Assembly:   true,
				Cycles:     20,
				Scale:      8,
				Terminal:   true,
				Paused:     true,
				Seed:       42,
				Debug:      true,
				Foreground: 0xFFFFFF,
				Background: 0x000000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlags(tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"chip8", "-nope"}},
		{"two programs", []string{"chip8", "a.ch8", "b.ch8"}},
		{"cycles too low", []string{"chip8", "-cycles", "0"}},
		{"cycles too high", []string{"chip8", "-cycles", "1001"}},
		{"scale", []string{"chip8", "-scale", "0"}},
		{"asm without file", []string{"chip8", "-asm"}},
		{"short color", []string{"chip8", "-fg", "#FFF"}},
		{"bad color", []string{"chip8", "-bg", "#GG0000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)

			var usage *UsageError
			assert.True(t, errors.As(err, &usage))
			assert.NotEmpty(t, usage.Error())

			var buf bytes.Buffer
			usage.ShowUsage(&buf)
			assert.Contains(t, buf.String(), "-cycles")
		})
	}
}

func TestParseFlagsHelp(t *testing.T) {
	for _, arg := range []string{"-h", "-help"} {
		_, err := ParseFlags([]string{"chip8", arg})
		assert.ErrorIs(t, err, flag.ErrHelp)

		var usage *UsageError
		assert.True(t, errors.As(err, &usage))
	}

	// other usage errors aren't requests for help
	_, err := ParseFlags([]string{"chip8", "-nope"})
	assert.False(t, errors.Is(err, flag.ErrHelp))
}

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}
