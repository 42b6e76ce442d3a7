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

package main

import (
	"github.com/veandco/go-sdl2/sdl"
)

/// Tone settings of the sound timer buzzer.
///
const (
	SampleRate = 44100
	ToneHz     = 440
	Volume     = 48

	/// Samples queued per video frame.
	///
	frameSamples = SampleRate / 60
)

var (
	/// Audio is the opened output device, zero if there is none.
	///
	Audio sdl.AudioDeviceID

	/// Position within the square wave period.
	///
	phase int

	/// Samples for one frame of tone.
	///
	tone = make([]byte, frameSamples)
)

/// InitAudio opens the default device for unsigned 8-bit mono output.
///
func InitAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     SampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return err
	}

	Audio = dev

	// the device plays whatever is queued
	sdl.PauseAudioDevice(Audio, false)

	return nil
}

/// CloseAudio closes the output device.
///
func CloseAudio() {
	if Audio != 0 {
		sdl.CloseAudioDevice(Audio)
		Audio = 0
	}
}

/// UpdateAudio queues a frame of square wave while the sound timer runs
/// and drops the queue when it stops.
///
func UpdateAudio() {
	if Audio == 0 {
		return
	}

	if !VM.Sounding() {
		sdl.ClearQueuedAudio(Audio)
		phase = 0
		return
	}

	// keep about two frames queued
	if sdl.GetQueuedAudioSize(Audio) >= 2*frameSamples {
		return
	}

	period := SampleRate / ToneHz
	for i := range tone {
		if phase < period/2 {
			tone[i] = 128 + Volume
		} else {
			tone[i] = 128 - Volume
		}

		phase = (phase + 1) % period
	}

	_ = sdl.QueueAudio(Audio, tone)
}
