// Package synth renders the short procedural sound effects the client plays
// instead of shipping audio files.
package synth

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// Tone is a sine sweep from StartHz to EndHz under an exponential decay
// envelope, optionally mixed with white noise.
type Tone struct {
	StartHz  float64
	EndHz    float64
	Duration float64 // seconds
	Decay    float64 // envelope time constant in seconds
	Noise    float64 // 0..1
}

// BytesPerFrame is one 16-bit stereo frame, the format ebiten's audio
// context expects.
const BytesPerFrame = 4

// Render returns little-endian 16-bit stereo PCM for tone at sampleRate.
// The noise source is seeded so the same tone always renders the same bytes.
func Render(sampleRate int, tone Tone) []byte {
	frames := int(tone.Duration * float64(sampleRate))
	if frames <= 0 || sampleRate <= 0 {
		return nil
	}

	out := make([]byte, frames*BytesPerFrame)
	noise := rand.New(rand.NewPCG(uint64(tone.StartHz), uint64(tone.EndHz)))

	phase := 0.0
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		progress := float64(i) / float64(frames)

		freq := tone.StartHz + (tone.EndHz-tone.StartHz)*progress
		phase += 2 * math.Pi * freq / float64(sampleRate)

		sample := math.Sin(phase) * (1 - tone.Noise)
		if tone.Noise > 0 {
			sample += (noise.Float64()*2 - 1) * tone.Noise
		}
		sample *= envelope(t, tone.Decay)

		v := int16(clamp(sample, -1, 1) * math.MaxInt16 * 0.8)
		binary.LittleEndian.PutUint16(out[i*BytesPerFrame:], uint16(v))
		binary.LittleEndian.PutUint16(out[i*BytesPerFrame+2:], uint16(v))
	}
	return out
}

// envelope is a 5 ms linear attack followed by exponential decay.
func envelope(t, decay float64) float64 {
	const attack = 0.005
	if t < attack {
		return t / attack
	}
	if decay <= 0 {
		return 1
	}
	return math.Exp(-(t - attack) / decay)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
