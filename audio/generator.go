package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// floatBuffer is mono float64 samples at unity gain
type floatBuffer []float64

// sine generates a raw sine wave
func sine(freq float64, samples int) floatBuffer {
	buf := make(floatBuffer, samples)
	phase := 0.0
	phaseInc := freq / float64(SampleRate)

	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * phase)
		phase += phaseInc
		if phase >= 1.0 {
			phase -= 1.0
		}
	}
	return buf
}

// applyEnvelope applies attack/release envelope in place
func applyEnvelope(buf floatBuffer, attack, release time.Duration) {
	total := len(buf)
	attackSamples := durationToSamples(attack)
	releaseSamples := durationToSamples(release)

	releaseStart := max(total-releaseSamples, attackSamples)

	for i := 0; i < total; i++ {
		vol := 1.0
		if i < attackSamples && attackSamples > 0 {
			vol = float64(i) / float64(attackSamples)
		} else if i >= releaseStart && releaseSamples > 0 {
			vol = float64(total-i) / float64(releaseSamples)
		}
		buf[i] *= vol
	}
}

func durationToSamples(d time.Duration) int {
	return int(d.Seconds() * float64(SampleRate))
}

// toBytes converts to int16 LE with hard clipping
func (b floatBuffer) toBytes(gain float64) []byte {
	out := make([]byte, len(b)*2)
	for i, v := range b {
		v *= gain
		v = min(max(v, -1.0), 1.0)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v*32767)))
	}
	return out
}

// Tone describes one swap blip
type Tone struct {
	Freq     float64
	Duration time.Duration
	Attack   time.Duration
	Release  time.Duration
	Gain     float64
}

// DefaultTone is a short A5 blip
var DefaultTone = Tone{
	Freq:     880,
	Duration: 60 * time.Millisecond,
	Attack:   5 * time.Millisecond,
	Release:  30 * time.Millisecond,
	Gain:     0.4,
}

// PCM renders the tone to raw s16le mono bytes
func (t Tone) PCM() []byte {
	buf := sine(t.Freq, durationToSamples(t.Duration))
	applyEnvelope(buf, t.Attack, t.Release)
	return buf.toBytes(t.Gain)
}
