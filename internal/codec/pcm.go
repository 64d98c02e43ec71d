package codec

import "encoding/binary"

// Fixed PCM layout of the speech provider's output.
const (
	DefaultSampleRate = 24000
	Channels          = 1
	BitsPerSample     = 16
	bytesPerSample    = BitsPerSample / 8
)

// pcmScale is the magnitude of the most negative int16. Both signs are
// divided by it, so full-scale positive maps to 32767/32768, not 1.0.
const pcmScale = 32768.0

// PCMToSamples interprets pcm as signed 16-bit little-endian mono samples
// and returns them normalized to [-1.0, 1.0). A trailing odd byte is
// ignored. sampleRate does not change the values; it is accepted so the
// signature matches what the audio sink is handed alongside the samples.
func PCMToSamples(pcm []byte, sampleRate int) []float32 {
	n := len(pcm) / bytesPerSample
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(pcm[i*bytesPerSample:]))
		out[i] = float32(float64(s) / pcmScale)
	}
	return out
}

// Duration returns the playback length in seconds of pcm at sampleRate.
func Duration(pcm []byte, sampleRate int) float64 {
	return float64(len(pcm)/bytesPerSample) / float64(normalizeRate(sampleRate))
}

func normalizeRate(sampleRate int) int {
	if sampleRate <= 0 {
		return DefaultSampleRate
	}
	return sampleRate
}
