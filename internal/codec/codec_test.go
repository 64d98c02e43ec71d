package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestDecodeBase64RoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x00},
		{0x00, 0x00, 0xFF, 0x7F},
		{0x01, 0x02, 0x03, 0x04, 0x05},
		bytes.Repeat([]byte{0xAB, 0xCD, 0xEF}, 1000),
	}

	for _, in := range inputs {
		got, err := DecodeBase64(base64.StdEncoding.EncodeToString(in))
		if err != nil {
			t.Fatalf("decode %d bytes: %v", len(in), err)
		}
		if !bytes.Equal(got, in) {
			t.Fatalf("round trip mismatch for %d bytes", len(in))
		}
	}
}

func TestDecodeBase64Forgiving(t *testing.T) {
	want := []byte{0x00, 0x00, 0xFF, 0x7F}

	tests := []struct {
		name  string
		input string
	}{
		{"padded", "AAD/fw=="},
		{"unpadded", "AAD/fw"},
		{"line breaks", "AAD/\r\nfw=="},
		{"spaces and tabs", " AAD/ \tfw== "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestDecodeBase64Malformed(t *testing.T) {
	inputs := []string{
		"AA*A",
		"AAD/fw=!",
		"AA-_",       // URL alphabet is not accepted
		"A",          // impossible length
		"AAD/fw=",    // broken padding
		"AAAA====",   // excess padding
		"!!!!!!!!!!", // nothing valid at all
	}

	for _, in := range inputs {
		got, err := DecodeBase64(in)
		if err == nil {
			t.Fatalf("%q: expected error, got %v", in, got)
		}
		if !errors.Is(err, ErrDecode) {
			t.Fatalf("%q: expected ErrDecode, got %v", in, err)
		}
		if got != nil {
			t.Fatalf("%q: expected nil bytes on error, got %d bytes", in, len(got))
		}
	}
}

func TestPCMToSamplesScenario(t *testing.T) {
	pcm := []byte{0x00, 0x00, 0xFF, 0x7F}
	got := PCMToSamples(pcm, DefaultSampleRate)

	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[0] != 0 {
		t.Fatalf("expected first sample 0, got %v", got[0])
	}
	if want := float32(32767.0 / 32768.0); got[1] != want {
		t.Fatalf("expected %v, got %v", want, got[1])
	}
}

func TestPCMToSamplesAsymmetricScale(t *testing.T) {
	tests := []struct {
		name  string
		value int16
		want  float32
	}{
		{"min", math.MinInt16, -1.0},
		{"max", math.MaxInt16, 32767.0 / 32768.0},
		{"minus one", -1, -1.0 / 32768.0},
		{"one", 1, 1.0 / 32768.0},
		{"half", 16384, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pcm := make([]byte, 2)
			binary.LittleEndian.PutUint16(pcm, uint16(tt.value))
			got := PCMToSamples(pcm, DefaultSampleRate)
			if got[0] != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got[0])
			}
		})
	}
}

func TestPCMToSamplesLengthAndRange(t *testing.T) {
	// Every int16 value once.
	pcm := make([]byte, 0, 65536*2)
	for v := math.MinInt16; v <= math.MaxInt16; v++ {
		pcm = binary.LittleEndian.AppendUint16(pcm, uint16(int16(v)))
	}

	samples := PCMToSamples(pcm, DefaultSampleRate)
	if len(samples) != len(pcm)/2 {
		t.Fatalf("expected %d samples, got %d", len(pcm)/2, len(samples))
	}
	for i, s := range samples {
		if s < -1.0 || s > 32767.0/32768.0 {
			t.Fatalf("sample %d out of range: %v", i, s)
		}
	}
	if samples[0] != -1.0 {
		t.Fatalf("expected ordering preserved, first sample %v", samples[0])
	}
}

func TestPCMToSamplesOddLength(t *testing.T) {
	got := PCMToSamples([]byte{0x00, 0x40, 0x7F}, DefaultSampleRate)
	if len(got) != 1 {
		t.Fatalf("expected trailing byte to be ignored, got %d samples", len(got))
	}
	if got[0] != 0.5 {
		t.Fatalf("expected 0.5, got %v", got[0])
	}

	if got := PCMToSamples(nil, DefaultSampleRate); len(got) != 0 {
		t.Fatalf("expected no samples for nil input, got %d", len(got))
	}
}

func TestPCMToWAVScenario(t *testing.T) {
	pcm := []byte{0x00, 0x00, 0xFF, 0x7F}
	wav := PCMToWAV(pcm, 24000)

	if len(wav) != 48 {
		t.Fatalf("expected 48 bytes, got %d", len(wav))
	}

	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(wav[off:]) }
	u16 := func(off int) uint16 { return binary.LittleEndian.Uint16(wav[off:]) }

	checks := []struct {
		field string
		got   uint32
		want  uint32
	}{
		{"chunk size", u32(4), 40},
		{"subchunk1 size", u32(16), 16},
		{"audio format", uint32(u16(20)), 1},
		{"channels", uint32(u16(22)), 1},
		{"sample rate", u32(24), 24000},
		{"byte rate", u32(28), 48000},
		{"block align", uint32(u16(32)), 2},
		{"bits per sample", uint32(u16(34)), 16},
		{"data size", u32(40), 4},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %d, got %d", c.field, c.want, c.got)
		}
	}

	if !bytes.Equal(wav[44:], pcm) {
		t.Fatalf("payload mismatch: %v", wav[44:])
	}
}

func TestPCMToWAVEmpty(t *testing.T) {
	wav := PCMToWAV(nil, DefaultSampleRate)

	if len(wav) != HeaderSize {
		t.Fatalf("expected %d bytes, got %d", HeaderSize, len(wav))
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != 36 {
		t.Fatalf("expected chunk size 36, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != 0 {
		t.Fatalf("expected data size 0, got %d", got)
	}
}

func TestPCMToWAVTagsAndPayload(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 100, 4801} {
		pcm := make([]byte, n)
		for i := range pcm {
			pcm[i] = byte(i * 7)
		}
		wav := PCMToWAV(pcm, 16000)

		if len(wav) != HeaderSize+n {
			t.Fatalf("n=%d: expected length %d, got %d", n, HeaderSize+n, len(wav))
		}
		for off, tag := range map[int]string{0: "RIFF", 8: "WAVE", 12: "fmt ", 36: "data"} {
			if got := string(wav[off : off+4]); got != tag {
				t.Fatalf("n=%d: expected %q at %d, got %q", n, tag, off, got)
			}
		}
		if !bytes.Equal(wav[HeaderSize:], pcm) {
			t.Fatalf("n=%d: payload not copied verbatim", n)
		}
	}
}

func TestPCMToWAVDoesNotAliasInput(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	wav := PCMToWAV(pcm, DefaultSampleRate)
	pcm[0] = 99
	if wav[HeaderSize] != 1 {
		t.Fatal("wav payload shares memory with input")
	}
}

func TestExtractPCMRoundTrip(t *testing.T) {
	pcm := []byte{0x10, 0x00, 0x20, 0x00, 0x30, 0x00}
	wav := PCMToWAV(pcm, 22050)

	got, err := ExtractPCM(wav)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !bytes.Equal(got, pcm) {
		t.Fatalf("expected %v, got %v", pcm, got)
	}

	rate, err := WAVSampleRate(wav)
	if err != nil {
		t.Fatalf("sample rate: %v", err)
	}
	if rate != 22050 {
		t.Fatalf("expected 22050, got %d", rate)
	}
}

func TestExtractPCMSkipsExtraChunks(t *testing.T) {
	base := PCMToWAV([]byte{0xAA, 0xBB}, DefaultSampleRate)

	// Splice an odd-sized LIST chunk (with pad byte) between fmt and data.
	list := []byte{'L', 'I', 'S', 'T', 3, 0, 0, 0, 'a', 'b', 'c', 0}
	wav := append([]byte{}, base[:36]...)
	wav = append(wav, list...)
	wav = append(wav, base[36:]...)

	got, err := ExtractPCM(wav)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !bytes.Equal(got, []byte{0xAA, 0xBB}) {
		t.Fatalf("unexpected payload %v", got)
	}
}

func TestExtractPCMClampsOversizedData(t *testing.T) {
	wav := PCMToWAV([]byte{1, 2, 3, 4}, DefaultSampleRate)
	binary.LittleEndian.PutUint32(wav[40:44], 1000)

	got, err := ExtractPCM(wav)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected clamped 4 bytes, got %d", len(got))
	}
}

func TestExtractPCMInvalid(t *testing.T) {
	noData := PCMToWAV(nil, DefaultSampleRate)[:36]

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte("RIFF")},
		{"wrong tags", append([]byte("RIFX\x00\x00\x00\x00WAVE"), make([]byte, 32)...)},
		{"no data chunk", noData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExtractPCM(tt.data); !errors.Is(err, ErrInvalidWAV) {
				t.Fatalf("expected ErrInvalidWAV, got %v", err)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	pcm := make([]byte, 48000)
	if got := Duration(pcm, 24000); got != 1.0 {
		t.Fatalf("expected 1s, got %v", got)
	}
	if got := Duration(pcm, 0); got != 1.0 {
		t.Fatalf("expected default rate fallback, got %v", got)
	}
}
