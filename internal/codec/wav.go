package codec

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the length of the canonical PCM WAV header written by PCMToWAV.
const HeaderSize = 44

// PCMToWAV wraps raw 16-bit mono PCM in a canonical RIFF/WAVE container.
// The result is exactly HeaderSize+len(pcm) bytes and carries no optional
// chunks. A non-positive sampleRate is replaced by DefaultSampleRate.
func PCMToWAV(pcm []byte, sampleRate int) []byte {
	rate := uint32(normalizeRate(sampleRate))
	dataLen := uint32(len(pcm))

	buf := make([]byte, HeaderSize+len(pcm))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], 36+dataLen)
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], Channels)
	binary.LittleEndian.PutUint32(buf[24:28], rate)
	binary.LittleEndian.PutUint32(buf[28:32], rate*Channels*bytesPerSample)
	binary.LittleEndian.PutUint16(buf[32:34], Channels*bytesPerSample)
	binary.LittleEndian.PutUint16(buf[34:36], BitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], dataLen)
	copy(buf[HeaderSize:], pcm)

	return buf
}

// ExtractPCM returns the payload of the "data" chunk of a WAV file. Chunks
// before it are skipped, so files with LIST or fact chunks are accepted.
// A data chunk that claims more bytes than are present is clamped.
func ExtractPCM(wav []byte) ([]byte, error) {
	pos, size, err := findChunk(wav, "data")
	if err != nil {
		return nil, err
	}
	end := pos + size
	if end > len(wav) {
		end = len(wav)
	}
	return wav[pos:end], nil
}

// WAVSampleRate reads the sample rate from the "fmt " chunk.
func WAVSampleRate(wav []byte) (int, error) {
	pos, size, err := findChunk(wav, "fmt ")
	if err != nil {
		return 0, err
	}
	if size < 16 || pos+8 > len(wav) {
		return 0, fmt.Errorf("%w: fmt chunk too short", ErrInvalidWAV)
	}
	return int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8])), nil
}

// findChunk walks the RIFF chunk list and returns the offset and declared
// size of the first chunk with the given id.
func findChunk(wav []byte, id string) (int, int, error) {
	if len(wav) < 12 {
		return 0, 0, fmt.Errorf("%w: %d bytes is too short", ErrInvalidWAV, len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return 0, 0, fmt.Errorf("%w: missing RIFF/WAVE tags", ErrInvalidWAV)
	}

	pos := 12
	for pos+8 <= len(wav) {
		chunkID := string(wav[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))

		if chunkID == id {
			return pos + 8, chunkSize, nil
		}

		pos += 8 + chunkSize
		// Chunks are word-aligned.
		if chunkSize%2 != 0 {
			pos++
		}
	}

	return 0, 0, fmt.Errorf("%w: %q chunk not found", ErrInvalidWAV, id)
}
