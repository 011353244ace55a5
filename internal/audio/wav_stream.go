package audio

import (
	"encoding/binary"
	"io"
	"math"
)

// streamingChunkSize is the RIFF/data length marker used when the total
// amount of audio is not known up front, as in chunked synthesis responses.
// Players treat 0xFFFFFFFF as "read until the stream ends".
const streamingChunkSize = 0xFFFFFFFF

// WriteWAVHeaderStreaming writes a 44-byte WAV header for incrementally
// produced audio in the synthesis output format (24 kHz mono PCM16). The
// caller follows it with WritePCM16Samples calls, one per synthesized chunk.
func WriteWAVHeaderStreaming(w io.Writer) (int, error) {
	const (
		byteRate   = ExpectedSampleRate * ExpectedChannels * ExpectedBitDepth / 8
		blockAlign = ExpectedChannels * ExpectedBitDepth / 8
	)

	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], streamingChunkSize)
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], ExpectedChannels)
	binary.LittleEndian.PutUint32(hdr[24:28], ExpectedSampleRate)
	binary.LittleEndian.PutUint32(hdr[28:32], byteRate)
	binary.LittleEndian.PutUint16(hdr[32:34], blockAlign)
	binary.LittleEndian.PutUint16(hdr[34:36], ExpectedBitDepth)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], streamingChunkSize)

	return w.Write(hdr[:])
}

// WritePCM16Samples writes one chunk of float32 samples to w as little-endian
// signed 16-bit PCM. Samples are clamped to [-1, 1] before narrowing.
func WritePCM16Samples(w io.Writer, samples []float32) (int, error) {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		clamped := math.Max(-1.0, math.Min(1.0, float64(s)))
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(clamped*32767)))
	}

	return w.Write(buf)
}
