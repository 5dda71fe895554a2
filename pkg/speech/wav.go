package speech

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const wavFormatPCM = 1

// skipWAVHeader advances br past a RIFF/WAVE header up to the first byte of
// the "data" chunk payload. Streams that do not start with a RIFF/WAVE
// signature are left untouched and treated as raw PCM. A header that is cut
// short or out of order yields [ErrMalformedAudio].
func skipWAVHeader(br *bufio.Reader, sampleRate int) error {
	sig, err := br.Peek(12)
	if err != nil || !bytes.Equal(sig[0:4], []byte("RIFF")) || !bytes.Equal(sig[8:12], []byte("WAVE")) {
		return nil
	}
	if _, err := br.Discard(12); err != nil {
		return fmt.Errorf("%w: read wav header: %w", ErrMalformedAudio, err)
	}

	sawFormat := false
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(br, hdr[:]); err != nil {
			return fmt.Errorf("%w: read wav chunk header: %w", ErrMalformedAudio, err)
		}
		id := string(hdr[0:4])
		size := int(binary.LittleEndian.Uint32(hdr[4:8]))

		switch id {
		case "fmt ":
			if size < 16 {
				return fmt.Errorf("%w: fmt chunk too short (%d bytes)", ErrMalformedAudio, size)
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(br, body); err != nil {
				return fmt.Errorf("%w: read fmt chunk: %w", ErrMalformedAudio, err)
			}
			if err := checkWAVFormat(body, sampleRate); err != nil {
				return err
			}
			sawFormat = true
		case "data":
			if !sawFormat {
				return fmt.Errorf("%w: data chunk precedes fmt chunk", ErrMalformedAudio)
			}
			return nil
		default:
			if _, err := br.Discard(size); err != nil {
				return fmt.Errorf("%w: skip %q chunk: %w", ErrMalformedAudio, id, err)
			}
		}
		// Chunks are word-aligned.
		if size%2 == 1 {
			if _, err := br.Discard(1); err != nil {
				return fmt.Errorf("%w: skip padding: %w", ErrMalformedAudio, err)
			}
		}
	}
}

func checkWAVFormat(body []byte, sampleRate int) error {
	format := binary.LittleEndian.Uint16(body[0:2])
	channels := binary.LittleEndian.Uint16(body[2:4])
	rate := binary.LittleEndian.Uint32(body[4:8])
	bits := binary.LittleEndian.Uint16(body[14:16])

	if format != wavFormatPCM || channels != 1 || bits != bitsPerSample || int(rate) != sampleRate {
		return fmt.Errorf("%w: format=%d channels=%d rate=%d bits=%d, want pcm mono %d Hz %d-bit",
			ErrUnsupportedAudio, format, channels, rate, bits, sampleRate, bitsPerSample)
	}
	return nil
}
