package speech

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// TranscribeOption is a functional option for [Transcribe].
type TranscribeOption func(*transcribeConfig)

type transcribeConfig struct {
	sampleRate int
	chunkSize  int
}

// WithSampleRate sets the PCM sample rate in Hz. Defaults to
// [DefaultSampleRate]. Non-positive values are ignored.
func WithSampleRate(rate int) TranscribeOption {
	return func(c *transcribeConfig) {
		if rate > 0 {
			c.sampleRate = rate
		}
	}
}

// WithChunkSize sets the number of bytes read from the stream and handed to
// the session at a time. Defaults to [DefaultChunkSize]. Values that are not
// a positive multiple of two are ignored so that samples never straddle two
// chunks.
func WithChunkSize(n int) TranscribeOption {
	return func(c *transcribeConfig) {
		if n > 0 && n%2 == 0 {
			c.chunkSize = n
		}
	}
}

// Transcribe streams the PCM audio in r through a fresh Session of m and
// returns the final transcript.
//
// A leading RIFF/WAVE header is skipped; its format must describe mono
// 16-bit PCM at the configured sample rate or [ErrUnsupportedAudio] is
// returned. ctx is checked between chunks. Transcribe never retries: any
// read, engine or context error is returned wrapped.
func Transcribe(ctx context.Context, m Model, r io.Reader, opts ...TranscribeOption) (text string, err error) {
	if m == nil {
		return "", ErrNoModel
	}
	cfg := transcribeConfig{
		sampleRate: DefaultSampleRate,
		chunkSize:  DefaultChunkSize,
	}
	for _, o := range opts {
		o(&cfg)
	}

	br := bufio.NewReaderSize(r, cfg.chunkSize)
	if err := skipWAVHeader(br, cfg.sampleRate); err != nil {
		return "", err
	}

	sess, err := m.NewSession(cfg.sampleRate)
	if err != nil {
		return "", fmt.Errorf("speech: open %s session: %w", m.Engine(), err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("speech: close %s session: %w", m.Engine(), cerr)
		}
	}()

	buf := make([]byte, cfg.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("speech: transcribe: %w", err)
		}
		n, rerr := io.ReadFull(br, buf)
		if n > 0 {
			if err := sess.Accept(buf[:n]); err != nil {
				return "", fmt.Errorf("speech: accept audio: %w", err)
			}
		}
		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			break
		}
		if rerr != nil {
			return "", fmt.Errorf("speech: read audio: %w", rerr)
		}
	}

	text, err = sess.Final()
	if err != nil {
		return "", fmt.Errorf("speech: final result: %w", err)
	}
	return text, nil
}
