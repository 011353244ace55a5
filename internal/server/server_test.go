package server

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/go-kitten-tts/internal/testutil"
	"github.com/example/go-kitten-tts/internal/tts"
)

// fakeSynth implements Synthesizer with canned behavior. When chunks is set,
// GenerateStream emits them one at a time; otherwise samples is emitted whole.
type fakeSynth struct {
	voices  []string
	samples []float32
	chunks  [][]float32
	err     error
	delay   time.Duration

	lastVoice string
	lastSpeed float32
	lastClean bool
}

func (f *fakeSynth) Generate(ctx context.Context, text, voice string, speed float32, cleanText bool) ([]float32, error) {
	f.lastVoice = voice
	f.lastSpeed = speed
	f.lastClean = cleanText

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.err != nil {
		return nil, f.err
	}
	return f.samples, nil
}

func (f *fakeSynth) GenerateStream(ctx context.Context, text, voice string, speed float32, cleanText bool, emit func([]float32) error) error {
	if _, err := f.Generate(ctx, text, voice, speed, cleanText); err != nil {
		return err
	}

	chunks := f.chunks
	if chunks == nil && len(f.samples) > 0 {
		chunks = [][]float32{f.samples}
	}
	for _, c := range chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSynth) AvailableVoices() []string { return f.voices }

func newTestHandler(synth Synthesizer, opts ...Option) http.Handler {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithPhonemizer(func(text string) (string, error) { return "aɪ piː eɪ", nil }),
	}
	return NewHandler(synth, append(base, opts...)...)
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(&fakeSynth{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestVoices(t *testing.T) {
	h := newTestHandler(&fakeSynth{voices: []string{"expr-voice-2-f", "expr-voice-2-m"}})

	req := httptest.NewRequest(http.MethodGet, "/voices", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body map[string][]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body["voices"]) != 2 {
		t.Errorf("voices = %v, want 2 entries", body["voices"])
	}
}

func TestVoicesEmptyListIsNotNull(t *testing.T) {
	h := newTestHandler(&fakeSynth{})

	req := httptest.NewRequest(http.MethodGet, "/voices", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if strings.Contains(rr.Body.String(), "null") {
		t.Fatalf("voices response contains null: %s", rr.Body.String())
	}
}

func TestTTSReturnsWAV(t *testing.T) {
	synth := &fakeSynth{samples: make([]float32, 2400)}
	h := newTestHandler(synth)

	rr := postJSON(t, h, "/tts", `{"text": "Hello world.", "voice": "expr-voice-2-m", "speed": 1.5}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("Content-Type = %q, want audio/wav", ct)
	}

	testutil.AssertValidWAV(t, rr.Body.Bytes())

	if synth.lastVoice != "expr-voice-2-m" {
		t.Errorf("voice = %q", synth.lastVoice)
	}
	if synth.lastSpeed != 1.5 {
		t.Errorf("speed = %v, want 1.5", synth.lastSpeed)
	}
}

func TestTTSDefaultsVoiceAndSpeed(t *testing.T) {
	synth := &fakeSynth{samples: make([]float32, 2400)}
	h := newTestHandler(synth, WithDefaultVoice("Luna"), WithDefaultSpeed(1.2))

	rr := postJSON(t, h, "/tts", `{"text": "Hello."}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	if synth.lastVoice != "Luna" {
		t.Errorf("default voice = %q, want Luna", synth.lastVoice)
	}
	if synth.lastSpeed != 1.2 {
		t.Errorf("default speed = %v, want 1.2", synth.lastSpeed)
	}
}

func TestTTSValidation(t *testing.T) {
	cases := []struct {
		name     string
		method   string
		body     string
		wantCode int
	}{
		{"missing text", http.MethodPost, `{"voice": "x"}`, http.StatusBadRequest},
		{"invalid JSON", http.MethodPost, `{`, http.StatusBadRequest},
		{"negative speed", http.MethodPost, `{"text": "hi", "speed": -1}`, http.StatusBadRequest},
		{"GET not allowed", http.MethodGet, "", http.StatusMethodNotAllowed},
	}

	h := newTestHandler(&fakeSynth{samples: make([]float32, 2400)})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/tts", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tc.wantCode, rr.Body.String())
			}
		})
	}
}

func TestTTSRejectsOversizedText(t *testing.T) {
	h := newTestHandler(&fakeSynth{samples: make([]float32, 2400)}, WithMaxTextBytes(16))

	rr := postJSON(t, h, "/tts", `{"text": "`+strings.Repeat("a", 64)+`"}`)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rr.Code)
	}
}

func TestTTSUnknownVoiceIsBadRequest(t *testing.T) {
	synth := &fakeSynth{err: fmt.Errorf("%w %q", tts.ErrUnknownVoice, "nope")}
	h := newTestHandler(synth)

	rr := postJSON(t, h, "/tts", `{"text": "hi", "voice": "nope"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rr.Code, rr.Body.String())
	}
}

func TestTTSStreamingResponse(t *testing.T) {
	chunks := [][]float32{
		make([]float32, 100),
		make([]float32, 50),
	}
	for i := range chunks[0] {
		chunks[0][i] = 0.5
	}
	synth := &fakeSynth{chunks: chunks}
	h := newTestHandler(synth)

	rr := postJSON(t, h, "/tts", `{"text": "Hello. World.", "stream": true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("Content-Type = %q, want audio/wav", ct)
	}

	body := rr.Body.Bytes()
	wantLen := 44 + (100+50)*2
	if len(body) != wantLen {
		t.Fatalf("body length = %d, want %d", len(body), wantLen)
	}

	// Streaming header carries the unknown-length markers.
	if got := binary.LittleEndian.Uint32(body[4:8]); got != 0xFFFFFFFF {
		t.Errorf("RIFF chunk size = %#x, want 0xFFFFFFFF", got)
	}
	if got := binary.LittleEndian.Uint32(body[40:44]); got != 0xFFFFFFFF {
		t.Errorf("data chunk size = %#x, want 0xFFFFFFFF", got)
	}
	if got := binary.LittleEndian.Uint32(body[24:28]); got != 24000 {
		t.Errorf("sample rate = %d, want 24000", got)
	}

	// First PCM sample comes from the first chunk, clamped-narrowed 0.5.
	if got := int16(binary.LittleEndian.Uint16(body[44:46])); got != int16(16383) {
		t.Errorf("first sample = %d, want %d", got, int16(16383))
	}
}

func TestTTSStreamingUnknownVoiceIsBadRequest(t *testing.T) {
	synth := &fakeSynth{err: fmt.Errorf("%w %q", tts.ErrUnknownVoice, "nope")}
	h := newTestHandler(synth)

	rr := postJSON(t, h, "/tts", `{"text": "hi", "voice": "nope", "stream": true}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json error body", ct)
	}
}

func TestTTSStreamingSilentOutputIsValidEmptyWAV(t *testing.T) {
	h := newTestHandler(&fakeSynth{})

	rr := postJSON(t, h, "/tts", `{"text": "hi", "stream": true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if len(rr.Body.Bytes()) != 44 {
		t.Fatalf("body length = %d, want bare 44-byte header", len(rr.Body.Bytes()))
	}
}

func TestTTSTimeout(t *testing.T) {
	synth := &fakeSynth{samples: make([]float32, 2400), delay: 200 * time.Millisecond}
	h := newTestHandler(synth, WithRequestTimeout(10*time.Millisecond))

	rr := postJSON(t, h, "/tts", `{"text": "hi"}`)
	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rr.Code)
	}
}

func TestPhonemize(t *testing.T) {
	h := newTestHandler(&fakeSynth{})

	rr := postJSON(t, h, "/phonemize", `{"text": "IPA"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ipa"] != "aɪ piː eɪ" {
		t.Errorf("ipa = %q", body["ipa"])
	}
}

func TestPhonemizeValidation(t *testing.T) {
	h := newTestHandler(&fakeSynth{})

	rr := postJSON(t, h, "/phonemize", `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/phonemize", nil)
	get := httptest.NewRecorder()
	h.ServeHTTP(get, req)
	if get.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", get.Code)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"Error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tc := range cases {
		got, err := ParseLogLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseLogLevel(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLogLevel(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
